package users

import (
	"context"
	"errors"
	"time"

	"routeaura/internal/control/authretry"
	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/cache"
	"routeaura/pkg/logger"
	usersRepo "routeaura/pkg/repository/postgres/users_repo"
	"routeaura/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const meCacheTTL = 5 * time.Minute

type (
	Params struct {
		fx.In
		Logger    logger.Logger
		Cache     cache.ICache
		Retrier   authretry.Retrier
		UsersRepo usersRepo.Repo
	}

	Service interface {
		Signup(ctx context.Context, req structs.UserSignup) (structs.UserAuthResponse, error)
		Login(ctx context.Context, req structs.UserLogin) (structs.UserAuthResponse, error)
		GetMe(ctx context.Context, userId string) (structs.User, error)

		// admin users screen, contact details plus booking counters
		GetAllWithContact(ctx context.Context, req structs.GetListUserRequest) (structs.GetListUserResponse, error)
	}

	service struct {
		logger    logger.Logger
		cache     cache.ICache
		retrier   authretry.Retrier
		usersRepo usersRepo.Repo
	}
)

func New(p Params) Service {
	return &service{
		logger:    p.Logger,
		cache:     p.Cache,
		retrier:   p.Retrier,
		usersRepo: p.UsersRepo,
	}
}

func (s service) Signup(ctx context.Context, req structs.UserSignup) (structs.UserAuthResponse, error) {
	if utils.StrEmpty(req.Email) || utils.StrEmpty(req.Password) || utils.StrEmpty(req.FullName) {
		return structs.UserAuthResponse{}, structs.ErrBadRequest
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.Error(ctx, "->utils.HashPassword", zap.Error(err))
		return structs.UserAuthResponse{}, err
	}

	user, err := s.usersRepo.Create(ctx, req, hash)
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) {
			return structs.UserAuthResponse{}, err
		}
		s.logger.Error(ctx, "->usersRepo.Create", zap.Error(err))
		return structs.UserAuthResponse{}, err
	}

	token, err := utils.GenerateJWT(user.Id, "customer", utils.ScopeCustomer)
	if err != nil {
		s.logger.Error(ctx, "->utils.GenerateJWT", zap.Error(err))
		return structs.UserAuthResponse{}, err
	}

	return structs.UserAuthResponse{Token: token, User: user}, nil
}

func (s service) Login(ctx context.Context, req structs.UserLogin) (structs.UserAuthResponse, error) {
	if utils.StrEmpty(req.Email) || utils.StrEmpty(req.Password) {
		return structs.UserAuthResponse{}, structs.ErrBadRequest
	}

	auth, err := s.usersRepo.GetAuthByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.UserAuthResponse{}, structs.ErrBadRequest
		}
		s.logger.Error(ctx, "->usersRepo.GetAuthByEmail", zap.Error(err))
		return structs.UserAuthResponse{}, err
	}
	if !utils.CompareInBcrypt(auth.PasswordHash, req.Password) {
		return structs.UserAuthResponse{}, structs.ErrBadRequest
	}

	token, err := utils.GenerateJWT(auth.User.Id, "customer", utils.ScopeCustomer)
	if err != nil {
		s.logger.Error(ctx, "->utils.GenerateJWT", zap.Error(err))
		return structs.UserAuthResponse{}, err
	}

	return structs.UserAuthResponse{Token: token, User: auth.User}, nil
}

func (s service) GetMe(ctx context.Context, userId string) (structs.User, error) {
	var user structs.User
	if s.cache.GetObj("user_me."+userId, &user) {
		return user, nil
	}

	user, err := s.usersRepo.GetById(ctx, userId)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.User{}, err
		}
		s.logger.Error(ctx, "->usersRepo.GetById", zap.Error(err))
		return structs.User{}, err
	}

	if err := s.cache.SaveObj("user_me."+userId, user, meCacheTTL); err != nil {
		s.logger.Warn(ctx, "failed to cache user", zap.Error(err))
	}

	return user, nil
}

func (s service) GetAllWithContact(ctx context.Context, req structs.GetListUserRequest) (structs.GetListUserResponse, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.GetListUserResponse{}, structs.ErrAccessDenied
	}

	var resp structs.GetListUserResponse
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		resp, repoErr = s.usersRepo.GetAllWithContact(ctx, req)
		return repoErr
	})
	if err != nil {
		s.logger.Error(ctx, "->usersRepo.GetAllWithContact", zap.Error(err))
		return structs.GetListUserResponse{}, err
	}
	return resp, nil
}
