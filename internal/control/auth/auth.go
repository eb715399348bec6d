package auth

import (
	"context"
	"errors"

	"routeaura/internal/control/session"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	adminRepo "routeaura/pkg/repository/postgres/admin_repo"
	"routeaura/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger    logger.Logger
		AdminRepo adminRepo.Repo
		Sessions  session.Store
	}

	Service interface {
		Login(ctx context.Context, req structs.AdminLogin) (structs.AuthResponse, error)
		Logout(ctx context.Context, adminId string) error
		Me(ctx context.Context, adminId string) (structs.AdminUser, error)
		CreateAdmin(ctx context.Context, req structs.CreateAdmin) (structs.AdminUser, error)
		UpdatePassword(ctx context.Context, req structs.UpdateAdminPassword) error
	}

	service struct {
		logger    logger.Logger
		adminRepo adminRepo.Repo
		sessions  session.Store
	}
)

func New(p Params) Service {
	return &service{
		logger:    p.Logger,
		adminRepo: p.AdminRepo,
		sessions:  p.Sessions,
	}
}

// NewService builds the service directly, used by tests.
func NewService(log logger.Logger, repo adminRepo.Repo, sessions session.Store) Service {
	return &service{
		logger:    log,
		adminRepo: repo,
		sessions:  sessions,
	}
}

// Login verifies the pass key, establishes the redis session and issues
// an admin-scoped token. Every failure looks the same to the caller and
// leaves no session behind.
func (s service) Login(ctx context.Context, req structs.AdminLogin) (structs.AuthResponse, error) {
	if utils.StrEmpty(req.Email) || utils.StrEmpty(req.PassKey) {
		return structs.AuthResponse{}, structs.ErrBadRequest
	}

	auth, err := s.adminRepo.GetAuthByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.AuthResponse{}, structs.ErrBadRequest
		}
		s.logger.Error(ctx, "->adminRepo.GetAuthByEmail", zap.Error(err))
		return structs.AuthResponse{}, err
	}
	if !auth.Admin.IsActive {
		return structs.AuthResponse{}, structs.ErrBadRequest
	}
	if !utils.CompareInBcrypt(auth.PasswordHash, req.PassKey) {
		return structs.AuthResponse{}, structs.ErrBadRequest
	}

	if _, err = s.sessions.Establish(ctx, auth.Admin.Id); err != nil {
		s.logger.Error(ctx, "->sessions.Establish", zap.Error(err))
		return structs.AuthResponse{}, err
	}

	token, err := utils.GenerateJWT(auth.Admin.Id, auth.Admin.Role, utils.ScopeAdmin)
	if err != nil {
		// token issuance failed, do not leave a half-open session
		if destroyErr := s.sessions.Destroy(ctx, auth.Admin.Id); destroyErr != nil {
			s.logger.Warn(ctx, "failed to destroy session after token failure", zap.Error(destroyErr))
		}
		s.logger.Error(ctx, "->utils.GenerateJWT", zap.Error(err))
		return structs.AuthResponse{}, err
	}

	if err = s.adminRepo.UpdateLastLogin(ctx, auth.Admin.Id); err != nil {
		s.logger.Warn(ctx, "->adminRepo.UpdateLastLogin", zap.Error(err))
	}

	return structs.AuthResponse{
		Token: token,
		Admin: auth.Admin,
	}, nil
}

func (s service) Logout(ctx context.Context, adminId string) error {
	err := s.sessions.Destroy(ctx, adminId)
	if err != nil {
		s.logger.Error(ctx, "->sessions.Destroy", zap.Error(err))
		return err
	}
	return nil
}

func (s service) Me(ctx context.Context, adminId string) (structs.AdminUser, error) {
	admin, err := s.adminRepo.GetById(ctx, adminId)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.AdminUser{}, err
		}
		s.logger.Error(ctx, "->adminRepo.GetById", zap.Error(err))
		return structs.AdminUser{}, err
	}
	return admin, nil
}

func (s service) CreateAdmin(ctx context.Context, req structs.CreateAdmin) (structs.AdminUser, error) {
	if utils.StrEmpty(req.Email) || utils.StrEmpty(req.Password) {
		return structs.AdminUser{}, structs.ErrBadRequest
	}
	if !req.IsSuperadmin && req.BranchId == nil {
		return structs.AdminUser{}, structs.ErrBadRequest
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.Error(ctx, "->utils.HashPassword", zap.Error(err))
		return structs.AdminUser{}, err
	}

	admin, err := s.adminRepo.Create(ctx, req, hash)
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) {
			return structs.AdminUser{}, err
		}
		s.logger.Error(ctx, "->adminRepo.Create", zap.Error(err))
		return structs.AdminUser{}, err
	}
	return admin, nil
}

// UpdatePassword re-hashes and refreshes the session so the admin keeps
// working without a re-login.
func (s service) UpdatePassword(ctx context.Context, req structs.UpdateAdminPassword) error {
	if utils.StrEmpty(req.NewPassword) {
		return structs.ErrBadRequest
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.logger.Error(ctx, "->utils.HashPassword", zap.Error(err))
		return err
	}

	if err = s.adminRepo.UpdatePassword(ctx, req.AdminUserId, hash); err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return err
		}
		s.logger.Error(ctx, "->adminRepo.UpdatePassword", zap.Error(err))
		return err
	}

	if _, err = s.sessions.Refresh(ctx, req.AdminUserId); err != nil {
		s.logger.Warn(ctx, "session refresh after password change failed", zap.Error(err))
	}

	return nil
}
