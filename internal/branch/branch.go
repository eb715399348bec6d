package branch

import (
	"context"
	"errors"

	"routeaura/internal/control/authretry"
	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	branchRepo "routeaura/pkg/repository/postgres/branch_repo"
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
		Logger     logger.Logger
		Retrier    authretry.Retrier
		BranchRepo branchRepo.Repo
	}

	Service interface {
		Create(ctx context.Context, req structs.CreateBranch) (structs.Branch, error)
		GetById(ctx context.Context, id string) (structs.Branch, error)
		GetAll(ctx context.Context, req structs.GetListBranchRequest) (structs.GetListBranchResponse, error)
		Patch(ctx context.Context, req structs.PatchBranch) (structs.Branch, error)
		Delete(ctx context.Context, id string) error
	}

	service struct {
		logger     logger.Logger
		retrier    authretry.Retrier
		branchRepo branchRepo.Repo
	}
)

func New(p Params) Service {
	return &service{
		logger:     p.Logger,
		retrier:    p.Retrier,
		branchRepo: p.BranchRepo,
	}
}

// Branch management is superadmin territory, a branch admin never
// mutates the branch directory.
func requireSuperadmin(ctx context.Context) (scope.Scope, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return scope.Scope{}, structs.ErrAccessDenied
	}
	if !sc.IsSuperadmin() {
		return scope.Scope{}, structs.ErrSuperadminRequired
	}
	return sc, nil
}

func (s service) Create(ctx context.Context, req structs.CreateBranch) (structs.Branch, error) {
	sc, err := requireSuperadmin(ctx)
	if err != nil {
		return structs.Branch{}, err
	}
	if utils.StrEmpty(req.Name) {
		return structs.Branch{}, structs.ErrBadRequest
	}

	var b structs.Branch
	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		b, repoErr = s.branchRepo.Create(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) {
			return structs.Branch{}, err
		}
		s.logger.Error(ctx, "->branchRepo.Create", zap.Error(err))
		return structs.Branch{}, err
	}
	return b, nil
}

func (s service) GetById(ctx context.Context, id string) (structs.Branch, error) {
	b, err := s.branchRepo.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Branch{}, err
		}
		s.logger.Error(ctx, "->branchRepo.GetById", zap.Error(err))
		return structs.Branch{}, err
	}
	return b, nil
}

func (s service) GetAll(ctx context.Context, req structs.GetListBranchRequest) (structs.GetListBranchResponse, error) {
	resp, err := s.branchRepo.GetAll(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->branchRepo.GetAll", zap.Error(err))
		return structs.GetListBranchResponse{}, err
	}
	return resp, nil
}

func (s service) Patch(ctx context.Context, req structs.PatchBranch) (structs.Branch, error) {
	sc, err := requireSuperadmin(ctx)
	if err != nil {
		return structs.Branch{}, err
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		affected, repoErr := s.branchRepo.Patch(ctx, req)
		if repoErr != nil {
			return repoErr
		}
		if affected == 0 {
			return structs.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) || errors.Is(err, structs.ErrBadRequest) {
			return structs.Branch{}, err
		}
		s.logger.Error(ctx, "->branchRepo.Patch", zap.Error(err))
		return structs.Branch{}, err
	}

	return s.branchRepo.GetById(ctx, req.Id)
}

func (s service) Delete(ctx context.Context, id string) error {
	sc, err := requireSuperadmin(ctx)
	if err != nil {
		return err
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		return s.branchRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, structs.ErrForeignKeyInUse) {
			return err
		}
		s.logger.Error(ctx, "->branchRepo.Delete", zap.Error(err))
		return err
	}
	return nil
}
