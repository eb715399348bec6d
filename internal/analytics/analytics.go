package analytics

import (
	"context"

	"routeaura/internal/control/authretry"
	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	analyticsRepo "routeaura/pkg/repository/postgres/analytics_repo"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger        logger.Logger
		Retrier       authretry.Retrier
		AnalyticsRepo analyticsRepo.Repo
	}

	Service interface {
		GetAdminAnalytics(ctx context.Context) (structs.AdminAnalytics, error)
	}

	service struct {
		logger        logger.Logger
		retrier       authretry.Retrier
		analyticsRepo analyticsRepo.Repo
	}
)

func New(p Params) Service {
	return &service{
		logger:        p.Logger,
		retrier:       p.Retrier,
		analyticsRepo: p.AnalyticsRepo,
	}
}

// GetAdminAnalytics returns the dashboard counters narrowed to the
// caller's branch scope.
func (s service) GetAdminAnalytics(ctx context.Context) (structs.AdminAnalytics, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.AdminAnalytics{}, structs.ErrAccessDenied
	}

	var resp structs.AdminAnalytics
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		resp, repoErr = s.analyticsRepo.GetAdminAnalytics(ctx, sc.BranchId)
		return repoErr
	})
	if err != nil {
		s.logger.Error(ctx, "->analyticsRepo.GetAdminAnalytics", zap.Error(err))
		return structs.AdminAnalytics{}, err
	}

	return resp, nil
}
