package analyticsRepo

import (
	"context"

	"routeaura/internal/structs"
	"routeaura/pkg/db"
	"routeaura/pkg/logger"

	"go.uber.org/fx"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger logger.Logger
		DB     db.Querier
	}

	Repo interface {
		GetAdminAnalytics(ctx context.Context, branchId *string) (structs.AdminAnalytics, error)
	}

	repo struct {
		logger logger.Logger
		db     db.Querier
	}
)

func New(p Params) Repo {
	return &repo{
		logger: p.Logger,
		db:     p.DB,
	}
}

// GetAdminAnalytics aggregates the dashboard counters in a single round trip.
// Archived bookings are excluded from counts and revenue. A nil branchId means
// company-wide numbers for superadmins.
func (r repo) GetAdminAnalytics(ctx context.Context, branchId *string) (structs.AdminAnalytics, error) {
	var (
		resp  structs.AdminAnalytics
		query = `
			SELECT
				(SELECT COUNT(*) FROM bookings
					WHERE status != 'archived'
					AND ($1::uuid IS NULL OR branch_id = $1)),
				(SELECT COALESCE(SUM(price), 0) FROM bookings
					WHERE status IN ('upcoming', 'completed')
					AND ($1::uuid IS NULL OR branch_id = $1)),
				(SELECT COUNT(DISTINCT user_id) FROM bookings
					WHERE user_id IS NOT NULL
					AND status != 'archived'
					AND ($1::uuid IS NULL OR branch_id = $1)),
				(SELECT COUNT(*) FROM routes
					WHERE is_active
					AND ($1::uuid IS NULL OR branch_id = $1))
		`
	)

	err := r.db.QueryRow(ctx, query, branchId).Scan(
		&resp.TotalBookings,
		&resp.TotalRevenue,
		&resp.ActiveUsers,
		&resp.ActiveRoutes,
	)
	if err != nil {
		return structs.AdminAnalytics{}, err
	}

	return resp, nil
}
