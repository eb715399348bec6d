package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"routeaura/internal/structs"
	"routeaura/pkg/config"
	"routeaura/pkg/logger"
	"routeaura/pkg/metrics"
	"routeaura/pkg/redis"
	adminRepo "routeaura/pkg/repository/postgres/admin_repo"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const (
	sessionKeyFmt  = "admin_session.%s"
	failuresKeyFmt = "admin_session_failures.%s"

	defaultTTL         = 30 * time.Minute
	defaultMaxFailures = 3
)

type (
	Params struct {
		fx.In
		Logger    logger.Logger
		Config    config.IConfig
		Redis     redis.Client
		Metrics   *metrics.Metrics
		AdminRepo adminRepo.Repo
	}

	// Store keeps one AdminSession per admin in redis. Every admin
	// request resolves its identity through here, so an absent or
	// expired entry means the caller has no admin privileges right now
	// regardless of what the JWT claims.
	Store interface {
		Establish(ctx context.Context, adminId string) (structs.AdminSession, error)
		Current(ctx context.Context, adminId string) (structs.AdminSession, error)
		Refresh(ctx context.Context, adminId string) (structs.AdminSession, error)
		SilentRefresh(ctx context.Context, adminId string) (structs.AdminSession, error)
		SetSelectedBranch(ctx context.Context, adminId string, branchId *string) (structs.AdminSession, error)
		Destroy(ctx context.Context, adminId string) error
	}

	store struct {
		logger      logger.Logger
		redis       redis.Client
		metrics     *metrics.Metrics
		adminRepo   adminRepo.Repo
		ttl         time.Duration
		maxFailures int64
	}
)

func New(p Params) Store {
	ttl := p.Config.GetDuration("session.ttl")
	if ttl == 0 {
		ttl = defaultTTL
	}
	maxFailures := p.Config.GetInt64("session.max_refresh_failures")
	if maxFailures == 0 {
		maxFailures = defaultMaxFailures
	}

	return &store{
		logger:      p.Logger,
		redis:       p.Redis,
		metrics:     p.Metrics,
		adminRepo:   p.AdminRepo,
		ttl:         ttl,
		maxFailures: maxFailures,
	}
}

// NewStore builds a store directly, used by tests with miniredis.
func NewStore(log logger.Logger, rds redis.Client, m *metrics.Metrics, repo adminRepo.Repo, ttl time.Duration, maxFailures int64) Store {
	return &store{
		logger:      log,
		redis:       rds,
		metrics:     m,
		adminRepo:   repo,
		ttl:         ttl,
		maxFailures: maxFailures,
	}
}

func (s store) Establish(ctx context.Context, adminId string) (structs.AdminSession, error) {
	admin, err := s.adminRepo.GetById(ctx, adminId)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.AdminSession{}, structs.ErrAccessDenied
		}
		s.logger.Error(ctx, "->adminRepo.GetById", zap.Error(err))
		return structs.AdminSession{}, err
	}
	if !admin.IsActive {
		return structs.AdminSession{}, structs.ErrAccessDenied
	}

	sess := structs.AdminSession{
		AdminId:  admin.Id,
		Role:     admin.Role,
		BranchId: admin.BranchId,
	}

	// keep a superadmin's branch selection across re-establishes
	if prev, err := s.Current(ctx, adminId); err == nil {
		sess.SelectedBranch = prev.SelectedBranch
	}

	if err = s.save(ctx, sess); err != nil {
		return structs.AdminSession{}, err
	}
	if err = s.redis.Delete(ctx, fmt.Sprintf(failuresKeyFmt, adminId)); err != nil {
		s.logger.Warn(ctx, "failed to reset session failure counter", zap.Error(err))
	}

	return sess, nil
}

func (s store) Current(ctx context.Context, adminId string) (structs.AdminSession, error) {
	var sess structs.AdminSession
	err := s.redis.FindObj(ctx, fmt.Sprintf(sessionKeyFmt, adminId), &sess)
	if err != nil {
		if errors.Is(err, redis.ErrNotFound) {
			return structs.AdminSession{}, structs.ErrAccessDenied
		}
		return structs.AdminSession{}, err
	}
	return sess, nil
}

func (s store) Refresh(ctx context.Context, adminId string) (structs.AdminSession, error) {
	return s.refresh(ctx, adminId, false)
}

func (s store) SilentRefresh(ctx context.Context, adminId string) (structs.AdminSession, error) {
	return s.refresh(ctx, adminId, true)
}

func (s store) refresh(ctx context.Context, adminId string, silent bool) (structs.AdminSession, error) {
	sess, err := s.Establish(ctx, adminId)
	if err == nil {
		s.metrics.SessionRefresh.WithLabelValues("ok").Inc()
		return sess, nil
	}

	s.metrics.SessionRefresh.WithLabelValues("failed").Inc()
	if !silent {
		s.logger.Warn(ctx, "admin session refresh failed", zap.String("admin_id", adminId), zap.Error(err))
	}

	failures, incErr := s.redis.Incr(ctx, fmt.Sprintf(failuresKeyFmt, adminId))
	if incErr != nil {
		return structs.AdminSession{}, err
	}
	if failures >= s.maxFailures {
		s.metrics.SessionRefresh.WithLabelValues("expired").Inc()
		if destroyErr := s.Destroy(ctx, adminId); destroyErr != nil {
			s.logger.Warn(ctx, "failed to destroy expired session", zap.Error(destroyErr))
		}
		return structs.AdminSession{}, structs.ErrSessionExpired
	}

	return structs.AdminSession{}, err
}

// SetSelectedBranch stores a superadmin's viewing selection. Branch
// admins have a fixed scope, their selection is never recorded.
func (s store) SetSelectedBranch(ctx context.Context, adminId string, branchId *string) (structs.AdminSession, error) {
	sess, err := s.Current(ctx, adminId)
	if err != nil {
		return structs.AdminSession{}, err
	}
	if sess.Role != structs.RoleSuperadmin {
		return structs.AdminSession{}, structs.ErrSuperadminRequired
	}

	sess.SelectedBranch = branchId
	if err = s.save(ctx, sess); err != nil {
		return structs.AdminSession{}, err
	}
	return sess, nil
}

func (s store) Destroy(ctx context.Context, adminId string) error {
	if err := s.redis.Delete(ctx, fmt.Sprintf(sessionKeyFmt, adminId)); err != nil {
		return err
	}
	return s.redis.Delete(ctx, fmt.Sprintf(failuresKeyFmt, adminId))
}

func (s store) save(ctx context.Context, sess structs.AdminSession) error {
	return s.redis.SaveObj(ctx, fmt.Sprintf(sessionKeyFmt, sess.AdminId), sess, s.ttl)
}
