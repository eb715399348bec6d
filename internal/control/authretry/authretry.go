package authretry

import (
	"context"
	"errors"
	"strings"
	"time"

	"routeaura/internal/control/session"
	"routeaura/internal/structs"
	"routeaura/pkg/config"
	"routeaura/pkg/logger"
	"routeaura/pkg/metrics"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

const defaultRetryDelay = time.Second

type (
	Params struct {
		fx.In
		Logger   logger.Logger
		Config   config.IConfig
		Metrics  *metrics.Metrics
		Sessions session.Store
	}

	// Retrier runs admin-scoped work and, when it bounces off an
	// access-denied error, silently re-establishes the session and
	// tries exactly once more. Anything that is not an authorization
	// failure passes through untouched.
	Retrier interface {
		Do(ctx context.Context, adminId string, fn func(ctx context.Context) error) error
	}

	retrier struct {
		logger   logger.Logger
		metrics  *metrics.Metrics
		sessions session.Store
		delay    time.Duration
	}
)

func New(p Params) Retrier {
	delay := p.Config.GetDuration("session.retry_delay")
	if delay == 0 {
		delay = defaultRetryDelay
	}

	return &retrier{
		logger:   p.Logger,
		metrics:  p.Metrics,
		sessions: p.Sessions,
		delay:    delay,
	}
}

// NewRetrier builds a retrier directly, used by tests to shrink the delay.
func NewRetrier(log logger.Logger, m *metrics.Metrics, sessions session.Store, delay time.Duration) Retrier {
	return &retrier{
		logger:   log,
		metrics:  m,
		sessions: sessions,
		delay:    delay,
	}
}

// IsAccessDenied classifies errors that warrant a session refresh.
// Besides the sentinel, message matching catches denials that crossed a
// process or driver boundary and lost their identity.
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, structs.ErrAccessDenied) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Access denied") || strings.Contains(msg, "privileges required")
}

func (r retrier) Do(ctx context.Context, adminId string, fn func(ctx context.Context) error) error {
	err := fn(ctx)
	if !IsAccessDenied(err) {
		return err
	}

	r.metrics.AuthRetries.Inc()
	r.logger.Debug(ctx, "access denied, refreshing admin session and retrying once",
		zap.String("admin_id", adminId))

	if _, refreshErr := r.sessions.SilentRefresh(ctx, adminId); refreshErr != nil {
		if errors.Is(refreshErr, structs.ErrSessionExpired) {
			return refreshErr
		}
		return err
	}

	select {
	case <-time.After(r.delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	return fn(ctx)
}
