package authretry

import (
	"context"
	"errors"
	"testing"
	"time"

	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	"routeaura/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	refreshes  int
	refreshErr error
}

func (f *fakeSessions) Establish(_ context.Context, adminId string) (structs.AdminSession, error) {
	return structs.AdminSession{AdminId: adminId}, nil
}

func (f *fakeSessions) Current(_ context.Context, adminId string) (structs.AdminSession, error) {
	return structs.AdminSession{AdminId: adminId}, nil
}

func (f *fakeSessions) Refresh(ctx context.Context, adminId string) (structs.AdminSession, error) {
	return f.SilentRefresh(ctx, adminId)
}

func (f *fakeSessions) SilentRefresh(_ context.Context, adminId string) (structs.AdminSession, error) {
	f.refreshes++
	if f.refreshErr != nil {
		return structs.AdminSession{}, f.refreshErr
	}
	return structs.AdminSession{AdminId: adminId}, nil
}

func (f *fakeSessions) SetSelectedBranch(_ context.Context, adminId string, branchId *string) (structs.AdminSession, error) {
	return structs.AdminSession{AdminId: adminId, SelectedBranch: branchId}, nil
}

func (f *fakeSessions) Destroy(context.Context, string) error { return nil }

func newTestRetrier(sessions *fakeSessions) Retrier {
	log := logger.New("error")
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	return NewRetrier(log, m, sessions, time.Millisecond)
}

func TestDoPassesThroughSuccess(t *testing.T) {
	sessions := &fakeSessions{}
	r := newTestRetrier(sessions)

	calls := 0
	err := r.Do(context.Background(), "admin-1", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, sessions.refreshes)
}

func TestDoNeverRetriesPlainErrors(t *testing.T) {
	sessions := &fakeSessions{}
	r := newTestRetrier(sessions)

	boom := errors.New("connection reset")
	calls := 0
	err := r.Do(context.Background(), "admin-1", func(context.Context) error {
		calls++
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, sessions.refreshes)
}

func TestDoNeverRetriesNotFound(t *testing.T) {
	sessions := &fakeSessions{}
	r := newTestRetrier(sessions)

	calls := 0
	err := r.Do(context.Background(), "admin-1", func(context.Context) error {
		calls++
		return structs.ErrNotFound
	})

	require.ErrorIs(t, err, structs.ErrNotFound)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, sessions.refreshes)
}

func TestDoRetriesOnceAfterAccessDenied(t *testing.T) {
	sessions := &fakeSessions{}
	r := newTestRetrier(sessions)

	calls := 0
	err := r.Do(context.Background(), "admin-1", func(context.Context) error {
		calls++
		if calls == 1 {
			return structs.ErrAccessDenied
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, sessions.refreshes)
}

func TestDoSurfacesSecondDenial(t *testing.T) {
	sessions := &fakeSessions{}
	r := newTestRetrier(sessions)

	calls := 0
	err := r.Do(context.Background(), "admin-1", func(context.Context) error {
		calls++
		return structs.ErrAccessDenied
	})

	require.ErrorIs(t, err, structs.ErrAccessDenied)
	assert.Equal(t, 2, calls, "denied again after the refresh, no third attempt")
	assert.Equal(t, 1, sessions.refreshes)
}

func TestDoStopsWhenSessionExpired(t *testing.T) {
	sessions := &fakeSessions{refreshErr: structs.ErrSessionExpired}
	r := newTestRetrier(sessions)

	calls := 0
	err := r.Do(context.Background(), "admin-1", func(context.Context) error {
		calls++
		return structs.ErrAccessDenied
	})

	require.ErrorIs(t, err, structs.ErrSessionExpired)
	assert.Equal(t, 1, calls)
}

func TestDoMatchesDenialMessages(t *testing.T) {
	assert.True(t, IsAccessDenied(errors.New("Access denied for admin")))
	assert.True(t, IsAccessDenied(errors.New("superadmin privileges required")))
	assert.False(t, IsAccessDenied(errors.New("row not found")))
	assert.False(t, IsAccessDenied(nil))
}
