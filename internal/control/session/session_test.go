package session

import (
	"context"
	"testing"
	"time"

	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	"routeaura/pkg/metrics"
	"routeaura/pkg/redis"
	adminRepo "routeaura/pkg/repository/postgres/admin_repo"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminRepo struct {
	admins map[string]structs.AdminUser
	err    error
}

func (f *fakeAdminRepo) GetAuthByEmail(context.Context, string) (adminRepo.AdminAuth, error) {
	return adminRepo.AdminAuth{}, structs.ErrNotFound
}

func (f *fakeAdminRepo) GetById(_ context.Context, id string) (structs.AdminUser, error) {
	if f.err != nil {
		return structs.AdminUser{}, f.err
	}
	admin, ok := f.admins[id]
	if !ok {
		return structs.AdminUser{}, structs.ErrNotFound
	}
	return admin, nil
}

func (f *fakeAdminRepo) Create(context.Context, structs.CreateAdmin, string) (structs.AdminUser, error) {
	return structs.AdminUser{}, nil
}

func (f *fakeAdminRepo) UpdatePassword(context.Context, string, string) error { return nil }
func (f *fakeAdminRepo) UpdateLastLogin(context.Context, string) error        { return nil }

func strPtr(s string) *string { return &s }

func newTestStore(t *testing.T, repo adminRepo.Repo) Store {
	t.Helper()

	mr := miniredis.RunT(t)
	conn := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	rds := redis.NewWithConn(conn, "test")

	log := logger.New("error")
	m := metrics.NewWithRegistry(prometheus.NewRegistry())

	return NewStore(log, rds, m, repo, time.Minute, 3)
}

func activeBranchAdmin(id string) structs.AdminUser {
	return structs.AdminUser{
		Id:       id,
		Role:     structs.RoleBranchAdmin,
		BranchId: strPtr("branch-1"),
		IsActive: true,
	}
}

func TestEstablishAndCurrent(t *testing.T) {
	repo := &fakeAdminRepo{admins: map[string]structs.AdminUser{
		"admin-1": activeBranchAdmin("admin-1"),
	}}
	store := newTestStore(t, repo)
	ctx := context.Background()

	sess, err := store.Establish(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, structs.RoleBranchAdmin, sess.Role)
	require.NotNil(t, sess.BranchId)
	assert.Equal(t, "branch-1", *sess.BranchId)

	got, err := store.Current(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestEstablishRefusesInactiveAdmin(t *testing.T) {
	inactive := activeBranchAdmin("admin-1")
	inactive.IsActive = false
	repo := &fakeAdminRepo{admins: map[string]structs.AdminUser{"admin-1": inactive}}
	store := newTestStore(t, repo)
	ctx := context.Background()

	_, err := store.Establish(ctx, "admin-1")
	require.ErrorIs(t, err, structs.ErrAccessDenied)

	_, err = store.Current(ctx, "admin-1")
	assert.ErrorIs(t, err, structs.ErrAccessDenied, "no session key written for a refused login")
}

func TestEstablishUnknownAdmin(t *testing.T) {
	store := newTestStore(t, &fakeAdminRepo{admins: map[string]structs.AdminUser{}})

	_, err := store.Establish(context.Background(), "ghost")
	require.ErrorIs(t, err, structs.ErrAccessDenied)
}

func TestCurrentWithoutSession(t *testing.T) {
	repo := &fakeAdminRepo{admins: map[string]structs.AdminUser{
		"admin-1": activeBranchAdmin("admin-1"),
	}}
	store := newTestStore(t, repo)

	_, err := store.Current(context.Background(), "admin-1")
	require.ErrorIs(t, err, structs.ErrAccessDenied)
}

func TestRefreshRecoversSession(t *testing.T) {
	repo := &fakeAdminRepo{admins: map[string]structs.AdminUser{
		"admin-1": activeBranchAdmin("admin-1"),
	}}
	store := newTestStore(t, repo)
	ctx := context.Background()

	sess, err := store.SilentRefresh(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", sess.AdminId)

	got, err := store.Current(ctx, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)
}

func TestRepeatedRefreshFailuresExpireSession(t *testing.T) {
	repo := &fakeAdminRepo{admins: map[string]structs.AdminUser{}}
	store := newTestStore(t, repo)
	ctx := context.Background()

	_, err := store.Refresh(ctx, "admin-1")
	require.ErrorIs(t, err, structs.ErrAccessDenied)

	_, err = store.Refresh(ctx, "admin-1")
	require.ErrorIs(t, err, structs.ErrAccessDenied)

	_, err = store.Refresh(ctx, "admin-1")
	require.ErrorIs(t, err, structs.ErrSessionExpired)
}

func TestEstablishResetsFailureCounter(t *testing.T) {
	repo := &fakeAdminRepo{admins: map[string]structs.AdminUser{}}
	store := newTestStore(t, repo)
	ctx := context.Background()

	_, err := store.Refresh(ctx, "admin-1")
	require.ErrorIs(t, err, structs.ErrAccessDenied)
	_, err = store.Refresh(ctx, "admin-1")
	require.ErrorIs(t, err, structs.ErrAccessDenied)

	// the admin row shows up again, a successful establish wipes the count
	repo.admins = map[string]structs.AdminUser{"admin-1": activeBranchAdmin("admin-1")}
	_, err = store.Establish(ctx, "admin-1")
	require.NoError(t, err)

	repo.admins = map[string]structs.AdminUser{}
	_, err = store.Refresh(ctx, "admin-1")
	require.ErrorIs(t, err, structs.ErrAccessDenied, "counter restarted, not expired yet")
}

func TestSetSelectedBranch(t *testing.T) {
	super := structs.AdminUser{Id: "admin-2", Role: structs.RoleSuperadmin, IsActive: true}
	repo := &fakeAdminRepo{admins: map[string]structs.AdminUser{"admin-2": super}}
	store := newTestStore(t, repo)
	ctx := context.Background()

	_, err := store.Establish(ctx, "admin-2")
	require.NoError(t, err)

	sess, err := store.SetSelectedBranch(ctx, "admin-2", strPtr("branch-7"))
	require.NoError(t, err)
	require.NotNil(t, sess.SelectedBranch)
	assert.Equal(t, "branch-7", *sess.SelectedBranch)

	// a re-establish keeps the selection
	sess, err = store.Establish(ctx, "admin-2")
	require.NoError(t, err)
	require.NotNil(t, sess.SelectedBranch)
	assert.Equal(t, "branch-7", *sess.SelectedBranch)

	// clearing goes back to all branches
	sess, err = store.SetSelectedBranch(ctx, "admin-2", nil)
	require.NoError(t, err)
	assert.Nil(t, sess.SelectedBranch)
}

func TestSetSelectedBranchRefusesBranchAdmin(t *testing.T) {
	repo := &fakeAdminRepo{admins: map[string]structs.AdminUser{
		"admin-1": activeBranchAdmin("admin-1"),
	}}
	store := newTestStore(t, repo)
	ctx := context.Background()

	_, err := store.Establish(ctx, "admin-1")
	require.NoError(t, err)

	_, err = store.SetSelectedBranch(ctx, "admin-1", strPtr("branch-2"))
	require.ErrorIs(t, err, structs.ErrSuperadminRequired)
}

func TestDestroy(t *testing.T) {
	repo := &fakeAdminRepo{admins: map[string]structs.AdminUser{
		"admin-1": activeBranchAdmin("admin-1"),
	}}
	store := newTestStore(t, repo)
	ctx := context.Background()

	_, err := store.Establish(ctx, "admin-1")
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, "admin-1"))

	_, err = store.Current(ctx, "admin-1")
	require.ErrorIs(t, err, structs.ErrAccessDenied)
}
