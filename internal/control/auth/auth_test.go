package auth

import (
	"context"
	"testing"

	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	adminRepo "routeaura/pkg/repository/postgres/admin_repo"
	"routeaura/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminRepo struct {
	auth      adminRepo.AdminAuth
	authErr   error
	passwords map[string]string
}

func (f *fakeAdminRepo) GetAuthByEmail(_ context.Context, email string) (adminRepo.AdminAuth, error) {
	if f.authErr != nil {
		return adminRepo.AdminAuth{}, f.authErr
	}
	if f.auth.Admin.Email != email {
		return adminRepo.AdminAuth{}, structs.ErrNotFound
	}
	return f.auth, nil
}

func (f *fakeAdminRepo) GetById(_ context.Context, id string) (structs.AdminUser, error) {
	if f.auth.Admin.Id == id {
		return f.auth.Admin, nil
	}
	return structs.AdminUser{}, structs.ErrNotFound
}

func (f *fakeAdminRepo) Create(_ context.Context, req structs.CreateAdmin, hash string) (structs.AdminUser, error) {
	return structs.AdminUser{
		Id:           "new-admin",
		Email:        req.Email,
		FullName:     req.FullName,
		IsSuperadmin: req.IsSuperadmin,
		BranchId:     req.BranchId,
		IsActive:     true,
	}, nil
}

func (f *fakeAdminRepo) UpdatePassword(_ context.Context, id, hash string) error {
	if f.passwords == nil {
		f.passwords = map[string]string{}
	}
	f.passwords[id] = hash
	return nil
}

func (f *fakeAdminRepo) UpdateLastLogin(context.Context, string) error { return nil }

type fakeSessions struct {
	established map[string]bool
	refreshes   int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{established: map[string]bool{}}
}

func (f *fakeSessions) Establish(_ context.Context, adminId string) (structs.AdminSession, error) {
	f.established[adminId] = true
	return structs.AdminSession{AdminId: adminId}, nil
}

func (f *fakeSessions) Current(_ context.Context, adminId string) (structs.AdminSession, error) {
	if !f.established[adminId] {
		return structs.AdminSession{}, structs.ErrAccessDenied
	}
	return structs.AdminSession{AdminId: adminId}, nil
}

func (f *fakeSessions) Refresh(ctx context.Context, adminId string) (structs.AdminSession, error) {
	f.refreshes++
	return f.Establish(ctx, adminId)
}

func (f *fakeSessions) SilentRefresh(ctx context.Context, adminId string) (structs.AdminSession, error) {
	return f.Refresh(ctx, adminId)
}

func (f *fakeSessions) SetSelectedBranch(_ context.Context, adminId string, branchId *string) (structs.AdminSession, error) {
	return structs.AdminSession{AdminId: adminId, SelectedBranch: branchId}, nil
}

func (f *fakeSessions) Destroy(_ context.Context, adminId string) error {
	delete(f.established, adminId)
	return nil
}

func strPtr(s string) *string { return &s }

func testRepo(t *testing.T, passKey string) *fakeAdminRepo {
	t.Helper()

	hash, err := utils.HashPassword(passKey)
	require.NoError(t, err)

	return &fakeAdminRepo{
		auth: adminRepo.AdminAuth{
			Admin: structs.AdminUser{
				Id:       "admin-1",
				Email:    "admin@example.com",
				Role:     structs.RoleBranchAdmin,
				BranchId: strPtr("branch-1"),
				IsActive: true,
			},
			PasswordHash: hash,
		},
	}
}

func TestLogin(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	repo := testRepo(t, "correct horse")
	sessions := newFakeSessions()
	svc := NewService(logger.New("error"), repo, sessions)

	resp, err := svc.Login(context.Background(), structs.AdminLogin{
		Email:   "admin@example.com",
		PassKey: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin-1", resp.Admin.Id)
	assert.True(t, sessions.established["admin-1"])

	claims, err := utils.ParseJWTScoped(resp.Token, utils.ScopeAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims["id"])
}

func TestLoginWrongPassKeyLeavesNoSession(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	repo := testRepo(t, "correct horse")
	sessions := newFakeSessions()
	svc := NewService(logger.New("error"), repo, sessions)

	_, err := svc.Login(context.Background(), structs.AdminLogin{
		Email:   "admin@example.com",
		PassKey: "wrong",
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)
	assert.Empty(t, sessions.established)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := testRepo(t, "correct horse")
	sessions := newFakeSessions()
	svc := NewService(logger.New("error"), repo, sessions)

	_, err := svc.Login(context.Background(), structs.AdminLogin{
		Email:   "nobody@example.com",
		PassKey: "correct horse",
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)
	assert.Empty(t, sessions.established)
}

func TestLoginInactiveAdmin(t *testing.T) {
	repo := testRepo(t, "correct horse")
	repo.auth.Admin.IsActive = false
	sessions := newFakeSessions()
	svc := NewService(logger.New("error"), repo, sessions)

	_, err := svc.Login(context.Background(), structs.AdminLogin{
		Email:   "admin@example.com",
		PassKey: "correct horse",
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)
	assert.Empty(t, sessions.established)
}

func TestLoginEmptyFields(t *testing.T) {
	svc := NewService(logger.New("error"), testRepo(t, "x"), newFakeSessions())

	_, err := svc.Login(context.Background(), structs.AdminLogin{Email: "admin@example.com"})
	require.ErrorIs(t, err, structs.ErrBadRequest)

	_, err = svc.Login(context.Background(), structs.AdminLogin{PassKey: "x"})
	require.ErrorIs(t, err, structs.ErrBadRequest)
}

func TestLogout(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	repo := testRepo(t, "correct horse")
	sessions := newFakeSessions()
	svc := NewService(logger.New("error"), repo, sessions)

	_, err := svc.Login(context.Background(), structs.AdminLogin{
		Email:   "admin@example.com",
		PassKey: "correct horse",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), "admin-1"))
	assert.Empty(t, sessions.established)
}

func TestCreateAdminRequiresBranchForBranchAdmin(t *testing.T) {
	svc := NewService(logger.New("error"), testRepo(t, "x"), newFakeSessions())

	_, err := svc.CreateAdmin(context.Background(), structs.CreateAdmin{
		Email:    "second@example.com",
		Password: "pass",
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)

	admin, err := svc.CreateAdmin(context.Background(), structs.CreateAdmin{
		Email:    "second@example.com",
		Password: "pass",
		BranchId: strPtr("branch-2"),
	})
	require.NoError(t, err)
	assert.Equal(t, "second@example.com", admin.Email)

	admin, err = svc.CreateAdmin(context.Background(), structs.CreateAdmin{
		Email:        "root@example.com",
		Password:     "pass",
		IsSuperadmin: true,
	})
	require.NoError(t, err)
	assert.True(t, admin.IsSuperadmin)
}

func TestUpdatePassword(t *testing.T) {
	repo := testRepo(t, "old pass")
	sessions := newFakeSessions()
	svc := NewService(logger.New("error"), repo, sessions)

	err := svc.UpdatePassword(context.Background(), structs.UpdateAdminPassword{
		AdminUserId: "admin-1",
		NewPassword: "new pass",
	})
	require.NoError(t, err)

	stored := repo.passwords["admin-1"]
	require.NotEmpty(t, stored)
	assert.True(t, utils.CompareInBcrypt(stored, "new pass"))
	assert.False(t, utils.CompareInBcrypt(stored, "old pass"))
	assert.Equal(t, 1, sessions.refreshes)
}

func TestUpdatePasswordEmpty(t *testing.T) {
	svc := NewService(logger.New("error"), testRepo(t, "x"), newFakeSessions())

	err := svc.UpdatePassword(context.Background(), structs.UpdateAdminPassword{AdminUserId: "admin-1"})
	require.ErrorIs(t, err, structs.ErrBadRequest)
}
