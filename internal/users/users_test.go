package users

import (
	"context"
	"errors"
	"testing"

	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/cache"
	"routeaura/pkg/logger"
	usersRepo "routeaura/pkg/repository/postgres/users_repo"
	"routeaura/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsersRepo struct {
	users     map[string]structs.User
	auth      map[string]usersRepo.UserAuth
	getByIdN  int
	listCalls int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{
		users: map[string]structs.User{},
		auth:  map[string]usersRepo.UserAuth{},
	}
}

func (f *fakeUsersRepo) Create(_ context.Context, req structs.UserSignup, hash string) (structs.User, error) {
	if _, ok := f.auth[req.Email]; ok {
		return structs.User{}, structs.ErrUniqueViolation
	}
	u := structs.User{
		Id:       "usr-new",
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
	}
	f.users[u.Id] = u
	f.auth[u.Email] = usersRepo.UserAuth{User: u, PasswordHash: hash}
	return u, nil
}

func (f *fakeUsersRepo) GetById(_ context.Context, id string) (structs.User, error) {
	f.getByIdN++
	u, ok := f.users[id]
	if !ok {
		return structs.User{}, structs.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) GetAuthByEmail(_ context.Context, email string) (usersRepo.UserAuth, error) {
	a, ok := f.auth[email]
	if !ok {
		return usersRepo.UserAuth{}, structs.ErrNotFound
	}
	return a, nil
}

func (f *fakeUsersRepo) GetAllWithContact(context.Context, structs.GetListUserRequest) (structs.GetListUserResponse, error) {
	f.listCalls++
	return structs.GetListUserResponse{Count: 2}, nil
}

type passRetrier struct{}

func (passRetrier) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(repo *fakeUsersRepo) Service {
	return &service{
		logger:    logger.New("error"),
		cache:     cache.New(cache.Params{Logger: logger.New("error")}),
		retrier:   passRetrier{},
		usersRepo: repo,
	}
}

func TestSignup(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	repo := newFakeUsersRepo()
	svc := newTestService(repo)

	resp, err := svc.Signup(context.Background(), structs.UserSignup{
		Email:    "rider@example.com",
		Password: "seat 12A",
		FullName: "Rider One",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := utils.ParseJWTScoped(resp.Token, utils.ScopeCustomer)
	require.NoError(t, err)
	assert.Equal(t, resp.User.Id, claims["id"])

	// the stored hash is never the raw password
	stored := repo.auth["rider@example.com"]
	assert.NotEqual(t, "seat 12A", stored.PasswordHash)
	assert.True(t, utils.CompareInBcrypt(stored.PasswordHash, "seat 12A"))
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	svc := newTestService(newFakeUsersRepo())

	req := structs.UserSignup{Email: "rider@example.com", Password: "pw", FullName: "Rider"}
	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), req)
	require.ErrorIs(t, err, structs.ErrUniqueViolation)
}

func TestSignupEmptyFields(t *testing.T) {
	svc := newTestService(newFakeUsersRepo())

	_, err := svc.Signup(context.Background(), structs.UserSignup{Email: "rider@example.com"})
	require.ErrorIs(t, err, structs.ErrBadRequest)
}

func TestLogin(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	repo := newFakeUsersRepo()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), structs.UserSignup{
		Email:    "rider@example.com",
		Password: "seat 12A",
		FullName: "Rider One",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), structs.UserLogin{
		Email:    "rider@example.com",
		Password: "seat 12A",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// a customer token never opens the admin surface
	_, err = utils.ParseJWTScoped(resp.Token, utils.ScopeAdmin)
	require.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	repo := newFakeUsersRepo()
	svc := newTestService(repo)

	_, err := svc.Signup(context.Background(), structs.UserSignup{
		Email:    "rider@example.com",
		Password: "seat 12A",
		FullName: "Rider One",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), structs.UserLogin{
		Email:    "rider@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)

	// unknown email looks the same as a wrong password
	_, err = svc.Login(context.Background(), structs.UserLogin{
		Email:    "nobody@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)
}

func TestGetMeCaches(t *testing.T) {
	repo := newFakeUsersRepo()
	repo.users["usr-1"] = structs.User{Id: "usr-1", Email: "rider@example.com"}
	svc := newTestService(repo)

	u, err := svc.GetMe(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "rider@example.com", u.Email)

	_, err = svc.GetMe(context.Background(), "usr-1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getByIdN, "second read is served from cache")
}

func TestGetMeUnknown(t *testing.T) {
	svc := newTestService(newFakeUsersRepo())

	_, err := svc.GetMe(context.Background(), "usr-missing")
	require.True(t, errors.Is(err, structs.ErrNotFound))
}

func TestGetAllWithContactRequiresScope(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newTestService(repo)

	_, err := svc.GetAllWithContact(context.Background(), structs.GetListUserRequest{})
	require.ErrorIs(t, err, structs.ErrAccessDenied)
	assert.Zero(t, repo.listCalls)

	ctx := scope.Inject(context.Background(), scope.Scope{Role: structs.RoleSuperadmin, AdminId: "admin-1"})
	resp, err := svc.GetAllWithContact(ctx, structs.GetListUserRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, resp.Count)
}
