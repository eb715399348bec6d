package driver

import (
	"context"
	"testing"

	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	driverRepo "routeaura/pkg/repository/postgres/driver_repo"
	"routeaura/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriverRepo struct {
	drivers     map[string]structs.Driver
	auth        map[string]driverRepo.DriverAuth
	assignments []structs.DriverAssignment
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{
		drivers: map[string]structs.Driver{},
		auth:    map[string]driverRepo.DriverAuth{},
	}
}

func (f *fakeDriverRepo) Create(_ context.Context, req structs.CreateDriver, _ string) (structs.Driver, error) {
	d := structs.Driver{
		Id:       "drv-new",
		Email:    req.Email,
		FullName: req.FullName,
		BranchId: req.BranchId,
		Status:   structs.DriverStatusActive,
	}
	f.drivers[d.Id] = d
	return d, nil
}

func (f *fakeDriverRepo) GetById(_ context.Context, id string) (structs.Driver, error) {
	d, ok := f.drivers[id]
	if !ok {
		return structs.Driver{}, structs.ErrNotFound
	}
	return d, nil
}

func (f *fakeDriverRepo) GetAuthByEmail(_ context.Context, email string) (driverRepo.DriverAuth, error) {
	a, ok := f.auth[email]
	if !ok {
		return driverRepo.DriverAuth{}, structs.ErrNotFound
	}
	return a, nil
}

func (f *fakeDriverRepo) GetAll(context.Context, structs.GetListDriverRequest) (structs.GetListDriverResponse, error) {
	return structs.GetListDriverResponse{}, nil
}

func (f *fakeDriverRepo) Patch(context.Context, structs.PatchDriver) (int64, error) { return 1, nil }
func (f *fakeDriverRepo) Delete(context.Context, string) error                      { return nil }

func (f *fakeDriverRepo) CreateAssignment(_ context.Context, req structs.CreateDriverAssignment) (structs.DriverAssignment, error) {
	a := structs.DriverAssignment{
		Id:          "asg-new",
		DriverId:    req.DriverId,
		RouteId:     req.RouteId,
		BusId:       req.BusId,
		ServiceDate: req.ServiceDate,
		Shift:       req.Shift,
	}
	f.assignments = append(f.assignments, a)
	return a, nil
}

func (f *fakeDriverRepo) GetAssignmentById(_ context.Context, id string) (structs.DriverAssignment, error) {
	for _, a := range f.assignments {
		if a.Id == id {
			return a, nil
		}
	}
	return structs.DriverAssignment{}, structs.ErrNotFound
}

func (f *fakeDriverRepo) GetAssignments(_ context.Context, req structs.GetListAssignmentRequest) (structs.GetListAssignmentResponse, error) {
	var resp structs.GetListAssignmentResponse
	for _, a := range f.assignments {
		if req.DriverId != "" && a.DriverId != req.DriverId {
			continue
		}
		if req.DateFrom != "" && a.ServiceDate != req.DateFrom {
			continue
		}
		resp.Assignments = append(resp.Assignments, a)
	}
	resp.Count = int64(len(resp.Assignments))
	return resp, nil
}

func (f *fakeDriverRepo) DeleteAssignment(context.Context, string) error { return nil }

type fakeBookingRepo struct {
	bookings []structs.Booking
}

func (f *fakeBookingRepo) Create(context.Context, structs.CreateBooking) (structs.Booking, error) {
	return structs.Booking{}, nil
}

func (f *fakeBookingRepo) CreateManual(context.Context, structs.CreateManualBooking, string) (structs.Booking, error) {
	return structs.Booking{}, nil
}

func (f *fakeBookingRepo) GetById(context.Context, string) (structs.Booking, error) {
	return structs.Booking{}, structs.ErrNotFound
}

func (f *fakeBookingRepo) GetByReference(context.Context, string) (structs.Booking, error) {
	return structs.Booking{}, structs.ErrNotFound
}

func (f *fakeBookingRepo) GetAll(_ context.Context, req structs.GetListBookingRequest) (structs.GetListBookingResponse, error) {
	var resp structs.GetListBookingResponse
	for _, b := range f.bookings {
		if req.Status != "" && b.Status != req.Status {
			continue
		}
		if req.DateFrom != "" && b.DepartureDate != req.DateFrom {
			continue
		}
		resp.Bookings = append(resp.Bookings, b)
	}
	resp.Count = int64(len(resp.Bookings))
	return resp, nil
}

func (f *fakeBookingRepo) UpdateStatus(context.Context, string, string) (int64, error) {
	return 0, nil
}

func (f *fakeBookingRepo) Archive(context.Context, []string) (int64, error)    { return 0, nil }
func (f *fakeBookingRepo) DeleteMany(context.Context, []string) (int64, error) { return 0, nil }

func (f *fakeBookingRepo) TakenSeats(context.Context, string, string) ([]string, error) {
	return nil, nil
}

type passRetrier struct{}

func (passRetrier) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func strPtr(s string) *string { return &s }

func newTestService(drivers *fakeDriverRepo, bookings *fakeBookingRepo) Service {
	return &service{
		logger:      logger.New("error"),
		retrier:     passRetrier{},
		driverRepo:  drivers,
		bookingRepo: bookings,
	}
}

func adminCtx(role string, branchId *string) context.Context {
	return scope.Inject(context.Background(), scope.Scope{
		Role:     role,
		AdminId:  "admin-1",
		BranchId: branchId,
	})
}

func seedDriverAuth(t *testing.T, repo *fakeDriverRepo, status string) {
	t.Helper()

	hash, err := utils.HashPassword("road pass")
	require.NoError(t, err)

	d := structs.Driver{
		Id:       "drv-1",
		Email:    "driver@example.com",
		BranchId: "branch-1",
		Status:   status,
	}
	repo.drivers[d.Id] = d
	repo.auth[d.Email] = driverRepo.DriverAuth{Driver: d, PasswordHash: hash}
}

func TestLogin(t *testing.T) {
	t.Setenv("SECRET_KEY", "test-secret")

	repo := newFakeDriverRepo()
	seedDriverAuth(t, repo, structs.DriverStatusActive)
	svc := newTestService(repo, &fakeBookingRepo{})

	resp, err := svc.Login(context.Background(), structs.DriverLogin{
		Email:    "driver@example.com",
		Password: "road pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := utils.ParseJWTScoped(resp.Token, utils.ScopeDriver)
	require.NoError(t, err)
	assert.Equal(t, "drv-1", claims["id"])

	// a driver token never opens the admin surface
	_, err = utils.ParseJWTScoped(resp.Token, utils.ScopeAdmin)
	require.Error(t, err)
}

func TestLoginSuspendedDriver(t *testing.T) {
	repo := newFakeDriverRepo()
	seedDriverAuth(t, repo, structs.DriverStatusSuspended)
	svc := newTestService(repo, &fakeBookingRepo{})

	_, err := svc.Login(context.Background(), structs.DriverLogin{
		Email:    "driver@example.com",
		Password: "road pass",
	})
	require.ErrorIs(t, err, structs.ErrDriverInactive)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeDriverRepo()
	seedDriverAuth(t, repo, structs.DriverStatusActive)
	svc := newTestService(repo, &fakeBookingRepo{})

	_, err := svc.Login(context.Background(), structs.DriverLogin{
		Email:    "driver@example.com",
		Password: "wrong",
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)
}

func TestGetManifest(t *testing.T) {
	repo := newFakeDriverRepo()
	repo.assignments = []structs.DriverAssignment{
		{Id: "asg-1", DriverId: "drv-1", RouteId: "route-1", ServiceDate: "2026-09-10", Shift: "morning"},
		{Id: "asg-2", DriverId: "drv-2", RouteId: "route-2", ServiceDate: "2026-09-10", Shift: "morning"},
	}
	bookings := &fakeBookingRepo{bookings: []structs.Booking{
		{Id: "bk-1", RouteId: "route-1", DepartureDate: "2026-09-10", Status: structs.BookingStatusUpcoming},
		{Id: "bk-2", RouteId: "route-2", DepartureDate: "2026-09-10", Status: structs.BookingStatusUpcoming},
		{Id: "bk-3", RouteId: "route-1", DepartureDate: "2026-09-10", Status: structs.BookingStatusCancelled},
	}}
	svc := newTestService(repo, bookings)

	m, err := svc.GetManifest(context.Background(), "drv-1", "2026-09-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-10", m.ServiceDate)
	require.Len(t, m.Assignments, 1, "only the driver's own assignments")

	entry := m.Assignments[0]
	assert.Equal(t, "asg-1", entry.Assignment.Id)
	require.Len(t, entry.Bookings, 1, "other routes and cancelled bookings excluded")
	assert.Equal(t, "bk-1", entry.Bookings[0].Id)
}

func TestGetManifestRequiresDate(t *testing.T) {
	svc := newTestService(newFakeDriverRepo(), &fakeBookingRepo{})

	_, err := svc.GetManifest(context.Background(), "drv-1", "")
	require.ErrorIs(t, err, structs.ErrBadRequest)
}

func TestAssignRefusesInactiveDriver(t *testing.T) {
	repo := newFakeDriverRepo()
	repo.drivers["drv-1"] = structs.Driver{Id: "drv-1", BranchId: "branch-1", Status: structs.DriverStatusInactive}
	svc := newTestService(repo, &fakeBookingRepo{})

	_, err := svc.Assign(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.CreateDriverAssignment{
		DriverId:    "drv-1",
		RouteId:     "route-1",
		BusId:       "bus-1",
		ServiceDate: "2026-09-10",
	})
	require.ErrorIs(t, err, structs.ErrDriverInactive)
	assert.Empty(t, repo.assignments)
}

func TestAssignOutOfScopeDriverLooksMissing(t *testing.T) {
	repo := newFakeDriverRepo()
	repo.drivers["drv-1"] = structs.Driver{Id: "drv-1", BranchId: "branch-2", Status: structs.DriverStatusActive}
	svc := newTestService(repo, &fakeBookingRepo{})

	_, err := svc.Assign(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.CreateDriverAssignment{
		DriverId:    "drv-1",
		RouteId:     "route-1",
		BusId:       "bus-1",
		ServiceDate: "2026-09-10",
	})
	require.ErrorIs(t, err, structs.ErrNotFound)
}

func TestPatchBranchMoveIsSuperadminOnly(t *testing.T) {
	repo := newFakeDriverRepo()
	repo.drivers["drv-1"] = structs.Driver{Id: "drv-1", BranchId: "branch-1", Status: structs.DriverStatusActive}
	svc := newTestService(repo, &fakeBookingRepo{})

	_, err := svc.Patch(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.PatchDriver{
		Id:       "drv-1",
		BranchId: strPtr("branch-2"),
	})
	require.ErrorIs(t, err, structs.ErrSuperadminRequired)

	_, err = svc.Patch(adminCtx(structs.RoleSuperadmin, nil), structs.PatchDriver{
		Id:       "drv-1",
		BranchId: strPtr("branch-2"),
	})
	require.NoError(t, err)
}
