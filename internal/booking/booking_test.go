package booking

import (
	"context"
	"testing"

	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	"routeaura/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingRepo struct {
	bookings map[string]structs.Booking

	created  []structs.CreateBooking
	archived []string
	deleted  []string
	statuses map[string]string
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: map[string]structs.Booking{},
		statuses: map[string]string{},
	}
}

func (f *fakeBookingRepo) Create(_ context.Context, req structs.CreateBooking) (structs.Booking, error) {
	f.created = append(f.created, req)
	b := structs.Booking{
		Id:            "bk-1",
		Reference:     "BK-TEST1",
		UserId:        req.UserId,
		RouteId:       req.RouteId,
		FromLocation:  "North Terminal",
		ToLocation:    "Airport",
		DepartureDate: req.DepartureDate,
		SeatNumbers:   req.SeatNumbers,
		Price:         120,
		Status:        structs.BookingStatusUpcoming,
		BranchId:      "branch-1",
	}
	f.bookings[b.Id] = b
	return b, nil
}

func (f *fakeBookingRepo) CreateManual(_ context.Context, req structs.CreateManualBooking, branchId string) (structs.Booking, error) {
	b := structs.Booking{
		Id:            "bk-m1",
		Reference:     "BK-MANUAL",
		RouteId:       req.RouteId,
		DepartureDate: req.DepartureDate,
		SeatNumbers:   req.SeatNumbers,
		Price:         90,
		Status:        structs.BookingStatusUpcoming,
		BranchId:      branchId,
		IsManual:      true,
		PassengerName: req.PassengerName,
	}
	f.bookings[b.Id] = b
	return b, nil
}

func (f *fakeBookingRepo) GetById(_ context.Context, id string) (structs.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return structs.Booking{}, structs.ErrNotFound
	}
	if status, ok := f.statuses[id]; ok {
		b.Status = status
	}
	return b, nil
}

func (f *fakeBookingRepo) GetByReference(_ context.Context, reference string) (structs.Booking, error) {
	for _, b := range f.bookings {
		if b.Reference == reference {
			if status, ok := f.statuses[b.Id]; ok {
				b.Status = status
			}
			return b, nil
		}
	}
	return structs.Booking{}, structs.ErrNotFound
}

func (f *fakeBookingRepo) GetAll(_ context.Context, req structs.GetListBookingRequest) (structs.GetListBookingResponse, error) {
	var resp structs.GetListBookingResponse
	for _, b := range f.bookings {
		if req.BranchId != nil && b.BranchId != *req.BranchId {
			continue
		}
		if req.UserId != "" && (b.UserId == nil || *b.UserId != req.UserId) {
			continue
		}
		resp.Bookings = append(resp.Bookings, b)
	}
	resp.Count = int64(len(resp.Bookings))
	return resp, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id, status string) (int64, error) {
	if _, ok := f.bookings[id]; !ok {
		return 0, nil
	}
	f.statuses[id] = status
	return 1, nil
}

func (f *fakeBookingRepo) Archive(_ context.Context, ids []string) (int64, error) {
	f.archived = append(f.archived, ids...)
	return int64(len(ids)), nil
}

func (f *fakeBookingRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	f.deleted = append(f.deleted, ids...)
	return int64(len(ids)), nil
}

func (f *fakeBookingRepo) TakenSeats(context.Context, string, string) ([]string, error) {
	return []string{"A1"}, nil
}

type fakeReceiptRepo struct {
	issued []structs.Receipt
	err    error
}

func (f *fakeReceiptRepo) Create(_ context.Context, bookingId, reference string, amount float64, templateId *string) (structs.Receipt, error) {
	if f.err != nil {
		return structs.Receipt{}, f.err
	}
	r := structs.Receipt{Id: "rc-1", Reference: reference, BookingId: bookingId, Amount: amount}
	f.issued = append(f.issued, r)
	return r, nil
}

func (f *fakeReceiptRepo) GetById(context.Context, string) (structs.Receipt, error) {
	return structs.Receipt{}, structs.ErrNotFound
}

func (f *fakeReceiptRepo) GetByReference(context.Context, string) (structs.Receipt, error) {
	return structs.Receipt{}, structs.ErrNotFound
}

func (f *fakeReceiptRepo) GetByBookingId(context.Context, string) (structs.Receipt, error) {
	return structs.Receipt{}, structs.ErrNotFound
}

func (f *fakeReceiptRepo) GetAll(context.Context, structs.GetListReceiptRequest) (structs.GetListReceiptResponse, error) {
	return structs.GetListReceiptResponse{}, nil
}

func (f *fakeReceiptRepo) CreateTemplate(context.Context, structs.CreateReceiptTemplate) (structs.ReceiptTemplate, error) {
	return structs.ReceiptTemplate{}, nil
}

func (f *fakeReceiptRepo) GetTemplateById(context.Context, string) (structs.ReceiptTemplate, error) {
	return structs.ReceiptTemplate{}, structs.ErrNotFound
}

func (f *fakeReceiptRepo) GetTemplateForBranch(context.Context, string) (structs.ReceiptTemplate, error) {
	return structs.ReceiptTemplate{}, structs.ErrNotFound
}

func (f *fakeReceiptRepo) GetTemplates(context.Context, *string) ([]structs.ReceiptTemplate, error) {
	return nil, nil
}

func (f *fakeReceiptRepo) PatchTemplate(context.Context, structs.PatchReceiptTemplate) (int64, error) {
	return 0, structs.ErrNotFound
}

func (f *fakeReceiptRepo) DeleteTemplate(context.Context, string) error { return nil }

type fakeNotifier struct {
	created   []string
	cancelled []string
}

func (f *fakeNotifier) BookingCreated(_ context.Context, reference, _, _ string, _ int) {
	f.created = append(f.created, reference)
}

func (f *fakeNotifier) BookingCancelled(_ context.Context, reference string) {
	f.cancelled = append(f.cancelled, reference)
}

// passRetrier runs the work once with no session machinery behind it.
type passRetrier struct{}

func (passRetrier) Do(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func strPtr(s string) *string { return &s }

type fixture struct {
	svc      Service
	bookings *fakeBookingRepo
	receipts *fakeReceiptRepo
	notifier *fakeNotifier
}

func newFixture() fixture {
	bookings := newFakeBookingRepo()
	receipts := &fakeReceiptRepo{}
	notifier := &fakeNotifier{}

	svc := NewService(
		logger.New("error"),
		metrics.NewWithRegistry(prometheus.NewRegistry()),
		notifier,
		passRetrier{},
		bookings,
		receipts,
	)
	return fixture{svc: svc, bookings: bookings, receipts: receipts, notifier: notifier}
}

func adminCtx(role string, branchId *string) context.Context {
	return scope.Inject(context.Background(), scope.Scope{
		Role:     role,
		AdminId:  "admin-1",
		BranchId: branchId,
	})
}

func TestCreateIssuesReceiptAndNotifies(t *testing.T) {
	f := newFixture()

	b, err := f.svc.Create(context.Background(), structs.CreateBooking{
		UserId:        strPtr("user-1"),
		RouteId:       "route-1",
		DepartureDate: "2026-09-15",
		SeatNumbers:   []string{"A2", "A3"},
	})
	require.NoError(t, err)
	assert.Equal(t, structs.BookingStatusUpcoming, b.Status)

	require.Len(t, f.receipts.issued, 1)
	assert.Equal(t, b.Id, f.receipts.issued[0].BookingId)
	assert.Equal(t, b.Price, f.receipts.issued[0].Amount)

	require.Len(t, f.notifier.created, 1)
	assert.Equal(t, b.Reference, f.notifier.created[0])
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), structs.CreateBooking{RouteId: "route-1"})
	require.ErrorIs(t, err, structs.ErrBadRequest)

	_, err = f.svc.Create(context.Background(), structs.CreateBooking{
		DepartureDate: "2026-09-15",
		SeatNumbers:   []string{"A1"},
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)

	assert.Empty(t, f.receipts.issued)
	assert.Empty(t, f.notifier.created)
}

func TestCancelOwnBooking(t *testing.T) {
	f := newFixture()

	b, err := f.svc.Create(context.Background(), structs.CreateBooking{
		UserId:        strPtr("user-1"),
		RouteId:       "route-1",
		DepartureDate: "2026-09-15",
		SeatNumbers:   []string{"A2"},
	})
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(context.Background(), "user-1", b.Reference)
	require.NoError(t, err)
	assert.Equal(t, structs.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, []string{b.Reference}, f.notifier.cancelled)
}

func TestCancelSomeoneElsesBooking(t *testing.T) {
	f := newFixture()

	b, err := f.svc.Create(context.Background(), structs.CreateBooking{
		UserId:        strPtr("user-1"),
		RouteId:       "route-1",
		DepartureDate: "2026-09-15",
		SeatNumbers:   []string{"A2"},
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), "user-2", b.Reference)
	require.ErrorIs(t, err, structs.ErrNotFound, "other owners never learn the booking exists")
	assert.Empty(t, f.notifier.cancelled)
}

func TestCancelOnlyUpcoming(t *testing.T) {
	f := newFixture()

	b, err := f.svc.Create(context.Background(), structs.CreateBooking{
		UserId:        strPtr("user-1"),
		RouteId:       "route-1",
		DepartureDate: "2026-09-15",
		SeatNumbers:   []string{"A2"},
	})
	require.NoError(t, err)
	f.bookings.statuses[b.Id] = structs.BookingStatusCompleted

	_, err = f.svc.Cancel(context.Background(), "user-1", b.Reference)
	require.ErrorIs(t, err, structs.ErrBadRequest)
}

func TestCreateManualRequiresConcreteBranch(t *testing.T) {
	f := newFixture()

	req := structs.CreateManualBooking{
		RouteId:       "route-1",
		DepartureDate: "2026-09-15",
		SeatNumbers:   []string{"B1"},
		PassengerName: "Walk-in Passenger",
	}

	// superadmin viewing all branches has nowhere to put the booking
	_, err := f.svc.CreateManual(adminCtx(structs.RoleSuperadmin, nil), req)
	require.ErrorIs(t, err, structs.ErrBadRequest)

	b, err := f.svc.CreateManual(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), req)
	require.NoError(t, err)
	assert.True(t, b.IsManual)
	assert.Equal(t, "branch-1", b.BranchId)
	require.Len(t, f.receipts.issued, 1)
}

func TestCreateManualWithoutScope(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateManual(context.Background(), structs.CreateManualBooking{
		RouteId:       "route-1",
		SeatNumbers:   []string{"B1"},
		PassengerName: "Walk-in Passenger",
	})
	require.ErrorIs(t, err, structs.ErrAccessDenied)
}

func TestGetAllAdminNarrowsToScope(t *testing.T) {
	f := newFixture()
	f.bookings.bookings["bk-a"] = structs.Booking{Id: "bk-a", BranchId: "branch-1"}
	f.bookings.bookings["bk-b"] = structs.Booking{Id: "bk-b", BranchId: "branch-2"}

	resp, err := f.svc.GetAllAdmin(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.GetListBookingRequest{
		// a crafted filter may not widen the visible set
		BranchId: strPtr("branch-2"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "bk-a", resp.Bookings[0].Id)

	resp, err = f.svc.GetAllAdmin(adminCtx(structs.RoleSuperadmin, nil), structs.GetListBookingRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestGetByIdAdminHidesOtherBranches(t *testing.T) {
	f := newFixture()
	f.bookings.bookings["bk-b"] = structs.Booking{Id: "bk-b", BranchId: "branch-2"}

	_, err := f.svc.GetByIdAdmin(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), "bk-b")
	require.ErrorIs(t, err, structs.ErrNotFound)

	b, err := f.svc.GetByIdAdmin(adminCtx(structs.RoleSuperadmin, nil), "bk-b")
	require.NoError(t, err)
	assert.Equal(t, "bk-b", b.Id)
}

func TestBulkDeleteArchive(t *testing.T) {
	f := newFixture()
	f.bookings.bookings["bk-a"] = structs.Booking{Id: "bk-a", BranchId: "branch-1"}
	f.bookings.bookings["bk-b"] = structs.Booking{Id: "bk-b", BranchId: "branch-1"}

	n, err := f.svc.BulkDelete(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.BulkDeleteBookings{
		Ids:     []string{"bk-a", "bk-b"},
		Archive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.ElementsMatch(t, []string{"bk-a", "bk-b"}, f.bookings.archived)
	assert.Empty(t, f.bookings.deleted, "archive never deletes")
}

func TestBulkDeleteDestructive(t *testing.T) {
	f := newFixture()
	f.bookings.bookings["bk-a"] = structs.Booking{Id: "bk-a", BranchId: "branch-1"}

	n, err := f.svc.BulkDelete(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.BulkDeleteBookings{
		Ids: []string{"bk-a"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.ElementsMatch(t, []string{"bk-a"}, f.bookings.deleted)
	assert.Empty(t, f.bookings.archived, "delete never archives")
}

func TestBulkDeleteRefusesOutOfScopeIds(t *testing.T) {
	f := newFixture()
	f.bookings.bookings["bk-a"] = structs.Booking{Id: "bk-a", BranchId: "branch-1"}
	f.bookings.bookings["bk-b"] = structs.Booking{Id: "bk-b", BranchId: "branch-2"}

	_, err := f.svc.BulkDelete(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.BulkDeleteBookings{
		Ids:     []string{"bk-a", "bk-b"},
		Archive: true,
	})
	require.ErrorIs(t, err, structs.ErrAccessDenied)
	assert.Empty(t, f.bookings.archived, "whole call refused, nothing touched")
	assert.Empty(t, f.bookings.deleted)
}

func TestUpdateStatusValidation(t *testing.T) {
	f := newFixture()
	f.bookings.bookings["bk-a"] = structs.Booking{Id: "bk-a", Reference: "BK-A", BranchId: "branch-1", Status: structs.BookingStatusUpcoming}

	_, err := f.svc.UpdateStatus(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.UpdateBookingStatus{
		Id:     "bk-a",
		Status: "teleported",
	})
	require.ErrorIs(t, err, structs.ErrBadRequest)

	b, err := f.svc.UpdateStatus(adminCtx(structs.RoleBranchAdmin, strPtr("branch-1")), structs.UpdateBookingStatus{
		Id:     "bk-a",
		Status: structs.BookingStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, structs.BookingStatusCancelled, b.Status)
	assert.Equal(t, []string{"BK-A"}, f.notifier.cancelled)
}

func TestGetMineForcesOwnership(t *testing.T) {
	f := newFixture()
	f.bookings.bookings["bk-a"] = structs.Booking{Id: "bk-a", UserId: strPtr("user-1"), BranchId: "branch-1"}
	f.bookings.bookings["bk-b"] = structs.Booking{Id: "bk-b", UserId: strPtr("user-2"), BranchId: "branch-1"}

	resp, err := f.svc.GetMine(context.Background(), "user-1", structs.GetListBookingRequest{
		UserId: "user-2",
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "bk-a", resp.Bookings[0].Id)
}
