package booking

import (
	"context"
	"errors"

	"routeaura/internal/control/authretry"
	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	"routeaura/pkg/metrics"
	"routeaura/pkg/notify"
	bookingRepo "routeaura/pkg/repository/postgres/booking_repo"
	receiptRepo "routeaura/pkg/repository/postgres/receipt_repo"
	"routeaura/pkg/utils"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Params struct {
		fx.In
		Logger      logger.Logger
		Metrics     *metrics.Metrics
		Notifier    notify.Notifier
		Retrier     authretry.Retrier
		BookingRepo bookingRepo.Repo
		ReceiptRepo receiptRepo.Repo
	}

	Service interface {
		// customer and public paths
		Create(ctx context.Context, req structs.CreateBooking) (structs.Booking, error)
		GetMine(ctx context.Context, userId string, req structs.GetListBookingRequest) (structs.GetListBookingResponse, error)
		GetByReference(ctx context.Context, reference string) (structs.Booking, error)
		TakenSeats(ctx context.Context, routeId, departureDate string) ([]string, error)
		Cancel(ctx context.Context, userId, reference string) (structs.Booking, error)

		// admin paths, branch scope comes from the request context
		CreateManual(ctx context.Context, req structs.CreateManualBooking) (structs.Booking, error)
		GetAllAdmin(ctx context.Context, req structs.GetListBookingRequest) (structs.GetListBookingResponse, error)
		GetByIdAdmin(ctx context.Context, id string) (structs.Booking, error)
		UpdateStatus(ctx context.Context, req structs.UpdateBookingStatus) (structs.Booking, error)
		BulkDelete(ctx context.Context, req structs.BulkDeleteBookings) (int64, error)
	}

	service struct {
		logger      logger.Logger
		metrics     *metrics.Metrics
		notifier    notify.Notifier
		retrier     authretry.Retrier
		bookingRepo bookingRepo.Repo
		receiptRepo receiptRepo.Repo
	}
)

func New(p Params) Service {
	return &service{
		logger:      p.Logger,
		metrics:     p.Metrics,
		notifier:    p.Notifier,
		retrier:     p.Retrier,
		bookingRepo: p.BookingRepo,
		receiptRepo: p.ReceiptRepo,
	}
}

// NewService builds the service directly, used by tests.
func NewService(log logger.Logger, m *metrics.Metrics, n notify.Notifier, r authretry.Retrier, br bookingRepo.Repo, rr receiptRepo.Repo) Service {
	return &service{
		logger:      log,
		metrics:     m,
		notifier:    n,
		retrier:     r,
		bookingRepo: br,
		receiptRepo: rr,
	}
}

func (s service) Create(ctx context.Context, req structs.CreateBooking) (structs.Booking, error) {
	if utils.StrEmpty(req.RouteId) || utils.StrEmpty(req.DepartureDate) || len(req.SeatNumbers) == 0 {
		return structs.Booking{}, structs.ErrBadRequest
	}

	b, err := s.bookingRepo.Create(ctx, req)
	if err != nil {
		if errors.Is(err, structs.ErrSeatTaken) || errors.Is(err, structs.ErrNotFound) {
			return structs.Booking{}, err
		}
		s.logger.Error(ctx, "->bookingRepo.Create", zap.Error(err))
		return structs.Booking{}, err
	}

	s.afterCreate(ctx, b)
	return b, nil
}

// afterCreate issues the receipt and fires the side effects shared by
// both booking flows.
func (s service) afterCreate(ctx context.Context, b structs.Booking) {
	s.metrics.BookingsCreated.Inc()

	if _, err := s.receiptRepo.Create(ctx, b.Id, utils.ReceiptReference(), b.Price, nil); err != nil {
		s.logger.Error(ctx, "->receiptRepo.Create", zap.Error(err), zap.String("booking_id", b.Id))
	}

	s.notifier.BookingCreated(ctx, b.Reference,
		b.FromLocation+" - "+b.ToLocation, b.DepartureDate, len(b.SeatNumbers))
}

func (s service) GetMine(ctx context.Context, userId string, req structs.GetListBookingRequest) (structs.GetListBookingResponse, error) {
	req.UserId = userId
	req.BranchId = nil

	resp, err := s.bookingRepo.GetAll(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->bookingRepo.GetAll", zap.Error(err))
		return structs.GetListBookingResponse{}, err
	}
	return resp, nil
}

func (s service) GetByReference(ctx context.Context, reference string) (structs.Booking, error) {
	b, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Booking{}, err
		}
		s.logger.Error(ctx, "->bookingRepo.GetByReference", zap.Error(err))
		return structs.Booking{}, err
	}
	return b, nil
}

func (s service) TakenSeats(ctx context.Context, routeId, departureDate string) ([]string, error) {
	seats, err := s.bookingRepo.TakenSeats(ctx, routeId, departureDate)
	if err != nil {
		s.logger.Error(ctx, "->bookingRepo.TakenSeats", zap.Error(err))
		return nil, err
	}
	return seats, nil
}

// Cancel lets a customer cancel their own upcoming booking, addressed
// by its reference code as everywhere on the customer surface.
func (s service) Cancel(ctx context.Context, userId, reference string) (structs.Booking, error) {
	b, err := s.bookingRepo.GetByReference(ctx, reference)
	if err != nil {
		return structs.Booking{}, err
	}
	if b.UserId == nil || *b.UserId != userId {
		return structs.Booking{}, structs.ErrNotFound
	}
	if b.Status != structs.BookingStatusUpcoming {
		return structs.Booking{}, structs.ErrBadRequest
	}

	if _, err = s.bookingRepo.UpdateStatus(ctx, b.Id, structs.BookingStatusCancelled); err != nil {
		s.logger.Error(ctx, "->bookingRepo.UpdateStatus", zap.Error(err))
		return structs.Booking{}, err
	}

	s.notifier.BookingCancelled(ctx, b.Reference)
	return s.bookingRepo.GetById(ctx, b.Id)
}

func (s service) CreateManual(ctx context.Context, req structs.CreateManualBooking) (structs.Booking, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Booking{}, structs.ErrAccessDenied
	}
	if utils.StrEmpty(req.RouteId) || len(req.SeatNumbers) == 0 || utils.StrEmpty(req.PassengerName) {
		return structs.Booking{}, structs.ErrBadRequest
	}
	// manual bookings always land in a concrete branch; a superadmin
	// has to pick one first
	if sc.BranchId == nil {
		return structs.Booking{}, structs.ErrBadRequest
	}

	var b structs.Booking
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		b, repoErr = s.bookingRepo.CreateManual(ctx, req, *sc.BranchId)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrSeatTaken) || errors.Is(err, structs.ErrNotFound) || errors.Is(err, structs.ErrAccessDenied) {
			return structs.Booking{}, err
		}
		s.logger.Error(ctx, "->bookingRepo.CreateManual", zap.Error(err))
		return structs.Booking{}, err
	}

	s.afterCreate(ctx, b)
	return b, nil
}

func (s service) GetAllAdmin(ctx context.Context, req structs.GetListBookingRequest) (structs.GetListBookingResponse, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.GetListBookingResponse{}, structs.ErrAccessDenied
	}
	if sc.BranchId != nil {
		req.BranchId = sc.BranchId
	}

	var resp structs.GetListBookingResponse
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		resp, repoErr = s.bookingRepo.GetAll(ctx, req)
		return repoErr
	})
	if err != nil {
		s.logger.Error(ctx, "->bookingRepo.GetAll", zap.Error(err))
		return structs.GetListBookingResponse{}, err
	}
	return resp, nil
}

func (s service) GetByIdAdmin(ctx context.Context, id string) (structs.Booking, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Booking{}, structs.ErrAccessDenied
	}

	b, err := s.bookingRepo.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Booking{}, err
		}
		s.logger.Error(ctx, "->bookingRepo.GetById", zap.Error(err))
		return structs.Booking{}, err
	}
	if !sc.Allows(b.BranchId) {
		return structs.Booking{}, structs.ErrNotFound
	}
	return b, nil
}

func (s service) UpdateStatus(ctx context.Context, req structs.UpdateBookingStatus) (structs.Booking, error) {
	switch req.Status {
	case structs.BookingStatusUpcoming, structs.BookingStatusCompleted, structs.BookingStatusCancelled:
	default:
		return structs.Booking{}, structs.ErrBadRequest
	}

	b, err := s.GetByIdAdmin(ctx, req.Id)
	if err != nil {
		return structs.Booking{}, err
	}

	if _, err = s.bookingRepo.UpdateStatus(ctx, req.Id, req.Status); err != nil {
		s.logger.Error(ctx, "->bookingRepo.UpdateStatus", zap.Error(err))
		return structs.Booking{}, err
	}

	if req.Status == structs.BookingStatusCancelled {
		s.notifier.BookingCancelled(ctx, b.Reference)
	}

	return s.bookingRepo.GetById(ctx, req.Id)
}

// BulkDelete archives or permanently removes a set of bookings.
// Exactly one of the two happens per call. Every id must be visible
// under the caller's branch scope or the whole call is refused.
func (s service) BulkDelete(ctx context.Context, req structs.BulkDeleteBookings) (int64, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return 0, structs.ErrAccessDenied
	}
	if len(req.Ids) == 0 {
		return 0, structs.ErrBadRequest
	}

	for _, id := range req.Ids {
		b, err := s.bookingRepo.GetById(ctx, id)
		if err != nil {
			if errors.Is(err, structs.ErrNotFound) {
				return 0, err
			}
			s.logger.Error(ctx, "->bookingRepo.GetById", zap.Error(err))
			return 0, err
		}
		if !sc.Allows(b.BranchId) {
			return 0, structs.ErrAccessDenied
		}
	}

	var affected int64
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		if req.Archive {
			affected, repoErr = s.bookingRepo.Archive(ctx, req.Ids)
		} else {
			affected, repoErr = s.bookingRepo.DeleteMany(ctx, req.Ids)
		}
		return repoErr
	})
	if err != nil {
		s.logger.Error(ctx, "bulk delete bookings failed", zap.Error(err), zap.Bool("archive", req.Archive))
		return 0, err
	}

	return affected, nil
}
