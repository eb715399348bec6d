package driver

import (
	"context"
	"errors"

	"routeaura/internal/control/authretry"
	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	bookingRepo "routeaura/pkg/repository/postgres/booking_repo"
	driverRepo "routeaura/pkg/repository/postgres/driver_repo"
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
		Retrier     authretry.Retrier
		DriverRepo  driverRepo.Repo
		BookingRepo bookingRepo.Repo
	}

	// Manifest is what a logged-in driver sees for one service date:
	// their assignments and the passenger list per assignment.
	Manifest struct {
		ServiceDate string          `json:"service_date"`
		Assignments []ManifestEntry `json:"assignments"`
	}

	ManifestEntry struct {
		Assignment structs.DriverAssignment `json:"assignment"`
		Bookings   []structs.Booking        `json:"bookings"`
	}

	Service interface {
		// driver portal
		Login(ctx context.Context, req structs.DriverLogin) (structs.DriverAuthResponse, error)
		GetManifest(ctx context.Context, driverId, serviceDate string) (Manifest, error)

		// admin management
		Create(ctx context.Context, req structs.CreateDriver) (structs.Driver, error)
		GetById(ctx context.Context, id string) (structs.Driver, error)
		GetAll(ctx context.Context, req structs.GetListDriverRequest) (structs.GetListDriverResponse, error)
		Patch(ctx context.Context, req structs.PatchDriver) (structs.Driver, error)
		Delete(ctx context.Context, id string) error

		Assign(ctx context.Context, req structs.CreateDriverAssignment) (structs.DriverAssignment, error)
		GetAssignments(ctx context.Context, req structs.GetListAssignmentRequest) (structs.GetListAssignmentResponse, error)
		Unassign(ctx context.Context, id string) error
	}

	service struct {
		logger      logger.Logger
		retrier     authretry.Retrier
		driverRepo  driverRepo.Repo
		bookingRepo bookingRepo.Repo
	}
)

func New(p Params) Service {
	return &service{
		logger:      p.Logger,
		retrier:     p.Retrier,
		driverRepo:  p.DriverRepo,
		bookingRepo: p.BookingRepo,
	}
}

// Login is a fully separate identity from admins and customers: its
// token only ever opens the driver portal. Suspended and inactive
// drivers are told apart from bad credentials on purpose, dispatch asks
// them to call the office.
func (s service) Login(ctx context.Context, req structs.DriverLogin) (structs.DriverAuthResponse, error) {
	if utils.StrEmpty(req.Email) || utils.StrEmpty(req.Password) {
		return structs.DriverAuthResponse{}, structs.ErrBadRequest
	}

	auth, err := s.driverRepo.GetAuthByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.DriverAuthResponse{}, structs.ErrBadRequest
		}
		s.logger.Error(ctx, "->driverRepo.GetAuthByEmail", zap.Error(err))
		return structs.DriverAuthResponse{}, err
	}
	if !utils.CompareInBcrypt(auth.PasswordHash, req.Password) {
		return structs.DriverAuthResponse{}, structs.ErrBadRequest
	}
	if auth.Driver.Status != structs.DriverStatusActive {
		return structs.DriverAuthResponse{}, structs.ErrDriverInactive
	}

	token, err := utils.GenerateJWT(auth.Driver.Id, "driver", utils.ScopeDriver)
	if err != nil {
		s.logger.Error(ctx, "->utils.GenerateJWT", zap.Error(err))
		return structs.DriverAuthResponse{}, err
	}

	return structs.DriverAuthResponse{
		Token:  token,
		Driver: auth.Driver,
	}, nil
}

func (s service) GetManifest(ctx context.Context, driverId, serviceDate string) (Manifest, error) {
	if utils.StrEmpty(serviceDate) {
		return Manifest{}, structs.ErrBadRequest
	}

	assignments, err := s.driverRepo.GetAssignments(ctx, structs.GetListAssignmentRequest{
		DriverId: driverId,
		DateFrom: serviceDate,
		DateTo:   serviceDate,
	})
	if err != nil {
		s.logger.Error(ctx, "->driverRepo.GetAssignments", zap.Error(err))
		return Manifest{}, err
	}

	manifest := Manifest{ServiceDate: serviceDate}
	for _, a := range assignments.Assignments {
		bookings, err := s.bookingRepo.GetAll(ctx, structs.GetListBookingRequest{
			Status:   structs.BookingStatusUpcoming,
			DateFrom: serviceDate,
			DateTo:   serviceDate,
			Limit:    500,
		})
		if err != nil {
			s.logger.Error(ctx, "->bookingRepo.GetAll", zap.Error(err))
			return Manifest{}, err
		}

		entry := ManifestEntry{Assignment: a}
		for _, b := range bookings.Bookings {
			if b.RouteId == a.RouteId {
				entry.Bookings = append(entry.Bookings, b)
			}
		}
		manifest.Assignments = append(manifest.Assignments, entry)
	}

	return manifest, nil
}

func (s service) Create(ctx context.Context, req structs.CreateDriver) (structs.Driver, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Driver{}, structs.ErrAccessDenied
	}
	if utils.StrEmpty(req.Email) || utils.StrEmpty(req.Password) || utils.StrEmpty(req.BranchId) {
		return structs.Driver{}, structs.ErrBadRequest
	}
	if !sc.Allows(req.BranchId) {
		return structs.Driver{}, structs.ErrAccessDenied
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.logger.Error(ctx, "->utils.HashPassword", zap.Error(err))
		return structs.Driver{}, err
	}

	var d structs.Driver
	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		d, repoErr = s.driverRepo.Create(ctx, req, hash)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) || errors.Is(err, structs.ErrNotFound) {
			return structs.Driver{}, err
		}
		s.logger.Error(ctx, "->driverRepo.Create", zap.Error(err))
		return structs.Driver{}, err
	}
	return d, nil
}

func (s service) GetById(ctx context.Context, id string) (structs.Driver, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Driver{}, structs.ErrAccessDenied
	}

	d, err := s.driverRepo.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Driver{}, err
		}
		s.logger.Error(ctx, "->driverRepo.GetById", zap.Error(err))
		return structs.Driver{}, err
	}
	if !sc.Allows(d.BranchId) {
		return structs.Driver{}, structs.ErrNotFound
	}
	return d, nil
}

func (s service) GetAll(ctx context.Context, req structs.GetListDriverRequest) (structs.GetListDriverResponse, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.GetListDriverResponse{}, structs.ErrAccessDenied
	}
	if sc.BranchId != nil {
		req.BranchId = sc.BranchId
	}

	var resp structs.GetListDriverResponse
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		resp, repoErr = s.driverRepo.GetAll(ctx, req)
		return repoErr
	})
	if err != nil {
		s.logger.Error(ctx, "->driverRepo.GetAll", zap.Error(err))
		return structs.GetListDriverResponse{}, err
	}
	return resp, nil
}

func (s service) Patch(ctx context.Context, req structs.PatchDriver) (structs.Driver, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Driver{}, structs.ErrAccessDenied
	}

	current, err := s.driverRepo.GetById(ctx, req.Id)
	if err != nil {
		return structs.Driver{}, err
	}
	if !sc.Allows(current.BranchId) {
		return structs.Driver{}, structs.ErrNotFound
	}
	if req.Status != nil {
		switch *req.Status {
		case structs.DriverStatusActive, structs.DriverStatusInactive, structs.DriverStatusSuspended:
		default:
			return structs.Driver{}, structs.ErrBadRequest
		}
	}
	// moving a driver to another branch is a superadmin call
	if req.BranchId != nil && !sc.IsSuperadmin() {
		return structs.Driver{}, structs.ErrSuperadminRequired
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		_, repoErr := s.driverRepo.Patch(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) || errors.Is(err, structs.ErrUniqueViolation) {
			return structs.Driver{}, err
		}
		s.logger.Error(ctx, "->driverRepo.Patch", zap.Error(err))
		return structs.Driver{}, err
	}

	return s.driverRepo.GetById(ctx, req.Id)
}

func (s service) Delete(ctx context.Context, id string) error {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ErrAccessDenied
	}

	current, err := s.driverRepo.GetById(ctx, id)
	if err != nil {
		return err
	}
	if !sc.Allows(current.BranchId) {
		return structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		return s.driverRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, structs.ErrForeignKeyInUse) {
			return err
		}
		s.logger.Error(ctx, "->driverRepo.Delete", zap.Error(err))
		return err
	}
	return nil
}

func (s service) Assign(ctx context.Context, req structs.CreateDriverAssignment) (structs.DriverAssignment, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.DriverAssignment{}, structs.ErrAccessDenied
	}
	if utils.StrEmpty(req.DriverId) || utils.StrEmpty(req.RouteId) || utils.StrEmpty(req.BusId) || utils.StrEmpty(req.ServiceDate) {
		return structs.DriverAssignment{}, structs.ErrBadRequest
	}

	d, err := s.driverRepo.GetById(ctx, req.DriverId)
	if err != nil {
		return structs.DriverAssignment{}, err
	}
	if !sc.Allows(d.BranchId) {
		return structs.DriverAssignment{}, structs.ErrNotFound
	}
	if d.Status != structs.DriverStatusActive {
		return structs.DriverAssignment{}, structs.ErrDriverInactive
	}

	var a structs.DriverAssignment
	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		a, repoErr = s.driverRepo.CreateAssignment(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) || errors.Is(err, structs.ErrNotFound) {
			return structs.DriverAssignment{}, err
		}
		s.logger.Error(ctx, "->driverRepo.CreateAssignment", zap.Error(err))
		return structs.DriverAssignment{}, err
	}
	return a, nil
}

func (s service) GetAssignments(ctx context.Context, req structs.GetListAssignmentRequest) (structs.GetListAssignmentResponse, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.GetListAssignmentResponse{}, structs.ErrAccessDenied
	}
	if sc.BranchId != nil {
		req.BranchId = sc.BranchId
	}

	resp, err := s.driverRepo.GetAssignments(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->driverRepo.GetAssignments", zap.Error(err))
		return structs.GetListAssignmentResponse{}, err
	}
	return resp, nil
}

func (s service) Unassign(ctx context.Context, id string) error {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ErrAccessDenied
	}

	a, err := s.driverRepo.GetAssignmentById(ctx, id)
	if err != nil {
		return err
	}
	d, err := s.driverRepo.GetById(ctx, a.DriverId)
	if err != nil {
		return err
	}
	if !sc.Allows(d.BranchId) {
		return structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		return s.driverRepo.DeleteAssignment(ctx, id)
	})
	if err != nil {
		s.logger.Error(ctx, "->driverRepo.DeleteAssignment", zap.Error(err))
		return err
	}
	return nil
}
