package catalog

import (
	"context"
	"errors"

	"routeaura/internal/control/authretry"
	"routeaura/internal/control/scope"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	fleetRepo "routeaura/pkg/repository/postgres/fleet_repo"
	locationRepo "routeaura/pkg/repository/postgres/location_repo"
	routeRepo "routeaura/pkg/repository/postgres/route_repo"
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
		Logger       logger.Logger
		Retrier      authretry.Retrier
		LocationRepo locationRepo.Repo
		RouteRepo    routeRepo.Repo
		FleetRepo    fleetRepo.Repo
	}

	// Service covers the travel catalog: locations, routes and the bus
	// fleet. Public listings see only active entries, the admin side is
	// branch scoped.
	Service interface {
		GetLocations(ctx context.Context, req structs.GetListLocationRequest) (structs.GetListLocationResponse, error)
		CreateLocation(ctx context.Context, req structs.CreateLocation) (structs.Location, error)
		PatchLocation(ctx context.Context, req structs.PatchLocation) (structs.Location, error)
		DeleteLocation(ctx context.Context, id string) error

		GetRoutes(ctx context.Context, req structs.GetListRouteRequest) (structs.GetListRouteResponse, error)
		GetRouteById(ctx context.Context, id string) (structs.Route, error)
		CreateRoute(ctx context.Context, req structs.CreateRoute) (structs.Route, error)
		PatchRoute(ctx context.Context, req structs.PatchRoute) (structs.Route, error)
		DeleteRoute(ctx context.Context, id string) error

		GetBuses(ctx context.Context, req structs.GetListBusRequest) (structs.GetListBusResponse, error)
		CreateBus(ctx context.Context, req structs.CreateBus) (structs.Bus, error)
		PatchBus(ctx context.Context, req structs.PatchBus) (structs.Bus, error)
		DeleteBus(ctx context.Context, id string) error
	}

	service struct {
		logger       logger.Logger
		retrier      authretry.Retrier
		locationRepo locationRepo.Repo
		routeRepo    routeRepo.Repo
		fleetRepo    fleetRepo.Repo
	}
)

func New(p Params) Service {
	return &service{
		logger:       p.Logger,
		retrier:      p.Retrier,
		locationRepo: p.LocationRepo,
		routeRepo:    p.RouteRepo,
		fleetRepo:    p.FleetRepo,
	}
}

// adminScope narrows a list request's branch filter to what the caller
// may see. Public requests pass through untouched.
func adminScope(ctx context.Context, branchId **string) (scope.Scope, bool) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return scope.Scope{}, false
	}
	if sc.BranchId != nil {
		*branchId = sc.BranchId
	}
	return sc, true
}

func (s service) GetLocations(ctx context.Context, req structs.GetListLocationRequest) (structs.GetListLocationResponse, error) {
	adminScope(ctx, &req.BranchId)

	resp, err := s.locationRepo.GetAll(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->locationRepo.GetAll", zap.Error(err))
		return structs.GetListLocationResponse{}, err
	}
	return resp, nil
}

func (s service) CreateLocation(ctx context.Context, req structs.CreateLocation) (structs.Location, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Location{}, structs.ErrAccessDenied
	}
	if utils.StrEmpty(req.Name) || utils.StrEmpty(req.BranchId) {
		return structs.Location{}, structs.ErrBadRequest
	}
	if !sc.Allows(req.BranchId) {
		return structs.Location{}, structs.ErrAccessDenied
	}

	var loc structs.Location
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		loc, repoErr = s.locationRepo.Create(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) || errors.Is(err, structs.ErrNotFound) {
			return structs.Location{}, err
		}
		s.logger.Error(ctx, "->locationRepo.Create", zap.Error(err))
		return structs.Location{}, err
	}
	return loc, nil
}

func (s service) PatchLocation(ctx context.Context, req structs.PatchLocation) (structs.Location, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Location{}, structs.ErrAccessDenied
	}

	current, err := s.locationRepo.GetById(ctx, req.Id)
	if err != nil {
		return structs.Location{}, err
	}
	if !sc.Allows(current.BranchId) {
		return structs.Location{}, structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		_, repoErr := s.locationRepo.Patch(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			return structs.Location{}, err
		}
		s.logger.Error(ctx, "->locationRepo.Patch", zap.Error(err))
		return structs.Location{}, err
	}

	return s.locationRepo.GetById(ctx, req.Id)
}

func (s service) DeleteLocation(ctx context.Context, id string) error {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ErrAccessDenied
	}

	current, err := s.locationRepo.GetById(ctx, id)
	if err != nil {
		return err
	}
	if !sc.Allows(current.BranchId) {
		return structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		return s.locationRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, structs.ErrForeignKeyInUse) {
			return err
		}
		s.logger.Error(ctx, "->locationRepo.Delete", zap.Error(err))
		return err
	}
	return nil
}

func (s service) GetRoutes(ctx context.Context, req structs.GetListRouteRequest) (structs.GetListRouteResponse, error) {
	adminScope(ctx, &req.BranchId)

	resp, err := s.routeRepo.GetAll(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->routeRepo.GetAll", zap.Error(err))
		return structs.GetListRouteResponse{}, err
	}
	return resp, nil
}

func (s service) GetRouteById(ctx context.Context, id string) (structs.Route, error) {
	route, err := s.routeRepo.GetById(ctx, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Route{}, err
		}
		s.logger.Error(ctx, "->routeRepo.GetById", zap.Error(err))
		return structs.Route{}, err
	}
	return route, nil
}

func (s service) CreateRoute(ctx context.Context, req structs.CreateRoute) (structs.Route, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Route{}, structs.ErrAccessDenied
	}
	if utils.StrEmpty(req.FromLocationId) || utils.StrEmpty(req.ToLocationId) || req.FromLocationId == req.ToLocationId {
		return structs.Route{}, structs.ErrBadRequest
	}
	if req.Price <= 0 {
		return structs.Route{}, structs.ErrBadRequest
	}
	if !sc.Allows(req.BranchId) {
		return structs.Route{}, structs.ErrAccessDenied
	}

	var route structs.Route
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		route, repoErr = s.routeRepo.Create(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			return structs.Route{}, err
		}
		s.logger.Error(ctx, "->routeRepo.Create", zap.Error(err))
		return structs.Route{}, err
	}
	return route, nil
}

func (s service) PatchRoute(ctx context.Context, req structs.PatchRoute) (structs.Route, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Route{}, structs.ErrAccessDenied
	}

	current, err := s.routeRepo.GetById(ctx, req.Id)
	if err != nil {
		return structs.Route{}, err
	}
	if !sc.Allows(current.BranchId) {
		return structs.Route{}, structs.ErrNotFound
	}
	if req.Price != nil && *req.Price <= 0 {
		return structs.Route{}, structs.ErrBadRequest
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		_, repoErr := s.routeRepo.Patch(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			return structs.Route{}, err
		}
		s.logger.Error(ctx, "->routeRepo.Patch", zap.Error(err))
		return structs.Route{}, err
	}

	return s.routeRepo.GetById(ctx, req.Id)
}

func (s service) DeleteRoute(ctx context.Context, id string) error {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ErrAccessDenied
	}

	current, err := s.routeRepo.GetById(ctx, id)
	if err != nil {
		return err
	}
	if !sc.Allows(current.BranchId) {
		return structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		return s.routeRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, structs.ErrForeignKeyInUse) {
			return err
		}
		s.logger.Error(ctx, "->routeRepo.Delete", zap.Error(err))
		return err
	}
	return nil
}

func (s service) GetBuses(ctx context.Context, req structs.GetListBusRequest) (structs.GetListBusResponse, error) {
	if _, ok := adminScope(ctx, &req.BranchId); !ok {
		return structs.GetListBusResponse{}, structs.ErrAccessDenied
	}

	resp, err := s.fleetRepo.GetAll(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "->fleetRepo.GetAll", zap.Error(err))
		return structs.GetListBusResponse{}, err
	}
	return resp, nil
}

func (s service) CreateBus(ctx context.Context, req structs.CreateBus) (structs.Bus, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Bus{}, structs.ErrAccessDenied
	}
	if utils.StrEmpty(req.PlateNumber) || req.Capacity <= 0 {
		return structs.Bus{}, structs.ErrBadRequest
	}
	if !sc.Allows(req.BranchId) {
		return structs.Bus{}, structs.ErrAccessDenied
	}

	var bus structs.Bus
	err := s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		var repoErr error
		bus, repoErr = s.fleetRepo.Create(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) || errors.Is(err, structs.ErrNotFound) {
			return structs.Bus{}, err
		}
		s.logger.Error(ctx, "->fleetRepo.Create", zap.Error(err))
		return structs.Bus{}, err
	}
	return bus, nil
}

func (s service) PatchBus(ctx context.Context, req structs.PatchBus) (structs.Bus, error) {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.Bus{}, structs.ErrAccessDenied
	}

	current, err := s.fleetRepo.GetById(ctx, req.Id)
	if err != nil {
		return structs.Bus{}, err
	}
	if !sc.Allows(current.BranchId) {
		return structs.Bus{}, structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		_, repoErr := s.fleetRepo.Patch(ctx, req)
		return repoErr
	})
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) || errors.Is(err, structs.ErrUniqueViolation) {
			return structs.Bus{}, err
		}
		s.logger.Error(ctx, "->fleetRepo.Patch", zap.Error(err))
		return structs.Bus{}, err
	}

	return s.fleetRepo.GetById(ctx, req.Id)
}

func (s service) DeleteBus(ctx context.Context, id string) error {
	sc, ok := scope.FromContext(ctx)
	if !ok {
		return structs.ErrAccessDenied
	}

	current, err := s.fleetRepo.GetById(ctx, id)
	if err != nil {
		return err
	}
	if !sc.Allows(current.BranchId) {
		return structs.ErrNotFound
	}

	err = s.retrier.Do(ctx, sc.AdminId, func(ctx context.Context) error {
		return s.fleetRepo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, structs.ErrForeignKeyInUse) {
			return err
		}
		s.logger.Error(ctx, "->fleetRepo.Delete", zap.Error(err))
		return err
	}
	return nil
}
