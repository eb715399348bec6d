package postgres

import (
	adminRepo "routeaura/pkg/repository/postgres/admin_repo"
	analyticsRepo "routeaura/pkg/repository/postgres/analytics_repo"
	bookingRepo "routeaura/pkg/repository/postgres/booking_repo"
	branchRepo "routeaura/pkg/repository/postgres/branch_repo"
	contentRepo "routeaura/pkg/repository/postgres/content_repo"
	driverRepo "routeaura/pkg/repository/postgres/driver_repo"
	fleetRepo "routeaura/pkg/repository/postgres/fleet_repo"
	locationRepo "routeaura/pkg/repository/postgres/location_repo"
	receiptRepo "routeaura/pkg/repository/postgres/receipt_repo"
	routeRepo "routeaura/pkg/repository/postgres/route_repo"
	usersRepo "routeaura/pkg/repository/postgres/users_repo"

	"go.uber.org/fx"
)

var Module = fx.Options(
	adminRepo.Module,
	branchRepo.Module,
	bookingRepo.Module,
	usersRepo.Module,
	driverRepo.Module,
	locationRepo.Module,
	routeRepo.Module,
	fleetRepo.Module,
	receiptRepo.Module,
	contentRepo.Module,
	analyticsRepo.Module,
)
