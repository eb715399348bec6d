package handlers

import (
	"routeaura/apps/gateway/handlers/adminauth"
	"routeaura/apps/gateway/handlers/analytics"
	"routeaura/apps/gateway/handlers/booking"
	"routeaura/apps/gateway/handlers/branch"
	"routeaura/apps/gateway/handlers/catalog"
	"routeaura/apps/gateway/handlers/content"
	"routeaura/apps/gateway/handlers/driver"
	"routeaura/apps/gateway/handlers/gallery"
	"routeaura/apps/gateway/handlers/middleware"
	"routeaura/apps/gateway/handlers/receipt"
	"routeaura/apps/gateway/handlers/users"

	"go.uber.org/fx"
)

var Module = fx.Options(
	middleware.Module,
	adminauth.Module,
	users.Module,
	branch.Module,
	catalog.Module,
	booking.Module,
	driver.Module,
	receipt.Module,
	content.Module,
	analytics.Module,
	gallery.Module,
)
