package internal

import (
	"routeaura/internal/analytics"
	"routeaura/internal/booking"
	"routeaura/internal/branch"
	"routeaura/internal/catalog"
	"routeaura/internal/content"
	"routeaura/internal/control"
	"routeaura/internal/driver"
	"routeaura/internal/export"
	"routeaura/internal/gallery"
	"routeaura/internal/receipt"
	"routeaura/internal/users"

	"go.uber.org/fx"
)

var Module = fx.Options(
	control.Module,
	booking.Module,
	branch.Module,
	catalog.Module,
	driver.Module,
	users.Module,
	receipt.Module,
	content.Module,
	analytics.Module,
	export.Module,
	gallery.Module,
)
