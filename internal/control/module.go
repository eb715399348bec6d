package control

import (
	"go.uber.org/fx"

	"routeaura/internal/control/auth"
	"routeaura/internal/control/authretry"
	"routeaura/internal/control/session"
)

var Module = fx.Options(
	session.Module,
	authretry.Module,
	auth.Module,
)
