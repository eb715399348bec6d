package repository

import (
	"go.uber.org/fx"

	"routeaura/pkg/repository/postgres"
)

var Module = fx.Options(
	postgres.Module,
)
