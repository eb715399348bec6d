package pkg

import (
	"go.uber.org/fx"

	"routeaura/pkg/cache"
	"routeaura/pkg/config"
	"routeaura/pkg/db"
	"routeaura/pkg/filemanager"
	"routeaura/pkg/logger"
	"routeaura/pkg/metrics"
	"routeaura/pkg/migration"
	"routeaura/pkg/notify"
	"routeaura/pkg/redis"
	"routeaura/pkg/reply"
	"routeaura/pkg/repository"
)

var Module = fx.Options(
	config.Module,
	logger.Module,
	migration.Module,
	repository.Module,
	db.Module,
	cache.Module,
	reply.Module,
	metrics.Module,
	filemanager.Module,
	notify.Module,
	redis.Module,
)
