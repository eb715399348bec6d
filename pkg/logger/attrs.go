package logger

import (
	"context"

	"go.uber.org/zap"
)

const (
	logIDKey    = "log_id"
	durationKey = "duration"
	requestKey  = "request_id"
	serviceKey  = "service"

	serviceName = "routeaura"
)

func getAttrs(ctx context.Context) []zap.Field {
	lgCtx, _ := ctx.Value(&logCtx).(*logContext)
	if lgCtx == nil {
		return nil
	}

	return lgCtx.ToFields()
}
