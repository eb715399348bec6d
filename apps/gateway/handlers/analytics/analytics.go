package analytics

import (
	"errors"
	"net/http"

	"routeaura/internal/analytics"
	"routeaura/internal/responses"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	"routeaura/pkg/reply"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		GetDashboard(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger           logger.Logger
		AnalyticsService analytics.Service
	}

	handler struct {
		logger           logger.Logger
		analyticsService analytics.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:           p.Logger,
		analyticsService: p.AnalyticsService,
	}
}

func (h *handler) GetDashboard(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	stats, err := h.analyticsService.GetAdminAnalytics(c)
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		if errors.Is(err, structs.ErrSessionExpired) {
			response = responses.SessionExpired
			return
		}
		h.logger.Error(ctx, " err on h.analyticsService.GetAdminAnalytics", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = stats
}
