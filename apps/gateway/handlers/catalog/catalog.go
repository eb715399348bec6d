package catalog

import (
	"errors"
	"net/http"

	"routeaura/internal/catalog"
	"routeaura/internal/responses"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	"routeaura/pkg/reply"
	"routeaura/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(New)
)

type (
	Handler interface {
		GetListLocation(c *gin.Context)
		CreateLocation(c *gin.Context)
		PatchLocation(c *gin.Context)
		DeleteLocation(c *gin.Context)

		GetListRoute(c *gin.Context)
		GetByIdRoute(c *gin.Context)
		CreateRoute(c *gin.Context)
		PatchRoute(c *gin.Context)
		DeleteRoute(c *gin.Context)

		GetListBus(c *gin.Context)
		CreateBus(c *gin.Context)
		PatchBus(c *gin.Context)
		DeleteBus(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger         logger.Logger
		CatalogService catalog.Service
	}

	handler struct {
		logger         logger.Logger
		catalogService catalog.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:         p.Logger,
		catalogService: p.CatalogService,
	}
}

// classify maps service errors onto the response envelope so the
// thirteen endpoints below stay small.
func classify(err error) (structs.Response, bool) {
	switch {
	case err == nil:
		return structs.Response{}, false
	case errors.Is(err, structs.ErrNotFound):
		return responses.NotFound, true
	case errors.Is(err, structs.ErrBadRequest):
		return responses.BadRequest, true
	case errors.Is(err, structs.ErrUniqueViolation):
		return responses.Conflict, true
	case errors.Is(err, structs.ErrForeignKeyInUse):
		return responses.WithMessage(responses.Conflict, "record is still referenced"), true
	case errors.Is(err, structs.ErrSuperadminRequired), errors.Is(err, structs.ErrAccessDenied):
		return responses.Forbidden, true
	default:
		return responses.InternalErr, true
	}
}

func (h *handler) GetListLocation(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		filter   = structs.GetListLocationRequest{
			Offset: cast.ToInt64(c.Query("offset")),
			Limit:  cast.ToInt64(c.Query("limit")),
			Search: c.Query("search"),
		}
	)
	if branchId := c.Query("branch_id"); !utils.StrEmpty(branchId) {
		filter.BranchId = &branchId
	}

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.catalogService.GetLocations(c, filter)
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.GetLocations", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) CreateLocation(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateLocation
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	loc, err := h.catalogService.CreateLocation(c, request)
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.CreateLocation", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = loc
}

func (h *handler) PatchLocation(c *gin.Context) {
	var (
		response structs.Response
		request  structs.PatchLocation
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	request.Id = c.Param("id")

	loc, err := h.catalogService.PatchLocation(c, request)
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.PatchLocation", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = loc
}

func (h *handler) DeleteLocation(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.catalogService.DeleteLocation(c, c.Param("id"))
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.DeleteLocation", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
}

func (h *handler) GetListRoute(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		filter   = structs.GetListRouteRequest{
			Offset: cast.ToInt64(c.Query("offset")),
			Limit:  cast.ToInt64(c.Query("limit")),
			Search: c.Query("search"),
		}
	)
	if branchId := c.Query("branch_id"); !utils.StrEmpty(branchId) {
		filter.BranchId = &branchId
	}

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.catalogService.GetRoutes(c, filter)
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.GetRoutes", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetByIdRoute(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	route, err := h.catalogService.GetRouteById(c, c.Param("id"))
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.GetRouteById", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = route
}

func (h *handler) CreateRoute(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateRoute
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	route, err := h.catalogService.CreateRoute(c, request)
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.CreateRoute", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = route
}

func (h *handler) PatchRoute(c *gin.Context) {
	var (
		response structs.Response
		request  structs.PatchRoute
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	request.Id = c.Param("id")

	route, err := h.catalogService.PatchRoute(c, request)
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.PatchRoute", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = route
}

func (h *handler) DeleteRoute(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.catalogService.DeleteRoute(c, c.Param("id"))
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.DeleteRoute", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
}

func (h *handler) GetListBus(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		filter   = structs.GetListBusRequest{
			Offset: cast.ToInt64(c.Query("offset")),
			Limit:  cast.ToInt64(c.Query("limit")),
			Search: c.Query("search"),
		}
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.catalogService.GetBuses(c, filter)
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.GetBuses", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) CreateBus(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateBus
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	bus, err := h.catalogService.CreateBus(c, request)
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.CreateBus", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = bus
}

func (h *handler) PatchBus(c *gin.Context) {
	var (
		response structs.Response
		request  structs.PatchBus
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	request.Id = c.Param("id")

	bus, err := h.catalogService.PatchBus(c, request)
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.PatchBus", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
	response.Payload = bus
}

func (h *handler) DeleteBus(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.catalogService.DeleteBus(c, c.Param("id"))
	if resp, bad := classify(err); bad {
		if resp.Code == responses.InternalErrCode {
			h.logger.Error(ctx, " err on h.catalogService.DeleteBus", zap.Error(err))
		}
		response = resp
		return
	}

	response = responses.Success
}
