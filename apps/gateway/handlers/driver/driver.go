package driver

import (
	"errors"
	"net/http"
	"time"

	"routeaura/apps/gateway/handlers/middleware"
	"routeaura/internal/driver"
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
		// driver portal
		Login(c *gin.Context)
		GetManifest(c *gin.Context)

		// admin management
		CreateDriver(c *gin.Context)
		GetListDriver(c *gin.Context)
		GetByIdDriver(c *gin.Context)
		PatchDriver(c *gin.Context)
		DeleteDriver(c *gin.Context)
		CreateAssignment(c *gin.Context)
		GetListAssignment(c *gin.Context)
		DeleteAssignment(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger        logger.Logger
		DriverService driver.Service
	}

	handler struct {
		logger        logger.Logger
		driverService driver.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:        p.Logger,
		driverService: p.DriverService,
	}
}

func (h *handler) Login(c *gin.Context) {
	var (
		response structs.Response
		request  structs.DriverLogin
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	resp, err := h.driverService.Login(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.Unauthorized
			return
		}
		if errors.Is(err, structs.ErrDriverInactive) {
			response = responses.WithMessage(responses.Forbidden, "driver account is not active, contact dispatch")
			return
		}
		h.logger.Error(ctx, " err on h.driverService.Login", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = resp
}

func (h *handler) GetManifest(c *gin.Context) {
	var (
		response    structs.Response
		driverId    = c.GetString(middleware.KeyDriverId)
		serviceDate = c.Query("date")
		ctx         = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if utils.StrEmpty(serviceDate) {
		serviceDate = time.Now().Format("2006-01-02")
	}

	manifest, err := h.driverService.GetManifest(c, driverId, serviceDate)
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		h.logger.Error(ctx, " err on h.driverService.GetManifest", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = manifest
}

func (h *handler) CreateDriver(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateDriver
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	d, err := h.driverService.Create(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) {
			response = responses.Conflict
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.driverService.Create", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = d
}

func (h *handler) GetListDriver(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		filter   = structs.GetListDriverRequest{
			Offset: cast.ToInt64(c.Query("offset")),
			Limit:  cast.ToInt64(c.Query("limit")),
			Search: c.Query("search"),
		}
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.driverService.GetAll(c, filter)
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.driverService.GetAll", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetByIdDriver(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	d, err := h.driverService.GetById(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.driverService.GetById", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = d
}

func (h *handler) PatchDriver(c *gin.Context) {
	var (
		response structs.Response
		request  structs.PatchDriver
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	request.Id = c.Param("id")

	d, err := h.driverService.Patch(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		if errors.Is(err, structs.ErrUniqueViolation) {
			response = responses.Conflict
			return
		}
		h.logger.Error(ctx, " err on h.driverService.Patch", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = d
}

func (h *handler) DeleteDriver(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.driverService.Delete(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrForeignKeyInUse) {
			response = responses.WithMessage(responses.Conflict, "driver still has assignments")
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.driverService.Delete", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}

func (h *handler) CreateAssignment(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateDriverAssignment
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	a, err := h.driverService.Assign(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrDriverInactive) {
			response = responses.WithMessage(responses.BadRequest, "driver account is not active")
			return
		}
		if errors.Is(err, structs.ErrUniqueViolation) {
			response = responses.WithMessage(responses.Conflict, "driver already assigned for this date and shift")
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.driverService.Assign", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = a
}

func (h *handler) GetListAssignment(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		filter   = structs.GetListAssignmentRequest{
			Offset:   cast.ToInt64(c.Query("offset")),
			Limit:    cast.ToInt64(c.Query("limit")),
			DriverId: c.Query("driver_id"),
			DateFrom: c.Query("date_from"),
			DateTo:   c.Query("date_to"),
		}
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.driverService.GetAssignments(c, filter)
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.driverService.GetAssignments", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) DeleteAssignment(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.driverService.Unassign(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.driverService.Unassign", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}
