package branch

import (
	"errors"
	"net/http"

	"routeaura/internal/branch"
	"routeaura/internal/responses"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	"routeaura/pkg/reply"

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
		CreateBranch(c *gin.Context)
		GetListBranch(c *gin.Context)
		GetByIdBranch(c *gin.Context)
		PatchBranch(c *gin.Context)
		DeleteBranch(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger        logger.Logger
		BranchService branch.Service
	}

	handler struct {
		logger        logger.Logger
		branchService branch.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:        p.Logger,
		branchService: p.BranchService,
	}
}

func (h *handler) CreateBranch(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateBranch
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	b, err := h.branchService.Create(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		if errors.Is(err, structs.ErrUniqueViolation) {
			response = responses.Conflict
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		h.logger.Error(ctx, " err on h.branchService.Create", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = b
}

func (h *handler) GetListBranch(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		filter   = structs.GetListBranchRequest{
			Offset: cast.ToInt64(c.Query("offset")),
			Limit:  cast.ToInt64(c.Query("limit")),
			Search: c.Query("search"),
		}
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.branchService.GetAll(c, filter)
	if err != nil {
		h.logger.Error(ctx, " err on h.branchService.GetAll", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetByIdBranch(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	b, err := h.branchService.GetById(c, id)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.branchService.GetById", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = b
}

func (h *handler) PatchBranch(c *gin.Context) {
	var (
		response structs.Response
		request  structs.PatchBranch
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	request.Id = c.Param("id")

	b, err := h.branchService.Patch(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		h.logger.Error(ctx, " err on h.branchService.Patch", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = b
}

func (h *handler) DeleteBranch(c *gin.Context) {
	var (
		response structs.Response
		id       = c.Param("id")
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.branchService.Delete(c, id)
	if err != nil {
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		if errors.Is(err, structs.ErrForeignKeyInUse) {
			response = responses.WithMessage(responses.Conflict, "branch still has records attached")
			return
		}
		h.logger.Error(ctx, " err on h.branchService.Delete", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}
