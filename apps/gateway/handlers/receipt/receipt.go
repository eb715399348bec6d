package receipt

import (
	"errors"
	"net/http"

	"routeaura/apps/gateway/handlers/middleware"
	"routeaura/internal/receipt"
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
		Verify(c *gin.Context)
		GetMyReceipt(c *gin.Context)
		GetListAdmin(c *gin.Context)
		GetDetailsAdmin(c *gin.Context)

		CreateTemplate(c *gin.Context)
		GetListTemplate(c *gin.Context)
		PatchTemplate(c *gin.Context)
		DeleteTemplate(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger         logger.Logger
		ReceiptService receipt.Service
	}

	handler struct {
		logger         logger.Logger
		receiptService receipt.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:         p.Logger,
		receiptService: p.ReceiptService,
	}
}

// Verify is the public page behind the QR code: anyone holding the
// reference can confirm the receipt is real.
func (h *handler) Verify(c *gin.Context) {
	var (
		response  structs.Response
		reference = c.Param("reference")
		ctx       = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	details, err := h.receiptService.Details(c, reference)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		h.logger.Error(ctx, " err on h.receiptService.Details", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = details
}

func (h *handler) GetMyReceipt(c *gin.Context) {
	var (
		response  structs.Response
		userId    = c.GetString(middleware.KeyUserId)
		reference = c.Param("reference")
		ctx       = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	details, err := h.receiptService.DetailsForUser(c, userId, reference)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		h.logger.Error(ctx, " err on h.receiptService.DetailsForUser", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = details
}

func (h *handler) GetListAdmin(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		filter   = structs.GetListReceiptRequest{
			Offset: cast.ToInt64(c.Query("offset")),
			Limit:  cast.ToInt64(c.Query("limit")),
			Search: c.Query("search"),
		}
	)
	if branchId := c.Query("branch_id"); !utils.StrEmpty(branchId) {
		filter.BranchId = &branchId
	}

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.receiptService.GetAllAdmin(c, filter)
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.receiptService.GetAllAdmin", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetDetailsAdmin(c *gin.Context) {
	var (
		response  structs.Response
		reference = c.Param("reference")
		ctx       = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	details, err := h.receiptService.Details(c, reference)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.receiptService.Details", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = details
}

func (h *handler) CreateTemplate(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateReceiptTemplate
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	template, err := h.receiptService.CreateTemplate(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.receiptService.CreateTemplate", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = template
}

func (h *handler) GetListTemplate(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	templates, err := h.receiptService.GetTemplates(c)
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.receiptService.GetTemplates", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = templates
}

func (h *handler) PatchTemplate(c *gin.Context) {
	var (
		response structs.Response
		request  structs.PatchReceiptTemplate
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	request.Id = c.Param("id")

	template, err := h.receiptService.PatchTemplate(c, request)
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
		h.logger.Error(ctx, " err on h.receiptService.PatchTemplate", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = template
}

func (h *handler) DeleteTemplate(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.receiptService.DeleteTemplate(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		if errors.Is(err, structs.ErrForeignKeyInUse) {
			response = responses.WithMessage(responses.Conflict, "template is used by receipts")
			return
		}
		h.logger.Error(ctx, " err on h.receiptService.DeleteTemplate", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}
