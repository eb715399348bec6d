package content

import (
	"errors"
	"net/http"

	"routeaura/internal/content"
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
		GetFAQs(c *gin.Context)
		GetFAQsAdmin(c *gin.Context)
		CreateFAQ(c *gin.Context)
		PatchFAQ(c *gin.Context)
		DeleteFAQ(c *gin.Context)

		GetReviews(c *gin.Context)
		GetReviewsAdmin(c *gin.Context)
		SubmitReview(c *gin.Context)
		ApproveReview(c *gin.Context)
		DeleteReview(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger         logger.Logger
		ContentService content.Service
	}

	handler struct {
		logger         logger.Logger
		contentService content.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:         p.Logger,
		contentService: p.ContentService,
	}
}

func faqFilter(c *gin.Context) structs.GetListFAQRequest {
	filter := structs.GetListFAQRequest{
		Offset:   cast.ToInt64(c.Query("offset")),
		Limit:    cast.ToInt64(c.Query("limit")),
		Category: c.Query("category"),
	}
	if branchId := c.Query("branch_id"); !utils.StrEmpty(branchId) {
		filter.BranchId = &branchId
	}
	return filter
}

func reviewFilter(c *gin.Context) structs.GetListReviewRequest {
	filter := structs.GetListReviewRequest{
		Offset: cast.ToInt64(c.Query("offset")),
		Limit:  cast.ToInt64(c.Query("limit")),
	}
	if branchId := c.Query("branch_id"); !utils.StrEmpty(branchId) {
		filter.BranchId = &branchId
	}
	return filter
}

func (h *handler) GetFAQs(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.contentService.GetFAQs(c, faqFilter(c))
	if err != nil {
		h.logger.Error(ctx, " err on h.contentService.GetFAQs", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetFAQsAdmin(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.contentService.GetFAQsAdmin(c, faqFilter(c))
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.contentService.GetFAQsAdmin", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) CreateFAQ(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateFAQ
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	faq, err := h.contentService.CreateFAQ(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.contentService.CreateFAQ", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = faq
}

func (h *handler) PatchFAQ(c *gin.Context) {
	var (
		response structs.Response
		request  structs.PatchFAQ
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}
	request.Id = c.Param("id")

	faq, err := h.contentService.PatchFAQ(c, request)
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
		h.logger.Error(ctx, " err on h.contentService.PatchFAQ", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = faq
}

func (h *handler) DeleteFAQ(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.contentService.DeleteFAQ(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.contentService.DeleteFAQ", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}

func (h *handler) GetReviews(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.contentService.GetReviews(c, reviewFilter(c))
	if err != nil {
		h.logger.Error(ctx, " err on h.contentService.GetReviews", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) GetReviewsAdmin(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.contentService.GetReviewsAdmin(c, reviewFilter(c))
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.contentService.GetReviewsAdmin", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}

func (h *handler) SubmitReview(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateReview
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	review, err := h.contentService.SubmitReview(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		h.logger.Error(ctx, " err on h.contentService.SubmitReview", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = review
}

func (h *handler) ApproveReview(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	review, err := h.contentService.ApproveReview(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.contentService.ApproveReview", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = review
}

func (h *handler) DeleteReview(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.contentService.DeleteReview(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		if errors.Is(err, structs.ErrSuperadminRequired) || errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.contentService.DeleteReview", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}
