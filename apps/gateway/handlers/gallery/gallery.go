package gallery

import (
	"errors"
	"net/http"

	"routeaura/internal/gallery"
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
		GetList(c *gin.Context)
		Upload(c *gin.Context)
		UploadFromURL(c *gin.Context)
		Remove(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger         logger.Logger
		GalleryService gallery.Service
	}

	handler struct {
		logger         logger.Logger
		galleryService gallery.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:         p.Logger,
		galleryService: p.GalleryService,
	}
}

func (h *handler) GetList(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	images, err := h.galleryService.List(c)
	if err != nil {
		h.logger.Error(ctx, " err on h.galleryService.List", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = images
}

func (h *handler) Upload(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	body, err := fileHeader.Open()
	if err != nil {
		h.logger.Error(ctx, " err on fileHeader.Open", zap.Error(err))
		response = responses.InternalErr
		return
	}
	defer body.Close()

	if err = h.galleryService.Upload(c, fileHeader.Filename, body); err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.galleryService.Upload", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}

func (h *handler) UploadFromURL(c *gin.Context) {
	var (
		response structs.Response
		request  struct {
			URL string `json:"url"`
		}
		ctx = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	key, err := h.galleryService.UploadFromURL(c, request.URL)
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.galleryService.UploadFromURL", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = gin.H{"key": key}
}

func (h *handler) Remove(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := h.galleryService.Remove(c, c.Param("name"))
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.galleryService.Remove", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}
