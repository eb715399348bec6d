package users

import (
	"errors"
	"net/http"

	"routeaura/apps/gateway/handlers/middleware"
	"routeaura/internal/responses"
	"routeaura/internal/structs"
	"routeaura/internal/users"
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
		Signup(c *gin.Context)
		Login(c *gin.Context)
		GetMe(c *gin.Context)
		GetListWithContact(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger       logger.Logger
		UsersService users.Service
	}

	handler struct {
		logger       logger.Logger
		usersService users.Service
	}
)

func New(p Params) Handler {
	return &handler{
		logger:       p.Logger,
		usersService: p.UsersService,
	}
}

func (h *handler) Signup(c *gin.Context) {
	var (
		response structs.Response
		request  structs.UserSignup
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	resp, err := h.usersService.Signup(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) {
			response = responses.WithMessage(responses.Conflict, "email already registered")
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		h.logger.Error(ctx, " err on h.usersService.Signup", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = resp
}

func (h *handler) Login(c *gin.Context) {
	var (
		response structs.Response
		request  structs.UserLogin
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	resp, err := h.usersService.Login(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.Unauthorized
			return
		}
		h.logger.Error(ctx, " err on h.usersService.Login", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = resp
}

func (h *handler) GetMe(c *gin.Context) {
	var (
		response structs.Response
		userId   = c.GetString(middleware.KeyUserId)
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	user, err := h.usersService.GetMe(c, userId)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.usersService.GetMe", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = user
}

func (h *handler) GetListWithContact(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
		filter   = structs.GetListUserRequest{
			Offset: cast.ToInt64(c.Query("offset")),
			Limit:  cast.ToInt64(c.Query("limit")),
			Search: c.Query("search"),
		}
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	list, err := h.usersService.GetAllWithContact(c, filter)
	if err != nil {
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.usersService.GetAllWithContact", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = list
}
