package adminauth

import (
	"errors"
	"net/http"

	"routeaura/apps/gateway/handlers/middleware"
	"routeaura/internal/control/auth"
	"routeaura/internal/control/scope"
	"routeaura/internal/control/session"
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
		Login(c *gin.Context)
		Logout(c *gin.Context)
		GetMe(c *gin.Context)
		CreateAdmin(c *gin.Context)
		UpdatePassword(c *gin.Context)
		GetBranchScope(c *gin.Context)
		SwitchBranchScope(c *gin.Context)
	}
	Params struct {
		fx.In
		Logger      logger.Logger
		AuthService auth.Service
		Sessions    session.Store
	}

	handler struct {
		logger      logger.Logger
		authService auth.Service
		sessions    session.Store
	}
)

func New(p Params) Handler {
	return &handler{
		logger:      p.Logger,
		authService: p.AuthService,
		sessions:    p.Sessions,
	}
}

func (h *handler) Login(c *gin.Context) {
	var (
		response structs.Response
		request  structs.AdminLogin
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	err := c.ShouldBindJSON(&request)
	if err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	resp, err := h.authService.Login(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.Unauthorized
			return
		}
		h.logger.Error(ctx, " err on h.authService.Login", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = resp
}

func (h *handler) Logout(c *gin.Context) {
	var (
		response structs.Response
		adminId  = c.GetString(middleware.KeyAdminId)
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := h.authService.Logout(c, adminId); err != nil {
		h.logger.Error(ctx, " err on h.authService.Logout", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}

func (h *handler) GetMe(c *gin.Context) {
	var (
		response structs.Response
		adminId  = c.GetString(middleware.KeyAdminId)
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	resp, err := h.authService.Me(c, adminId)
	if err != nil {
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.authService.Me", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = resp
}

func (h *handler) CreateAdmin(c *gin.Context) {
	var (
		response structs.Response
		request  structs.CreateAdmin
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	sc, ok := scope.FromContext(ctx)
	if !ok || !sc.IsSuperadmin() {
		response = responses.Forbidden
		return
	}

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	admin, err := h.authService.CreateAdmin(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrUniqueViolation) {
			response = responses.Conflict
			return
		}
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		h.logger.Error(ctx, " err on h.authService.CreateAdmin", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = admin
}

// UpdatePassword changes the caller's own pass key. Superadmins may
// reset another admin's by sending admin_user_id.
func (h *handler) UpdatePassword(c *gin.Context) {
	var (
		response structs.Response
		request  structs.UpdateAdminPassword
		adminId  = c.GetString(middleware.KeyAdminId)
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	if request.AdminUserId == "" {
		request.AdminUserId = adminId
	}
	if request.AdminUserId != adminId {
		sc, ok := scope.FromContext(ctx)
		if !ok || !sc.IsSuperadmin() {
			response = responses.Forbidden
			return
		}
	}

	err := h.authService.UpdatePassword(c, request)
	if err != nil {
		if errors.Is(err, structs.ErrBadRequest) {
			response = responses.BadRequest
			return
		}
		if errors.Is(err, structs.ErrNotFound) {
			response = responses.NotFound
			return
		}
		h.logger.Error(ctx, " err on h.authService.UpdatePassword", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
}

func (h *handler) GetBranchScope(c *gin.Context) {
	var (
		response structs.Response
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	sc, ok := scope.FromContext(ctx)
	if !ok {
		response = responses.Forbidden
		return
	}

	response = responses.Success
	response.Payload = gin.H{
		"role":      sc.Role,
		"branch_id": sc.BranchId,
	}
}

func (h *handler) SwitchBranchScope(c *gin.Context) {
	var (
		response structs.Response
		request  structs.SwitchBranchRequest
		adminId  = c.GetString(middleware.KeyAdminId)
		ctx      = c.Request.Context()
	)

	defer reply.Json(c.Writer, http.StatusOK, &response)

	if err := c.ShouldBindJSON(&request); err != nil {
		h.logger.Warn(ctx, " error parse request", zap.Error(err))
		response = responses.BadRequest
		return
	}

	sess, err := h.sessions.SetSelectedBranch(c, adminId, request.BranchId)
	if err != nil {
		if errors.Is(err, structs.ErrSuperadminRequired) {
			response = responses.Forbidden
			return
		}
		if errors.Is(err, structs.ErrAccessDenied) {
			response = responses.Forbidden
			return
		}
		h.logger.Error(ctx, " err on h.sessions.SetSelectedBranch", zap.Error(err))
		response = responses.InternalErr
		return
	}

	response = responses.Success
	response.Payload = scope.Derive(sess)
}
