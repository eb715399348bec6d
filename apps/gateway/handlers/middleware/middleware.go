package middleware

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"routeaura/internal/control/scope"
	"routeaura/internal/control/session"
	"routeaura/internal/responses"
	"routeaura/internal/structs"
	"routeaura/pkg/logger"
	"routeaura/pkg/metrics"
	"routeaura/pkg/reply"
	"routeaura/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	Module = fx.Provide(NewMiddleware)
)

const (
	KeyAdminId  = "admin_id"
	KeyDriverId = "driver_id"
	KeyUserId   = "user_id"
)

type (
	Middleware interface {
		Ctx() gin.HandlerFunc
		Observe() gin.HandlerFunc
		AdminAuth() gin.HandlerFunc
		DriverAuth() gin.HandlerFunc
		CustomerAuth() gin.HandlerFunc
	}

	Params struct {
		fx.In

		Logger   logger.Logger
		Metrics  *metrics.Metrics
		Sessions session.Store
	}

	mw struct {
		logger   logger.Logger
		metrics  *metrics.Metrics
		sessions session.Store
	}
)

func NewMiddleware(params Params) Middleware {
	return &mw{
		logger:   params.Logger,
		metrics:  params.Metrics,
		sessions: params.Sessions,
	}
}

func (m *mw) Ctx() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := m.logger.Context(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (m *mw) Observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.metrics.ObserveHTTP(route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func bearerToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}

func abort(c *gin.Context, response structs.Response) {
	c.Abort()
	reply.Json(c.Writer, response.Code, &response)
}

// AdminAuth resolves the admin identity in two steps: the token proves
// who is calling, the redis session proves they are still allowed in.
// The derived branch scope rides the request context from here on.
func (m *mw) AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token := bearerToken(c)
		if utils.StrEmpty(token) {
			abort(c, responses.Unauthorized)
			return
		}

		claims, err := utils.ParseJWTScoped(token, utils.ScopeAdmin)
		if err != nil {
			m.logger.Warn(ctx, "rejected admin token", zap.Error(err))
			abort(c, responses.Unauthorized)
			return
		}
		adminId, ok := claims["id"].(string)
		if !ok || utils.StrEmpty(adminId) {
			abort(c, responses.Unauthorized)
			return
		}

		sess, err := m.sessions.Current(ctx, adminId)
		if err != nil {
			if errors.Is(err, structs.ErrAccessDenied) {
				// token is fine but the session fell out of redis,
				// try one silent re-establish before turning the
				// request away
				sess, err = m.sessions.SilentRefresh(ctx, adminId)
			}
			if err != nil {
				if errors.Is(err, structs.ErrSessionExpired) {
					abort(c, responses.SessionExpired)
					return
				}
				abort(c, responses.Forbidden)
				return
			}
		}

		c.Set(KeyAdminId, adminId)
		c.Request = c.Request.WithContext(scope.Inject(ctx, scope.Derive(sess)))
		c.Next()
	}
}

func (m *mw) DriverAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if utils.StrEmpty(token) {
			abort(c, responses.Unauthorized)
			return
		}

		claims, err := utils.ParseJWTScoped(token, utils.ScopeDriver)
		if err != nil {
			m.logger.Warn(c.Request.Context(), "rejected driver token", zap.Error(err))
			abort(c, responses.Unauthorized)
			return
		}
		driverId, ok := claims["id"].(string)
		if !ok || utils.StrEmpty(driverId) {
			abort(c, responses.Unauthorized)
			return
		}

		c.Set(KeyDriverId, driverId)
		c.Next()
	}
}

func (m *mw) CustomerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if utils.StrEmpty(token) {
			abort(c, responses.Unauthorized)
			return
		}

		claims, err := utils.ParseJWTScoped(token, utils.ScopeCustomer)
		if err != nil {
			m.logger.Warn(c.Request.Context(), "rejected customer token", zap.Error(err))
			abort(c, responses.Unauthorized)
			return
		}
		userId, ok := claims["id"].(string)
		if !ok || utils.StrEmpty(userId) {
			abort(c, responses.Unauthorized)
			return
		}

		c.Set(KeyUserId, userId)
		c.Next()
	}
}
