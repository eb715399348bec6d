package router

import (
	"context"
	"net/http"

	"routeaura/apps/gateway/handlers/adminauth"
	"routeaura/apps/gateway/handlers/analytics"
	"routeaura/apps/gateway/handlers/booking"
	"routeaura/apps/gateway/handlers/branch"
	"routeaura/apps/gateway/handlers/catalog"
	"routeaura/apps/gateway/handlers/content"
	"routeaura/apps/gateway/handlers/driver"
	"routeaura/apps/gateway/handlers/gallery"
	"routeaura/apps/gateway/handlers/middleware"
	"routeaura/apps/gateway/handlers/receipt"
	"routeaura/apps/gateway/handlers/users"
	"routeaura/pkg/config"
	"routeaura/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Options(
	fx.Invoke(
		NewRouter,
	),
)

type Params struct {
	fx.In

	middleware.Middleware
	Lifecycle fx.Lifecycle
	Config    config.IConfig
	Logger    logger.Logger
	AdminAuth adminauth.Handler
	Users     users.Handler
	Branch    branch.Handler
	Catalog   catalog.Handler
	Booking   booking.Handler
	Driver    driver.Handler
	Receipt   receipt.Handler
	Content   content.Handler
	Analytics analytics.Handler
	Gallery   gallery.Handler
}

func NewRouter(params Params) {
	r := gin.New()
	baseUrl := "/api/v1"

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	out := r.Group(baseUrl)
	out.Use(params.Ctx(), params.Observe(), gin.Logger(), gin.Recovery())

	// public surface
	{
		out.POST("/auth/signup", params.Users.Signup)
		out.POST("/auth/login", params.Users.Login)

		out.GET("/locations", params.Catalog.GetListLocation)
		out.GET("/routes", params.Catalog.GetListRoute)
		out.GET("/routes/:id", params.Catalog.GetByIdRoute)
		out.GET("/fleet", params.Catalog.GetListBus)

		out.GET("/faqs", params.Content.GetFAQs)
		out.GET("/reviews", params.Content.GetReviews)
		out.POST("/reviews", params.Content.SubmitReview)

		out.GET("/bookings/taken-seats", params.Booking.TakenSeats)
		out.GET("/receipts/verify/:reference", params.Receipt.Verify)
		out.GET("/gallery", params.Gallery.GetList)
	}

	me := out.Group("/")
	me.Use(params.CustomerAuth())
	{
		me.GET("/me", params.Users.GetMe)
		me.POST("/bookings", params.Booking.Create)
		me.GET("/my-bookings", params.Booking.GetMine)
		me.PUT("/bookings/:reference/cancel", params.Booking.Cancel)
		me.GET("/my-receipts/:reference", params.Receipt.GetMyReceipt)
	}

	// the prefix is namespacing only, access control is the admin
	// token plus the redis session behind it
	admin := r.Group(baseUrl + "/route-aura-booking-admin-page")
	admin.Use(params.Ctx(), params.Observe(), gin.Logger(), gin.Recovery())
	admin.POST("/login", params.AdminAuth.Login)

	adminApi := admin.Group("/")
	adminApi.Use(params.Middleware.AdminAuth())
	{
		adminApi.POST("/logout", params.AdminAuth.Logout)
		adminApi.GET("/self", params.AdminAuth.GetMe)
		adminApi.POST("/admins", params.AdminAuth.CreateAdmin)
		adminApi.PUT("/password", params.AdminAuth.UpdatePassword)
		adminApi.GET("/branch-scope", params.AdminAuth.GetBranchScope)
		adminApi.PUT("/branch-scope", params.AdminAuth.SwitchBranchScope)

		adminApi.GET("/analytics", params.Analytics.GetDashboard)

		bookingGroup := adminApi.Group("/bookings")
		{
			bookingGroup.GET("/", params.Booking.GetListAdmin)
			bookingGroup.GET("/export", params.Booking.Export)
			bookingGroup.GET("/:id", params.Booking.GetByIdAdmin)
			bookingGroup.POST("/", params.Booking.CreateManual)
			bookingGroup.PUT("/:id/status", params.Booking.UpdateStatus)
			bookingGroup.POST("/bulk-delete", params.Booking.BulkDelete)
		}

		adminApi.GET("/users", params.Users.GetListWithContact)

		driverGroup := adminApi.Group("/drivers")
		{
			driverGroup.POST("/", params.Driver.CreateDriver)
			driverGroup.GET("/", params.Driver.GetListDriver)
			driverGroup.GET("/:id", params.Driver.GetByIdDriver)
			driverGroup.PATCH("/:id", params.Driver.PatchDriver)
			driverGroup.DELETE("/:id", params.Driver.DeleteDriver)
		}
		assignmentGroup := adminApi.Group("/assignments")
		{
			assignmentGroup.POST("/", params.Driver.CreateAssignment)
			assignmentGroup.GET("/", params.Driver.GetListAssignment)
			assignmentGroup.DELETE("/:id", params.Driver.DeleteAssignment)
		}

		locationGroup := adminApi.Group("/locations")
		{
			locationGroup.POST("/", params.Catalog.CreateLocation)
			locationGroup.GET("/", params.Catalog.GetListLocation)
			locationGroup.PATCH("/:id", params.Catalog.PatchLocation)
			locationGroup.DELETE("/:id", params.Catalog.DeleteLocation)
		}
		routeGroup := adminApi.Group("/routes")
		{
			routeGroup.POST("/", params.Catalog.CreateRoute)
			routeGroup.GET("/", params.Catalog.GetListRoute)
			routeGroup.GET("/:id", params.Catalog.GetByIdRoute)
			routeGroup.PATCH("/:id", params.Catalog.PatchRoute)
			routeGroup.DELETE("/:id", params.Catalog.DeleteRoute)
		}
		fleetGroup := adminApi.Group("/fleet")
		{
			fleetGroup.POST("/", params.Catalog.CreateBus)
			fleetGroup.GET("/", params.Catalog.GetListBus)
			fleetGroup.PATCH("/:id", params.Catalog.PatchBus)
			fleetGroup.DELETE("/:id", params.Catalog.DeleteBus)
		}

		branchGroup := adminApi.Group("/branches")
		{
			branchGroup.POST("/", params.Branch.CreateBranch)
			branchGroup.GET("/", params.Branch.GetListBranch)
			branchGroup.GET("/:id", params.Branch.GetByIdBranch)
			branchGroup.PATCH("/:id", params.Branch.PatchBranch)
			branchGroup.DELETE("/:id", params.Branch.DeleteBranch)
		}

		receiptGroup := adminApi.Group("/receipts")
		{
			receiptGroup.GET("/", params.Receipt.GetListAdmin)
			receiptGroup.GET("/:reference", params.Receipt.GetDetailsAdmin)
		}
		templateGroup := adminApi.Group("/receipt-templates")
		{
			templateGroup.POST("/", params.Receipt.CreateTemplate)
			templateGroup.GET("/", params.Receipt.GetListTemplate)
			templateGroup.PATCH("/:id", params.Receipt.PatchTemplate)
			templateGroup.DELETE("/:id", params.Receipt.DeleteTemplate)
		}

		faqGroup := adminApi.Group("/faqs")
		{
			faqGroup.POST("/", params.Content.CreateFAQ)
			faqGroup.GET("/", params.Content.GetFAQsAdmin)
			faqGroup.PATCH("/:id", params.Content.PatchFAQ)
			faqGroup.DELETE("/:id", params.Content.DeleteFAQ)
		}
		reviewGroup := adminApi.Group("/reviews")
		{
			reviewGroup.GET("/", params.Content.GetReviewsAdmin)
			reviewGroup.PUT("/:id/approve", params.Content.ApproveReview)
			reviewGroup.DELETE("/:id", params.Content.DeleteReview)
		}

		galleryGroup := adminApi.Group("/gallery")
		{
			galleryGroup.POST("/", params.Gallery.Upload)
			galleryGroup.POST("/from-url", params.Gallery.UploadFromURL)
			galleryGroup.DELETE("/:name", params.Gallery.Remove)
		}
	}

	driverLogin := r.Group(baseUrl + "/driver-login-page")
	driverLogin.Use(params.Ctx(), params.Observe(), gin.Logger(), gin.Recovery())
	driverLogin.POST("/login", params.Driver.Login)

	dashboard := r.Group(baseUrl + "/driver-dashboard")
	dashboard.Use(params.Ctx(), params.Observe(), gin.Logger(), gin.Recovery())
	dashboard.Use(params.DriverAuth())
	{
		dashboard.GET("/manifest", params.Driver.GetManifest)
	}

	server := http.Server{
		Addr: params.Config.GetString("server.port"),
		Handler: cors.New(cors.Options{
			AllowedHeaders:   []string{"*"},
			AllowedOrigins:   params.Config.GetStringSlice("cors.allowed_origins"),
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
			AllowCredentials: true,
		}).Handler(r),
	}

	params.Lifecycle.Append(
		fx.Hook{
			OnStart: func(ctx context.Context) error {
				go func() {
					if err := server.ListenAndServe(); err != nil {
						params.Logger.Error(ctx, "Err on ListenAndServe", zap.Error(err))
					}
				}()

				params.Logger.Info(ctx, "Application starting on port", zap.String("port", params.Config.GetString("server.port")))
				return nil
			},
			OnStop: func(ctx context.Context) error {
				params.Logger.Info(ctx, "Application stopped")
				return server.Shutdown(ctx)
			},
		},
	)
}
