package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/kirana-admin-api/internal/application/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/application/auth"
	"github.com/jhoicas/kirana-admin-api/internal/application/realtime"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
	"github.com/jhoicas/kirana-admin-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	OrderUC        *usecase.OrderUseCase
	ProductUC      *usecase.ProductUseCase
	CategoryUC     *usecase.CategoryUseCase
	CustomerUC     *usecase.CustomerUseCase
	SettingsUC     *usecase.SettingsUseCase
	ProfileUC      *usecase.ProfileUseCase
	NotificationUC *usecase.NotificationUseCase
	UploadUC       *usecase.UploadUseCase
	AnalyticsUC    *appanalytics.AnalyticsUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	ReportUC       *appanalytics.ReportUseCase
	Broker         *realtime.Broker
	Validator      *Validator
	LoginLimiter   *RateLimiter
	JWTSecret      string
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	v := deps.Validator
	if v == nil {
		v = NewValidator()
	}
	api := app.Group("/api")

	// Auth (público, limitado por IP)
	authHandler := NewAuthHandler(deps.AuthUC, v)
	limit := func(c *fiber.Ctx) error { return c.Next() }
	if deps.LoginLimiter != nil {
		limit = deps.LoginLimiter.Handler()
	}
	authGroup := api.Group("/auth")
	authGroup.Post("/login", limit, authHandler.Login)
	authGroup.Post("/otp/request", limit, authHandler.RequestOTP)
	authGroup.Post("/otp/verify", limit, authHandler.VerifyOTP)
	authGroup.Post("/register", limit, authHandler.Register)

	// Rutas protegidas (requieren Bearer Token)
	var revoked revocationChecker
	if deps.AuthUC != nil {
		revoked = deps.AuthUC
	}
	protected := api.Group("", AuthMiddleware(deps.JWTSecret, revoked))
	protected.Post("/auth/logout", authHandler.Logout)

	ownerOrManager := RequireRole(entity.RoleOwner, entity.RoleManager)
	ownerOnly := RequireRole(entity.RoleOwner)
	anyAdmin := RequireRole(entity.RoleOwner, entity.RoleManager, entity.RoleStaff)

	// Orders
	orderHandler := NewOrderHandler(deps.OrderUC, v)
	orders := protected.Group("/orders", anyAdmin)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)
	orders.Get("/:id/history", orderHandler.History)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.OrderUC)
	dashboard := protected.Group("/dashboard", anyAdmin)
	dashboard.Get("/stats", dashboardHandler.GetStats)
	dashboard.Get("/recent-orders", dashboardHandler.RecentOrders)

	// Products y categorías
	productHandler := NewProductHandler(deps.ProductUC, deps.CategoryUC, v)
	products := protected.Group("/products", anyAdmin)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", ownerOrManager, productHandler.Create)
	products.Put("/:id", ownerOrManager, productHandler.Update)
	products.Delete("/:id", ownerOrManager, productHandler.Delete)
	protected.Get("/categories", anyAdmin, productHandler.Categories)

	// Customers
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers := protected.Group("/customers", anyAdmin)
	customers.Get("/", customerHandler.List)
	customers.Get("/search", customerHandler.Search)
	customers.Get("/:id", customerHandler.Details)

	// Analytics
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC, v)
	analytics := protected.Group("/analytics", anyAdmin)
	analytics.Get("/overview", analyticsHandler.Overview)
	analytics.Get("/order-trends", analyticsHandler.OrderTrends)
	analytics.Get("/revenue-trends", analyticsHandler.RevenueTrends)
	analytics.Get("/top-products", analyticsHandler.TopProducts)
	analytics.Get("/category-breakdown", analyticsHandler.CategoryBreakdown)

	// Reports
	reportHandler := NewReportHandler(deps.ReportUC)
	reports := protected.Group("/reports", anyAdmin)
	reports.Get("/:period", reportHandler.Generate)
	reports.Get("/:period/export", reportHandler.Export)

	// Settings
	settingsHandler := NewSettingsHandler(deps.SettingsUC, v)
	settings := protected.Group("/settings", anyAdmin)
	settings.Get("/store", settingsHandler.GetStore)
	settings.Put("/store", ownerOrManager, settingsHandler.UpdateStore)
	settings.Get("/staff", settingsHandler.ListStaff)
	settings.Post("/staff", ownerOnly, settingsHandler.CreateStaff)
	settings.Put("/staff/:id", ownerOnly, settingsHandler.UpdateStaff)
	settings.Delete("/staff/:id", ownerOnly, settingsHandler.DeactivateStaff)
	settings.Get("/hours", settingsHandler.GetHours)
	settings.Put("/hours", ownerOrManager, settingsHandler.UpdateHours)

	// Profile
	profileHandler := NewProfileHandler(deps.ProfileUC, v)
	protected.Get("/profile", anyAdmin, profileHandler.Get)
	protected.Put("/profile", anyAdmin, profileHandler.Update)

	// Notifications
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications := protected.Group("/notifications", anyAdmin)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Patch("/read-all", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)

	// Uploads
	uploadHandler := NewUploadHandler(deps.UploadUC, v)
	uploads := protected.Group("/uploads", anyAdmin)
	uploads.Post("/images", uploadHandler.UploadImage)
	uploads.Delete("/images", uploadHandler.DeleteImage)

	// Events (SSE)
	eventsHandler := NewEventsHandler(deps.Broker, deps.Log)
	protected.Get("/events", anyAdmin, eventsHandler.Stream)
}
