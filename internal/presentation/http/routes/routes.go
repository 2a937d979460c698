package routes

import (
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/config"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/handler"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/middleware"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth         *handler.AuthHandler
	Invoice      *handler.InvoiceHandler
	Payment      *handler.PaymentHandler
	Customer     *handler.CustomerHandler
	Recurring    *handler.RecurringHandler
	Dashboard    *handler.DashboardHandler
	Export       *handler.ExportHandler
	Notification *handler.NotificationHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager *utils.JWTManager
	Cfg        *config.Config
	Logger     zerolog.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/register", h.Auth.Register)
			auth.POST("/refresh", h.Auth.Refresh)
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h)
	}

	return router
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Profile
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.Get)

	// Invoices
	invoices := protected.Group("/invoices")
	{
		invoices.POST("", h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/summary", h.Invoice.Summary)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.PATCH("/:id", h.Invoice.Update)
		invoices.DELETE("/:id", h.Invoice.Delete)

		// Payments against one invoice
		invoices.POST("/:id/payments", h.Payment.Apply)
		invoices.GET("/:id/payments", h.Payment.ListByInvoice)

		// Attachments
		invoices.POST("/:id/attachments", h.Invoice.UploadAttachment)
		invoices.POST("/:id/attachments/multiple", h.Invoice.UploadAttachments)
		invoices.GET("/:id/attachments", h.Invoice.ListAttachments)
		invoices.GET("/:id/attachments/:attachmentId", h.Invoice.DownloadAttachment)
		invoices.DELETE("/:id/attachments/:attachmentId", h.Invoice.DeleteAttachment)
	}

	// Payments
	payments := protected.Group("/payments")
	{
		payments.GET("", h.Payment.List)
		payments.GET("/:id", h.Payment.Get)
		payments.PATCH("/:id", h.Payment.Update)
		payments.DELETE("/:id", h.Payment.Delete)
	}

	// Payment modes
	modes := protected.Group("/payment-modes")
	{
		modes.GET("", h.Payment.ListModes)
		modes.POST("", middleware.RequireRole("admin"), h.Payment.CreateMode)
		modes.PATCH("/:id", middleware.RequireRole("admin"), h.Payment.UpdateMode)
		modes.DELETE("/:id", middleware.RequireRole("admin"), h.Payment.DeleteMode)
	}

	// Customers
	customers := protected.Group("/customers")
	{
		customers.POST("", h.Customer.Create)
		customers.GET("", h.Customer.List)
		customers.GET("/:id", h.Customer.Get)
		customers.PATCH("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/analysis", h.Customer.Analyze)
	}

	// Recurring templates
	recurring := protected.Group("/recurring")
	{
		recurring.POST("/templates", h.Recurring.CreateTemplate)
		recurring.GET("/templates", h.Recurring.ListTemplates)
		recurring.GET("/templates/:id", h.Recurring.GetTemplate)
		recurring.PATCH("/templates/:id", h.Recurring.UpdateTemplate)
		recurring.POST("/templates/:id/generate", h.Recurring.Trigger)
		recurring.DELETE("/templates/:id", h.Recurring.DeleteTemplate)
		recurring.POST("/process", middleware.RequireRole("admin"), h.Recurring.ProcessAll)
	}

	// Notification sweeps, same entry points the scheduler uses
	notifications := protected.Group("/notifications")
	{
		notifications.POST("/overdue", middleware.RequireRole("admin"), h.Notification.TriggerOverdue)
		notifications.POST("/reminders", middleware.RequireRole("admin"), h.Notification.TriggerReminders)
	}

	// Exports
	exports := protected.Group("/exports")
	{
		exports.GET("/invoices", h.Export.Invoices)
		exports.GET("/customers", h.Export.Customers)
		exports.GET("/payments", h.Export.Payments)
	}
}
