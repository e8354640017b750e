package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/tower15/internal/container"
	"github.com/joshua-takyi/tower15/internal/handlers"
	"github.com/joshua-takyi/tower15/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	cfg := container.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	secure := cfg.IsProduction()

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			channel := "simulated"
			if container.Channel.Live() {
				channel = "live"
			}
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "tower15-api",
				"hosthub": channel,
			})
		})

		v1.GET("/properties", handlers.ListProperties(container.PropertyService))
		v1.GET("/properties/:id", handlers.GetProperty(container.PropertyService))
		v1.GET("/properties/:id/availability", handlers.GetAvailability(container.PropertyService))
		v1.GET("/properties/:id/quote", handlers.GetQuote(container.PropertyService))
		v1.GET("/settings/public", handlers.GetPublicSettings(container.SettingsService))

		v1.POST("/checkout", handlers.Checkout(container.PropertyService, container.CheckoutService))

		v1.POST("/concierge/chat", handlers.ConciergeChat(container.ConciergeService))
		v1.GET("/concierge/sessions/:session_id", handlers.ConciergeHistory(container.ConciergeService))

		v1.POST("/admin/login", handlers.AdminLogin(container.AdminService, secure))
		v1.POST("/admin/refresh", handlers.AdminRefresh(container.AdminService, secure))
		v1.POST("/admin/logout", handlers.Logout(secure))
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.AdminAuth(container.TokenValidator, container.AdminService, cfg.IsAdminEmail, secure, container.Logger))
	{
		admin.GET("/me", handlers.AdminProfile())
		admin.GET("/bookings", handlers.ListBookings(container.BookingService))

		admin.POST("/properties", handlers.UpsertProperty(container.PropertyService))
		admin.PUT("/properties/:id", handlers.UpsertProperty(container.PropertyService))
		admin.POST("/properties/:id/images", handlers.UploadPropertyImages(container.PropertyService))

		admin.GET("/settings", handlers.GetSettings(container.SettingsService))
		admin.PUT("/settings", handlers.SaveSettings(container.SettingsService))

		admin.POST("/ai/cms", handlers.AICMSUpdate(container.CMSService))
		admin.POST("/hosthub/sync", handlers.SyncHosthub(container.ImportService))

		admin.GET("/sync-tasks", handlers.ListSyncTasks(container.Reconciler))
		admin.POST("/sync-tasks/reconcile", handlers.RunReconcile(container.Reconciler))
		admin.POST("/sync-tasks/:id/retry", handlers.RetrySyncTask(container.Reconciler))
	}

	return r
}
