package routes

import (
	"net/http"
	"time"

	"investplan/handlers"
	"investplan/middleware"
	"investplan/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterProductRoutes registers the public catalog.
func RegisterProductRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/products", hb.ListProductsHandler)
}

// RegisterPaymentRoutes registers the authenticated payment endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	{
		api.Use(middleware.RequireUser(hb.Auth))
		api.POST("/initiate", hb.InitiatePaymentHandler)
		api.GET("/status/:transactionId", hb.PaymentStatusHandler)
	}
}

// RegisterUserRoutes registers user endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(middleware.RequireUser(hb.Auth))
		api.GET("/me", hb.GetProfileHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.RequireUser(hb.Auth), middleware.RequireRole(models.RoleAdmin))
		adminGroup.GET("/transactions", hb.ListTransactionsHandler)
		adminGroup.POST("/transactions/:transactionId/fail", hb.FailTransactionHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	corsConfig := cors.Config{
		AllowOrigins:  allowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowCredentials = true
	}
	r.Use(cors.New(corsConfig))

	RegisterHealthRoute(r)
	RegisterProductRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
