package router

import (
	"github.com/gin-gonic/gin"

	"invomail/internal/handler"
	"invomail/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(notificationH *handler.NotificationHandler, healthH *handler.HealthHandler) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.POST("/notifications", notificationH.Receive)

	return r
}
