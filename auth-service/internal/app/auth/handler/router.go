package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"booknest/auth-service/internal/app/auth/entity"
	"booknest/pkg/logger"
	"booknest/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Auth Service с использованием Gin
func SetupRoutes(
	authHandler *AuthHandler,
	adminHandler *AdminHandler,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("auth-service"))

	// CORS настройки
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "auth-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Auth endpoints
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		auth.POST("/logout", authMiddleware.Authenticate(), authHandler.Logout)
		auth.GET("/me", authMiddleware.Authenticate(), authHandler.Me)
	}

	// Admin endpoints - управление заявками и аккаунтами
	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate())
	admin.Use(authMiddleware.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/accounts", adminHandler.ListAccounts)
		admin.POST("/accounts/:id/approve", adminHandler.ApproveAccount)
		admin.DELETE("/accounts/:id", adminHandler.DeleteAccount)
	}

	return router
}
