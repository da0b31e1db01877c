package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"booknest/library-service/internal/app/library/service"
	"booknest/pkg/logger"
	"booknest/pkg/metrics"
)

// SetupRoutes настраивает все маршруты Library Service с использованием Gin
// Применяет Auth middleware для защиты эндпоинтов
func SetupRoutes(
	bookHandler *BookHandler,
	reviewHandler *ReviewHandler,
	borrowHandler *BorrowHandler,
	memberHandler *MemberHandler,
	announcementHandler *AnnouncementHandler,
	memberService *service.MemberService,
	authMiddleware *AuthMiddleware,
) *gin.Engine {
	router := gin.New()

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	// JSON logging middleware для HTTP-запросов (ELK Stack)
	router.Use(logger.GinLoggerMiddleware())

	// Prometheus metrics middleware
	router.Use(metrics.GinPrometheusMiddleware("library-service"))

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
			"service": "library-service",
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Books endpoints - все требуют аутентификации
	books := router.Group("/books")
	books.Use(authMiddleware.Authenticate())
	books.Use(ProvisionMember(memberService))
	{
		books.GET("", bookHandler.ListBooks)
		books.GET("/:id", bookHandler.GetBook)

		// Изменение каталога только для admin
		books.POST("", authMiddleware.RequireRole(RoleAdmin), bookHandler.CreateBook)
		books.PUT("/:id", authMiddleware.RequireRole(RoleAdmin), bookHandler.UpdateBook)
		books.DELETE("/:id", authMiddleware.RequireRole(RoleAdmin), bookHandler.DeleteBook)

		// Отзывы и голоса
		books.POST("/:id/reviews", reviewHandler.CreateReview)
		books.DELETE("/:id/reviews/:reviewId", reviewHandler.DeleteReview)
		books.PUT("/:id/reviews/:reviewId/like", reviewHandler.LikeReview)
		books.PUT("/:id/reviews/:reviewId/dislike", reviewHandler.DislikeReview)
	}

	// Members endpoints
	members := router.Group("/members")
	members.Use(authMiddleware.Authenticate())
	members.Use(ProvisionMember(memberService))
	{
		members.GET("/me", memberHandler.GetMe)
		members.GET("/me/borrows", borrowHandler.ListMyBorrows)
		members.GET("/me/wishlist", memberHandler.GetWishlist)
		members.POST("/me/wishlist/:bookId", memberHandler.AddToWishlist)
		members.DELETE("/me/wishlist/:bookId", memberHandler.RemoveFromWishlist)

		// Выдачу и прием оформляет admin за стойкой
		members.GET("/:id/borrows", authMiddleware.RequireRole(RoleAdmin), borrowHandler.ListMemberBorrows)
		members.POST("/:id/borrows", authMiddleware.RequireRole(RoleAdmin), borrowHandler.BorrowBook)
		members.DELETE("/:id/borrows/:bookId", authMiddleware.RequireRole(RoleAdmin), borrowHandler.ReturnBook)
	}

	// Announcements endpoints
	announcements := router.Group("/announcements")
	announcements.Use(authMiddleware.Authenticate())
	{
		announcements.GET("", announcementHandler.ListAnnouncements)
		announcements.POST("", authMiddleware.RequireRole(RoleAdmin), announcementHandler.CreateAnnouncement)
		announcements.DELETE("/:id", authMiddleware.RequireRole(RoleAdmin), announcementHandler.DeleteAnnouncement)
	}

	// Book requests endpoints
	requests := router.Group("/book-requests")
	requests.Use(authMiddleware.Authenticate())
	{
		requests.POST("", announcementHandler.CreateBookRequest)
		requests.GET("", authMiddleware.RequireRole(RoleAdmin), announcementHandler.ListBookRequests)
		requests.DELETE("/:id", authMiddleware.RequireRole(RoleAdmin), announcementHandler.DeleteBookRequest)
	}

	return router
}
