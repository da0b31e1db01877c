package handler

import (
	"net/http"
	"strings"

	"booknest/auth-service/internal/app/auth/entity"
	"booknest/auth-service/internal/app/auth/service"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware проверяет access токен, включая черный список отозванных
type AuthMiddleware struct {
	authService *service.AuthService
}

func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Authenticate проверяет Bearer токен и кладет claims в контекст запроса
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := m.authService.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("name", claims.Name)
		c.Set("role", claims.Role)
		c.Set("access_token", parts[1])

		c.Next()
	}
}

// RequireRole пропускает только пользователей с одной из перечисленных ролей
func (m *AuthMiddleware) RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "authentication required"})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "insufficient permissions"})
		c.Abort()
	}
}
