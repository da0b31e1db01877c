package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func makeTestToken(t *testing.T, userID, role string, expiresIn time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		UserID: userID,
		Email:  "user@example.com",
		Name:   "Test User",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return signed
}

func protectedTestRouter(middleware *AuthMiddleware, extra ...gin.HandlerFunc) *gin.Engine {
	router := setupTestRouter()
	handlers := append([]gin.HandlerFunc{middleware.Authenticate()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	router.GET("/protected", handlers...)
	return router
}

func TestAuthenticate_ValidToken(t *testing.T) {
	middleware := NewAuthMiddleware(testSecret)
	router := protectedTestRouter(middleware)

	token := makeTestToken(t, "user-123", RoleStudent, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-123")
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	middleware := NewAuthMiddleware(testSecret)
	router := protectedTestRouter(middleware)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	middleware := NewAuthMiddleware(testSecret)
	router := protectedTestRouter(middleware)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	middleware := NewAuthMiddleware(testSecret)
	router := protectedTestRouter(middleware)

	token := makeTestToken(t, "user-123", RoleStudent, -time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	middleware := NewAuthMiddleware("another-secret")
	router := protectedTestRouter(middleware)

	token := makeTestToken(t, "user-123", RoleStudent, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_StudentDeniedAdminRoute(t *testing.T) {
	middleware := NewAuthMiddleware(testSecret)
	router := protectedTestRouter(middleware, middleware.RequireRole(RoleAdmin))

	token := makeTestToken(t, "user-123", RoleStudent, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_AdminAllowed(t *testing.T) {
	middleware := NewAuthMiddleware(testSecret)
	router := protectedTestRouter(middleware, middleware.RequireRole(RoleAdmin))

	token := makeTestToken(t, "admin-1", RoleAdmin, time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
