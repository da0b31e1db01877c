package handler

import (
	"errors"
	"net/http"

	"booknest/auth-service/internal/app/auth/entity"
	"booknest/auth-service/internal/app/auth/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// AuthHandler обрабатывает HTTP запросы аутентификации
type AuthHandler struct {
	authService    *service.AuthService
	accountService *service.AccountService
	validator      *validator.Validate
}

func NewAuthHandler(authService *service.AuthService, accountService *service.AccountService) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		validator:      validator.New(),
	}
}

// Register обрабатывает POST /auth/register
// Аккаунт создается неактивным и ждет одобрения администратором
func (h *AuthHandler) Register(c *gin.Context) {
	var req entity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	account, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to register"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration submitted, awaiting admin approval",
		"user":    account,
	})
}

// Login обрабатывает POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req entity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid email or password"})
		case errors.Is(err, service.ErrNotApproved):
			c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "Account is pending admin approval"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to login"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh обрабатывает POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req entity.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: formatValidationError(err)})
		return
	}

	pair, err := h.authService.RefreshTokens(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRefreshToken):
			c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "Invalid or expired refresh token"})
		case errors.Is(err, service.ErrNotApproved):
			c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: "Account is pending admin approval"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to refresh tokens"})
		}
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Logout обрабатывает POST /auth/logout
// Access токен попадает в черный список, refresh токен удаляется
func (h *AuthHandler) Logout(c *gin.Context) {
	var req entity.RefreshRequest
	// Тело с refresh токеном опционально
	_ = c.ShouldBindJSON(&req)

	accessToken := c.GetString("access_token")
	if err := h.authService.Logout(c.Request.Context(), accessToken, req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Logged out"})
}

// Me обрабатывает GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userIDValue, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: "authentication required"})
		return
	}

	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "invalid user context"})
		return
	}

	account, err := h.accountService.GetAccount(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to get account"})
		return
	}

	c.JSON(http.StatusOK, account)
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
