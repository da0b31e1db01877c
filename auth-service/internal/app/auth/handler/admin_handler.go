package handler

import (
	"errors"
	"net/http"

	"booknest/auth-service/internal/app/auth/entity"
	"booknest/auth-service/internal/app/auth/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler - административные операции над аккаунтами
type AdminHandler struct {
	accountService *service.AccountService
}

func NewAdminHandler(accountService *service.AccountService) *AdminHandler {
	return &AdminHandler{accountService: accountService}
}

// ListAccounts обрабатывает GET /admin/accounts
// С параметром pending=true возвращает только неодобренные заявки
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	var (
		accounts []entity.Account
		err      error
	)

	if c.Query("pending") == "true" {
		accounts, err = h.accountService.ListPendingAccounts(c.Request.Context())
	} else {
		accounts, err = h.accountService.ListAccounts(c.Request.Context())
	}

	if err != nil {
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts, "total": len(accounts)})
}

// ApproveAccount обрабатывает POST /admin/accounts/{id}/approve
func (h *AdminHandler) ApproveAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid account ID"})
		return
	}

	if err := h.accountService.ApproveAccount(c.Request.Context(), accountID); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to approve account"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Account approved"})
}

// DeleteAccount обрабатывает DELETE /admin/accounts/{id}
func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: "Invalid account ID"})
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID); err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: "Account not found"})
		case errors.Is(err, service.ErrLastAdmin):
			c.JSON(http.StatusConflict, entity.ErrorResponse{Error: "Cannot delete the last admin account"})
		default:
			c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "Failed to delete account"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Account deleted"})
}
