package handler

import (
	"errors"
	"net/http"
	"time"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BorrowHandler обрабатывает HTTP запросы выдачи и возврата книг.
// Выдачу и прием оформляет администратор за стойкой, читатель видит
// только собственный список.
type BorrowHandler struct {
	circulationService *service.CirculationService
	validator          *validator.Validate
}

// NewBorrowHandler создает новый обработчик выдач
func NewBorrowHandler(circulationService *service.CirculationService) *BorrowHandler {
	return &BorrowHandler{
		circulationService: circulationService,
		validator:          validator.New(),
	}
}

// BorrowBook обрабатывает POST /members/{id}/borrows (только admin)
func (h *BorrowHandler) BorrowBook(c *gin.Context) {
	var req entity.BorrowBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	record, err := h.circulationService.Borrow(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, service.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, service.ErrOutOfStock):
			c.JSON(http.StatusConflict, gin.H{"error": "No copies available"})
		case errors.Is(err, service.ErrAlreadyBorrowed):
			c.JSON(http.StatusConflict, gin.H{"error": "Member already has this book"})
		case errors.Is(err, service.ErrInvalidDueDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Due date cannot be in the past"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to borrow book"})
		}
		return
	}

	c.JSON(http.StatusCreated, record)
}

// ReturnBook обрабатывает DELETE /members/{id}/borrows/{bookId} (только admin)
func (h *BorrowHandler) ReturnBook(c *gin.Context) {
	err := h.circulationService.Return(c.Request.Context(), c.Param("id"), c.Param("bookId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		case errors.Is(err, service.ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		case errors.Is(err, service.ErrBorrowNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Member does not have this book"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to return book"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Book returned successfully",
	})
}

// ListMemberBorrows обрабатывает GET /members/{id}/borrows (только admin)
func (h *BorrowHandler) ListMemberBorrows(c *gin.Context) {
	h.listBorrows(c, c.Param("id"))
}

// ListMyBorrows обрабатывает GET /members/me/borrows
// Читатель видит свои выдачи со статусами, вычисленными на момент запроса
func (h *BorrowHandler) ListMyBorrows(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}
	h.listBorrows(c, userID)
}

func (h *BorrowHandler) listBorrows(c *gin.Context, memberID string) {
	result, err := h.circulationService.ListBorrows(c.Request.Context(), memberID, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list borrows"})
		return
	}

	c.JSON(http.StatusOK, result)
}
