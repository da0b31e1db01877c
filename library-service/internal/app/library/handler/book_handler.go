package handler

import (
	"errors"
	"net/http"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// BookHandler обрабатывает HTTP запросы каталога книг с использованием Gin
type BookHandler struct {
	catalogService *service.CatalogService
	validator      *validator.Validate
}

// NewBookHandler создает новый обработчик каталога
func NewBookHandler(catalogService *service.CatalogService) *BookHandler {
	return &BookHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// ListBooks обрабатывает GET /books
// Фильтр по названию передается query-параметром name
func (h *BookHandler) ListBooks(c *gin.Context) {
	result, err := h.catalogService.ListBooks(c.Request.Context(), c.Query("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list books"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBook обрабатывает GET /books/{id}
// Отзывы в ответе дополнены правом удаления для текущего пользователя
func (h *BookHandler) GetBook(c *gin.Context) {
	userID, isAdmin, ok := currentUser(c)
	if !ok {
		return
	}

	view, err := h.catalogService.GetBook(c.Request.Context(), c.Param("id"), userID, isAdmin)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get book"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// CreateBook обрабатывает POST /books (только admin)
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req entity.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	book, err := h.catalogService.CreateBook(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create book"})
		return
	}

	c.JSON(http.StatusCreated, book)
}

// UpdateBook обрабатывает PUT /books/{id} (только admin)
// Частичное обновление: отсутствующие поля не трогаются
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req entity.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	book, err := h.catalogService.UpdateBook(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		if errors.Is(err, service.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update book"})
		return
	}

	c.JSON(http.StatusOK, book)
}

// DeleteBook обрабатывает DELETE /books/{id} (только admin)
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.catalogService.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Book deleted successfully",
	})
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
