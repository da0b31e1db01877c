package handler

import (
	"errors"
	"net/http"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ReviewHandler обрабатывает HTTP запросы отзывов с использованием Gin
type ReviewHandler struct {
	reviewService *service.ReviewService
	validator     *validator.Validate
}

// NewReviewHandler создает новый обработчик отзывов
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// CreateReview обрабатывает POST /books/{id}/reviews
// Один пользователь - один отзыв на книгу
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	review, err := h.reviewService.AddReview(c.Request.Context(), c.Param("id"), userID, c.GetString("name"), &req)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		if errors.Is(err, service.ErrDuplicateReview) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this book"})
			return
		}
		if errors.Is(err, service.ErrInvalidRating) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

// LikeReview обрабатывает PUT /books/{id}/reviews/{reviewId}/like
// Повторный лайк снимает голос, лайк после дизлайка переносит его
func (h *ReviewHandler) LikeReview(c *gin.Context) {
	h.vote(c, entity.VoteLike)
}

// DislikeReview обрабатывает PUT /books/{id}/reviews/{reviewId}/dislike
func (h *ReviewHandler) DislikeReview(c *gin.Context) {
	h.vote(c, entity.VoteDislike)
}

func (h *ReviewHandler) vote(c *gin.Context, direction entity.VoteDirection) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.reviewService.Vote(c.Request.Context(), c.Param("id"), c.Param("reviewId"), userID, direction)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Vote updated",
	})
}

// DeleteReview обрабатывает DELETE /books/{id}/reviews/{reviewId}
// Разрешено автору отзыва и администратору
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, isAdmin, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("id"), c.Param("reviewId"), userID, isAdmin)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		if errors.Is(err, service.ErrUnauthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Review deleted successfully",
	})
}
