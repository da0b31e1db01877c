package handler

import (
	"errors"
	"net/http"

	"booknest/library-service/internal/app/library/service"

	"github.com/gin-gonic/gin"
)

// MemberHandler обрабатывает HTTP запросы профиля читателя и списка желаемого
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler создает новый обработчик читателей
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// GetMe обрабатывает GET /members/me
func (h *MemberHandler) GetMe(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	member, err := h.memberService.GetMember(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get member"})
		return
	}

	c.JSON(http.StatusOK, member)
}

// GetWishlist обрабатывает GET /members/me/wishlist
func (h *MemberHandler) GetWishlist(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	books, err := h.memberService.GetWishlist(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books": books,
		"total": len(books),
	})
}

// AddToWishlist обрабатывает POST /members/me/wishlist/{bookId}
func (h *MemberHandler) AddToWishlist(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.memberService.AddToWishlist(c.Request.Context(), userID, c.Param("bookId"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		if errors.Is(err, service.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book added to wishlist"})
}

// RemoveFromWishlist обрабатывает DELETE /members/me/wishlist/{bookId}
func (h *MemberHandler) RemoveFromWishlist(c *gin.Context) {
	userID, _, ok := currentUser(c)
	if !ok {
		return
	}

	err := h.memberService.RemoveFromWishlist(c.Request.Context(), userID, c.Param("bookId"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		if errors.Is(err, service.ErrMemberNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove from wishlist"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book removed from wishlist"})
}
