package handler

import (
	"errors"
	"net/http"

	"booknest/library-service/internal/app/library/entity"
	"booknest/library-service/internal/app/library/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// AnnouncementHandler обрабатывает HTTP запросы объявлений и заявок на книги
type AnnouncementHandler struct {
	announcementService *service.AnnouncementService
	validator           *validator.Validate
}

// NewAnnouncementHandler создает новый обработчик объявлений
func NewAnnouncementHandler(announcementService *service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		validator:           validator.New(),
	}
}

// ListAnnouncements обрабатывает GET /announcements
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	announcements, err := h.announcementService.ListAnnouncements(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list announcements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"announcements": announcements,
		"total":         len(announcements),
	})
}

// CreateAnnouncement обрабатывает POST /announcements (только admin)
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req entity.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	announcement, err := h.announcementService.CreateAnnouncement(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create announcement"})
		return
	}

	c.JSON(http.StatusCreated, announcement)
}

// DeleteAnnouncement обрабатывает DELETE /announcements/{id} (только admin)
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.announcementService.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Announcement not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete announcement"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Announcement deleted successfully",
	})
}

// CreateBookRequest обрабатывает POST /book-requests
func (h *AnnouncementHandler) CreateBookRequest(c *gin.Context) {
	var req entity.CreateBookRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	request, err := h.announcementService.CreateBookRequest(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create book request"})
		return
	}

	c.JSON(http.StatusCreated, request)
}

// ListBookRequests обрабатывает GET /book-requests (только admin)
func (h *AnnouncementHandler) ListBookRequests(c *gin.Context) {
	requests, err := h.announcementService.ListBookRequests(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list book requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requests": requests,
		"total":    len(requests),
	})
}

// DeleteBookRequest обрабатывает DELETE /book-requests/{id} (только admin)
func (h *AnnouncementHandler) DeleteBookRequest(c *gin.Context) {
	if err := h.announcementService.DeleteBookRequest(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book request not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book request"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Book request deleted successfully",
	})
}
