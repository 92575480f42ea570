package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zendpb/HabitTracker/internal/api/dto"
	"github.com/zendpb/HabitTracker/internal/domain/notification"
)

// NotificationHandler handles HTTP requests for the notification feed
type NotificationHandler struct {
	service notification.Service
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(service notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListNotifications godoc
// @Summary List notifications
// @Description Get the notification feed, newest first
// @Tags notifications
// @Accept json
// @Produce json
// @Param unread_only query bool false "Only unread notifications" default(false)
// @Param limit query int false "Maximum number of notifications" default(50)
// @Success 200 {object} dto.NotificationListResponse "Notifications retrieved successfully"
// @Failure 400 {object} map[string]string "Invalid request parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	unreadOnly := c.Query("unread_only") == "true"

	notifications, err := h.service.List(c.Request.Context(), unreadOnly, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = *NotificationToResponse(&n)
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.NotificationListResponse{
		Notifications: responses,
		Total:         len(responses),
	}})
}

// MarkNotificationRead godoc
// @Summary Mark a notification as read
// @Description Mark a single notification as read
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Success 204 "Notification marked as read"
// @Failure 400 {object} map[string]string "Invalid notification ID"
// @Failure 404 {object} map[string]string "Notification not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification ID"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, notification.ErrNotificationNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
