package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zendpb/HabitTracker/internal/api/handlers"
)

type NotificationRoutes struct {
	handler *handlers.NotificationHandler
}

func NewNotificationRoutes(handler *handlers.NotificationHandler) *NotificationRoutes {
	return &NotificationRoutes{handler: handler}
}

// RegisterRoutes registers notification feed routes
func (n *NotificationRoutes) RegisterRoutes(router *gin.Engine) {
	notifications := router.Group("/api/notifications")

	notifications.GET("", n.handler.ListNotifications)
	notifications.POST("/:id/read", n.handler.MarkNotificationRead)
}
