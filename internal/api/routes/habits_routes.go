package routes

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/zendpb/HabitTracker/internal/api/handlers"
)

type HabitsRoutes struct {
	handler *handlers.HabitsHandler
}

func NewHabitsRoutes(handler *handlers.HabitsHandler) *HabitsRoutes {
	return &HabitsRoutes{handler: handler}
}

// RegisterRoutes registers all habit-related routes
func (h *HabitsRoutes) RegisterRoutes(router *gin.Engine) {
	habits := router.Group("/api/habits")

	// List and aggregate views - specific routes first
	// Apply compression for large data responses like heatmaps and ledgers
	habits.GET("", gzip.Gzip(gzip.DefaultCompression), h.handler.ListHabits)
	habits.POST("", h.handler.CreateHabit)
	habits.GET("/heatmap", gzip.Gzip(gzip.DefaultCompression), h.handler.GetHabitHeatmap)
	habits.GET("/dashboard", h.handler.GetDashboard)
	habits.GET("/analytics/weak-days", h.handler.GetWeakDays)

	// CRUD operations with parameters
	habits.GET("/:id", h.handler.GetHabit)
	habits.PUT("/:id", h.handler.UpdateHabit)
	habits.DELETE("/:id", h.handler.DeleteHabit)
	habits.POST("/:id/archive", h.handler.ArchiveHabit)
	habits.POST("/:id/unarchive", h.handler.UnarchiveHabit)

	// Completion ledger routes
	habits.POST("/:id/complete", h.handler.MarkHabitCompleted)
	habits.POST("/:id/uncomplete", h.handler.UnmarkHabitCompleted)
	habits.POST("/:id/toggle", h.handler.ToggleHabit)
	habits.GET("/:id/entries", gzip.Gzip(gzip.DefaultCompression), h.handler.GetHabitEntries)

	// Per-habit analytics and scheduling routes
	habits.GET("/:id/reminder", h.handler.GetHabitReminder)
	habits.GET("/:id/advice", h.handler.GetHabitAdvice)
}
