package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/zendpb/HabitTracker/internal/api/handlers"
)

type StatsRoutes struct {
	handler *handlers.StatsHandler
}

func NewStatsRoutes(handler *handlers.StatsHandler) *StatsRoutes {
	return &StatsRoutes{handler: handler}
}

// RegisterRoutes registers all progression-related routes
func (s *StatsRoutes) RegisterRoutes(router *gin.Engine) {
	stats := router.Group("/api/stats")

	stats.GET("", s.handler.GetStats)
	stats.PUT("/level", s.handler.SetLevel)
	stats.PUT("/xp", s.handler.SetXP)
}
