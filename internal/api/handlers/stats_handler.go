package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zendpb/HabitTracker/internal/api/dto"
	"github.com/zendpb/HabitTracker/internal/domain/progress"
)

// StatsHandler handles HTTP requests for the global progression state
type StatsHandler struct {
	service progress.Service
}

// NewStatsHandler creates a new StatsHandler instance
func NewStatsHandler(service progress.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

func statsToResponse(stats *progress.UserStats) dto.StatsResponse {
	return dto.StatsResponse{
		TotalXP:          stats.TotalXP,
		Level:            stats.Level,
		RequiredXP:       progress.RequiredXP(stats.Level),
		TreeStage:        stats.TreeStage,
		TotalCoins:       stats.TotalCoins,
		TotalCompletions: stats.TotalCompletions,
	}
}

// GetStats godoc
// @Summary Get progression stats
// @Description Get the current XP, level, tree stage and lifetime counters
// @Tags stats
// @Accept json
// @Produce json
// @Success 200 {object} dto.StatsResponse "Stats retrieved successfully"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/stats [get]
func (h *StatsHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": statsToResponse(stats)})
}

// SetLevel godoc
// @Summary Override the current level
// @Description Set the level directly, keeping accumulated XP
// @Tags stats
// @Accept json
// @Produce json
// @Param level body dto.SetLevelRequest true "Level override request"
// @Success 200 {object} dto.StatsResponse "Level updated successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/stats/level [put]
func (h *StatsHandler) SetLevel(c *gin.Context) {
	var req dto.SetLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.service.SetLevel(c.Request.Context(), req.Level)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": statsToResponse(stats)})
}

// SetXP godoc
// @Summary Override the in-level XP
// @Description Set the in-level XP directly, keeping the current level
// @Tags stats
// @Accept json
// @Produce json
// @Param xp body dto.SetXPRequest true "XP override request"
// @Success 200 {object} dto.StatsResponse "XP updated successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/stats/xp [put]
func (h *StatsHandler) SetXP(c *gin.Context) {
	var req dto.SetXPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.service.SetXP(c.Request.Context(), req.XP)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": statsToResponse(stats)})
}
