package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/zendpb/HabitTracker/internal/api/dto"
	"github.com/zendpb/HabitTracker/internal/domain/habits"
	"github.com/zendpb/HabitTracker/internal/domain/reminder"
)

// HabitsHandler handles HTTP requests for habits operations
type HabitsHandler struct {
	service   habits.Service
	scheduler *reminder.Scheduler
}

// NewHabitsHandler creates a new HabitsHandler instance
func NewHabitsHandler(service habits.Service, scheduler *reminder.Scheduler) *HabitsHandler {
	return &HabitsHandler{service: service, scheduler: scheduler}
}

// CreateHabit godoc
// @Summary Create a new habit
// @Description Create a new habit with the provided information
// @Tags habits
// @Accept json
// @Produce json
// @Param habit body dto.CreateHabitRequest true "Habit creation request"
// @Success 201 {object} dto.HabitResponse "Habit created successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits [post]
func (h *HabitsHandler) CreateHabit(c *gin.Context) {
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := habits.CreateHabitInput{
		Name:               req.Name,
		Description:        req.Description,
		Color:              req.Color,
		Icon:               req.Icon,
		XPValue:            req.XPValue,
		TargetDays:         req.TargetDays,
		ReminderTime:       req.ReminderTime,
		IsAdaptiveReminder: req.IsAdaptiveReminder,
	}

	createdHabit, err := h.service.CreateHabit(c.Request.Context(), input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrInvalidInput {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": HabitToResponse(createdHabit, false)})
}

// GetHabit godoc
// @Summary Get a habit by ID
// @Description Get detailed information about a specific habit
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Success 200 {object} dto.HabitResponse "Habit details retrieved successfully"
// @Failure 400 {object} map[string]string "Invalid habit ID"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id} [get]
func (h *HabitsHandler) GetHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	habit, err := h.service.GetHabit(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	doneToday, err := h.service.TodayCompletions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit, doneToday[habit.ID])})
}

// ListHabits godoc
// @Summary List habits
// @Description Get a list of habits, active by default
// @Tags habits
// @Accept json
// @Produce json
// @Param include_archived query bool false "Include archived habits" default(false)
// @Param archived_only query bool false "Only archived habits" default(false)
// @Success 200 {object} dto.HabitListResponse "List of habits retrieved successfully"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits [get]
func (h *HabitsHandler) ListHabits(c *gin.Context) {
	filter := habits.HabitFilter{
		IncludeArchived: c.Query("include_archived") == "true",
		ArchivedOnly:    c.Query("archived_only") == "true",
	}

	habitsData, err := h.service.ListHabits(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	doneToday, err := h.service.TodayCompletions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]dto.HabitResponse, len(habitsData))
	for i, habit := range habitsData {
		responses[i] = *HabitToResponse(&habit, doneToday[habit.ID])
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HabitListResponse{
		Habits: responses,
		Total:  len(responses),
	}})
}

// UpdateHabit godoc
// @Summary Update a habit
// @Description Update an existing habit's information
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Param habit body dto.UpdateHabitRequest true "Habit update information"
// @Success 200 {object} dto.HabitResponse "Habit updated successfully"
// @Failure 400 {object} map[string]string "Invalid request or habit ID"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id} [put]
func (h *HabitsHandler) UpdateHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := habits.UpdateHabitInput{
		Name:               req.Name,
		Description:        req.Description,
		Color:              req.Color,
		Icon:               req.Icon,
		XPValue:            req.XPValue,
		TargetDays:         req.TargetDays,
		ReminderTime:       req.ReminderTime,
		IsAdaptiveReminder: req.IsAdaptiveReminder,
		CurrentStreak:      req.CurrentStreak,
		LongestStreak:      req.LongestStreak,
	}

	updatedHabit, err := h.service.UpdateHabit(c.Request.Context(), id, input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(updatedHabit, false)})
}

// DeleteHabit godoc
// @Summary Delete a habit
// @Description Delete a habit and its completion ledger
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Success 204 "Habit deleted successfully"
// @Failure 400 {object} map[string]string "Invalid habit ID"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id} [delete]
func (h *HabitsHandler) DeleteHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	err = h.service.DeleteHabit(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// ArchiveHabit godoc
// @Summary Archive a habit
// @Description Archive a habit, cancelling its pending reminder
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Success 200 {object} dto.HabitResponse "Habit archived successfully"
// @Failure 400 {object} map[string]string "Invalid habit ID"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id}/archive [post]
func (h *HabitsHandler) ArchiveHabit(c *gin.Context) {
	h.setArchived(c, true)
}

// UnarchiveHabit godoc
// @Summary Unarchive a habit
// @Description Restore an archived habit and reschedule its reminder
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Success 200 {object} dto.HabitResponse "Habit unarchived successfully"
// @Failure 400 {object} map[string]string "Invalid habit ID"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id}/unarchive [post]
func (h *HabitsHandler) UnarchiveHabit(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *HabitsHandler) setArchived(c *gin.Context, archived bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	habit, err := h.service.SetArchived(c.Request.Context(), id, archived)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit, false)})
}

// MarkHabitCompleted godoc
// @Summary Mark a habit as completed
// @Description Record a completion for today or a specific day
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Param day query string false "Completion day (YYYY-MM-DD)" format(date)
// @Success 200 {object} dto.HabitResponse "Habit marked as completed"
// @Failure 400 {object} map[string]string "Invalid habit ID or day"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id}/complete [post]
func (h *HabitsHandler) MarkHabitCompleted(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	day, ok := h.completionDay(c)
	if !ok {
		return
	}

	habit, err := h.service.MarkDone(c.Request.Context(), id, day)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit, true)})
}

// UnmarkHabitCompleted godoc
// @Summary Unmark a habit as completed
// @Description Remove the completion for today or a specific day
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Param day query string false "Completion day (YYYY-MM-DD)" format(date)
// @Success 200 {object} dto.HabitResponse "Habit unmarked as completed"
// @Failure 400 {object} map[string]string "Invalid habit ID or day"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id}/uncomplete [post]
func (h *HabitsHandler) UnmarkHabitCompleted(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	day, ok := h.completionDay(c)
	if !ok {
		return
	}

	habit, err := h.service.UnmarkDone(c.Request.Context(), id, day)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": HabitToResponse(habit, false)})
}

func (h *HabitsHandler) completionDay(c *gin.Context) (time.Time, bool) {
	dayStr := c.Query("day")
	if dayStr == "" {
		return time.Now(), true
	}
	day, err := time.Parse("2006-01-02", dayStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day format, expected YYYY-MM-DD"})
		return time.Time{}, false
	}
	return day, true
}

// ToggleHabit godoc
// @Summary Toggle today's completion
// @Description Flip today's completion state for the habit
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Success 200 {object} dto.ToggleResponse "Toggled successfully"
// @Failure 400 {object} map[string]string "Invalid habit ID"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id}/toggle [post]
func (h *HabitsHandler) ToggleHabit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	completed, err := h.service.ToggleToday(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.ToggleResponse{HabitID: id, Completed: completed}})
}

// GetHabitEntries godoc
// @Summary Get the completion ledger for a habit
// @Description Get every recorded completion for a habit, newest first
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Success 200 {array} dto.CompletionEntryResponse "Entries retrieved successfully"
// @Failure 400 {object} map[string]string "Invalid habit ID"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id}/entries [get]
func (h *HabitsHandler) GetHabitEntries(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	entries, err := h.service.EntriesFor(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": EntriesToResponse(entries)})
}

// GetHabitReminder godoc
// @Summary Get reminder status for a habit
// @Description Get the reminder state and next fire time for a habit
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Success 200 {object} dto.ReminderStatusResponse "Reminder status retrieved successfully"
// @Failure 400 {object} map[string]string "Invalid habit ID"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id}/reminder [get]
func (h *HabitsHandler) GetHabitReminder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	habit, err := h.service.GetHabit(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	status := h.scheduler.StatusFor(id)
	c.JSON(http.StatusOK, gin.H{"data": ReminderStatusToResponse(habit, status)})
}

// GetHabitAdvice godoc
// @Summary Get advice for a habit
// @Description Get a rule-based advice category derived from the habit's ledger
// @Tags habits
// @Accept json
// @Produce json
// @Param id path string true "Habit ID" format(uuid)
// @Success 200 {object} dto.AdviceResponse "Advice retrieved successfully"
// @Failure 400 {object} map[string]string "Invalid habit ID"
// @Failure 404 {object} map[string]string "Habit not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/{id}/advice [get]
func (h *HabitsHandler) GetHabitAdvice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid habit ID"})
		return
	}

	advice, err := h.service.AdviceFor(c.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if err == habits.ErrHabitNotFound {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.AdviceResponse{
		HabitID:  id,
		Category: string(advice),
		Text:     advice.Text(),
	}})
}

// GetHabitHeatmap godoc
// @Summary Get habit completion heatmap data
// @Description Get aggregated completion counts per day for visualization as a heatmap
// @Tags habits
// @Accept json
// @Produce json
// @Param period query string false "Time period for heatmap data (week, month, year)" Enums(week, month, year) default(year)
// @Success 200 {object} dto.HeatmapResponse "Heatmap data retrieved successfully"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/heatmap [get]
func (h *HabitsHandler) GetHabitHeatmap(c *gin.Context) {
	period := c.DefaultQuery("period", "year")
	if period != "week" && period != "month" && period != "year" {
		period = "year"
	}

	heatmapData, err := h.service.Heatmap(c.Request.Context(), period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	maxValue := 0
	for _, count := range heatmapData {
		if count > maxValue {
			maxValue = count
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.HeatmapResponse{
		Data:     heatmapData,
		Period:   period,
		MaxValue: maxValue,
	}})
}

// GetWeakDays godoc
// @Summary Get the weakest weekdays
// @Description Get the weekdays with the fewest completions across all habits
// @Tags habits
// @Accept json
// @Produce json
// @Param n query int false "Number of weekdays to return" default(2)
// @Success 200 {object} dto.WeakDaysResponse "Weak days retrieved successfully"
// @Failure 400 {object} map[string]string "Invalid request parameters"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/analytics/weak-days [get]
func (h *HabitsHandler) GetWeakDays(c *gin.Context) {
	n, err := strconv.Atoi(c.DefaultQuery("n", "2"))
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid weekday count"})
		return
	}

	weakDays, err := h.service.WeakDays(c.Request.Context(), n)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	names := make([]string, len(weakDays))
	for i, d := range weakDays {
		names[i] = d.String()
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.WeakDaysResponse{WeakDays: names}})
}

// GetDashboard godoc
// @Summary Get dashboard metrics
// @Description Get summary counts across all habits for the dashboard view
// @Tags habits
// @Accept json
// @Produce json
// @Success 200 {object} dto.DashboardResponse "Dashboard metrics retrieved successfully"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/habits/dashboard [get]
func (h *HabitsHandler) GetDashboard(c *gin.Context) {
	metrics, err := h.service.DashboardMetrics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": dto.DashboardResponse{
		Total:          metrics.Total,
		Active:         metrics.Active,
		Archived:       metrics.Archived,
		CompletedToday: metrics.CompletedToday,
		BestStreak:     metrics.BestStreak,
	}})
}
