package handlers

import (
	"github.com/zendpb/HabitTracker/internal/api/dto"
	"github.com/zendpb/HabitTracker/internal/domain/habits"
	"github.com/zendpb/HabitTracker/internal/domain/notification"
	"github.com/zendpb/HabitTracker/internal/domain/reminder"
)

// Habits
func HabitToResponse(h *habits.Habit, completedToday bool) *dto.HabitResponse {
	if h == nil {
		return nil
	}
	return &dto.HabitResponse{
		ID:                 h.ID,
		Name:               h.Name,
		Description:        h.Description,
		Color:              h.Color,
		Icon:               h.Icon,
		EvolutionIcon:      habits.EvolutionIcon(h.CurrentStreak),
		XPValue:            h.XPValue,
		TargetDays:         h.TargetDays,
		ReminderTime:       h.ReminderTime,
		IsAdaptiveReminder: h.IsAdaptiveReminder,
		CreatedAt:          h.CreatedAt,
		CurrentStreak:      h.CurrentStreak,
		LongestStreak:      h.LongestStreak,
		LastCompletedDate:  h.LastCompletedDate,
		IsArchived:         h.IsArchived,
		CompletedToday:     completedToday,
	}
}

func EntryToResponse(e *habits.CompletionEntry) *dto.CompletionEntryResponse {
	if e == nil {
		return nil
	}
	return &dto.CompletionEntryResponse{
		ID:        e.ID,
		HabitID:   e.HabitID,
		Day:       e.Day,
		Timestamp: e.Timestamp,
	}
}

func EntriesToResponse(entries []habits.CompletionEntry) []dto.CompletionEntryResponse {
	response := make([]dto.CompletionEntryResponse, len(entries))
	for i, e := range entries {
		response[i] = *EntryToResponse(&e)
	}
	return response
}

// Reminders
func ReminderStatusToResponse(h *habits.Habit, status reminder.Status) *dto.ReminderStatusResponse {
	resp := &dto.ReminderStatusResponse{
		HabitID: h.ID,
		State:   status.State.String(),
		Hour:    status.Hour,
		Minute:  status.Minute,
	}
	if !status.NextFire.IsZero() {
		next := status.NextFire
		resp.NextFire = &next
	}
	return resp
}

// Notifications
func NotificationToResponse(n *notification.Notification) *dto.NotificationResponse {
	if n == nil {
		return nil
	}
	return &dto.NotificationResponse{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Title:     n.Title,
		Body:      n.Body,
		HabitID:   n.HabitID,
		Status:    string(n.Status),
		CreatedAt: n.CreatedAt,
	}
}
