package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateHabitRequest represents the request to create a new habit
type CreateHabitRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        string  `json:"description"`
	Color              int     `json:"color"`
	Icon               string  `json:"icon"`
	XPValue            int     `json:"xp_value"`
	TargetDays         int     `json:"target_days"`
	ReminderTime       *string `json:"reminder_time,omitempty"`
	IsAdaptiveReminder bool    `json:"is_adaptive_reminder"`
}

// UpdateHabitRequest represents the request to update an existing habit
type UpdateHabitRequest struct {
	Name               *string `json:"name,omitempty"`
	Description        *string `json:"description,omitempty"`
	Color              *int    `json:"color,omitempty"`
	Icon               *string `json:"icon,omitempty"`
	XPValue            *int    `json:"xp_value,omitempty"`
	TargetDays         *int    `json:"target_days,omitempty"`
	ReminderTime       *string `json:"reminder_time,omitempty"`
	IsAdaptiveReminder *bool   `json:"is_adaptive_reminder,omitempty"`
	CurrentStreak      *int    `json:"current_streak,omitempty"`
	LongestStreak      *int    `json:"longest_streak,omitempty"`
}

// HabitResponse represents a habit in API responses
type HabitResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	Color              int        `json:"color"`
	Icon               string     `json:"icon"`
	EvolutionIcon      string     `json:"evolution_icon"`
	XPValue            int        `json:"xp_value"`
	TargetDays         int        `json:"target_days"`
	ReminderTime       *string    `json:"reminder_time,omitempty"`
	IsAdaptiveReminder bool       `json:"is_adaptive_reminder"`
	CreatedAt          time.Time  `json:"created_at"`
	CurrentStreak      int        `json:"current_streak"`
	LongestStreak      int        `json:"longest_streak"`
	LastCompletedDate  *time.Time `json:"last_completed_date,omitempty"`
	IsArchived         bool       `json:"is_archived"`
	CompletedToday     bool       `json:"completed_today"`
}

// HabitListResponse represents the response for listing habits
type HabitListResponse struct {
	Habits []HabitResponse `json:"habits"`
	Total  int             `json:"total"`
}

// CompletionEntryResponse represents a ledger entry in API responses
type CompletionEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	HabitID   uuid.UUID `json:"habit_id"`
	Day       time.Time `json:"day"`
	Timestamp time.Time `json:"timestamp"`
}

// ToggleResponse reports the state after toggling today's completion
type ToggleResponse struct {
	HabitID   uuid.UUID `json:"habit_id"`
	Completed bool      `json:"completed"`
}

// HeatmapResponse represents habit completion heatmap data
type HeatmapResponse struct {
	Data     map[string]int `json:"data"`
	Period   string         `json:"period"`
	MaxValue int            `json:"max_value"`
}

// WeakDaysResponse lists the weekdays with the fewest completions
type WeakDaysResponse struct {
	WeakDays []string `json:"weak_days"`
}

// AdviceResponse carries the advice category and display text for a habit
type AdviceResponse struct {
	HabitID  uuid.UUID `json:"habit_id"`
	Category string    `json:"category"`
	Text     string    `json:"text"`
}

// ReminderStatusResponse reports the reminder state machine for a habit
type ReminderStatusResponse struct {
	HabitID  uuid.UUID  `json:"habit_id"`
	State    string     `json:"state"`
	NextFire *time.Time `json:"next_fire,omitempty"`
	Hour     int        `json:"hour"`
	Minute   int        `json:"minute"`
}
