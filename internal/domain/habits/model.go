package habits

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Habit struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name               string     `gorm:"size:255;not null" json:"name"`
	Description        string     `gorm:"type:text" json:"description"`
	Color              int        `gorm:"default:0;not null" json:"color"`
	Icon               string     `gorm:"size:16;default:🌱" json:"icon"`
	XPValue            int        `gorm:"column:xp_value;default:15;not null" json:"xp_value"`
	TargetDays         int        `gorm:"default:0;not null" json:"target_days"` // 0 = unbounded
	ReminderTime       *string    `gorm:"size:5" json:"reminder_time,omitempty"` // "HH:MM", nil when adaptive
	IsAdaptiveReminder bool       `gorm:"default:true;not null" json:"is_adaptive_reminder"`
	CreatedAt          time.Time  `gorm:"not null" json:"created_at"`
	CurrentStreak      int        `gorm:"default:0;not null" json:"current_streak"`
	LongestStreak      int        `gorm:"default:0;not null" json:"longest_streak"`
	LastCompletedDate  *time.Time `gorm:"default:null" json:"last_completed_date,omitempty"`
	IsArchived         bool       `gorm:"default:false;not null" json:"is_archived"`
}

// TableName specifies the table name for the Habit model
func (Habit) TableName() string {
	return "habits"
}

// BeforeCreate is called before creating a new habit record
func (h *Habit) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	return nil
}

// CompletionEntry records that a habit was completed on a given calendar day.
// Day is the ledger key together with HabitID; Timestamp keeps the exact
// moment of the action for adaptive-time inference.
type CompletionEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	HabitID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_habit_day,priority:1" json:"habit_id"`
	Day       time.Time `gorm:"not null;uniqueIndex:idx_habit_day,priority:2" json:"day"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

// TableName specifies the table name for the CompletionEntry model
func (CompletionEntry) TableName() string {
	return "habit_completions"
}

// CreateHabitInput represents the input for creating a new habit
type CreateHabitInput struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	Color              int     `json:"color"`
	Icon               string  `json:"icon"`
	XPValue            int     `json:"xp_value"`
	TargetDays         int     `json:"target_days"`
	ReminderTime       *string `json:"reminder_time"`
	IsAdaptiveReminder bool    `json:"is_adaptive_reminder"`
}

// UpdateHabitInput represents the input for updating a habit
type UpdateHabitInput struct {
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

// HabitFilter defines the filtering options for habits
type HabitFilter struct {
	IncludeArchived bool
	ArchivedOnly    bool
}

// DayOf truncates an instant to the start of its UTC calendar day.
// All ledger keys use this granularity.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
