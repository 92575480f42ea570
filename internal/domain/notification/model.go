package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind represents the type of notification
type Kind string

const (
	General        Kind = "general"
	HabitCompleted Kind = "habit_completed"
	HabitStreak    Kind = "habit_streak"
	HabitBroken    Kind = "habit_broken"
	HabitReminder  Kind = "habit_reminder"
	BackupResult   Kind = "backup_result"
)

// Status represents the status of a notification
type Status string

const (
	// Unread status for new notifications
	Unread Status = "UNREAD"
	// Read status for viewed notifications
	Read Status = "READ"
)

// Notification is one row of the in-app notification feed.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Kind      Kind       `gorm:"size:50;not null" json:"kind"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	HabitID   *uuid.UUID `gorm:"type:uuid;index" json:"habit_id,omitempty"`
	Status    Status     `gorm:"size:16;default:UNREAD;not null" json:"status"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate is called before creating a new notification record
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = Unread
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return nil
}
