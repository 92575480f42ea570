package events

import (
	"time"

	"github.com/google/uuid"
)

// Change event topics published by the engine after each mutation.
const (
	TopicHabitChanged      = "habit_changed"
	TopicCompletionChanged = "completion_changed"
	TopicStatsChanged      = "stats_changed"
	TopicReminderFired     = "reminder_fired"
)

// ChangeEvent represents a store mutation observable by subscribers
type ChangeEvent struct {
	Topic     string      `json:"topic"`
	EntityID  uuid.UUID   `json:"entity_id"`
	Timestamp time.Time   `json:"timestamp"`
	Details   interface{} `json:"details,omitempty"`
}
