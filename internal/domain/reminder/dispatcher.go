package reminder

import (
	"time"

	"github.com/google/uuid"
)

// Capability reports what the host alarm facility grants.
type Capability int

const (
	// ExactAvailable means wake-capable exact alarms may be requested
	ExactAvailable Capability = iota
	// InexactOnly means only best-effort timers are granted
	InexactOnly
)

// Payload carries what the fired reminder needs for display.
type Payload struct {
	HabitID   uuid.UUID `json:"habit_id"`
	HabitName string    `json:"habit_name"`
}

// Dispatcher is the notification collaborator. Alarms are keyed: requesting
// an alarm under an existing key replaces it, and CancelAlarm on an unknown
// key is a no-op. Calls are fire-and-forget.
type Dispatcher interface {
	Capability() Capability
	RequestExactAlarm(key string, when time.Time, payload Payload) error
	RequestInexactAlarm(key string, when time.Time, payload Payload) error
	CancelAlarm(key string)
	ShowImmediate(title, body string)
}
