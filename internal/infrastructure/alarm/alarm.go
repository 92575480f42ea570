package alarm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/zendpb/HabitTracker/internal/domain/events"
	"github.com/zendpb/HabitTracker/internal/domain/notification"
	"github.com/zendpb/HabitTracker/internal/domain/reminder"
	"github.com/zendpb/HabitTracker/pkg/config"
	"go.uber.org/zap"
)

// ErrExactUnavailable is returned when an exact alarm is requested but the
// host configuration only grants best-effort timers.
var ErrExactUnavailable = errors.New("exact alarms unavailable")

// Manager is a timer-backed implementation of the reminder dispatcher.
// Alarms are keyed: a new request under a live key replaces its timer, so
// re-scheduling never duplicates a fire.
type Manager struct {
	notifySvc notification.Service
	bus       *events.Bus
	logger    *zap.Logger

	exact  bool
	jitter time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewManager(cfg *config.Config, notifySvc notification.Service, bus *events.Bus, logger *zap.Logger) *Manager {
	return &Manager{
		notifySvc: notifySvc,
		bus:       bus,
		logger:    logger,
		exact:     cfg.Reminders.ExactAlarms,
		jitter:    cfg.Reminders.InexactWindow,
		timers:    make(map[string]*time.Timer),
	}
}

// Capability reports whether exact alarms are granted by configuration.
func (m *Manager) Capability() reminder.Capability {
	if m.exact {
		return reminder.ExactAvailable
	}
	return reminder.InexactOnly
}

func (m *Manager) RequestExactAlarm(key string, when time.Time, payload reminder.Payload) error {
	if !m.exact {
		return ErrExactUnavailable
	}
	m.arm(key, when, payload)
	return nil
}

// RequestInexactAlarm arms a best-effort timer: the fire lands somewhere in
// the jitter window after the requested instant.
func (m *Manager) RequestInexactAlarm(key string, when time.Time, payload reminder.Payload) error {
	if m.jitter > 0 {
		when = when.Add(time.Duration(rand.Int63n(int64(m.jitter))))
	}
	m.arm(key, when, payload)
	return nil
}

func (m *Manager) arm(key string, when time.Time, payload reminder.Payload) {
	delay := time.Until(when)
	if delay < 0 {
		delay = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.timers[key]; ok {
		existing.Stop()
	}
	m.timers[key] = time.AfterFunc(delay, func() {
		m.fire(key, payload)
	})
}

// CancelAlarm stops any pending timer for the key; no-op if none pending.
func (m *Manager) CancelAlarm(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t, ok := m.timers[key]; ok {
		t.Stop()
		delete(m.timers, key)
	}
}

// ShowImmediate surfaces a message right away through the feed.
func (m *Manager) ShowImmediate(title, body string) {
	if _, err := m.notifySvc.Create(context.Background(), notification.General, title, body, nil); err != nil {
		m.logger.Error("Failed to store immediate notification", zap.Error(err))
	}
}

func (m *Manager) fire(key string, payload reminder.Payload) {
	m.mu.Lock()
	delete(m.timers, key)
	m.mu.Unlock()

	title := "Habit Reminder"
	body := fmt.Sprintf("Time for: %s", payload.HabitName)

	if _, err := m.notifySvc.Create(context.Background(), notification.HabitReminder, title, body, &payload.HabitID); err != nil {
		m.logger.Error("Failed to store reminder notification",
			zap.String("habit_id", payload.HabitID.String()), zap.Error(err))
	}

	m.bus.Publish(events.ChangeEvent{
		Topic:    events.TopicReminderFired,
		EntityID: payload.HabitID,
		Details: map[string]interface{}{
			"habit_name": payload.HabitName,
		},
	})

	m.logger.Info("Reminder fired",
		zap.String("habit_id", payload.HabitID.String()),
		zap.String("habit_name", payload.HabitName),
	)
}

// Shutdown stops every pending timer.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, t := range m.timers {
		t.Stop()
		delete(m.timers, key)
	}
}
