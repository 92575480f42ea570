package reminder

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zendpb/HabitTracker/internal/domain/habits"
	"go.uber.org/zap"
)

// DefaultHour is the reminder hour used when a habit has no history yet.
const DefaultHour = 9

var remindersScheduled = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "habit_reminders_scheduled_total",
	Help: "Total number of reminder alarms requested",
}, []string{"mode"})

// State identifies a habit's position in the reminder state machine.
type State int

const (
	NoReminder State = iota
	AdaptivePending
	ManualPending
)

func (s State) String() string {
	switch s {
	case AdaptivePending:
		return "adaptive_pending"
	case ManualPending:
		return "manual_pending"
	default:
		return "no_reminder"
	}
}

// Status is the scheduler's view of one habit.
type Status struct {
	State    State     `json:"state"`
	NextFire time.Time `json:"next_fire,omitempty"`
	Hour     int       `json:"hour"`
	Minute   int       `json:"minute"`
}

// Scheduler decides the time-of-day to fire a reminder for each habit,
// either from an explicit manual time or inferred from completion history,
// and turns that decision into keyed alarm requests.
type Scheduler struct {
	dispatcher  Dispatcher
	defaultHour int
	logger      *zap.Logger
	now         func() time.Time

	mu     sync.Mutex
	states map[uuid.UUID]Status
}

// NewScheduler builds a scheduler that falls back to defaultHour for habits
// with no completion history. Out-of-range hours fall back to 09:00.
func NewScheduler(dispatcher Dispatcher, defaultHour int, logger *zap.Logger) *Scheduler {
	if defaultHour < 0 || defaultHour > 23 {
		defaultHour = DefaultHour
	}
	return &Scheduler{
		dispatcher:  dispatcher,
		defaultHour: defaultHour,
		logger:      logger,
		now:         time.Now,
		states:      make(map[uuid.UUID]Status),
	}
}

// WithClock overrides the scheduler's time source. Used by tests.
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	s.now = now
	return s
}

// InferTime derives the reminder time-of-day from completion history: the
// hour of day in which the most completions were logged, minute fixed at 0.
// No history yields the 09:00 default. Ties resolve to the lowest hour, so
// the result is reproducible regardless of entry order.
func InferTime(entries []habits.CompletionEntry) (hour, minute int) {
	if len(entries) == 0 {
		return DefaultHour, 0
	}

	counts := make(map[int]int)
	for _, e := range entries {
		counts[e.Timestamp.UTC().Hour()]++
	}

	bestHour, bestCount := -1, -1
	for h := 0; h < 24; h++ {
		if counts[h] > bestCount {
			bestHour, bestCount = h, counts[h]
		}
	}
	return bestHour, 0
}

// inferTime is InferTime with the scheduler's configured fallback hour
// substituted for the package default when a habit has no history yet.
func (s *Scheduler) inferTime(entries []habits.CompletionEntry) (hour, minute int) {
	if len(entries) == 0 {
		return s.defaultHour, 0
	}
	return InferTime(entries)
}

// NextFireTime computes the next future instant at hour:minute — today if
// that time is still ahead, otherwise tomorrow.
func NextFireTime(now time.Time, hour, minute int) time.Time {
	fire := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !fire.After(now) {
		fire = fire.AddDate(0, 0, 1)
	}
	return fire
}

// ParseClock parses an explicit "HH:MM" reminder time.
func ParseClock(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid reminder time %q", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid reminder hour %q", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid reminder minute %q", value)
	}
	return hour, minute, nil
}

// Sync drives the habit's reminder state machine from its current settings
// and ledger: adaptive habits infer a time from history, manual habits parse
// their explicit time, archived habits and habits with neither setting end
// up with no pending alarm.
func (s *Scheduler) Sync(ctx context.Context, habit *habits.Habit, entries []habits.CompletionEntry) error {
	if habit.IsArchived {
		s.Cancel(habit.ID)
		return nil
	}

	switch {
	case habit.IsAdaptiveReminder:
		hour, minute := s.inferTime(entries)
		return s.schedule(habit, hour, minute, AdaptivePending)
	case habit.ReminderTime != nil && *habit.ReminderTime != "":
		hour, minute, err := ParseClock(*habit.ReminderTime)
		if err != nil {
			return err
		}
		return s.schedule(habit, hour, minute, ManualPending)
	default:
		s.Cancel(habit.ID)
		return nil
	}
}

func (s *Scheduler) schedule(habit *habits.Habit, hour, minute int, state State) error {
	when := NextFireTime(s.now(), hour, minute)
	key := habit.ID.String()
	payload := Payload{HabitID: habit.ID, HabitName: habit.Name}

	// The exact/inexact branch lives here and nowhere else. A denied exact
	// request degrades to a best-effort timer; it is not an error.
	mode := "exact"
	if s.dispatcher.Capability() == ExactAvailable {
		if err := s.dispatcher.RequestExactAlarm(key, when, payload); err != nil {
			s.logger.Warn("Exact alarm denied, falling back to inexact",
				zap.String("habit_id", key), zap.Error(err))
			mode = "inexact"
			if err := s.dispatcher.RequestInexactAlarm(key, when, payload); err != nil {
				return err
			}
		}
	} else {
		mode = "inexact"
		if err := s.dispatcher.RequestInexactAlarm(key, when, payload); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.states[habit.ID] = Status{State: state, NextFire: when, Hour: hour, Minute: minute}
	s.mu.Unlock()

	remindersScheduled.WithLabelValues(mode).Inc()
	s.logger.Info("Reminder scheduled",
		zap.String("habit_id", key),
		zap.String("state", state.String()),
		zap.String("mode", mode),
		zap.Time("next_fire", when),
	)
	return nil
}

// Cancel drops any pending alarm for the habit; no-op if none pending.
func (s *Scheduler) Cancel(habitID uuid.UUID) {
	s.dispatcher.CancelAlarm(habitID.String())

	s.mu.Lock()
	s.states[habitID] = Status{State: NoReminder}
	s.mu.Unlock()
}

// Forget removes all scheduler state for a deleted habit.
func (s *Scheduler) Forget(habitID uuid.UUID) {
	s.dispatcher.CancelAlarm(habitID.String())

	s.mu.Lock()
	delete(s.states, habitID)
	s.mu.Unlock()
}

// StatusFor reports the current reminder state for a habit.
func (s *Scheduler) StatusFor(habitID uuid.UUID) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[habitID]
}
