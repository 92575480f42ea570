package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zendpb/HabitTracker/internal/domain/habits"
	"go.uber.org/zap"
)

// mockDispatcher records alarm requests and can deny exact ones.
type mockDispatcher struct {
	capability Capability
	denyExact  bool

	exactRequests   map[string]time.Time
	inexactRequests map[string]time.Time
	cancelled       []string
}

func newMockDispatcher(capability Capability) *mockDispatcher {
	return &mockDispatcher{
		capability:      capability,
		exactRequests:   make(map[string]time.Time),
		inexactRequests: make(map[string]time.Time),
	}
}

func (m *mockDispatcher) Capability() Capability {
	return m.capability
}

func (m *mockDispatcher) RequestExactAlarm(key string, when time.Time, payload Payload) error {
	if m.denyExact {
		return errors.New("exact alarms not permitted")
	}
	m.exactRequests[key] = when
	return nil
}

func (m *mockDispatcher) RequestInexactAlarm(key string, when time.Time, payload Payload) error {
	m.inexactRequests[key] = when
	return nil
}

func (m *mockDispatcher) CancelAlarm(key string) {
	m.cancelled = append(m.cancelled, key)
	delete(m.exactRequests, key)
	delete(m.inexactRequests, key)
}

func (m *mockDispatcher) ShowImmediate(title, body string) {}

func entryAt(hour int, day int) habits.CompletionEntry {
	d := time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC)
	return habits.CompletionEntry{
		ID:        uuid.New(),
		HabitID:   uuid.New(),
		Day:       d,
		Timestamp: d.Add(time.Duration(hour) * time.Hour),
	}
}

func TestInferTime(t *testing.T) {
	tests := []struct {
		name         string
		entries      []habits.CompletionEntry
		expectedHour int
	}{
		{
			name:         "Empty history falls back to default",
			entries:      nil,
			expectedHour: DefaultHour,
		},
		{
			name:         "All completions in one hour",
			entries:      []habits.CompletionEntry{entryAt(14, 1), entryAt(14, 2), entryAt(14, 3)},
			expectedHour: 14,
		},
		{
			name:         "Modal hour wins",
			entries:      []habits.CompletionEntry{entryAt(7, 1), entryAt(21, 2), entryAt(21, 3)},
			expectedHour: 21,
		},
		{
			name:         "Tie resolves to the lowest hour",
			entries:      []habits.CompletionEntry{entryAt(20, 1), entryAt(6, 2), entryAt(6, 3), entryAt(20, 4)},
			expectedHour: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute := InferTime(tt.entries)
			assert.Equal(t, tt.expectedHour, hour)
			assert.Equal(t, 0, minute)
		})
	}
}

func TestNextFireTime(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		hour     int
		minute   int
		expected time.Time
	}{
		{
			name: "Slot still ahead fires today",
			hour: 18, minute: 30,
			expected: time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC),
		},
		{
			name: "Slot already past fires tomorrow",
			hour: 9, minute: 0,
			expected: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "Exactly now fires tomorrow",
			hour: 12, minute: 0,
			expected: time.Date(2024, 3, 11, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NextFireTime(now, tt.hour, tt.minute))
		})
	}
}

func TestParseClock(t *testing.T) {
	hour, minute, err := ParseClock("07:45")
	require.NoError(t, err)
	assert.Equal(t, 7, hour)
	assert.Equal(t, 45, minute)

	for _, bad := range []string{"", "7", "25:00", "12:60", "ab:cd"} {
		_, _, err := ParseClock(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func testScheduler(dispatcher Dispatcher, now time.Time) *Scheduler {
	return NewScheduler(dispatcher, DefaultHour, zap.NewNop()).WithClock(func() time.Time { return now })
}

func TestSyncAdaptiveUsesConfiguredDefaultHour(t *testing.T) {
	dispatcher := newMockDispatcher(ExactAvailable)
	now := time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC)
	sched := NewScheduler(dispatcher, 7, zap.NewNop()).WithClock(func() time.Time { return now })

	habit := &habits.Habit{ID: uuid.New(), Name: "Read", IsAdaptiveReminder: true}
	require.NoError(t, sched.Sync(context.Background(), habit, nil))

	when := dispatcher.exactRequests[habit.ID.String()]
	assert.Equal(t, time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC), when)
	assert.Equal(t, 7, sched.StatusFor(habit.ID).Hour)

	// history still wins over the configured fallback
	require.NoError(t, sched.Sync(context.Background(), habit, []habits.CompletionEntry{entryAt(14, 1)}))
	assert.Equal(t, 14, sched.StatusFor(habit.ID).Hour)
}

func TestNewSchedulerRejectsOutOfRangeDefaultHour(t *testing.T) {
	dispatcher := newMockDispatcher(ExactAvailable)
	now := time.Date(2024, 3, 10, 5, 0, 0, 0, time.UTC)
	sched := NewScheduler(dispatcher, 30, zap.NewNop()).WithClock(func() time.Time { return now })

	habit := &habits.Habit{ID: uuid.New(), Name: "Read", IsAdaptiveReminder: true}
	require.NoError(t, sched.Sync(context.Background(), habit, nil))

	assert.Equal(t, DefaultHour, sched.StatusFor(habit.ID).Hour)
}

func TestSyncAdaptive(t *testing.T) {
	dispatcher := newMockDispatcher(ExactAvailable)
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	sched := testScheduler(dispatcher, now)

	habit := &habits.Habit{ID: uuid.New(), Name: "Read", IsAdaptiveReminder: true}
	entries := []habits.CompletionEntry{entryAt(14, 1), entryAt(14, 2)}

	require.NoError(t, sched.Sync(context.Background(), habit, entries))

	when, ok := dispatcher.exactRequests[habit.ID.String()]
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC), when)

	status := sched.StatusFor(habit.ID)
	assert.Equal(t, AdaptivePending, status.State)
	assert.Equal(t, 14, status.Hour)
}

func TestSyncManual(t *testing.T) {
	dispatcher := newMockDispatcher(ExactAvailable)
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	sched := testScheduler(dispatcher, now)

	reminderTime := "06:30"
	habit := &habits.Habit{ID: uuid.New(), Name: "Run", ReminderTime: &reminderTime}

	require.NoError(t, sched.Sync(context.Background(), habit, nil))

	// 06:30 already passed, so the fire rolls to tomorrow
	when := dispatcher.exactRequests[habit.ID.String()]
	assert.Equal(t, time.Date(2024, 3, 11, 6, 30, 0, 0, time.UTC), when)

	status := sched.StatusFor(habit.ID)
	assert.Equal(t, ManualPending, status.State)
}

func TestSyncMalformedManualTime(t *testing.T) {
	dispatcher := newMockDispatcher(ExactAvailable)
	sched := testScheduler(dispatcher, time.Now())

	reminderTime := "26:99"
	habit := &habits.Habit{ID: uuid.New(), Name: "Run", ReminderTime: &reminderTime}

	assert.Error(t, sched.Sync(context.Background(), habit, nil))
	assert.Empty(t, dispatcher.exactRequests)
}

func TestSyncArchivedCancels(t *testing.T) {
	dispatcher := newMockDispatcher(ExactAvailable)
	sched := testScheduler(dispatcher, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	habit := &habits.Habit{ID: uuid.New(), Name: "Read", IsAdaptiveReminder: true}
	require.NoError(t, sched.Sync(context.Background(), habit, nil))
	require.Contains(t, dispatcher.exactRequests, habit.ID.String())

	habit.IsArchived = true
	require.NoError(t, sched.Sync(context.Background(), habit, nil))

	assert.NotContains(t, dispatcher.exactRequests, habit.ID.String())
	assert.Equal(t, NoReminder, sched.StatusFor(habit.ID).State)

	// unarchiving reschedules from the same ledger
	habit.IsArchived = false
	require.NoError(t, sched.Sync(context.Background(), habit, nil))
	assert.Contains(t, dispatcher.exactRequests, habit.ID.String())
	assert.Equal(t, AdaptivePending, sched.StatusFor(habit.ID).State)
}

func TestSyncNoReminderSettings(t *testing.T) {
	dispatcher := newMockDispatcher(ExactAvailable)
	sched := testScheduler(dispatcher, time.Now())

	habit := &habits.Habit{ID: uuid.New(), Name: "Read"}
	require.NoError(t, sched.Sync(context.Background(), habit, nil))

	assert.Empty(t, dispatcher.exactRequests)
	assert.Equal(t, NoReminder, sched.StatusFor(habit.ID).State)
}

func TestScheduleInexactFallback(t *testing.T) {
	tests := []struct {
		name       string
		dispatcher *mockDispatcher
	}{
		{
			name:       "Capability is inexact only",
			dispatcher: newMockDispatcher(InexactOnly),
		},
		{
			name: "Exact request denied at runtime",
			dispatcher: func() *mockDispatcher {
				d := newMockDispatcher(ExactAvailable)
				d.denyExact = true
				return d
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sched := testScheduler(tt.dispatcher, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))
			habit := &habits.Habit{ID: uuid.New(), Name: "Read", IsAdaptiveReminder: true}

			require.NoError(t, sched.Sync(context.Background(), habit, nil))

			assert.Empty(t, tt.dispatcher.exactRequests)
			assert.Contains(t, tt.dispatcher.inexactRequests, habit.ID.String())
			assert.Equal(t, AdaptivePending, sched.StatusFor(habit.ID).State)
		})
	}
}

func TestForgetDropsState(t *testing.T) {
	dispatcher := newMockDispatcher(ExactAvailable)
	sched := testScheduler(dispatcher, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC))

	habit := &habits.Habit{ID: uuid.New(), Name: "Read", IsAdaptiveReminder: true}
	require.NoError(t, sched.Sync(context.Background(), habit, nil))

	sched.Forget(habit.ID)
	assert.Contains(t, dispatcher.cancelled, habit.ID.String())
	assert.Equal(t, NoReminder, sched.StatusFor(habit.ID).State)
}
