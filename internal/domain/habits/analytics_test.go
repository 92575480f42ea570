package habits

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// entriesOnWeekday builds count entries, each landing on the given weekday.
func entriesOnWeekday(day time.Weekday, count int) []CompletionEntry {
	// 2024-01-01 is a Monday
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for base.Weekday() != day {
		base = base.AddDate(0, 0, 1)
	}

	entries := make([]CompletionEntry, count)
	for i := 0; i < count; i++ {
		d := base.AddDate(0, 0, 7*i)
		entries[i] = CompletionEntry{
			ID:        uuid.New(),
			HabitID:   uuid.New(),
			Day:       d,
			Timestamp: d.Add(10 * time.Hour),
		}
	}
	return entries
}

func TestWeakDaysOfWeek(t *testing.T) {
	history := append(entriesOnWeekday(time.Monday, 5),
		append(entriesOnWeekday(time.Tuesday, 1),
			entriesOnWeekday(time.Wednesday, 4)...)...)

	tests := []struct {
		name     string
		entries  []CompletionEntry
		n        int
		expected []time.Weekday
	}{
		{
			name:     "Single weakest day",
			entries:  history,
			n:        1,
			expected: []time.Weekday{time.Tuesday},
		},
		{
			name:     "Two weakest days ascending by count",
			entries:  history,
			n:        2,
			expected: []time.Weekday{time.Tuesday, time.Wednesday},
		},
		{
			name:     "Only observed weekdays are ranked",
			entries:  history,
			n:        7,
			expected: []time.Weekday{time.Tuesday, time.Wednesday, time.Monday},
		},
		{
			name:     "Empty history yields nothing",
			entries:  nil,
			n:        3,
			expected: nil,
		},
		{
			name:     "Zero n yields nothing",
			entries:  history,
			n:        0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeakDaysOfWeek(tt.entries, tt.n)
			if len(tt.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestWeakDaysOfWeekTieBreak(t *testing.T) {
	history := append(entriesOnWeekday(time.Friday, 2), entriesOnWeekday(time.Tuesday, 2)...)

	got := WeakDaysOfWeek(history, 1)
	// equal counts break toward the earlier weekday (Sunday-first order)
	assert.Equal(t, []time.Weekday{time.Tuesday}, got)
}

func TestAdviceForEntries(t *testing.T) {
	tests := []struct {
		name     string
		entries  []CompletionEntry
		expected Advice
	}{
		{
			name:     "No history",
			entries:  nil,
			expected: AdviceNoData,
		},
		{
			name:     "Monday never completed",
			entries:  append(entriesOnWeekday(time.Tuesday, 3), entriesOnWeekday(time.Saturday, 2)...),
			expected: AdviceHardStart,
		},
		{
			name: "Weekend is the weak spot",
			entries: append(entriesOnWeekday(time.Monday, 3),
				append(entriesOnWeekday(time.Tuesday, 3),
					append(entriesOnWeekday(time.Wednesday, 3),
						append(entriesOnWeekday(time.Thursday, 3),
							append(entriesOnWeekday(time.Friday, 3),
								append(entriesOnWeekday(time.Saturday, 1),
									entriesOnWeekday(time.Sunday, 2)...)...)...)...)...)...),
			expected: AdviceWeekendLapse,
		},
		{
			name: "Midweek dip keeps a steady pace",
			entries: append(entriesOnWeekday(time.Monday, 3),
				append(entriesOnWeekday(time.Wednesday, 1),
					append(entriesOnWeekday(time.Saturday, 2),
						entriesOnWeekday(time.Sunday, 2)...)...)...),
			expected: AdviceSteadyPace,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AdviceForEntries(tt.entries))
		})
	}
}

func TestEvolutionIcon(t *testing.T) {
	tests := []struct {
		streak   int
		expected string
	}{
		{0, "🌰"},
		{2, "🌰"},
		{3, "🌱"},
		{6, "🌱"},
		{7, "🌿"},
		{13, "🌿"},
		{14, "🌲"},
		{29, "🌲"},
		{30, "🎋"},
		{100, "🎋"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, EvolutionIcon(tt.streak))
	}
}
