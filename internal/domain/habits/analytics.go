package habits

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Advice is the category of guidance derived from a habit's weakest weekday.
type Advice string

const (
	AdviceNoData       Advice = "no-data"
	AdviceHardStart    Advice = "hard-start"
	AdviceWeekendLapse Advice = "weekend-lapse"
	AdviceSteadyPace   Advice = "steady-pace"
)

// Text returns the user-facing message for an advice category.
func (a Advice) Text() string {
	switch a {
	case AdviceHardStart:
		return "Monday is your hard day. Try doing the habit right after waking up."
	case AdviceWeekendLapse:
		return "Discipline slips on weekends. Set a reminder for that time."
	case AdviceSteadyPace:
		return "Good pace! Just avoid skipping more than 2 days in a row."
	default:
		return "Start marking completions to get advice!"
	}
}

// canonical weekday scan order for advice, Monday first
var adviceWeekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// WeakDaysOfWeek buckets every entry's day by weekday and returns the n
// weekdays with the fewest completions, ascending by count. Only weekdays
// that appear in the history are ranked; ties break by Go's natural weekday
// order (Sunday first).
func WeakDaysOfWeek(entries []CompletionEntry, n int) []time.Weekday {
	if n <= 0 {
		return nil
	}

	counts := make(map[time.Weekday]int)
	for _, e := range entries {
		counts[e.Day.UTC().Weekday()]++
	}

	days := make([]time.Weekday, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		if counts[days[i]] != counts[days[j]] {
			return counts[days[i]] < counts[days[j]]
		}
		return days[i] < days[j]
	})

	if len(days) > n {
		days = days[:n]
	}
	return days
}

// AdviceForEntries finds the weekday with the fewest completions in one
// habit's history, scanning Monday through Sunday with never-completed days
// counting as zero, and maps it to an advice category.
func AdviceForEntries(entries []CompletionEntry) Advice {
	if len(entries) == 0 {
		return AdviceNoData
	}

	counts := make(map[time.Weekday]int)
	for _, e := range entries {
		counts[e.Day.UTC().Weekday()]++
	}

	weakest := adviceWeekdays[0]
	for _, day := range adviceWeekdays[1:] {
		if counts[day] < counts[weakest] {
			weakest = day
		}
	}

	switch weakest {
	case time.Monday:
		return AdviceHardStart
	case time.Saturday, time.Sunday:
		return AdviceWeekendLapse
	default:
		return AdviceSteadyPace
	}
}

// EvolutionIcon returns the growth glyph for a streak length.
func EvolutionIcon(streak int) string {
	switch {
	case streak >= 30:
		return "🎋"
	case streak >= 14:
		return "🌲"
	case streak >= 7:
		return "🌿"
	case streak >= 3:
		return "🌱"
	default:
		return "🌰"
	}
}

func (s *service) WeakDays(ctx context.Context, n int) ([]time.Weekday, error) {
	entries, err := s.repo.AllEntries(ctx)
	if err != nil {
		return nil, err
	}
	return WeakDaysOfWeek(entries, n), nil
}

func (s *service) AdviceFor(ctx context.Context, habitID uuid.UUID) (Advice, error) {
	if _, err := s.repo.FindByID(ctx, habitID); err != nil {
		return "", err
	}
	entries, err := s.repo.EntriesFor(ctx, habitID)
	if err != nil {
		return "", err
	}
	return AdviceForEntries(entries), nil
}
