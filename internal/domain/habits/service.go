package habits

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/zendpb/HabitTracker/internal/domain/events"
	"github.com/zendpb/HabitTracker/internal/domain/progress"
	"go.uber.org/zap"
)

var (
	completionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "habit_completions_recorded_total",
		Help: "Total number of habit completions recorded",
	})
	completionsRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "habit_completions_removed_total",
		Help: "Total number of habit completions removed",
	})
	streaksReset = promauto.NewCounter(prometheus.CounterOpts{
		Name: "habit_streaks_reset_total",
		Help: "Total number of streaks reset by the daily sweep",
	})
)

// ReminderScheduler is the slice of the adaptive scheduler the engine needs.
// Sync recomputes and (re)schedules the habit's reminder from its ledger;
// Cancel drops any pending alarm for the habit; Forget additionally drops
// the scheduler's per-habit state once the habit no longer exists.
type ReminderScheduler interface {
	Sync(ctx context.Context, habit *Habit, entries []CompletionEntry) error
	Cancel(habitID uuid.UUID)
	Forget(habitID uuid.UUID)
}

type Service interface {
	CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error)
	GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error)
	ListHabits(ctx context.Context, filter HabitFilter) ([]Habit, error)
	UpdateHabit(ctx context.Context, id uuid.UUID, input UpdateHabitInput) (*Habit, error)
	DeleteHabit(ctx context.Context, id uuid.UUID) error
	SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*Habit, error)

	MarkDone(ctx context.Context, id uuid.UUID, day time.Time) (*Habit, error)
	UnmarkDone(ctx context.Context, id uuid.UUID, day time.Time) (*Habit, error)
	ToggleToday(ctx context.Context, id uuid.UUID) (completed bool, err error)
	ResetStaleStreaks(ctx context.Context, today time.Time) (int64, error)
	ResyncReminders(ctx context.Context) (int, error)

	EntriesFor(ctx context.Context, habitID uuid.UUID) ([]CompletionEntry, error)
	TodayCompletions(ctx context.Context) (map[uuid.UUID]bool, error)
	Heatmap(ctx context.Context, period string) (map[string]int, error)
	DashboardMetrics(ctx context.Context) (DashboardMetrics, error)

	WeakDays(ctx context.Context, n int) ([]time.Weekday, error)
	AdviceFor(ctx context.Context, habitID uuid.UUID) (Advice, error)
}

type service struct {
	repo      Repository
	progress  progress.Service
	reminders ReminderScheduler
	notifySvc *HabitNotificationService
	bus       *events.Bus
	logger    *zap.Logger

	// one mutex per habit: a toggle's ledger write and the derived habit
	// and stats updates must not interleave with another toggle
	locks sync.Map
}

func NewService(repo Repository, progressSvc progress.Service, reminders ReminderScheduler, notifySvc *HabitNotificationService, bus *events.Bus, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		progress:  progressSvc,
		reminders: reminders,
		notifySvc: notifySvc,
		bus:       bus,
		logger:    logger,
	}
}

func (s *service) lockHabit(id uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *service) CreateHabit(ctx context.Context, input CreateHabitInput) (*Habit, error) {
	if input.Name == "" {
		return nil, ErrInvalidInput
	}

	icon := input.Icon
	if icon == "" {
		icon = "🌱"
	}
	xp := input.XPValue
	if xp <= 0 {
		xp = 15
	}

	habit := &Habit{
		ID:                 uuid.New(),
		Name:               input.Name,
		Description:        input.Description,
		Color:              input.Color,
		Icon:               icon,
		XPValue:            xp,
		TargetDays:         input.TargetDays,
		ReminderTime:       input.ReminderTime,
		IsAdaptiveReminder: input.IsAdaptiveReminder,
		CreatedAt:          time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	if err := s.reminders.Sync(ctx, habit, nil); err != nil {
		s.logger.Error("Failed to schedule reminder for new habit",
			zap.String("habit_id", habit.ID.String()), zap.Error(err))
	}

	s.publishHabitChange(habit, "habit_created")
	return habit, nil
}

func (s *service) GetHabit(ctx context.Context, id uuid.UUID) (*Habit, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListHabits(ctx context.Context, filter HabitFilter) ([]Habit, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) UpdateHabit(ctx context.Context, id uuid.UUID, input UpdateHabitInput) (*Habit, error) {
	unlock := s.lockHabit(id)
	defer unlock()

	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *habit
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.Color != nil {
		updated.Color = *input.Color
	}
	if input.Icon != nil {
		updated.Icon = *input.Icon
	}
	if input.XPValue != nil {
		updated.XPValue = *input.XPValue
	}
	if input.TargetDays != nil {
		updated.TargetDays = *input.TargetDays
	}
	if input.ReminderTime != nil {
		updated.ReminderTime = input.ReminderTime
	}
	if input.IsAdaptiveReminder != nil {
		updated.IsAdaptiveReminder = *input.IsAdaptiveReminder
	}
	if input.CurrentStreak != nil && *input.CurrentStreak >= 0 {
		updated.CurrentStreak = *input.CurrentStreak
		if updated.CurrentStreak > updated.LongestStreak {
			updated.LongestStreak = updated.CurrentStreak
		}
	}
	if input.LongestStreak != nil && *input.LongestStreak >= updated.LongestStreak {
		updated.LongestStreak = *input.LongestStreak
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	s.resyncReminder(ctx, &updated)
	s.publishHabitChange(&updated, "habit_updated")
	return &updated, nil
}

func (s *service) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	s.reminders.Forget(id)
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publishHabitChange(habit, "habit_deleted")
	return nil
}

func (s *service) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*Habit, error) {
	unlock := s.lockHabit(id)
	defer unlock()

	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *habit
	updated.IsArchived = archived
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if archived {
		s.reminders.Cancel(id)
	} else {
		s.resyncReminder(ctx, &updated)
	}

	s.publishHabitChange(&updated, "habit_archived")
	return &updated, nil
}

// MarkDone records a completion for the given day and applies the streak and
// XP deltas. Marking a day that already has an entry is routed through the
// unmark path first, so the streak never double-increments.
func (s *service) MarkDone(ctx context.Context, id uuid.UUID, day time.Time) (*Habit, error) {
	unlock := s.lockHabit(id)
	defer unlock()
	return s.markDoneLocked(ctx, id, day)
}

func (s *service) markDoneLocked(ctx context.Context, id uuid.UUID, day time.Time) (*Habit, error) {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	day = DayOf(day)

	if _, err := s.repo.EntryOn(ctx, id, day); err == nil {
		if habit, err = s.unmarkDoneLocked(ctx, id, day); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, ErrCompletionNotFound) {
		return nil, err
	}

	entry := &CompletionEntry{
		ID:        uuid.New(),
		HabitID:   id,
		Day:       day,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.RecordCompletion(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	newStreak := habit.CurrentStreak + 1
	newLongest := habit.LongestStreak
	if newStreak > newLongest {
		newLongest = newStreak
	}

	updated := *habit
	updated.CurrentStreak = newStreak
	updated.LongestStreak = newLongest
	updated.LastCompletedDate = &day
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if _, err := s.progress.AddXP(ctx, updated.XPValue, 1); err != nil {
		s.logger.Error("Failed to apply XP for completion",
			zap.String("habit_id", id.String()), zap.Error(err))
	}

	completionsRecorded.Inc()

	// today's need is satisfied: drop the pending fire, then schedule the
	// next slot from the refreshed ledger
	s.reminders.Cancel(id)
	s.resyncReminder(ctx, &updated)

	if s.notifySvc != nil {
		if err := s.notifySvc.NotifyHabitCompleted(ctx, &updated); err != nil {
			s.logger.Error("Failed to send completion notification", zap.Error(err))
		}
		if s.notifySvc.ShouldSendStreakNotification(updated.CurrentStreak) {
			if err := s.notifySvc.NotifyStreakMilestone(ctx, &updated); err != nil {
				s.logger.Error("Failed to send streak notification", zap.Error(err))
			}
		}
	}

	s.publishCompletionChange(&updated, day, "completion_recorded")
	return &updated, nil
}

// UnmarkDone removes the completion for the given day. Absent entries are a
// silent no-op. The streak decrement is deliberately a heuristic: it trusts
// the prior streak value and subtracts one, regardless of which day was
// unmarked, without re-validating day-adjacency against the ledger.
func (s *service) UnmarkDone(ctx context.Context, id uuid.UUID, day time.Time) (*Habit, error) {
	unlock := s.lockHabit(id)
	defer unlock()
	return s.unmarkDoneLocked(ctx, id, day)
}

func (s *service) unmarkDoneLocked(ctx context.Context, id uuid.UUID, day time.Time) (*Habit, error) {
	habit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	day = DayOf(day)

	if _, err := s.repo.EntryOn(ctx, id, day); err != nil {
		if errors.Is(err, ErrCompletionNotFound) {
			return habit, nil
		}
		return nil, err
	}

	if err := s.repo.RemoveCompletion(ctx, id, day); err != nil {
		return nil, fmt.Errorf("failed to remove completion: %w", err)
	}

	lastDay, err := s.repo.LatestDayFor(ctx, id)
	if err != nil {
		return nil, err
	}

	newStreak := habit.CurrentStreak - 1
	if newStreak < 0 {
		newStreak = 0
	}

	updated := *habit
	updated.CurrentStreak = newStreak
	updated.LastCompletedDate = lastDay
	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if _, err := s.progress.AddXP(ctx, -updated.XPValue, -1); err != nil {
		s.logger.Error("Failed to revert XP for removed completion",
			zap.String("habit_id", id.String()), zap.Error(err))
	}

	completionsRemoved.Inc()
	s.resyncReminder(ctx, &updated)
	s.publishCompletionChange(&updated, day, "completion_removed")
	return &updated, nil
}

// ToggleToday flips today's completion state for the habit and reports the
// resulting state.
func (s *service) ToggleToday(ctx context.Context, id uuid.UUID) (bool, error) {
	unlock := s.lockHabit(id)
	defer unlock()

	today := DayOf(time.Now())
	_, err := s.repo.EntryOn(ctx, id, today)
	switch {
	case err == nil:
		_, err = s.unmarkDoneLocked(ctx, id, today)
		return false, err
	case errors.Is(err, ErrCompletionNotFound):
		_, err = s.markDoneLocked(ctx, id, today)
		return true, err
	default:
		return false, err
	}
}

// ResetStaleStreaks zeroes the streak of every habit whose last completion
// lies before yesterday. Invoked once per resume/foreground event and at
// each midnight; applying it twice changes nothing the second time. A
// failure on one habit never blocks the others.
func (s *service) ResetStaleStreaks(ctx context.Context, today time.Time) (int64, error) {
	habits, err := s.repo.ActiveStreaks(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch active streaks: %w", err)
	}

	yesterday := DayOf(today).AddDate(0, 0, -1)

	var totalReset int64
	for _, habit := range habits {
		if habit.LastCompletedDate == nil || !habit.LastCompletedDate.Before(yesterday) {
			continue
		}

		previousStreak := habit.CurrentStreak
		updated := habit
		updated.CurrentStreak = 0
		if err := s.repo.Update(ctx, &updated); err != nil {
			s.logger.Error("Failed to reset streak",
				zap.String("habit_id", habit.ID.String()), zap.Error(err))
			continue
		}

		if s.notifySvc != nil && previousStreak >= 3 {
			if err := s.notifySvc.NotifyStreakBroken(ctx, &updated, previousStreak); err != nil {
				s.logger.Error("Failed to send streak broken notification", zap.Error(err))
			}
		}

		streaksReset.Inc()
		s.publishHabitChange(&updated, "streak_reset")
		totalReset++
	}

	return totalReset, nil
}

// ResyncReminders re-derives the reminder slot for every unarchived habit
// so adaptive times keep tracking the latest completions. A failure on one
// habit never blocks the others.
func (s *service) ResyncReminders(ctx context.Context) (int, error) {
	list, err := s.repo.FindAll(ctx, HabitFilter{})
	if err != nil {
		return 0, err
	}

	var synced int
	for i := range list {
		entries, err := s.repo.EntriesFor(ctx, list[i].ID)
		if err != nil {
			s.logger.Error("Failed to load entries for reminder sync",
				zap.String("habit_id", list[i].ID.String()), zap.Error(err))
			continue
		}
		if err := s.reminders.Sync(ctx, &list[i], entries); err != nil {
			s.logger.Error("Failed to sync reminder",
				zap.String("habit_id", list[i].ID.String()), zap.Error(err))
			continue
		}
		synced++
	}
	return synced, nil
}

func (s *service) EntriesFor(ctx context.Context, habitID uuid.UUID) ([]CompletionEntry, error) {
	if _, err := s.repo.FindByID(ctx, habitID); err != nil {
		return nil, err
	}
	return s.repo.EntriesFor(ctx, habitID)
}

// TodayCompletions reports which habits already have an entry for today.
func (s *service) TodayCompletions(ctx context.Context) (map[uuid.UUID]bool, error) {
	entries, err := s.repo.EntriesOnDay(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	done := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		done[e.HabitID] = true
	}
	return done, nil
}

// Heatmap returns day → completion count over the requested period
// (week, month or year, defaulting to year).
func (s *service) Heatmap(ctx context.Context, period string) (map[string]int, error) {
	now := time.Now().UTC()
	var start time.Time
	switch period {
	case "week":
		start = now.AddDate(0, 0, -7)
	case "month":
		start = now.AddDate(0, -1, 0)
	default:
		start = now.AddDate(-1, 0, 0)
	}

	entries, err := s.repo.EntriesBetween(ctx, start, now)
	if err != nil {
		return nil, err
	}

	heatmap := make(map[string]int)
	for _, e := range entries {
		heatmap[e.Day.Format("2006-01-02")]++
	}
	return heatmap, nil
}

// DashboardMetrics represents summary metrics for the dashboard
type DashboardMetrics struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Archived       int `json:"archived"`
	CompletedToday int `json:"completed_today"`
	BestStreak     int `json:"best_streak"`
}

func (s *service) DashboardMetrics(ctx context.Context) (DashboardMetrics, error) {
	all, err := s.repo.FindAll(ctx, HabitFilter{IncludeArchived: true})
	if err != nil {
		return DashboardMetrics{}, err
	}
	doneToday, err := s.TodayCompletions(ctx)
	if err != nil {
		return DashboardMetrics{}, err
	}

	var metrics DashboardMetrics
	metrics.Total = len(all)
	for _, h := range all {
		if h.IsArchived {
			metrics.Archived++
		} else {
			metrics.Active++
		}
		if doneToday[h.ID] {
			metrics.CompletedToday++
		}
		if h.CurrentStreak > metrics.BestStreak {
			metrics.BestStreak = h.CurrentStreak
		}
	}
	return metrics, nil
}

func (s *service) resyncReminder(ctx context.Context, habit *Habit) {
	entries, err := s.repo.EntriesFor(ctx, habit.ID)
	if err != nil {
		s.logger.Error("Failed to load entries for reminder sync",
			zap.String("habit_id", habit.ID.String()), zap.Error(err))
		return
	}
	if err := s.reminders.Sync(ctx, habit, entries); err != nil {
		s.logger.Error("Failed to sync reminder",
			zap.String("habit_id", habit.ID.String()), zap.Error(err))
	}
}

func (s *service) publishHabitChange(habit *Habit, action string) {
	s.bus.Publish(events.ChangeEvent{
		Topic:    events.TopicHabitChanged,
		EntityID: habit.ID,
		Details: map[string]interface{}{
			"action":         action,
			"name":           habit.Name,
			"current_streak": habit.CurrentStreak,
		},
	})
}

func (s *service) publishCompletionChange(habit *Habit, day time.Time, action string) {
	s.bus.Publish(events.ChangeEvent{
		Topic:    events.TopicCompletionChanged,
		EntityID: habit.ID,
		Details: map[string]interface{}{
			"action": action,
			"day":    day.Format("2006-01-02"),
		},
	})
}
