package habits

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zendpb/HabitTracker/internal/domain/events"
	"github.com/zendpb/HabitTracker/internal/domain/progress"
	"go.uber.org/zap"
)

// mockRepository keeps habits and ledger entries in memory, mirroring the
// insert-or-replace keying of the real store.
type mockRepository struct {
	habits  map[uuid.UUID]*Habit
	entries map[uuid.UUID]map[time.Time]*CompletionEntry

	// updateErrs forces Update to fail for specific habits
	updateErrs map[uuid.UUID]error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		habits:     make(map[uuid.UUID]*Habit),
		entries:    make(map[uuid.UUID]map[time.Time]*CompletionEntry),
		updateErrs: make(map[uuid.UUID]error),
	}
}

func (m *mockRepository) Create(ctx context.Context, habit *Habit) error {
	h := *habit
	m.habits[habit.ID] = &h
	return nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Habit, error) {
	h, ok := m.habits[id]
	if !ok {
		return nil, ErrHabitNotFound
	}
	copied := *h
	return &copied, nil
}

func (m *mockRepository) FindAll(ctx context.Context, filter HabitFilter) ([]Habit, error) {
	var out []Habit
	for _, h := range m.habits {
		if filter.ArchivedOnly && !h.IsArchived {
			continue
		}
		if !filter.IncludeArchived && !filter.ArchivedOnly && h.IsArchived {
			continue
		}
		out = append(out, *h)
	}
	return out, nil
}

func (m *mockRepository) Update(ctx context.Context, habit *Habit) error {
	if err := m.updateErrs[habit.ID]; err != nil {
		return err
	}
	if _, ok := m.habits[habit.ID]; !ok {
		return ErrHabitNotFound
	}
	h := *habit
	m.habits[habit.ID] = &h
	return nil
}

func (m *mockRepository) Upsert(ctx context.Context, habit *Habit) error {
	h := *habit
	m.habits[habit.ID] = &h
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.habits[id]; !ok {
		return ErrHabitNotFound
	}
	delete(m.habits, id)
	delete(m.entries, id)
	return nil
}

func (m *mockRepository) ActiveStreaks(ctx context.Context) ([]Habit, error) {
	var out []Habit
	for _, h := range m.habits {
		if !h.IsArchived && h.CurrentStreak > 0 {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *mockRepository) RecordCompletion(ctx context.Context, entry *CompletionEntry) error {
	if m.entries[entry.HabitID] == nil {
		m.entries[entry.HabitID] = make(map[time.Time]*CompletionEntry)
	}
	e := *entry
	m.entries[entry.HabitID][DayOf(entry.Day)] = &e
	return nil
}

func (m *mockRepository) RemoveCompletion(ctx context.Context, habitID uuid.UUID, day time.Time) error {
	delete(m.entries[habitID], DayOf(day))
	return nil
}

func (m *mockRepository) EntryOn(ctx context.Context, habitID uuid.UUID, day time.Time) (*CompletionEntry, error) {
	e, ok := m.entries[habitID][DayOf(day)]
	if !ok {
		return nil, ErrCompletionNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *mockRepository) EntriesFor(ctx context.Context, habitID uuid.UUID) ([]CompletionEntry, error) {
	var out []CompletionEntry
	for _, e := range m.entries[habitID] {
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockRepository) AllEntries(ctx context.Context) ([]CompletionEntry, error) {
	var out []CompletionEntry
	for id := range m.entries {
		forHabit, _ := m.EntriesFor(ctx, id)
		out = append(out, forHabit...)
	}
	return out, nil
}

func (m *mockRepository) EntriesOnDay(ctx context.Context, day time.Time) ([]CompletionEntry, error) {
	var out []CompletionEntry
	for _, byDay := range m.entries {
		if e, ok := byDay[DayOf(day)]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *mockRepository) EntriesBetween(ctx context.Context, start, end time.Time) ([]CompletionEntry, error) {
	var out []CompletionEntry
	for _, byDay := range m.entries {
		for day, e := range byDay {
			if !day.Before(DayOf(start)) && !day.After(DayOf(end)) {
				out = append(out, *e)
			}
		}
	}
	return out, nil
}

func (m *mockRepository) LatestDayFor(ctx context.Context, habitID uuid.UUID) (*time.Time, error) {
	var latest *time.Time
	for day := range m.entries[habitID] {
		d := day
		if latest == nil || d.After(*latest) {
			latest = &d
		}
	}
	return latest, nil
}

// mockScheduler records sync, cancel and forget calls.
type mockScheduler struct {
	syncs   int
	cancels int
	forgets int
}

func (m *mockScheduler) Sync(ctx context.Context, habit *Habit, entries []CompletionEntry) error {
	m.syncs++
	return nil
}

func (m *mockScheduler) Cancel(habitID uuid.UUID) {
	m.cancels++
}

func (m *mockScheduler) Forget(habitID uuid.UUID) {
	m.forgets++
}

type statsRepo struct {
	stats progress.UserStats
}

func (r *statsRepo) Get(ctx context.Context) (*progress.UserStats, error) {
	s := r.stats
	return &s, nil
}

func (r *statsRepo) Save(ctx context.Context, stats *progress.UserStats) error {
	r.stats = *stats
	return nil
}

func newTestService(t *testing.T) (Service, *mockRepository, *statsRepo, *mockScheduler) {
	t.Helper()
	repo := newMockRepository()
	stats := &statsRepo{stats: progress.DefaultStats()}
	bus := events.NewBus()
	progressSvc := progress.NewService(stats, bus, zap.NewNop())
	sched := &mockScheduler{}
	svc := NewService(repo, progressSvc, sched, nil, bus, zap.NewNop())
	return svc, repo, stats, sched
}

func createTestHabit(t *testing.T, svc Service) *Habit {
	t.Helper()
	habit, err := svc.CreateHabit(context.Background(), CreateHabitInput{Name: "Read"})
	require.NoError(t, err)
	return habit
}

func TestMarkDone(t *testing.T) {
	svc, _, stats, _ := newTestService(t)
	ctx := context.Background()
	habit := createTestHabit(t, svc)
	today := DayOf(time.Now())

	updated, err := svc.MarkDone(ctx, habit.ID, today)
	require.NoError(t, err)

	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, 1, updated.LongestStreak)
	require.NotNil(t, updated.LastCompletedDate)
	assert.True(t, updated.LastCompletedDate.Equal(today))
	assert.Equal(t, 15, stats.stats.TotalXP)
	assert.Equal(t, 1, stats.stats.TotalCompletions)
}

func TestMarkDoneSameDayTwice(t *testing.T) {
	svc, _, stats, _ := newTestService(t)
	ctx := context.Background()
	habit := createTestHabit(t, svc)
	today := DayOf(time.Now())

	_, err := svc.MarkDone(ctx, habit.ID, today)
	require.NoError(t, err)
	updated, err := svc.MarkDone(ctx, habit.ID, today)
	require.NoError(t, err)

	// re-marking a recorded day must not double count
	assert.Equal(t, 1, updated.CurrentStreak)
	assert.Equal(t, 15, stats.stats.TotalXP)
	assert.Equal(t, 1, stats.stats.TotalCompletions)
}

func TestMarkThenUnmarkRestoresState(t *testing.T) {
	svc, _, stats, _ := newTestService(t)
	ctx := context.Background()
	habit := createTestHabit(t, svc)
	today := DayOf(time.Now())

	_, err := svc.MarkDone(ctx, habit.ID, today)
	require.NoError(t, err)
	updated, err := svc.UnmarkDone(ctx, habit.ID, today)
	require.NoError(t, err)

	assert.Equal(t, 0, updated.CurrentStreak)
	assert.Nil(t, updated.LastCompletedDate)
	assert.Equal(t, 0, stats.stats.TotalXP)
	assert.Equal(t, 1, stats.stats.Level)
	assert.Equal(t, 0, stats.stats.TotalCompletions)

	// longest streak is a high-water mark and survives the unmark
	assert.Equal(t, 1, updated.LongestStreak)
}

func TestConsecutiveDaysGrowStreak(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	habit := createTestHabit(t, svc)
	start := DayOf(time.Now()).AddDate(0, 0, -4)

	var updated *Habit
	var err error
	for i := 0; i < 5; i++ {
		updated, err = svc.MarkDone(ctx, habit.ID, start.AddDate(0, 0, i))
		require.NoError(t, err)
	}

	assert.Equal(t, 5, updated.CurrentStreak)
	assert.Equal(t, 5, updated.LongestStreak)
}

func TestUnmarkAbsentDayIsNoOp(t *testing.T) {
	svc, _, stats, _ := newTestService(t)
	ctx := context.Background()
	habit := createTestHabit(t, svc)

	updated, err := svc.UnmarkDone(ctx, habit.ID, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, updated.CurrentStreak)
	assert.Equal(t, 0, stats.stats.TotalXP)
}

func TestUnmarkEarlierDayDecrementsByOne(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	habit := createTestHabit(t, svc)
	today := DayOf(time.Now())

	for i := 2; i >= 0; i-- {
		_, err := svc.MarkDone(ctx, habit.ID, today.AddDate(0, 0, -i))
		require.NoError(t, err)
	}

	// unmarking the middle day trusts the stored streak and subtracts one;
	// it does not recompute adjacency from the ledger
	updated, err := svc.UnmarkDone(ctx, habit.ID, today.AddDate(0, 0, -1))
	require.NoError(t, err)

	assert.Equal(t, 2, updated.CurrentStreak)
	require.NotNil(t, updated.LastCompletedDate)
	assert.True(t, updated.LastCompletedDate.Equal(today))
}

func TestToggleToday(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	habit := createTestHabit(t, svc)

	completed, err := svc.ToggleToday(ctx, habit.ID)
	require.NoError(t, err)
	assert.True(t, completed)

	completed, err = svc.ToggleToday(ctx, habit.ID)
	require.NoError(t, err)
	assert.False(t, completed)

	fetched, err := svc.GetHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fetched.CurrentStreak)
}

func TestResetStaleStreaks(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()
	today := DayOf(time.Now())

	fresh := createTestHabit(t, svc)
	_, err := svc.MarkDone(ctx, fresh.ID, today.AddDate(0, 0, -1))
	require.NoError(t, err)

	stale := createTestHabit(t, svc)
	_, err = svc.MarkDone(ctx, stale.ID, today.AddDate(0, 0, -3))
	require.NoError(t, err)

	reset, err := svc.ResetStaleStreaks(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reset)

	kept, err := repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, kept.CurrentStreak)

	zeroed, err := repo.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, zeroed.CurrentStreak)
	assert.Equal(t, 1, zeroed.LongestStreak)

	// running the sweep again changes nothing
	reset, err = svc.ResetStaleStreaks(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reset)
}

func TestResetStaleStreaksSurvivesFailedUpdate(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := context.Background()
	today := DayOf(time.Now())

	broken := createTestHabit(t, svc)
	_, err := svc.MarkDone(ctx, broken.ID, today.AddDate(0, 0, -4))
	require.NoError(t, err)

	stale := createTestHabit(t, svc)
	_, err = svc.MarkDone(ctx, stale.ID, today.AddDate(0, 0, -3))
	require.NoError(t, err)

	// one habit failing to persist must not stop the rest of the sweep
	repo.updateErrs[broken.ID] = errors.New("write failed")

	reset, err := svc.ResetStaleStreaks(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reset)

	zeroed, err := repo.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, zeroed.CurrentStreak)

	untouched, err := repo.FindByID(ctx, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, untouched.CurrentStreak)

	// once the store recovers, the next sweep picks the habit up
	delete(repo.updateErrs, broken.ID)
	reset, err = svc.ResetStaleStreaks(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), reset)
}

func TestArchiveCancelsReminder(t *testing.T) {
	svc, _, _, sched := newTestService(t)
	ctx := context.Background()
	habit := createTestHabit(t, svc)

	before := sched.cancels
	_, err := svc.SetArchived(ctx, habit.ID, true)
	require.NoError(t, err)
	assert.Equal(t, before+1, sched.cancels)

	syncsBefore := sched.syncs
	_, err = svc.SetArchived(ctx, habit.ID, false)
	require.NoError(t, err)
	assert.Equal(t, syncsBefore+1, sched.syncs)
}

func TestDeleteHabitRemovesLedger(t *testing.T) {
	svc, repo, _, sched := newTestService(t)
	ctx := context.Background()
	habit := createTestHabit(t, svc)

	_, err := svc.MarkDone(ctx, habit.ID, time.Now())
	require.NoError(t, err)

	// delete drops scheduler state entirely, not just the pending alarm
	forgetsBefore := sched.forgets
	require.NoError(t, svc.DeleteHabit(ctx, habit.ID))
	assert.Equal(t, forgetsBefore+1, sched.forgets)

	_, err = svc.GetHabit(ctx, habit.ID)
	assert.ErrorIs(t, err, ErrHabitNotFound)

	entries, err := repo.EntriesFor(ctx, habit.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
