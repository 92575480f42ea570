package habits

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrHabitNotFound      = errors.New("habit not found")
	ErrCompletionNotFound = errors.New("completion not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// Repository defines the interface for habit and completion ledger persistence
type Repository interface {
	Create(ctx context.Context, habit *Habit) error
	FindByID(ctx context.Context, id uuid.UUID) (*Habit, error)
	FindAll(ctx context.Context, filter HabitFilter) ([]Habit, error)
	Update(ctx context.Context, habit *Habit) error
	Upsert(ctx context.Context, habit *Habit) error
	Delete(ctx context.Context, id uuid.UUID) error
	ActiveStreaks(ctx context.Context) ([]Habit, error)

	// Completion ledger. Keyed by (habitID, day): recording twice for the
	// same day replaces, never duplicates.
	RecordCompletion(ctx context.Context, entry *CompletionEntry) error
	RemoveCompletion(ctx context.Context, habitID uuid.UUID, day time.Time) error
	EntryOn(ctx context.Context, habitID uuid.UUID, day time.Time) (*CompletionEntry, error)
	EntriesFor(ctx context.Context, habitID uuid.UUID) ([]CompletionEntry, error)
	AllEntries(ctx context.Context) ([]CompletionEntry, error)
	EntriesOnDay(ctx context.Context, day time.Time) ([]CompletionEntry, error)
	EntriesBetween(ctx context.Context, start, end time.Time) ([]CompletionEntry, error)
	LatestDayFor(ctx context.Context, habitID uuid.UUID) (*time.Time, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, habit *Habit) error {
	return r.db.WithContext(ctx).Create(habit).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Habit, error) {
	var habit Habit
	result := r.db.WithContext(ctx).First(&habit, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, result.Error
	}
	return &habit, nil
}

func (r *repository) FindAll(ctx context.Context, filter HabitFilter) ([]Habit, error) {
	var habits []Habit
	query := r.db.WithContext(ctx).Model(&Habit{})

	if filter.ArchivedOnly {
		query = query.Where("is_archived = ?", true)
	} else if !filter.IncludeArchived {
		query = query.Where("is_archived = ?", false)
	}

	err := query.Order("created_at DESC").Find(&habits).Error
	if err != nil {
		return nil, err
	}
	return habits, nil
}

// Update replaces the whole record. Callers build a new value and save it;
// partial field mutation is never visible to other readers mid-update.
func (r *repository) Update(ctx context.Context, habit *Habit) error {
	result := r.db.WithContext(ctx).Save(habit)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHabitNotFound
	}
	return nil
}

// Upsert inserts the habit or replaces an existing row with the same id.
// Used by backup restore, which is additive and never destructive.
func (r *repository) Upsert(ctx context.Context, habit *Habit) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(habit).Error
}

// Delete removes the habit and all of its ledger entries.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", id).Delete(&CompletionEntry{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&Habit{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrHabitNotFound
		}
		return nil
	})
}

func (r *repository) ActiveStreaks(ctx context.Context) ([]Habit, error) {
	var habits []Habit
	err := r.db.WithContext(ctx).
		Where("current_streak > 0").
		Find(&habits).Error
	return habits, err
}

func (r *repository) RecordCompletion(ctx context.Context, entry *CompletionEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	entry.Day = DayOf(entry.Day)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "habit_id"}, {Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"id", "timestamp"}),
		}).
		Create(entry).Error
}

// RemoveCompletion deletes the entry for (habitID, day); no-op if absent.
func (r *repository) RemoveCompletion(ctx context.Context, habitID uuid.UUID, day time.Time) error {
	return r.db.WithContext(ctx).
		Where("habit_id = ? AND day = ?", habitID, DayOf(day)).
		Delete(&CompletionEntry{}).Error
}

func (r *repository) EntryOn(ctx context.Context, habitID uuid.UUID, day time.Time) (*CompletionEntry, error) {
	var entry CompletionEntry
	result := r.db.WithContext(ctx).
		Where("habit_id = ? AND day = ?", habitID, DayOf(day)).
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCompletionNotFound
		}
		return nil, result.Error
	}
	return &entry, nil
}

func (r *repository) EntriesFor(ctx context.Context, habitID uuid.UUID) ([]CompletionEntry, error) {
	var entries []CompletionEntry
	err := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("day DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) AllEntries(ctx context.Context) ([]CompletionEntry, error) {
	var entries []CompletionEntry
	err := r.db.WithContext(ctx).
		Order("day DESC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) EntriesOnDay(ctx context.Context, day time.Time) ([]CompletionEntry, error) {
	var entries []CompletionEntry
	err := r.db.WithContext(ctx).
		Where("day = ?", DayOf(day)).
		Find(&entries).Error
	return entries, err
}

func (r *repository) EntriesBetween(ctx context.Context, start, end time.Time) ([]CompletionEntry, error) {
	var entries []CompletionEntry
	err := r.db.WithContext(ctx).
		Where("day BETWEEN ? AND ?", DayOf(start), DayOf(end)).
		Order("day").
		Find(&entries).Error
	return entries, err
}

// LatestDayFor returns the most recent completion day for a habit, nil when
// the habit has no entries left.
func (r *repository) LatestDayFor(ctx context.Context, habitID uuid.UUID) (*time.Time, error) {
	var entry CompletionEntry
	result := r.db.WithContext(ctx).
		Where("habit_id = ?", habitID).
		Order("day DESC").
		First(&entry)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	day := entry.Day
	return &day, nil
}
