package backup

import (
	"context"
	"fmt"
	"io"

	"github.com/zendpb/HabitTracker/internal/domain/habits"
	"github.com/zendpb/HabitTracker/internal/domain/reminder"
	"go.uber.org/zap"
)

// Service exports and restores the full habit and ledger state. The blob
// transport (file, HTTP body) is the caller's concern; this service only
// sees readers and writers.
type Service interface {
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.Reader) (*Document, error)
}

type service struct {
	repo       habits.Repository
	dispatcher reminder.Dispatcher
	logger     *zap.Logger
}

func NewService(repo habits.Repository, dispatcher reminder.Dispatcher, logger *zap.Logger) Service {
	return &service{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Export serializes every habit (archived included) and every ledger entry.
func (s *service) Export(ctx context.Context, w io.Writer) error {
	allHabits, err := s.repo.FindAll(ctx, habits.HabitFilter{IncludeArchived: true})
	if err != nil {
		return fmt.Errorf("failed to collect habits for export: %w", err)
	}
	entries, err := s.repo.AllEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to collect completions for export: %w", err)
	}

	doc := &Document{Habits: allHabits, Completions: entries}
	if err := Encode(w, doc); err != nil {
		s.dispatcher.ShowImmediate("Backup failed", "Could not write the backup file")
		return err
	}

	s.logger.Info("Backup exported",
		zap.Int("habits", len(doc.Habits)),
		zap.Int("completions", len(doc.Completions)),
	)
	s.dispatcher.ShowImmediate("Backup complete", "Your data was exported successfully")
	return nil
}

// Import decodes a backup document and restores it. Restore is strictly
// additive: every record is inserted or replaced by primary key, and rows
// not covered by the document are left untouched. A decode failure aborts
// before anything is written.
func (s *service) Import(ctx context.Context, r io.Reader) (*Document, error) {
	doc, err := Decode(r)
	if err != nil {
		s.dispatcher.ShowImmediate("Restore failed", "Could not read the backup file")
		return nil, err
	}

	for i := range doc.Habits {
		habit := doc.Habits[i]
		if err := s.repo.Upsert(ctx, &habit); err != nil {
			return nil, fmt.Errorf("failed to restore habit %s: %w", habit.ID, err)
		}
	}
	for i := range doc.Completions {
		entry := doc.Completions[i]
		if err := s.repo.RecordCompletion(ctx, &entry); err != nil {
			return nil, fmt.Errorf("failed to restore completion %s: %w", entry.ID, err)
		}
	}

	s.logger.Info("Backup restored",
		zap.Int("habits", len(doc.Habits)),
		zap.Int("completions", len(doc.Completions)),
	)
	s.dispatcher.ShowImmediate("Restore complete", "Your data was restored successfully")
	return doc, nil
}
