package sqlite

import (
	"fmt"

	"github.com/zendpb/HabitTracker/internal/domain/habits"
	"github.com/zendpb/HabitTracker/internal/domain/notification"
	"github.com/zendpb/HabitTracker/internal/domain/progress"
	"go.uber.org/zap"
)

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *Database, logger *zap.Logger) error {
	logger.Info("Starting automatic database migration...")

	models := []interface{}{
		&habits.Habit{},
		&habits.CompletionEntry{},
		&progress.UserStats{},
		&notification.Notification{},
	}

	for _, model := range models {
		if err := db.DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	logger.Info("Database migration completed successfully")
	return nil
}
