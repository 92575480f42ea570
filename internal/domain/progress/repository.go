package progress

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for the user stats singleton row
type Repository interface {
	Get(ctx context.Context) (*UserStats, error)
	Save(ctx context.Context, stats *UserStats) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Get returns the singleton row, creating it with defaults on first use.
func (r *repository) Get(ctx context.Context) (*UserStats, error) {
	var stats UserStats
	result := r.db.WithContext(ctx).Where("id = ?", 0).First(&stats)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			stats = DefaultStats()
			if err := r.Save(ctx, &stats); err != nil {
				return nil, err
			}
			return &stats, nil
		}
		return nil, result.Error
	}
	return &stats, nil
}

func (r *repository) Save(ctx context.Context, stats *UserStats) error {
	stats.ID = 0
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(stats).Error
}
