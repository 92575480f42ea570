package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Repository defines the interface for notification persistence operations
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Notification, error) {
	var n Notification
	result := r.db.WithContext(ctx).First(&n, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, result.Error
	}
	return &n, nil
}

func (r *repository) List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error) {
	var list []Notification
	query := r.db.WithContext(ctx).Model(&Notification{})
	if unreadOnly {
		query = query.Where("status = ?", Unread)
	}
	if limit <= 0 {
		limit = 100
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *repository) MarkRead(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ?", id).
		Update("status", Read)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
