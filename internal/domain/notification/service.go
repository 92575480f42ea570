package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service stores and serves the in-app notification feed.
type Service interface {
	Create(ctx context.Context, kind Kind, title, body string, habitID *uuid.UUID) (*Notification, error)
	List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
	}
}

func (s *service) Create(ctx context.Context, kind Kind, title, body string, habitID *uuid.UUID) (*Notification, error) {
	n := &Notification{
		ID:      uuid.New(),
		Kind:    kind,
		Title:   title,
		Body:    body,
		HabitID: habitID,
		Status:  Unread,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Info("Notification created",
		zap.String("kind", string(kind)),
		zap.String("title", title),
	)
	return n, nil
}

func (s *service) List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error) {
	return s.repo.List(ctx, unreadOnly, limit)
}

func (s *service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}
