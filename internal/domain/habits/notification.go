package habits

import (
	"context"
	"fmt"

	"github.com/zendpb/HabitTracker/internal/domain/notification"
)

// streak lengths that earn a milestone notification
var streakMilestones = map[int]bool{7: true, 30: true, 100: true, 365: true}

// HabitNotificationService handles notifications for habits
type HabitNotificationService struct {
	notificationService notification.Service
}

// NewHabitNotificationService creates a new habit notification service
func NewHabitNotificationService(notificationService notification.Service) *HabitNotificationService {
	return &HabitNotificationService{
		notificationService: notificationService,
	}
}

// NotifyHabitCompleted sends a notification when a habit is completed
func (s *HabitNotificationService) NotifyHabitCompleted(ctx context.Context, habit *Habit) error {
	title := "Habit Completed"
	body := fmt.Sprintf("You've completed your habit: %s", habit.Name)
	_, err := s.notificationService.Create(ctx, notification.HabitCompleted, title, body, &habit.ID)
	return err
}

// ShouldSendStreakNotification reports whether the streak just hit a milestone
func (s *HabitNotificationService) ShouldSendStreakNotification(streak int) bool {
	return streakMilestones[streak]
}

// NotifyStreakMilestone sends a notification when a streak reaches a milestone
func (s *HabitNotificationService) NotifyStreakMilestone(ctx context.Context, habit *Habit) error {
	title := "Habit Streak"
	body := fmt.Sprintf("Amazing! You've maintained a %d day streak for your habit: %s",
		habit.CurrentStreak, habit.Name)
	_, err := s.notificationService.Create(ctx, notification.HabitStreak, title, body, &habit.ID)
	return err
}

// NotifyStreakBroken sends a notification when the daily sweep resets a streak
func (s *HabitNotificationService) NotifyStreakBroken(ctx context.Context, habit *Habit, previousStreak int) error {
	title := "Streak Broken"
	body := fmt.Sprintf("Your %d day streak for %s has ended. Start again today!",
		previousStreak, habit.Name)
	_, err := s.notificationService.Create(ctx, notification.HabitBroken, title, body, &habit.ID)
	return err
}
