package scheduler

import (
	"context"
	"time"

	"github.com/zendpb/HabitTracker/internal/domain/habits"
	"github.com/zendpb/HabitTracker/pkg/logger"
	"go.uber.org/zap"
)

// Scheduler runs the daily maintenance sweep: stale-streak resets and a
// reminder re-sync for every habit. The sweep runs once on startup (the
// app-resume analog) and again at each midnight.
type Scheduler struct {
	habitService habits.Service
	logger       *logger.Logger
	stop         chan struct{}
}

func NewScheduler(habitService habits.Service, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		habitService: habitService,
		logger:       logger,
		stop:         make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	// Run immediately at startup
	s.runSweep()

	// Calculate time until next midnight
	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	timeUntilMidnight := nextMidnight.Sub(now)

	s.logger.Info("Habit scheduler initialized",
		zap.Time("current_time", now),
		zap.Time("next_run", nextMidnight),
		zap.Duration("time_until_next_run", timeUntilMidnight),
	)

	go func() {
		// Wait until first midnight
		select {
		case <-time.After(timeUntilMidnight):
		case <-s.stop:
			return
		}

		s.runSweep()

		// Then run every 24 hours
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.runSweep()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop halts the midnight loop.
func (s *Scheduler) Stop() {
	close(s.stop)
}

func (s *Scheduler) runSweep() {
	ctx := context.Background()
	startTime := time.Now()

	s.logger.Info("Starting daily habit sweep", zap.Time("start_time", startTime))

	resetCount, err := s.habitService.ResetStaleStreaks(ctx, startTime)
	if err != nil {
		s.logger.Error("Failed to reset stale streaks", zap.Error(err))
	} else {
		s.logger.Info("Successfully processed stale streaks",
			zap.Int64("streak_reset_count", resetCount),
			zap.String("reset_criteria", "Habits not completed since yesterday"),
		)
	}

	s.resyncReminders(ctx)

	s.logger.Info("Completed daily habit sweep",
		zap.Time("end_time", time.Now()),
		zap.Duration("duration", time.Since(startTime)),
	)
}

func (s *Scheduler) resyncReminders(ctx context.Context) {
	synced, err := s.habitService.ResyncReminders(ctx)
	if err != nil {
		s.logger.Error("Failed to resync reminders", zap.Error(err))
		return
	}
	s.logger.Info("Reminder resync finished", zap.Int("synced", synced))
}
