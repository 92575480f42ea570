package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/zendpb/HabitTracker/internal/domain/events"
	"go.uber.org/zap"
)

const maxTreeStage = 5

// RequiredXP returns the XP needed to advance past the given level.
func RequiredXP(level int) int {
	return 100 + level*50
}

// ApplyXPDelta rolls an XP delta (positive or negative) through the level
// ladder. XP acts as a digit in a variable-base number system where each
// level holds RequiredXP(level): overflow carries a level up, deficit
// borrows a level down, floored at level 1 with XP clamped to zero.
func ApplyXPDelta(level, xp, delta int) (newLevel, newXP int) {
	newLevel = level
	newXP = xp + delta

	for newXP >= RequiredXP(newLevel) {
		newXP -= RequiredXP(newLevel)
		newLevel++
	}
	for newXP < 0 && newLevel > 1 {
		newLevel--
		newXP += RequiredXP(newLevel)
	}
	if newXP < 0 {
		newXP = 0
	}
	return newLevel, newXP
}

// TreeStageForLevel derives the growth stage shown for the level, from
// seed (1) to the full tree (5), one stage every five levels.
func TreeStageForLevel(level int) int {
	stage := 1 + (level-1)/5
	if stage > maxTreeStage {
		stage = maxTreeStage
	}
	return stage
}

// Service owns all mutation of the user stats row.
type Service interface {
	Get(ctx context.Context) (*UserStats, error)
	AddXP(ctx context.Context, xpDelta, completionDelta int) (*UserStats, error)
	SetLevel(ctx context.Context, level int) (*UserStats, error)
	SetXP(ctx context.Context, xp int) (*UserStats, error)
}

type service struct {
	repo   Repository
	bus    *events.Bus
	logger *zap.Logger
}

func NewService(repo Repository, bus *events.Bus, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *service) Get(ctx context.Context) (*UserStats, error) {
	return s.repo.Get(ctx)
}

// AddXP applies an XP delta through the level-rollover rules and adjusts the
// total completions counter by completionDelta.
func (s *service) AddXP(ctx context.Context, xpDelta, completionDelta int) (*UserStats, error) {
	stats, err := s.repo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}

	level, xp := ApplyXPDelta(stats.Level, stats.TotalXP, xpDelta)

	completions := stats.TotalCompletions + completionDelta
	if completions < 0 {
		completions = 0
	}

	updated := UserStats{
		ID:               0,
		TotalXP:          xp,
		Level:            level,
		TreeStage:        TreeStageForLevel(level),
		TotalCoins:       stats.TotalCoins,
		TotalCompletions: completions,
	}

	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to save user stats: %w", err)
	}

	if level != stats.Level {
		s.logger.Info("Level changed",
			zap.Int("previous_level", stats.Level),
			zap.Int("new_level", level),
			zap.Int("xp", xp),
		)
	}

	s.publishChange(&updated)
	return &updated, nil
}

// SetLevel overrides the level directly, keeping accumulated XP.
func (s *service) SetLevel(ctx context.Context, level int) (*UserStats, error) {
	if level < 1 {
		level = 1
	}
	stats, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	updated := *stats
	updated.Level = level
	updated.TreeStage = TreeStageForLevel(level)
	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, err
	}
	s.publishChange(&updated)
	return &updated, nil
}

// SetXP overrides the XP amount directly, keeping the current level.
func (s *service) SetXP(ctx context.Context, xp int) (*UserStats, error) {
	if xp < 0 {
		xp = 0
	}
	stats, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}

	updated := *stats
	updated.TotalXP = xp
	if err := s.repo.Save(ctx, &updated); err != nil {
		return nil, err
	}
	s.publishChange(&updated)
	return &updated, nil
}

func (s *service) publishChange(stats *UserStats) {
	s.bus.Publish(events.ChangeEvent{
		Topic:     events.TopicStatsChanged,
		Timestamp: time.Now().UTC(),
		Details: map[string]interface{}{
			"level":             stats.Level,
			"total_xp":          stats.TotalXP,
			"tree_stage":        stats.TreeStage,
			"total_completions": stats.TotalCompletions,
		},
	})
}
