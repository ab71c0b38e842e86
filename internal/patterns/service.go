package patterns

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
)

const (
	patternsKey  = "stats.patterns"
	adherenceKey = "stats.adherence"
)

// Service persists activity patterns and adherence stats behind the narrow
// key-value store. Reads fall back to documented defaults when state is
// missing or unreadable; feedback writes are serialized so concurrent
// completion events cannot drop each other's updates.
type Service struct {
	store storage.KV
	mu    sync.Mutex
}

func NewService(store storage.KV) *Service {
	return &Service{store: store}
}

// Patterns loads the stored activity patterns, or defaults.
func (s *Service) Patterns() models.UserActivityPatterns {
	raw, ok, err := s.store.GetValue(patternsKey)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("Failed to read stored activity patterns", "error", err)
		}
		return DefaultPatterns()
	}
	var p models.UserActivityPatterns
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		logger.Warn("Stored activity patterns are unreadable, using defaults", "error", err)
		return DefaultPatterns()
	}
	if p.StepsPerMinute <= 0 {
		p.StepsPerMinute = DefaultPatterns().StepsPerMinute
	}
	return p
}

// SavePatterns stores the given patterns with a fresh update stamp.
func (s *Service) SavePatterns(p models.UserActivityPatterns) error {
	p.UpdatedAt = time.Now().UTC()
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding activity patterns: %w", err)
	}
	if err := s.store.PutValue(patternsKey, string(raw)); err != nil {
		return fmt.Errorf("saving activity patterns: %w", err)
	}
	return nil
}

// Rebuild recomputes patterns from history and persists the result.
func (s *Service) Rebuild(stepGoal int, dailySteps map[string]int, hourlySteps map[string]map[int]int, dailyWorkouts map[string]bool) (models.UserActivityPatterns, error) {
	prior := s.Patterns()
	analyzer := Analyzer{StepGoal: stepGoal, Pace: prior.StepsPerMinute}
	p := analyzer.UpdateFromHistory(dailySteps, hourlySteps, dailyWorkouts)
	if err := s.SavePatterns(p); err != nil {
		return models.UserActivityPatterns{}, err
	}
	logger.Debug("Rebuilt activity patterns",
		"sampleDays", p.SampleDays,
		"avgSteps", int(p.AverageDailySteps),
		"goalRate", p.GoalAchievementRate)
	return p, nil
}

// Adherence loads the stored adherence stats, or neutral defaults.
func (s *Service) Adherence() models.PlanAdherence {
	raw, ok, err := s.store.GetValue(adherenceKey)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("Failed to read stored adherence stats", "error", err)
		}
		return DefaultAdherence()
	}
	var adh models.PlanAdherence
	if err := json.Unmarshal([]byte(raw), &adh); err != nil {
		logger.Warn("Stored adherence stats are unreadable, using defaults", "error", err)
		return DefaultAdherence()
	}
	if adh.BestTimeSlots == nil {
		adh.BestTimeSlots = DefaultAdherence().BestTimeSlots
	}
	return adh
}

// RecordOutcome folds one activity outcome into the adherence stats and
// persists them, returning the updated stats.
func (s *Service) RecordOutcome(tod models.TimeOfDay, completed bool) (models.PlanAdherence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	adh := s.Adherence()
	RecordOutcome(&adh, tod, completed)

	raw, err := json.Marshal(adh)
	if err != nil {
		return models.PlanAdherence{}, fmt.Errorf("encoding adherence stats: %w", err)
	}
	if err := s.store.PutValue(adherenceKey, string(raw)); err != nil {
		return models.PlanAdherence{}, fmt.Errorf("saving adherence stats: %w", err)
	}
	return adh, nil
}
