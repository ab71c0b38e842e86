package streak

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/utils"
)

const streakKey = "stats.streak"

// RecordGoalHit applies a goal hit for today to the streak state. Recording
// the same day twice is a no-op; a hit the day after the last one extends
// the run, anything later restarts it at one. Pure: returns the new state.
func RecordGoalHit(s models.Streak, today string) models.Streak {
	if s.LastGoalDate == today {
		return s
	}
	yesterday, err := utils.AddDays(today, -1)
	if err != nil {
		return s
	}

	if s.LastGoalDate == yesterday {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastGoalDate = today
	return s
}

// Validate zeroes a current streak whose last hit is older than yesterday.
// Run at process start so a lapsed streak doesn't survive on display. The
// longest streak is never touched.
func Validate(s models.Streak, today string) models.Streak {
	if s.LastGoalDate == today {
		return s
	}
	yesterday, err := utils.AddDays(today, -1)
	if err != nil {
		return s
	}
	if s.LastGoalDate != yesterday {
		s.CurrentStreak = 0
	}
	return s
}

// Tracker persists the streak behind the key-value store. Updates are
// serialized; the streak mutates at most once per calendar day.
type Tracker struct {
	store storage.KV
	mu    sync.Mutex
}

func NewTracker(store storage.KV) *Tracker {
	return &Tracker{store: store}
}

// Current returns the stored streak, or a zero streak when state is missing
// or unreadable.
func (t *Tracker) Current() models.Streak {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

// RecordGoalHit records that the step goal was met today and persists the
// result when it changed anything.
func (t *Tracker) RecordGoalHit(today string) (models.Streak, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.load()
	after := RecordGoalHit(before, today)
	if after == before {
		return after, nil
	}
	if err := t.save(after); err != nil {
		return models.Streak{}, err
	}
	logger.Debug("Recorded goal hit", "date", today, "current", after.CurrentStreak, "longest", after.LongestStreak)
	return after, nil
}

// Validate reconciles the stored streak against today, persisting a reset
// when the streak has lapsed.
func (t *Tracker) Validate(today string) (models.Streak, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before := t.load()
	after := Validate(before, today)
	if after == before {
		return after, nil
	}
	if err := t.save(after); err != nil {
		return models.Streak{}, err
	}
	logger.Debug("Streak lapsed, current reset", "lastGoalDate", after.LastGoalDate)
	return after, nil
}

// Evaluate records a goal hit when steps meet the goal and otherwise just
// validates, so callers can feed it the day's totals unconditionally.
func (t *Tracker) Evaluate(today string, steps, goal int) (models.Streak, error) {
	if goal > 0 && steps >= goal {
		return t.RecordGoalHit(today)
	}
	return t.Validate(today)
}

func (t *Tracker) load() models.Streak {
	raw, ok, err := t.store.GetValue(streakKey)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("Failed to read stored streak", "error", err)
		}
		return models.Streak{}
	}
	var s models.Streak
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		logger.Warn("Stored streak is unreadable, resetting", "error", err)
		return models.Streak{}
	}
	// Repair impossible values rather than propagate them.
	if s.CurrentStreak < 0 {
		s.CurrentStreak = 0
	}
	if s.LongestStreak < s.CurrentStreak {
		s.LongestStreak = s.CurrentStreak
	}
	return s
}

func (t *Tracker) save(s models.Streak) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding streak: %w", err)
	}
	if err := t.store.PutValue(streakKey, string(raw)); err != nil {
		return fmt.Errorf("saving streak: %w", err)
	}
	return nil
}
