package autopilot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/storage"
)

// Approve resolves a pending walk to approved. Unless the trust level is
// suggest-only, approval also books the calendar event; a failed booking
// leaves the walk pending so the user can retry.
func (s *Scheduler) Approve(ctx context.Context, walkID string) (models.AutopilotWalk, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return models.AutopilotWalk{}, fmt.Errorf("loading settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	i := indexOf(state.Walks, walkID)
	if i < 0 {
		return models.AutopilotWalk{}, fmt.Errorf("autopilot walk %s: %w", walkID, storage.ErrNotFound)
	}
	walk := state.Walks[i]
	if walk.ApprovalState != models.ApprovalPending {
		return models.AutopilotWalk{}, fmt.Errorf("walk %s is already %s", walkID, walk.ApprovalState)
	}

	if models.ParseTrustLevel(string(settings.TrustLevel)) != models.TrustSuggestOnly {
		eventID, err := s.bookEvent(ctx, walk)
		if err != nil {
			return models.AutopilotWalk{}, fmt.Errorf("booking calendar event: %w", err)
		}
		walk.CalendarEventID = eventID
	}

	now := time.Now().UTC()
	walk.ApprovalState = models.ApprovalApproved
	walk.ResolvedAt = &now
	state.Walks[i] = walk
	if err := s.save(state); err != nil {
		return models.AutopilotWalk{}, err
	}
	logger.Info("Approved autopilot walk", "id", walkID, "committed", walk.Committed())
	return walk, nil
}

// Reject resolves a pending or approved walk to rejected, removing the
// calendar event when one was booked. Rejection is terminal.
func (s *Scheduler) Reject(ctx context.Context, walkID string) (models.AutopilotWalk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	i := indexOf(state.Walks, walkID)
	if i < 0 {
		return models.AutopilotWalk{}, fmt.Errorf("autopilot walk %s: %w", walkID, storage.ErrNotFound)
	}
	walk := state.Walks[i]
	if walk.ApprovalState == models.ApprovalRejected {
		return models.AutopilotWalk{}, fmt.Errorf("walk %s is already rejected", walkID)
	}

	if walk.Committed() {
		if err := s.calendar.DeleteEvent(ctx, walk.CalendarEventID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return models.AutopilotWalk{}, fmt.Errorf("removing calendar event: %w", err)
		}
		walk.CalendarEventID = ""
	}

	now := time.Now().UTC()
	walk.ApprovalState = models.ApprovalRejected
	walk.ResolvedAt = &now
	state.Walks[i] = walk
	if err := s.save(state); err != nil {
		return models.AutopilotWalk{}, err
	}
	logger.Info("Rejected autopilot walk", "id", walkID)
	return walk, nil
}

// State returns a copy of the persisted autopilot bookkeeping with walks
// ordered by date, then start time.
func (s *Scheduler) State() models.AutopilotState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	state.Walks = append([]models.AutopilotWalk(nil), state.Walks...)
	sortWalks(state.Walks)
	return state
}

// PendingWalks returns the walks awaiting a decision.
func (s *Scheduler) PendingWalks() []models.AutopilotWalk {
	var pending []models.AutopilotWalk
	for _, w := range s.State().Walks {
		if w.ApprovalState == models.ApprovalPending {
			pending = append(pending, w)
		}
	}
	return pending
}

// WalksForDate returns the date's non-rejected walks, for conflict checks
// and rendering alongside the day's plan.
func (s *Scheduler) WalksForDate(date string) []models.AutopilotWalk {
	return activeWalks(s.State().Walks, date)
}

func indexOf(walks []models.AutopilotWalk, id string) int {
	for i, w := range walks {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func sortWalks(walks []models.AutopilotWalk) {
	sort.Slice(walks, func(i, j int) bool {
		if walks[i].Date != walks[j].Date {
			return walks[i].Date < walks[j].Date
		}
		return walks[i].StartTime.Before(walks[j].StartTime)
	})
}
