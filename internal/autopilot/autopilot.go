// Package autopilot schedules the next day's walks overnight and runs the
// approval workflow that turns them into calendar events.
//
// Each scheduled walk moves through a small state machine: it starts pending
// and resolves to approved or rejected. The trust level decides how far a
// fresh walk travels on its own: full auto books the calendar immediately,
// confirm-first asks the user per walk, suggest-only never leaves the app.
package autopilot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/notifier"
	"github.com/strideapp/stride/internal/providers"
	"github.com/strideapp/stride/internal/schedule"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/utils"
)

const stateKey = "autopilot.state"

// Scheduler owns the autopilot walk list: the nightly scheduling pass, the
// approve/reject workflow, and retention cleanup. State mutations serialize
// on one lock; the walk list lives as JSON behind the key-value store.
type Scheduler struct {
	store      storage.Provider
	calendar   providers.Calendar
	dispatcher notifier.Dispatcher

	mu sync.Mutex
}

func New(store storage.Provider, calendar providers.Calendar, dispatcher notifier.Dispatcher) *Scheduler {
	return &Scheduler{store: store, calendar: calendar, dispatcher: dispatcher}
}

// RunResult reports what one scheduling pass did.
type RunResult struct {
	Date string
	// Skipped is set when an earlier pass already covered the date.
	Skipped bool
	// Walks are the walks this pass scheduled, in start-time order.
	Walks []models.AutopilotWalk
	// Errors collects non-fatal calendar write failures. Affected walks stay
	// pending so a later approval can retry the write.
	Errors []string
}

// Run schedules walks for targetDate (YYYY-MM-DD). A date already scheduled,
// or still holding active walks, is skipped; use Reschedule to supersede.
func (s *Scheduler) Run(ctx context.Context, targetDate string) (RunResult, error) {
	return s.run(ctx, targetDate, false)
}

// Reschedule discards the date's walks, removing any calendar events they
// booked, and schedules the date afresh. Earlier rejections for the date do
// not carry over.
func (s *Scheduler) Reschedule(ctx context.Context, targetDate string) (RunResult, error) {
	return s.run(ctx, targetDate, true)
}

func (s *Scheduler) run(ctx context.Context, targetDate string, supersede bool) (RunResult, error) {
	if !utils.ValidateDateFormat(targetDate) {
		return RunResult{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", targetDate)
	}
	settings, err := s.store.GetSettings()
	if err != nil {
		return RunResult{}, fmt.Errorf("loading settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	if supersede {
		if err := s.discardActive(ctx, &state, targetDate); err != nil {
			return RunResult{}, err
		}
	} else if state.LastScheduledDate == targetDate || len(activeWalks(state.Walks, targetDate)) > 0 {
		logger.Debug("Autopilot already covered this date", "date", targetDate)
		return RunResult{Date: targetDate, Skipped: true}, nil
	}

	slots, err := s.freeSlots(ctx, targetDate, settings)
	if err != nil {
		return RunResult{}, err
	}

	walks := pickWalks(targetDate, slots, settings.TargetWalksPerDay, settings.WalkSpacing(), settings.MicroWalksEnabled)
	now := time.Now().UTC()
	for i := range walks {
		walks[i].CreatedAt = now
	}

	result := RunResult{Date: targetDate}
	trust := models.ParseTrustLevel(string(settings.TrustLevel))
	s.applyTrustPolicy(ctx, trust, walks, &result)

	state.Walks = append(state.Walks, walks...)
	state.LastScheduledDate = targetDate
	state.Walks = withoutExpired(state.Walks, targetDate)
	if err := s.save(state); err != nil {
		return RunResult{}, err
	}
	result.Walks = walks

	logger.Info("Autopilot pass complete",
		"date", targetDate,
		"walks", len(walks),
		"trust", trust,
		"calendarErrors", len(result.Errors))
	return result, nil
}

// applyTrustPolicy resolves each fresh walk per the trust level. Calendar
// failures leave the walk pending and are collected, never fatal; dispatch
// failures are logged only (fire and forget).
func (s *Scheduler) applyTrustPolicy(ctx context.Context, trust models.TrustLevel, walks []models.AutopilotWalk, result *RunResult) {
	switch trust {
	case models.TrustFullAuto:
		var committed []models.AutopilotWalk
		for i := range walks {
			eventID, err := s.bookEvent(ctx, walks[i])
			if err != nil {
				result.Errors = append(result.Errors,
					fmt.Sprintf("calendar write for %s at %s failed: %v",
						walks[i].ID, walks[i].StartTime.Format(constants.TimeFormat), err))
				continue
			}
			now := time.Now().UTC()
			walks[i].ApprovalState = models.ApprovalApproved
			walks[i].CalendarEventID = eventID
			walks[i].ResolvedAt = &now
			committed = append(committed, walks[i])
		}
		if len(committed) > 0 {
			if err := s.dispatcher.ScheduleSummary(committed); err != nil {
				logger.Warn("Summary notification failed", "error", err)
			}
		}
	case models.TrustConfirmFirst:
		for _, w := range walks {
			if err := s.dispatcher.ScheduleApprovalPrompt(w); err != nil {
				logger.Warn("Approval prompt failed", "walk", w.ID, "error", err)
			}
		}
	case models.TrustSuggestOnly:
		// Suggestions surface in-app only.
	}
}

// freeSlots computes the date's plannable slots the same way plan generation
// does, with the stored plan's open activities counted as busy so autopilot
// never doubles up on manually planned movement.
func (s *Scheduler) freeSlots(ctx context.Context, date string, settings models.Settings) ([]schedule.FreeSlot, error) {
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	day, err := utils.ParseDateInLocation(date, loc)
	if err != nil {
		return nil, err
	}
	window, err := schedule.ActiveWindow(day, settings.WakeTime, settings.SleepTime)
	if err != nil {
		return nil, err
	}

	meetings, err := s.calendar.Events(ctx, date)
	if err != nil {
		logger.Warn("Calendar unavailable, scheduling on an open day", "date", date, "error", err)
		meetings = nil
	}

	var busyActivities []models.PlannedActivity
	if plan, err := s.store.GetPlan(date); err == nil {
		for _, a := range plan.Activities {
			if a.Status == models.StatusPlanned {
				busyActivities = append(busyActivities, a)
			}
		}
	}

	cfg := schedule.Config{
		Window: window,
		// Sweep at the engine floor, not the user's planning minimum: the
		// micro fallback needs to see 5 minute gaps.
		MinDurationMin: constants.MinSlotDuration,
		MealTimes:      schedule.MealInstants(date, settings.MealTimes, loc),
	}
	busy := schedule.BuildBusyIntervals(meetings, busyActivities)
	return schedule.SplitAroundMeals(schedule.FindFreeSlots(busy, cfg), cfg), nil
}

// bookEvent writes the walk to the calendar and returns the event ID.
func (s *Scheduler) bookEvent(ctx context.Context, w models.AutopilotWalk) (string, error) {
	return s.calendar.CreateEvent(ctx, models.CalendarMeeting{
		Title:     fmt.Sprintf("Walk (%s)", utils.FormatMinutes(w.DurationMin)),
		StartTime: w.StartTime,
		EndTime:   w.EndTime(),
		Notes:     "Booked by stride autopilot",
		Source:    models.MeetingSourceAutopilot,
	})
}

// discardActive removes all of the date's walks, deleting calendar events
// already booked for them. Rejected records go too: IDs derive from the
// start instant, so a retained rejection would shadow a fresh walk landing
// in the same slot. An event that is already gone does not block the
// discard.
func (s *Scheduler) discardActive(ctx context.Context, state *models.AutopilotState, date string) error {
	kept := make([]models.AutopilotWalk, 0, len(state.Walks))
	for _, w := range state.Walks {
		if w.Date != date {
			kept = append(kept, w)
			continue
		}
		if w.ApprovalState == models.ApprovalRejected {
			logger.Debug("Dropped superseded rejection", "id", w.ID, "date", date)
			continue
		}
		if w.Committed() {
			if err := s.calendar.DeleteEvent(ctx, w.CalendarEventID); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("removing superseded event for %s: %w", w.ID, err)
			}
		}
		logger.Debug("Superseded autopilot walk", "id", w.ID, "date", date)
	}
	state.Walks = kept
	if state.LastScheduledDate == date {
		state.LastScheduledDate = ""
	}
	return nil
}

// withoutExpired drops walks older than the retention window, measured
// against the date being scheduled. Walks with unreadable dates are dropped
// outright.
func withoutExpired(walks []models.AutopilotWalk, targetDate string) []models.AutopilotWalk {
	kept := make([]models.AutopilotWalk, 0, len(walks))
	for _, w := range walks {
		age, err := utils.DaysBetween(w.Date, targetDate)
		if err != nil {
			logger.Warn("Dropping autopilot walk with unreadable date", "id", w.ID, "date", w.Date)
			continue
		}
		if age > constants.AutopilotRetentionDays {
			continue
		}
		kept = append(kept, w)
	}
	return kept
}

// activeWalks returns the date's non-rejected walks.
func activeWalks(walks []models.AutopilotWalk, date string) []models.AutopilotWalk {
	var active []models.AutopilotWalk
	for _, w := range walks {
		if w.Date == date && w.ApprovalState != models.ApprovalRejected {
			active = append(active, w)
		}
	}
	return active
}

func (s *Scheduler) load() models.AutopilotState {
	raw, ok, err := s.store.GetValue(stateKey)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("Failed to read autopilot state", "error", err)
		}
		return models.AutopilotState{}
	}
	var state models.AutopilotState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		logger.Warn("Stored autopilot state is unreadable, resetting", "error", err)
		return models.AutopilotState{}
	}
	return state
}

func (s *Scheduler) save(state models.AutopilotState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding autopilot state: %w", err)
	}
	if err := s.store.PutValue(stateKey, string(raw)); err != nil {
		return fmt.Errorf("saving autopilot state: %w", err)
	}
	return nil
}
