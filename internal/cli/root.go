package cli

import (
	"fmt"

	"github.com/strideapp/stride/internal/autopilot"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/notifier"
	"github.com/strideapp/stride/internal/patterns"
	"github.com/strideapp/stride/internal/planner"
	"github.com/strideapp/stride/internal/providers"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/streak"
	"github.com/strideapp/stride/internal/utils"
)

// Context carries the wired services commands run against.
type Context struct {
	Store      storage.Provider
	Planner    *planner.Planner
	Autopilot  *autopilot.Scheduler
	Calendar   providers.Calendar
	Activity   providers.Activity
	Patterns   *patterns.Service
	Streak     *streak.Tracker
	Dispatcher notifier.Dispatcher
}

// ResolveDate turns a date argument into YYYY-MM-DD. "today" and "tomorrow"
// resolve in the user's configured timezone.
func (c *Context) ResolveDate(raw string) (string, error) {
	settings, err := c.Store.GetSettings()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		return "", err
	}
	switch raw {
	case "", "today":
		return today, nil
	case "tomorrow":
		return utils.AddDays(today, 1)
	}
	if !utils.ValidateDateFormat(raw) {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD, 'today' or 'tomorrow'", raw)
	}
	return raw, nil
}

// Today returns today's date in the user's configured timezone.
func (c *Context) Today() (string, error) {
	return c.ResolveDate("today")
}

// PendingWalkActivities converts the date's uncommitted autopilot walks into
// busy items for plan generation. Committed walks already block time as
// calendar events and would otherwise be counted twice.
func (c *Context) PendingWalkActivities(date string) []models.PlannedActivity {
	var busy []models.PlannedActivity
	for _, w := range c.Autopilot.WalksForDate(date) {
		if w.Committed() {
			continue
		}
		busy = append(busy, models.PlannedActivity{
			ID:          w.ID,
			Type:        w.Type,
			StartTime:   w.StartTime,
			DurationMin: w.DurationMin,
			Status:      models.StatusPlanned,
		})
	}
	return busy
}
