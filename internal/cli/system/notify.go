package system

import (
	"fmt"

	"github.com/strideapp/stride/internal/cli"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/utils"
)

// NotifyCmd sends reminders for planned activities whose start is due. It is
// meant to run every minute from a timer, so it only fires for activities
// whose trigger minute is exactly now; re-runs within the same minute are
// harmless duplicates the tray app deduplicates.
type NotifyCmd struct {
	Lead   int  `help:"Minutes of warning before an activity starts." default:"5"`
	DryRun bool `help:"Print notifications to stdout instead of sending them."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if !settings.NotificationsEnabled {
		if c.DryRun {
			fmt.Println("Notifications are disabled in settings.")
		}
		return nil
	}

	now, err := utils.NowInTimezone(settings.Timezone)
	if err != nil {
		return err
	}
	today := now.Format("2006-01-02")
	currentMinutes := now.Hour()*60 + now.Minute()

	plan, err := ctx.Store.GetPlan(today)
	if err != nil {
		// No plan for today, nothing to notify
		if c.DryRun {
			fmt.Println("No plan found for today.")
		}
		return nil
	}

	for _, activity := range plan.Activities {
		// Completed and skipped activities no longer need reminding.
		if activity.Status != models.StatusPlanned {
			continue
		}

		start := activity.StartTime.In(now.Location())
		startMinutes := start.Hour()*60 + start.Minute()

		triggerTime := startMinutes - c.Lead
		if currentMinutes != triggerTime {
			continue
		}

		var msg string
		if c.Lead == 0 {
			msg = fmt.Sprintf("Starting now: %s, %d min (~%d steps)", activityName(activity.Type), activity.DurationMin, activity.EstimatedSteps)
		} else {
			msg = fmt.Sprintf("Upcoming: %s in %d min at %s (%d min, ~%d steps)", activityName(activity.Type), c.Lead, start.Format("15:04"), activity.DurationMin, activity.EstimatedSteps)
		}

		if c.DryRun {
			fmt.Println("[DryRun] " + msg)
			continue
		}
		if err := ctx.Dispatcher.Notify(msg); err != nil {
			// Log error but continue checking other activities
			fmt.Printf("Failed to send notification: %v\n", err)
		}
	}

	return nil
}

func activityName(t models.ActivityType) string {
	switch t {
	case models.ActivityMicroWalk:
		return "Micro walk"
	case models.ActivityShortWalk:
		return "Short walk"
	case models.ActivityStandardWalk:
		return "Walk"
	case models.ActivityMorningWalk:
		return "Morning walk"
	case models.ActivityLunchWalk:
		return "Lunch walk"
	case models.ActivityEveningWalk:
		return "Evening walk"
	case models.ActivityWorkout:
		return "Workout"
	default:
		return string(t)
	}
}
