package autopilot

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/utils"
)

// NightlyCronSpec fires the scheduling pass at 21:00 local time, after the
// day has settled and before tomorrow's calendar fills up.
const NightlyCronSpec = "0 21 * * *"

// Daemon triggers the nightly autopilot pass on a cron schedule. Starting the
// daemon runs one catch-up pass immediately, which covers daemons launched
// after the trigger time; the per-date idempotency guard makes the extra pass
// harmless.
type Daemon struct {
	scheduler *Scheduler
	store     storage.Provider
	spec      string
	cron      *cron.Cron
}

func NewDaemon(scheduler *Scheduler, store storage.Provider, spec string) *Daemon {
	if spec == "" {
		spec = NightlyCronSpec
	}
	return &Daemon{scheduler: scheduler, store: store, spec: spec}
}

// Start registers the nightly trigger in the user's timezone and runs the
// catch-up pass. The returned error covers registration only; pass failures
// are logged and retried at the next trigger.
func (d *Daemon) Start(ctx context.Context) error {
	settings, err := d.store.GetSettings()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return fmt.Errorf("loading timezone: %w", err)
	}

	d.cron = cron.New(cron.WithLocation(loc))
	if _, err := d.cron.AddFunc(d.spec, func() { d.runOnce(ctx) }); err != nil {
		return fmt.Errorf("registering nightly schedule %q: %w", d.spec, err)
	}

	d.runOnce(ctx)
	d.cron.Start()
	logger.Info("Autopilot daemon started", "schedule", d.spec, "timezone", loc.String())
	return nil
}

// Stop halts the trigger and waits for a running pass to finish.
func (d *Daemon) Stop() {
	if d.cron != nil {
		<-d.cron.Stop().Done()
	}
}

// runOnce schedules tomorrow's walks, honoring the enabled switch.
func (d *Daemon) runOnce(ctx context.Context) {
	settings, err := d.store.GetSettings()
	if err != nil {
		logger.Error("Autopilot pass aborted, settings unreadable", "error", err)
		return
	}
	if !settings.AutopilotEnabled {
		logger.Debug("Autopilot disabled, skipping nightly pass")
		return
	}

	today, err := utils.GetTodayFromSettings(settings)
	if err != nil {
		logger.Error("Autopilot pass aborted", "error", err)
		return
	}
	tomorrow, err := utils.AddDays(today, 1)
	if err != nil {
		logger.Error("Autopilot pass aborted", "error", err)
		return
	}

	res, err := d.scheduler.Run(ctx, tomorrow)
	if err != nil {
		logger.Error("Autopilot pass failed", "date", tomorrow, "error", err)
		return
	}
	for _, msg := range res.Errors {
		logger.Warn("Autopilot calendar write failed", "detail", msg)
	}
	if res.Skipped {
		logger.Debug("Autopilot already covered", "date", tomorrow)
	}
}
