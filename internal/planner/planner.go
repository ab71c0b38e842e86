package planner

import (
	"context"
	goerrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/strideapp/stride/internal/constants"
	"github.com/strideapp/stride/internal/logger"
	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/patterns"
	"github.com/strideapp/stride/internal/providers"
	"github.com/strideapp/stride/internal/schedule"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/utils"
	"github.com/strideapp/stride/internal/walkability"
)

// Planner runs a plan generation end to end: fetch inputs, find slots,
// allocate, persist. Generations for the same date serialize; a stale
// generation never overwrites a newer plan.
type Planner struct {
	store    storage.Provider
	calendar providers.Calendar
	activity providers.Activity
	stats    *patterns.Service

	epoch atomic.Int64

	mu    sync.Mutex
	dates map[string]*sync.Mutex
}

func New(store storage.Provider, calendar providers.Calendar, activity providers.Activity, stats *patterns.Service) *Planner {
	return &Planner{
		store:    store,
		calendar: calendar,
		activity: activity,
		stats:    stats,
		dates:    make(map[string]*sync.Mutex),
	}
}

// Options tweaks a single generation.
type Options struct {
	// IncludeWorkout switches to the capacity-tiered walk+workout allocation.
	IncludeWorkout bool
	// BusyActivities are movement items scheduled outside this plan, such as
	// autopilot walks awaiting approval, that new walks must not overlap.
	BusyActivities []models.PlannedActivity
}

// Generate computes and stores the movement plan for date (YYYY-MM-DD),
// replacing any previous plan wholesale. Provider failures degrade the plan
// instead of failing it: the affected input counts as empty and a warning is
// logged. If a newer generation lands first, its plan is returned instead.
func (p *Planner) Generate(ctx context.Context, date string, opts Options) (models.MovementPlan, error) {
	settings, err := p.store.GetSettings()
	if err != nil {
		return models.MovementPlan{}, fmt.Errorf("loading settings: %w", err)
	}

	// The epoch is claimed before the date lock so later-started requests
	// always carry higher epochs, whatever order they run in.
	p.ensureEpochFloor(date)
	epoch := p.epoch.Add(1)

	lock := p.dateLock(date)
	lock.Lock()
	defer lock.Unlock()

	inputs := p.fetchInputs(ctx, date)
	plan, err := p.compute(date, epoch, settings, inputs, opts)
	if err != nil {
		return models.MovementPlan{}, err
	}

	if err := p.store.SavePlan(plan); err != nil {
		if goerrors.Is(err, storage.ErrStaleEpoch) {
			logger.Debug("Discarding stale plan generation", "date", date, "epoch", epoch)
			return p.store.GetPlan(date)
		}
		return models.MovementPlan{}, fmt.Errorf("saving plan: %w", err)
	}
	logger.Info("Generated movement plan", "date", date, "activities", len(plan.Activities), "confidence", plan.Confidence)
	return plan, nil
}

// Plan returns the stored plan for the date.
func (p *Planner) Plan(date string) (models.MovementPlan, error) {
	return p.store.GetPlan(date)
}

// RecordActivityOutcome marks a planned activity done or skipped and feeds
// the outcome into the adherence statistics.
func (p *Planner) RecordActivityOutcome(date, activityID string, completed bool) (models.PlannedActivity, error) {
	plan, err := p.store.GetPlan(date)
	if err != nil {
		return models.PlannedActivity{}, err
	}

	var activity models.PlannedActivity
	found := false
	for _, a := range plan.Activities {
		if a.ID == activityID {
			activity, found = a, true
			break
		}
	}
	if !found {
		return models.PlannedActivity{}, fmt.Errorf("no activity %q in the plan for %s", activityID, date)
	}

	status := models.StatusSkipped
	if completed {
		status = models.StatusCompleted
	}
	if err := p.store.UpdateActivityStatus(date, activityID, status); err != nil {
		return models.PlannedActivity{}, err
	}
	activity.Status = status

	tod := models.TimeOfDayForHour(activity.StartTime.Hour())
	if _, err := p.stats.RecordOutcome(tod, completed); err != nil {
		return models.PlannedActivity{}, err
	}
	return activity, nil
}

// RefreshPatterns rebuilds the learned activity patterns from the trailing
// history window ending today.
func (p *Planner) RefreshPatterns(ctx context.Context, today string) (models.UserActivityPatterns, error) {
	settings, err := p.store.GetSettings()
	if err != nil {
		return models.UserActivityPatterns{}, fmt.Errorf("loading settings: %w", err)
	}
	start, err := utils.AddDays(today, -constants.PatternLookbackDays)
	if err != nil {
		return models.UserActivityPatterns{}, err
	}

	var (
		stepRecs []models.DailySteps
		workouts []models.Workout
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs, err := p.activity.StepsRange(gctx, start, today)
		if err != nil {
			return fmt.Errorf("fetching step history: %w", err)
		}
		stepRecs = recs
		return nil
	})
	g.Go(func() error {
		ws, err := p.activity.WorkoutsRange(gctx, start, today)
		if err != nil {
			return fmt.Errorf("fetching workout history: %w", err)
		}
		workouts = ws
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.UserActivityPatterns{}, err
	}

	daily := make(map[string]int, len(stepRecs))
	hourly := make(map[string]map[int]int)
	for _, rec := range stepRecs {
		daily[rec.Date] = rec.Steps
		if len(rec.HourlySteps) > 0 {
			hourly[rec.Date] = rec.HourlySteps
		}
	}
	workoutDays := make(map[string]bool, len(workouts))
	for _, w := range workouts {
		workoutDays[w.Date] = true
	}

	return p.stats.Rebuild(settings.DailyStepGoal, daily, hourly, workoutDays)
}

type planInputs struct {
	meetings []models.CalendarMeeting
	steps    models.DailySteps
}

// fetchInputs gathers the day's meetings and step count concurrently.
// Either provider failing is absorbed as an empty input.
func (p *Planner) fetchInputs(ctx context.Context, date string) planInputs {
	in := planInputs{steps: models.DailySteps{Date: date}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := p.calendar.Events(gctx, date)
		if err != nil {
			logger.Warn("Calendar unavailable, planning without meetings", "date", date, "error", err)
			return nil
		}
		in.meetings = events
		return nil
	})
	g.Go(func() error {
		steps, err := p.activity.Steps(gctx, date)
		if err != nil {
			logger.Warn("Step data unavailable, assuming zero steps", "date", date, "error", err)
			return nil
		}
		in.steps = steps
		return nil
	})
	_ = g.Wait() // provider errors are absorbed above
	return in
}

func (p *Planner) compute(date string, epoch int64, settings models.Settings, in planInputs, opts Options) (models.MovementPlan, error) {
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return models.MovementPlan{}, fmt.Errorf("loading timezone: %w", err)
	}
	day, err := utils.ParseDateInLocation(date, loc)
	if err != nil {
		return models.MovementPlan{}, err
	}

	window, err := schedule.ActiveWindow(day, settings.WakeTime, settings.SleepTime)
	if err != nil {
		return models.MovementPlan{}, err
	}

	busy := schedule.BuildBusyIntervals(in.meetings, opts.BusyActivities)
	slotCfg := schedule.Config{
		Window:         window,
		MinDurationMin: settings.MinSlotMin,
		MealTimes:      schedule.MealInstants(date, settings.MealTimes, loc),
		PreferredTime:  preferredBand(settings.PreferredTime),
	}
	// Carve meal windows out of flagged slots so an open afternoon is not
	// discarded because it crosses lunch.
	slots := schedule.SplitAroundMeals(schedule.FindFreeSlots(busy, slotCfg), slotCfg)

	stats := p.stats.Patterns()
	adherence := p.stats.Adherence()

	stepsNeeded := settings.DailyStepGoal - in.steps.Steps
	if stepsNeeded < 0 {
		stepsNeeded = 0
	}

	walkable, walkableLabels := walkableMeetings(in.meetings)

	req := Request{
		StepsNeeded:      stepsNeeded,
		Slots:            slots,
		WalkableMeetings: walkable,
		Patterns:         stats,
		Adherence:        adherence,
	}

	var res Result
	if opts.IncludeWorkout {
		res = AllocateWithWorkout(req, settings.WorkoutDurationMin, settings.WorkoutTime, settings.PreferredTime)
	} else {
		res = Allocate(req)
	}

	covered := res.PlannedSteps + res.MeetingSteps
	return models.MovementPlan{
		Date:           date,
		Activities:     res.Activities,
		StepsNeeded:    stepsNeeded,
		PlannedSteps:   res.PlannedSteps,
		MeetingSteps:   res.MeetingSteps,
		Confidence:     Confidence(stepsNeeded, covered, stats.GoalAchievementRate),
		Reasoning:      Reasoning(stepsNeeded, covered, len(walkable)),
		WalkableEvents: walkableLabels,
		Epoch:          epoch,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// walkableMeetings picks the meetings worth recommending as movement:
// walking one-on-ones, and large calls listenable on the move. The two
// predicates are disjoint (attendee counts don't overlap). Events the
// engine booked itself are never candidates.
func walkableMeetings(meetings []models.CalendarMeeting) ([]models.CalendarMeeting, []string) {
	var walkable []models.CalendarMeeting
	var labels []string
	for _, m := range meetings {
		if m.Source == models.MeetingSourceAutopilot {
			continue
		}
		switch {
		case walkability.IsWalkingOneOnOne(m):
			walkable = append(walkable, m)
			labels = append(labels, fmt.Sprintf("%s (%s, walking 1:1)", m.Title, m.StartTime.Format(constants.TimeFormat)))
		case walkability.IsBackgroundListenable(m):
			walkable = append(walkable, m)
			labels = append(labels, fmt.Sprintf("%s (%s, listen on the move)", m.Title, m.StartTime.Format(constants.TimeFormat)))
		}
	}
	return walkable, labels
}

// preferredBand narrows the preferred-time setting to a concrete band;
// anything else means no preference.
func preferredBand(setting string) models.TimeOfDay {
	switch models.TimeOfDay(setting) {
	case models.Morning, models.Afternoon, models.Evening:
		return models.TimeOfDay(setting)
	default:
		return ""
	}
}

// ensureEpochFloor lifts the in-process epoch counter to at least the stored
// plan's epoch, so counters restart safely across processes.
func (p *Planner) ensureEpochFloor(date string) {
	stored, err := p.store.GetPlan(date)
	if err != nil {
		return
	}
	for {
		cur := p.epoch.Load()
		if cur >= stored.Epoch {
			return
		}
		if p.epoch.CompareAndSwap(cur, stored.Epoch) {
			return
		}
	}
}

func (p *Planner) dateLock(date string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	lock, ok := p.dates[date]
	if !ok {
		lock = &sync.Mutex{}
		p.dates[date] = lock
	}
	return lock
}
