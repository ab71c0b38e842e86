package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/strideapp/stride/internal/models"
	"github.com/strideapp/stride/internal/utils"
)

type StepsCmd struct {
	Log  StepsLogCmd  `cmd:"" help:"Record the day's step count."`
	Show StepsShowCmd `cmd:"" help:"Show recent step history."`
}

type StepsLogCmd struct {
	Count int    `arg:"" help:"Total steps for the day."`
	Date  string `help:"Date the count belongs to (YYYY-MM-DD)." default:"today"`
}

func (c *StepsLogCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if c.Count < 0 {
		return fmt.Errorf("step count must not be negative, got %d", c.Count)
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	rec := models.DailySteps{Date: date, Steps: c.Count}
	// Re-logging a total must not wipe hourly detail a device sync brought in.
	if existing, err := ctx.Store.GetDailySteps(date); err == nil {
		rec.HourlySteps = existing.HourlySteps
	}
	if err := ctx.Store.SaveDailySteps(rec); err != nil {
		return fmt.Errorf("failed to save steps: %w", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	fmt.Printf("Logged %d steps for %s (goal %d).\n", c.Count, date, settings.DailyStepGoal)

	return evaluateStreak(ctx, date)
}

type StepsShowCmd struct {
	Days int `help:"How many days back to show." default:"7"`
}

func (c *StepsShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if c.Days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", c.Days)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}
	start, err := utils.AddDays(today, -(c.Days - 1))
	if err != nil {
		return err
	}

	recs, err := ctx.Activity.StepsRange(context.Background(), start, today)
	if err != nil {
		return fmt.Errorf("failed to get step history: %w", err)
	}
	if len(recs) == 0 {
		fmt.Printf("No steps logged since %s.\n", start)
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Steps since %s (goal %d)", start, settings.DailyStepGoal)))
	for _, rec := range recs {
		line := fmt.Sprintf("  %s  %6d", rec.Date, rec.Steps)
		if settings.DailyStepGoal > 0 && rec.Steps >= settings.DailyStepGoal {
			line += doneStyle.Render("  ✓ goal")
		}
		fmt.Println(line)
	}

	streak := ctx.Streak.Current()
	if streak.CurrentStreak > 0 || streak.LongestStreak > 0 {
		fmt.Printf("\n  Streak: %d day(s), longest %d\n", streak.CurrentStreak, streak.LongestStreak)
	}
	return nil
}

type WorkoutCmd struct {
	Log    WorkoutLogCmd    `cmd:"" help:"Record a workout."`
	List   WorkoutListCmd   `cmd:"" help:"List workouts for a date."`
	Remove WorkoutRemoveCmd `cmd:"" help:"Remove a workout."`
}

type WorkoutLogCmd struct {
	Kind     string `arg:"" help:"Workout kind (run, gym, yoga, ...)."`
	Duration int    `help:"Duration in minutes (defaults to the configured workout length)."`
	Date     string `help:"Date of the workout (YYYY-MM-DD)." default:"today"`
	Start    string `help:"Start time (HH:MM, defaults to now)."`
}

func (c *WorkoutLogCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	duration := c.Duration
	if duration == 0 {
		duration = settings.WorkoutDurationMin
	}
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", duration)
	}

	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return err
	}
	startStr := c.Start
	if startStr == "" {
		now, err := utils.NowInTimezone(settings.Timezone)
		if err != nil {
			return err
		}
		startStr = now.Format("15:04")
	}
	start, err := utils.CombineDateAndTime(date, startStr, loc)
	if err != nil {
		return err
	}

	workout := models.Workout{
		ID:          uuid.New().String(),
		Date:        date,
		Kind:        c.Kind,
		StartTime:   start,
		DurationMin: duration,
	}
	if err := ctx.Store.AddWorkout(workout); err != nil {
		return fmt.Errorf("failed to save workout: %w", err)
	}

	fmt.Printf("Logged %s workout on %s at %s (%s).\n", c.Kind, date, startStr, utils.FormatMinutes(duration))
	return nil
}

type WorkoutListCmd struct {
	Date string `arg:"" help:"Date to list (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
}

func (c *WorkoutListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	workouts, err := ctx.Store.GetWorkoutsForDate(date)
	if err != nil {
		return fmt.Errorf("failed to get workouts: %w", err)
	}
	if len(workouts) == 0 {
		fmt.Printf("No workouts on %s.\n", date)
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Workouts on %s", date)))
	for _, w := range workouts {
		fmt.Printf("  %s  %-10s %s  [%s]\n",
			timeStyle.Render(w.StartTime.Format("15:04")), w.Kind, utils.FormatMinutes(w.DurationMin), w.ID)
	}
	return nil
}

type WorkoutRemoveCmd struct {
	ID string `arg:"" help:"Workout ID to remove."`
}

func (c *WorkoutRemoveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if err := ctx.Store.DeleteWorkout(c.ID); err != nil {
		return fmt.Errorf("failed to remove workout: %w", err)
	}
	fmt.Printf("Removed workout: %s\n", c.ID)
	return nil
}
