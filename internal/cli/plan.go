package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/strideapp/stride/internal/planner"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/validation"
)

type PlanCmd struct {
	Date    string `arg:"" help:"Date to plan (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
	Workout bool   `help:"Reserve workout time alongside walks."`
	Force   bool   `help:"Replace an existing plan without asking."`
}

func (c *PlanCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	// Regenerating replaces the stored plan wholesale, so ask first.
	existing, err := ctx.Store.GetPlan(date)
	if err == nil && len(existing.Activities) > 0 && !c.Force {
		fmt.Printf("A plan already exists for %s (%d activities). Generating a new plan will replace it.\n", date, len(existing.Activities))
		fmt.Print("Continue? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Plan generation cancelled.")
			return nil
		}
		fmt.Println()
	}

	opts := planner.Options{
		IncludeWorkout: c.Workout,
		BusyActivities: ctx.PendingWalkActivities(date),
	}
	plan, err := ctx.Planner.Generate(context.Background(), date, opts)
	if err != nil {
		return err
	}

	fmt.Println(RenderPlan(plan))

	// Conflict checks are advisory: the plan is already saved, the user
	// decides what moves.
	meetings, err := ctx.Calendar.Events(context.Background(), date)
	if err != nil {
		meetings = nil
	}
	result := validation.New().CheckPlan(plan, meetings, ctx.Autopilot.WalksForDate(date))
	if result.HasConflicts() {
		fmt.Println(warnStyle.Render("⚠️  Schedule warnings:"))
		for _, conflict := range result.Conflicts {
			fmt.Printf("  - %s\n", conflict.Description)
		}
	}

	return nil
}

type DayCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD, 'today' or 'tomorrow')." default:"today"`
}

func (c *DayCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	plan, err := ctx.Planner.Plan(date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Printf("No plan for %s. Run 'stride plan %s' to create one.\n", date, date)
			return nil
		}
		return err
	}

	fmt.Println(RenderPlan(plan))

	if walks := ctx.Autopilot.WalksForDate(date); len(walks) > 0 {
		fmt.Println(headerStyle.Render("Autopilot walks"))
		for _, w := range walks {
			fmt.Println(RenderWalk(w))
		}
	}

	return nil
}

type DoneCmd struct {
	ID   string `arg:"" help:"Activity ID to mark completed."`
	Date string `help:"Date the activity belongs to (YYYY-MM-DD)." default:"today"`
}

func (c *DoneCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	activity, err := ctx.Planner.RecordActivityOutcome(date, c.ID, true)
	if err != nil {
		return err
	}
	fmt.Printf("Marked %s at %s completed.\n", activityLabel(activity.Type), activity.StartTime.Format("15:04"))

	return evaluateStreak(ctx, date)
}

type SkipCmd struct {
	ID   string `arg:"" help:"Activity ID to mark skipped."`
	Date string `help:"Date the activity belongs to (YYYY-MM-DD)." default:"today"`
}

func (c *SkipCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	activity, err := ctx.Planner.RecordActivityOutcome(date, c.ID, false)
	if err != nil {
		return err
	}
	fmt.Printf("Marked %s at %s skipped.\n", activityLabel(activity.Type), activity.StartTime.Format("15:04"))
	return nil
}

// evaluateStreak reconciles the streak against today's step total. Backdated
// outcomes never touch the streak: its dates only move forward.
func evaluateStreak(ctx *Context, date string) error {
	today, err := ctx.Today()
	if err != nil || date != today {
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return nil
	}
	steps, err := ctx.Activity.Steps(context.Background(), today)
	if err != nil {
		return nil
	}

	before := ctx.Streak.Current()
	after, err := ctx.Streak.Evaluate(today, steps.Steps, settings.DailyStepGoal)
	if err != nil {
		return err
	}
	if after.LastGoalDate == today && after.CurrentStreak > before.CurrentStreak {
		fmt.Println(doneStyle.Render(fmt.Sprintf("Step goal hit! Streak: %d day(s), longest %d.", after.CurrentStreak, after.LongestStreak)))
	}
	return nil
}
