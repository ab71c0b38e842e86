package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/strideapp/stride/internal/models"
)

type StreakCmd struct{}

func (c *StreakCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}
	// A lapsed streak resets on read, not just on the next goal hit.
	streak, err := ctx.Streak.Validate(today)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Step goal streak"))
	fmt.Printf("  Current: %d day(s)\n", streak.CurrentStreak)
	fmt.Printf("  Longest: %d day(s)\n", streak.LongestStreak)
	if streak.LastGoalDate != "" {
		fmt.Printf("  Last goal hit: %s\n", streak.LastGoalDate)
	} else {
		fmt.Println(dimStyle.Render("  No goal hit recorded yet."))
	}
	return nil
}

type PatternsCmd struct {
	Refresh PatternsRefreshCmd `cmd:"" help:"Rebuild activity patterns from recent history."`
	Show    PatternsShowCmd    `cmd:"" help:"Show learned activity patterns." default:"1"`
}

type PatternsRefreshCmd struct{}

func (c *PatternsRefreshCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	today, err := ctx.Today()
	if err != nil {
		return err
	}
	p, err := ctx.Planner.RefreshPatterns(context.Background(), today)
	if err != nil {
		return err
	}

	fmt.Printf("Patterns rebuilt from %d day(s) of history.\n\n", p.SampleDays)
	printPatterns(p)
	return nil
}

type PatternsShowCmd struct{}

func (c *PatternsShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	p := ctx.Patterns.Patterns()
	printPatterns(p)

	adh := ctx.Patterns.Adherence()
	total := adh.ActivitiesCompleted + adh.ActivitiesSkipped
	if total == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println(headerStyle.Render("Plan adherence"))
	fmt.Printf("  Completed %d of %d planned activities (%.0f%%)\n",
		adh.ActivitiesCompleted, total, adh.CompletionRate()*100)
	for _, tod := range []models.TimeOfDay{models.Morning, models.Afternoon, models.Evening} {
		if rate, ok := adh.BestTimeSlots[tod]; ok {
			fmt.Printf("  %-10s %.0f%%\n", tod, rate*100)
		}
	}
	return nil
}

func printPatterns(p models.UserActivityPatterns) {
	fmt.Println(headerStyle.Render("Activity patterns"))
	if p.SampleDays == 0 {
		fmt.Println(dimStyle.Render("  No history yet. Log steps and run 'stride patterns refresh'."))
		return
	}

	fmt.Printf("  Average daily steps:  %.0f\n", p.AverageDailySteps)
	fmt.Printf("  Weekday average:      %.0f\n", p.WeekdayAverageSteps)
	fmt.Printf("  Weekend average:      %.0f\n", p.WeekendAverageSteps)
	fmt.Printf("  Goal achievement:     %.0f%%\n", p.GoalAchievementRate*100)
	fmt.Printf("  Walking pace:         %.1f steps/min\n", p.StepsPerMinute)
	fmt.Printf("  Workout days/week:    %.1f\n", p.WorkoutDaysPerWeek)

	if len(p.BestPerformingDays) > 0 {
		days := make([]string, len(p.BestPerformingDays))
		for i, d := range p.BestPerformingDays {
			days[i] = d.String()[:3]
		}
		fmt.Printf("  Best days:            %s\n", strings.Join(days, ", "))
	}
	if len(p.PeakActivityHours) > 0 {
		hours := make([]string, len(p.PeakActivityHours))
		for i, h := range p.PeakActivityHours {
			hours[i] = fmt.Sprintf("%02d:00", h)
		}
		fmt.Printf("  Peak hours:           %s\n", strings.Join(hours, ", "))
	}
	if len(p.ConsistentWalkTimes) > 0 {
		fmt.Printf("  Consistent walks:     %s\n", strings.Join(p.ConsistentWalkTimes, ", "))
	}

	fmt.Printf("  Sample window:        %d day(s), updated %s\n",
		p.SampleDays, p.UpdatedAt.Format("2006-01-02"))
}
