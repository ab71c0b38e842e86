package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"

	"github.com/strideapp/stride/internal/autopilot"
	"github.com/strideapp/stride/internal/models"
)

type AutopilotCmd struct {
	Run     AutopilotRunCmd     `cmd:"" help:"Schedule walks for a date now."`
	Review  AutopilotReviewCmd  `cmd:"" help:"Interactively approve or reject pending walks."`
	Approve AutopilotApproveCmd `cmd:"" help:"Approve a pending walk."`
	Reject  AutopilotRejectCmd  `cmd:"" help:"Reject a walk."`
	Status  AutopilotStatusCmd  `cmd:"" help:"Show autopilot state." default:"1"`
	Daemon  AutopilotDaemonCmd  `cmd:"" help:"Run the nightly scheduling daemon."`
}

type AutopilotRunCmd struct {
	Date  string `help:"Date to schedule (YYYY-MM-DD, 'today' or 'tomorrow')." default:"tomorrow"`
	Force bool   `help:"Discard the date's walks and schedule fresh."`
}

func (c *AutopilotRunCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	var res autopilot.RunResult
	if c.Force {
		res, err = ctx.Autopilot.Reschedule(context.Background(), date)
	} else {
		res, err = ctx.Autopilot.Run(context.Background(), date)
	}
	if err != nil {
		return err
	}

	if res.Skipped {
		fmt.Printf("Walks already scheduled for %s. Use --force to reschedule.\n", date)
		return nil
	}
	if len(res.Walks) == 0 {
		fmt.Printf("No free slots worth scheduling on %s.\n", date)
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Scheduled %d walk(s) for %s", len(res.Walks), date)))
	for _, w := range res.Walks {
		fmt.Println(RenderWalk(w))
	}

	settings, err := ctx.Store.GetSettings()
	if err == nil {
		switch models.ParseTrustLevel(string(settings.TrustLevel)) {
		case models.TrustFullAuto:
			fmt.Println("\nWalks are booked to your calendar.")
		case models.TrustConfirmFirst:
			fmt.Println("\nWalks are pending approval. Run 'stride autopilot review' to confirm.")
		default:
			fmt.Println("\nSuggestions only. Approve individual walks with 'stride autopilot approve <id>'.")
		}
	}

	for _, msg := range res.Errors {
		fmt.Println(warnStyle.Render("⚠️  " + msg))
	}
	return nil
}

type AutopilotReviewCmd struct{}

func (c *AutopilotReviewCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	pending := ctx.Autopilot.PendingWalks()
	if len(pending) == 0 {
		fmt.Println("No walks pending approval.")
		return nil
	}

	approved := 0
	rejected := 0

	for i, walk := range pending {
		fmt.Printf("\n[%d/%d]\n%s\n", i+1, len(pending), RenderWalk(walk))

		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Schedule this walk?").
					Options(
						huh.NewOption("Approve", "approve"),
						huh.NewOption("Reject", "reject"),
						huh.NewOption("Decide later", "later"),
						huh.NewOption("Stop reviewing", "stop"),
					).
					Value(&choice),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("interactive form error: %w", err)
		}

		switch choice {
		case "approve":
			w, err := ctx.Autopilot.Approve(context.Background(), walk.ID)
			if err != nil {
				fmt.Println(warnStyle.Render(fmt.Sprintf("  Could not approve: %v", err)))
				continue
			}
			approved++
			if w.Committed() {
				fmt.Println(doneStyle.Render("  Approved and booked to calendar"))
			} else {
				fmt.Println(doneStyle.Render("  Approved"))
			}
		case "reject":
			if _, err := ctx.Autopilot.Reject(context.Background(), walk.ID); err != nil {
				fmt.Println(warnStyle.Render(fmt.Sprintf("  Could not reject: %v", err)))
				continue
			}
			rejected++
			fmt.Println(dimStyle.Render("  Rejected"))
		case "later":
			continue
		case "stop":
			goto done
		}
	}

done:
	fmt.Printf("\nReview complete: %d approved, %d rejected, %d left pending.\n",
		approved, rejected, len(pending)-approved-rejected)
	return nil
}

type AutopilotApproveCmd struct {
	ID string `arg:"" help:"Walk ID to approve."`
}

func (c *AutopilotApproveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	walk, err := ctx.Autopilot.Approve(context.Background(), c.ID)
	if err != nil {
		return err
	}
	if walk.Committed() {
		fmt.Printf("Approved %s and booked it to your calendar.\n", c.ID)
	} else {
		fmt.Printf("Approved %s.\n", c.ID)
	}
	return nil
}

type AutopilotRejectCmd struct {
	ID string `arg:"" help:"Walk ID to reject."`
}

func (c *AutopilotRejectCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	if _, err := ctx.Autopilot.Reject(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Printf("Rejected %s.\n", c.ID)
	return nil
}

type AutopilotStatusCmd struct{}

func (c *AutopilotStatusCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	fmt.Println(headerStyle.Render("Autopilot"))
	enabled := "disabled"
	if settings.AutopilotEnabled {
		enabled = "enabled"
	}
	fmt.Printf("  Nightly run:  %s\n", enabled)
	fmt.Printf("  Trust level:  %s\n", models.ParseTrustLevel(string(settings.TrustLevel)))
	fmt.Printf("  Target walks: %d per day, %d min apart\n", settings.TargetWalksPerDay, settings.WalkSpacing())

	state := ctx.Autopilot.State()
	if state.LastScheduledDate != "" {
		fmt.Printf("  Last run for: %s\n", state.LastScheduledDate)
	}
	if len(state.Walks) == 0 {
		fmt.Println(dimStyle.Render("  No walks scheduled."))
		return nil
	}

	fmt.Println()
	for _, w := range state.Walks {
		fmt.Println(RenderWalk(w))
	}
	return nil
}

type AutopilotDaemonCmd struct {
	Schedule string `help:"Cron expression for the nightly pass (default 21:00 daily)."`
}

func (c *AutopilotDaemonCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	daemon := autopilot.NewDaemon(ctx.Autopilot, ctx.Store, c.Schedule)
	if err := daemon.Start(runCtx); err != nil {
		return err
	}
	fmt.Println("Autopilot daemon running. Press Ctrl+C to stop.")

	<-runCtx.Done()
	fmt.Println("Shutting down...")
	daemon.Stop()
	return nil
}
