package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/strideapp/stride/internal/cli"
	"github.com/strideapp/stride/internal/storage"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpPlan     *DebugDumpPlanCmd     `cmd:"" help:"Dump plan data as JSON."`
	DumpMeeting  *DebugDumpMeetingCmd  `cmd:"" help:"Dump meeting data as JSON."`
	DumpSteps    *DebugDumpStepsCmd    `cmd:"" help:"Dump a day's step record as JSON."`
	DumpState    *DebugDumpStateCmd    `cmd:"" help:"Dump a persisted state blob as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

// dumpJSON prints a record the way every debug subcommand does: indented
// JSON on stdout, machine-readable for bug reports.
func dumpJSON(v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return dumpJSON(map[string]string{
		"path": ctx.Store.GetConfigPath(),
	})
}

type DebugDumpPlanCmd struct {
	Date string `arg:"" help:"Date of the plan to dump (YYYY-MM-DD, 'today' or 'tomorrow')."`
}

func (cmd *DebugDumpPlanCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	date, err := ctx.ResolveDate(cmd.Date)
	if err != nil {
		return err
	}

	plan, err := ctx.Store.GetPlan(date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no plan found for date: %s", date)
		}
		return fmt.Errorf("failed to get plan: %w", err)
	}

	return dumpJSON(plan)
}

type DebugDumpMeetingCmd struct {
	ID string `arg:"" help:"ID of the meeting to dump."`
}

func (cmd *DebugDumpMeetingCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	meeting, err := ctx.Store.GetMeeting(cmd.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("meeting not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get meeting: %w", err)
	}

	return dumpJSON(meeting)
}

type DebugDumpStepsCmd struct {
	Date string `arg:"" help:"Date of the step record to dump (YYYY-MM-DD, 'today' or 'tomorrow')."`
}

func (cmd *DebugDumpStepsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	date, err := ctx.ResolveDate(cmd.Date)
	if err != nil {
		return err
	}

	record, err := ctx.Store.GetDailySteps(date)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no step record found for date: %s", date)
		}
		return fmt.Errorf("failed to get step record: %w", err)
	}

	return dumpJSON(record)
}

type DebugDumpStateCmd struct {
	Key string `arg:"" help:"State key (stats.streak, stats.patterns, stats.adherence, autopilot.state)."`
}

func (cmd *DebugDumpStateCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	value, ok, err := ctx.Store.GetValue(cmd.Key)
	if err != nil {
		return fmt.Errorf("failed to read state: %w", err)
	}
	if !ok {
		return fmt.Errorf("no state stored under key: %s", cmd.Key)
	}

	// State blobs are already JSON; re-indent so they read like the other
	// dump commands. Anything unparseable is printed raw.
	var decoded interface{}
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		fmt.Println(value)
		return nil
	}
	return dumpJSON(decoded)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	return dumpJSON(settings)
}
