package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/strideapp/stride/internal/cli"
	"github.com/strideapp/stride/internal/storage"
	"github.com/strideapp/stride/internal/storage/postgres"
	"github.com/strideapp/stride/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

// The step and workout tables key rows by YYYY-MM-DD, so a lexicographic
// BETWEEN over these bounds covers every row the source holds.
const (
	migrateRangeStart = "0000-01-01"
	migrateRangeEnd   = "9999-12-31"
)

// kvKeys are the state blobs kept in the key-value table: streak tracker,
// pattern learner, adherence stats and the autopilot walk ledger.
var kvKeys = []string{"stats.streak", "stats.patterns", "stats.adherence", "autopilot.state"}

func (c *InitCmd) Run(ctx *cli.Context) error {
	// If force flag is provided, delete existing database
	if c.Force {
		dbPath := ctx.Store.GetConfigPath()
		// Don't delete if it's the source (user error protection)
		if c.Source != "" {
			// Normalize paths to absolute for accurate comparison
			absDbPath, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDbPath
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			// Database exists, close it first to prevent file locking issues
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			// Then delete it
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			fmt.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			// Some other error occurred while checking the database; surface it to the user
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	// Initialize destination store
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized stride storage at: %s\n", ctx.Store.GetConfigPath())

	// If source is provided, migrate data
	if c.Source != "" {
		fmt.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		fmt.Println("Migration completed successfully!")
	}

	return nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, sourcePath string) error {
	// Determine source store type and instantiate it
	var sourceStore storage.Provider
	if strings.HasPrefix(sourcePath, "postgres://") || strings.HasPrefix(sourcePath, "postgresql://") {
		// Validate source connection string for embedded credentials
		if valid, err := postgres.ValidateConnString(sourcePath); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return err
		}
		sourceStore = postgres.New(sourcePath)
	} else {
		// Default to SQLite for file paths
		sourceStore = sqlite.NewStore(sourcePath)
	}

	// Load the source store
	if err := sourceStore.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer sourceStore.Close()

	// Migrate Settings
	fmt.Println("  Migrating settings...")
	settings, err := sourceStore.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	// Migrate Meetings (deleted ones included, so tombstones survive the move)
	fmt.Println("  Migrating meetings...")
	meetings, err := sourceStore.GetAllMeetings()
	if err != nil {
		return fmt.Errorf("failed to get meetings from source: %w", err)
	}
	for _, meeting := range meetings {
		if err := ctx.Store.AddMeeting(meeting); err != nil {
			return fmt.Errorf("failed to add meeting %s: %w", meeting.ID, err)
		}
	}
	fmt.Printf("    Migrated %d meetings\n", len(meetings))

	// Migrate Plans
	fmt.Println("  Migrating plans...")
	plans, err := sourceStore.GetAllPlans()
	if err != nil {
		return fmt.Errorf("failed to get plans from source: %w", err)
	}
	for _, plan := range plans {
		if err := ctx.Store.SavePlan(plan); err != nil {
			return fmt.Errorf("failed to save plan for date %s: %w", plan.Date, err)
		}
	}
	fmt.Printf("    Migrated %d plans\n", len(plans))

	// Migrate Step History
	fmt.Println("  Migrating step history...")
	steps, err := sourceStore.GetDailyStepsRange(migrateRangeStart, migrateRangeEnd)
	if err != nil {
		return fmt.Errorf("failed to get step history from source: %w", err)
	}
	for _, record := range steps {
		if err := ctx.Store.SaveDailySteps(record); err != nil {
			return fmt.Errorf("failed to save steps for %s: %w", record.Date, err)
		}
	}
	fmt.Printf("    Migrated %d step records\n", len(steps))

	// Migrate Workouts
	fmt.Println("  Migrating workouts...")
	workouts, err := sourceStore.GetWorkoutsRange(migrateRangeStart, migrateRangeEnd)
	if err != nil {
		return fmt.Errorf("failed to get workouts from source: %w", err)
	}
	for _, workout := range workouts {
		if err := ctx.Store.AddWorkout(workout); err != nil {
			return fmt.Errorf("failed to add workout %s: %w", workout.ID, err)
		}
	}
	fmt.Printf("    Migrated %d workouts\n", len(workouts))

	// Migrate Tracker State
	fmt.Println("  Migrating tracker state...")
	migrated := 0
	for _, key := range kvKeys {
		value, ok, err := sourceStore.GetValue(key)
		if err != nil {
			return fmt.Errorf("failed to read %s from source: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := ctx.Store.PutValue(key, value); err != nil {
			return fmt.Errorf("failed to write %s to destination: %w", key, err)
		}
		migrated++
	}
	fmt.Printf("    Migrated %d state entries\n", migrated)

	return nil
}
