package system

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/strideapp/stride/internal/cli"
	"github.com/strideapp/stride/internal/migration"
	"github.com/strideapp/stride/internal/storage/postgres"
	"github.com/strideapp/stride/internal/storage/sqlite"
	"github.com/strideapp/stride/migrations"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	// Load the database
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	defer ctx.Store.Close()

	// Pick the migration set matching the backing store
	var (
		db     *sql.DB
		dir    string
		driver migration.Driver
	)
	switch store := ctx.Store.(type) {
	case *sqlite.Store:
		db, dir, driver = store.GetDB(), "sqlite", migration.DriverSQLite
	case *postgres.Store:
		db, dir, driver = store.GetDB(), "postgres", migration.DriverPostgres
	default:
		return fmt.Errorf("migrate command supports SQLite and PostgreSQL storage only")
	}
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}

	subFS, err := fs.Sub(migrations.FS, dir)
	if err != nil {
		return fmt.Errorf("failed to access %s migrations: %w", dir, err)
	}

	// Create migration runner
	runner, err := migration.NewRunner(db, subFS, driver)
	if err != nil {
		return err
	}

	// Apply migrations
	count, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	} else {
		fmt.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}

	return nil
}
