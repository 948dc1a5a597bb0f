package main

import (
	"context"
	"fmt"

	"github.com/ferrovax/gamedesk/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes a starter config.toml from the embedded example.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")

	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Edit the [server] section to point at your backend, then run: gamedesk auth login\n")
	return nil
}

// SetupDatabase initializes the local state database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	db := r.db
	if db == nil {
		var err error
		if db, err = shared.OpenDatabase(r.config.Database); err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		r.db = db
	}

	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return r.writePlain("✓ Database initialized\n")
}
