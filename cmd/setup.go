package main

import (
	"context"
	"fmt"
	"os"

	"autodj/internal/shared"

	"github.com/urfave/cli/v3"
)

// SetupConfig writes a starter config.toml from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlain("Edit the [profile] section to describe your target sound,\n")
	r.writePlain("then add API credentials under [credentials] or in a .env file.\n")
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		} else {
			r.logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.NewDatabase(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	return nil
}
