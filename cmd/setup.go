package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/villagedex/internal/models"
	"github.com/desertthunder/villagedex/internal/repositories"
	"github.com/desertthunder/villagedex/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file from the template when missing, then
// initializes the database and runs migrations.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = "config.toml"
	}

	config := r.config
	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using current settings", "error", err)
		} else {
			r.logger.Info("config file created", "path", configPath)
			if loaded, err := shared.ResolveConfig(configPath); err != nil {
				r.logger.Warn("failed to load created config, using current settings", "error", err)
			} else {
				config = loaded
			}
		}
	}
	r.config = config

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

	counts, err := repositories.NewCollectionRepository(db).Count(ctx)
	if err != nil {
		return err
	}

	r.writePlain("✓ Config: %s\n", configPath)
	r.writePlain("✓ Database: %s\n", config.Database.Path)
	r.writePlain("✓ Collection: %d have, %d want\n", counts[models.StatusHave], counts[models.StatusWant])
	r.writePlainln("Next steps:")
	r.writePlain("1. Run 'villagedex villagers list' to browse the catalog\n")
	r.writePlain("2. Run 'villagedex tui' for the interactive browser\n")
	return nil
}
