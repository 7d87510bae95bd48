package main

import (
	"context"
	"fmt"

	"recepcion/internal/db"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:      "migrate",
	Usage:     "Apply database migrations",
	ArgsUsage: "[up|down|status]",
	Action: func(cCtx *cli.Context) error {
		direction := cCtx.Args().First()
		if direction == "" {
			direction = db.MigrateUp
		}

		cfg, err := loadConfig(cCtx)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := newLogger(cfg)

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool, direction); err != nil {
			return err
		}

		logger.WithField("direction", direction).Info("migrations complete")
		return nil
	},
}
