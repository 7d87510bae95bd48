package main

import (
	"context"
	"fmt"

	"recepcion/internal/receipt"
	"recepcion/internal/seed"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Load the reference receipts 1001 to 1005",
	Action: func(cCtx *cli.Context) error {
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := newLogger(cfg)

		ctx := context.Background()

		backends, err := openBackends(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer backends.Close()

		archive := receipt.NewArchive(backends.records, backends.bucket, logger)
		if err := seed.SeedReceipts(ctx, archive, logger); err != nil {
			return fmt.Errorf("failed to seed receipts: %w", err)
		}

		logger.Info("receipts seeded successfully")
		return nil
	},
}
