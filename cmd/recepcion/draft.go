package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recepcion/internal/drafts"
	"recepcion/internal/receipt"

	"github.com/urfave/cli/v2"
)

var draftCommand = &cli.Command{
	Name:  "draft",
	Usage: "Reserve order ids and open empty drafts for them, printing each draft token",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of drafts to open",
			Value:   1,
		},
	},
	Action: func(cCtx *cli.Context) error {
		cfg, err := loadConfig(cCtx)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := newLogger(cfg)

		if cfg.RedisURL == "" {
			return errors.New("REDIS_URL must be set, in-process drafts end with this command")
		}

		ctx := context.Background()

		backends, err := openBackends(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer backends.Close()

		draftStore, closeDrafts, err := openDraftStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeDrafts()

		archive := receipt.NewArchive(backends.records, backends.bucket, logger)
		for range cCtx.Int("count") {
			orderID, err := archive.NextOrderID(ctx)
			if err != nil {
				return err
			}

			now := time.Now()
			draft := drafts.New(receipt.NewDraft(orderID, cfg.Institution, now), now)
			if err := draftStore.Save(ctx, draft); err != nil {
				return fmt.Errorf("save draft %d: %w", orderID, err)
			}
			fmt.Printf("%d\t%s\n", orderID, draft.Token)
		}
		return nil
	},
}
