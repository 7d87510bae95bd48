package main

import (
	"context"
	"fmt"

	"recepcion/internal/receipt"

	"github.com/k0kubun/pp"
	"github.com/urfave/cli/v2"
)

var showCommand = &cli.Command{
	Name:  "show",
	Usage: "Print a stored receipt",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:     "id",
			Usage:    "Order id of the receipt",
			Required: true,
		},
	},
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
		record, err := receipt.NewDetails(archive).GetByID(ctx, cCtx.Int("id"))
		if err != nil {
			return err
		}

		// data urls are long and useless in a terminal
		for _, s := range []*string{&record.ITSignature, &record.UserSignature} {
			if *s != "" {
				*s = fmt.Sprintf("<png %d bytes>", len(*s))
			}
		}

		pp.Println(record)
		fmt.Println("status:", record.Status().Label())
		return nil
	},
}
