package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recepcion/internal/metrics"
	"recepcion/internal/receipt"
	"recepcion/internal/server"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
)

const poolStatsInterval = 15 * time.Second

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	logger := newLogger(config)

	backends, err := openBackends(ctx, config, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	draftStore, closeDrafts, err := openDraftStore(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeDrafts()

	archive := receipt.NewArchive(backends.records, backends.bucket, logger)

	srv, err := server.New(
		config,
		logger,
		archive,
		receipt.NewLister(backends.records, config.PageSize),
		receipt.NewDetails(archive),
		draftStore,
	)
	if err != nil {
		return err
	}

	if backends.pool != nil {
		go reportPoolStats(ctx, backends.pool)
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

func reportPoolStats(ctx context.Context, pool *pgxpool.Pool) {
	ticker := time.NewTicker(poolStatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stat := pool.Stat()
			metrics.RecordPool(stat.AcquiredConns(), stat.IdleConns(), stat.TotalConns())
		}
	}
}
