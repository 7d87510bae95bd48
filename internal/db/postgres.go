package db

import (
	"context"
	"fmt"
	"time"

	"recepcion/pkg/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const (
	schemaName      = "recepcion"
	applicationName = "recepcion"

	// Receipt queries are single-row lookups or one page of summaries.
	statementTimeout = "5s"
	pingTimeout      = 5 * time.Second
)

// PoolConfig derives pool settings from config. Parameters already present
// in DATABASE_URL win over the defaults set here.
func PoolConfig(config *types.Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	params := poolConfig.ConnConfig.RuntimeParams
	for key, value := range map[string]string{
		"search_path":       schemaName,
		"application_name":  applicationName,
		"statement_timeout": statementTimeout,
	} {
		if _, ok := params[key]; !ok {
			params[key] = value
		}
	}

	if config.DatabaseMaxConn > 0 {
		poolConfig.MaxConns = config.DatabaseMaxConn
	}
	poolConfig.MaxConnIdleTime = 15 * time.Minute
	poolConfig.MaxConnLifetime = 45 * time.Minute

	return poolConfig, nil
}

// Connect opens the receipt database pool and fails fast when the server
// cannot be reached.
func Connect(ctx context.Context, config *types.Config, logger *logrus.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(config)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database %s: %w", poolConfig.ConnConfig.Host, err)
	}

	logger.WithFields(logrus.Fields{
		"host":      poolConfig.ConnConfig.Host,
		"database":  poolConfig.ConnConfig.Database,
		"schema":    poolConfig.ConnConfig.RuntimeParams["search_path"],
		"max_conns": poolConfig.MaxConns,
	}).Info("connected to receipt database")

	return pool, nil
}
