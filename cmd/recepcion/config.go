package main

import (
	"context"
	"fmt"
	"time"

	"recepcion/internal/db"
	"recepcion/internal/drafts"
	"recepcion/internal/receipt"
	"recepcion/internal/storage"
	"recepcion/internal/store"
	"recepcion/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func loadConfig(cCtx *cli.Context) (*types.Config, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	c := new(types.Config)
	if err := envconfig.Process(cCtx.String("env-prefix"), c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	switch c.StoreDriver {
	case types.StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("set DATABASE_URL or STORE_DRIVER=%s", types.StoreDriverMemory)
		}
	case types.StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	if c.DraftTTLMin == 0 {
		c.DraftTTLMin = 120
	}

	return c, nil
}

func newLogger(cfg *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithError(err).Warn("invalid LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

// backends holds the storage chosen by configuration. pool is nil with the
// memory driver.
type backends struct {
	pool    *pgxpool.Pool
	records interface {
		receipt.RecordRepository
		receipt.SummaryRepository
	}
	bucket receipt.SignatureBucket
}

func (b *backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
}

func openBackends(ctx context.Context, cfg *types.Config, logger *logrus.Logger) (*backends, error) {
	b := new(backends)

	switch cfg.StoreDriver {
	case types.StoreDriverPostgres:
		pool, err := db.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		b.pool = pool
		b.records = store.NewReceiptRepository(pool)
	default:
		logger.Warn("using in-memory record store, receipts are lost on restart")
		b.records = store.NewMemoryRepository()
	}

	if cfg.SignatureBucket == "" {
		logger.Warn("SIGNATURE_BUCKET not set, keeping signature images in memory")
		b.bucket = storage.NewMemoryBucket()
		return b, nil
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.bucket = storage.NewS3Bucket(s3.NewFromConfig(awsConfig), cfg.SignatureBucket)

	return b, nil
}

func openDraftStore(ctx context.Context, cfg *types.Config, logger *logrus.Logger) (drafts.Store, func(), error) {
	ttl := time.Duration(cfg.DraftTTLMin) * time.Minute

	if cfg.RedisURL == "" {
		logger.Warn("REDIS_URL not set, drafts are kept in process memory")
		return drafts.NewMemoryStore(ttl), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	return drafts.NewRedisStore(client, ttl, logger), func() { _ = client.Close() }, nil
}
