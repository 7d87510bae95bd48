package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recepcion/pkg/types"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "recepcion:draft:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, logger *logrus.Logger) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, logger: logger}
}

func draftKey(token string) string {
	return keyPrefix + token
}

func lockKey(token string) string {
	return keyPrefix + token + ":lock"
}

func (s *RedisStore) Save(ctx context.Context, draft *Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	err = s.client.Set(ctx, draftKey(draft.Token), data, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, token string) (*Draft, error) {
	data, err := s.client.Get(ctx, draftKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	var draft = new(Draft)
	if err := json.Unmarshal(data, draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return draft, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, draftKey(token)).Err()
}

func (s *RedisStore) Lock(ctx context.Context, token string) (func(), error) {
	ok, err := s.client.SetNX(ctx, lockKey(token), time.Now().Unix(), lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to lock draft: %w", err)
	}
	if !ok {
		return nil, types.ErrDraftLocked
	}

	return func() {
		if err := s.client.Del(context.Background(), lockKey(token)).Err(); err != nil {
			s.logger.WithError(err).WithField("token", token).Error("failed to release draft lock")
		}
	}, nil
}
