package implementation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"policfy-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:user:"

type RedisSessionRepository struct {
	rdb *redis.Client
}

func NewRedisSessionRepository(rdb *redis.Client) contract.SessionRepository {
	return &RedisSessionRepository{rdb: rdb}
}

func sessionKey(userId uuid.UUID) string {
	return sessionKeyPrefix + userId.String()
}

func (r *RedisSessionRepository) Save(ctx context.Context, userId uuid.UUID, sessionId string, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, sessionKey(userId), sessionId, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *RedisSessionRepository) Get(ctx context.Context, userId uuid.UUID) (string, bool, error) {
	sid, err := r.rdb.Get(ctx, sessionKey(userId)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session: %w", err)
	}
	return sid, true, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, userId uuid.UUID) error {
	return r.rdb.Del(ctx, sessionKey(userId)).Err()
}
