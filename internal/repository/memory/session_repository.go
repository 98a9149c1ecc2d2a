package memory

import (
	"context"
	"time"

	"policfy-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() contract.SessionRepository {
	// Entries carry their own TTL; expired ones are purged every 10 minutes.
	c := cache.New(cache.NoExpiration, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(ctx context.Context, userId uuid.UUID, sessionId string, ttl time.Duration) error {
	r.cache.Set(userId.String(), sessionId, ttl)
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, userId uuid.UUID) (string, bool, error) {
	if x, found := r.cache.Get(userId.String()); found {
		return x.(string), true, nil
	}
	return "", false, nil
}

func (r *SessionRepository) Delete(ctx context.Context, userId uuid.UUID) error {
	r.cache.Delete(userId.String())
	return nil
}
