package contract

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionRepository remembers the one session id a user may currently hold.
// Saving a new id replaces the previous one.
type SessionRepository interface {
	Save(ctx context.Context, userId uuid.UUID, sessionId string, ttl time.Duration) error
	Get(ctx context.Context, userId uuid.UUID) (string, bool, error)
	Delete(ctx context.Context, userId uuid.UUID) error
}
