package session

import (
	"context"
	"time"

	"github.com/civisense/natlas-backend/internal/model/chat"
)

// Store persists per-session turn history with sliding expiration.
//
// Load returns an empty history for unknown or expired sessions; absence is
// never an error. Save replaces the whole stored value and refreshes the TTL
// from the moment of the call. Delete is idempotent.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]chat.Turn, error)
	Save(ctx context.Context, sessionID string, turns []chat.Turn, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}
