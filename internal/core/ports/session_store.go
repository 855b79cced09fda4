package ports

import (
	"context"
	"time"

	"github.com/markpoint/marker-api/internal/core/domain"
)

// SessionStore abstracts the external session storage. Records carry an
// absolute TTL so they expire server-side even if never revoked, and they
// outlive process restarts.
type SessionStore interface {
	Put(ctx context.Context, session *domain.Session, ttl time.Duration) error
	// Get returns ErrNoSession when the identifier resolves to nothing.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	Delete(ctx context.Context, sessionID string) error
}
