package ports

import (
	"context"
	"time"

	"github.com/markpoint/marker-api/internal/core/domain"
)

// LoginResult carries everything the transport layer needs after a
// successful login: the token for the response body and the session
// identifier for the cookie.
type LoginResult struct {
	Token     string
	SessionID string
	User      *domain.User
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	// Logout revokes the session immediately; the token becomes unusable
	// even though its signature remains cryptographically valid.
	Logout(ctx context.Context, sessionID string) error
	// Authenticate resolves a session identifier to an identity, checking
	// both the session expiry and the embedded token independently.
	Authenticate(ctx context.Context, sessionID string) (*domain.Identity, error)
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
}
