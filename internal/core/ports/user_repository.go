package ports

import (
	"context"
	"time"

	"github.com/markpoint/marker-api/internal/core/domain"
)

// UserRepository defines the interface for account persistence. Username
// uniqueness is enforced at this level, not by callers.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
