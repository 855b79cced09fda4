package ports

import (
	"context"

	"github.com/markpoint/marker-api/internal/core/domain"
)

// ListOptions is the pagination seam for marker listings. The HTTP layer
// currently lists the full collection; zero values mean "no limit".
type ListOptions struct {
	Limit  int64
	Offset int64
}

// LocationRepository defines the interface for marker persistence.
type LocationRepository interface {
	Insert(ctx context.Context, loc *domain.Location) (*domain.Location, error)
	// FindAll returns markers newest-first with owner usernames resolved.
	FindAll(ctx context.Context, opts ListOptions) ([]domain.Location, error)
	FindByID(ctx context.Context, id string) (*domain.Location, error)
	// DeleteOwned removes a marker only when ownerID matches its creator,
	// as a single conditional operation. It returns ErrLocationNotFound
	// when the marker is absent and ErrForbidden when owned by another user.
	DeleteOwned(ctx context.Context, id, ownerID string) error
}
