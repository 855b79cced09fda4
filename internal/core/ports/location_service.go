package ports

import (
	"context"

	"github.com/markpoint/marker-api/internal/core/domain"
)

// CreateLocationInput carries all data needed to place a new marker.
// Coordinates are longitude-first, as on the wire.
type CreateLocationInput struct {
	Title       string
	Description string
	Rating      float64
	Price       *float64
	Longitude   float64
	Latitude    float64
}

type LocationService interface {
	Create(ctx context.Context, owner domain.Identity, in CreateLocationInput) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error)
	Get(ctx context.Context, id string) (*domain.Location, error)
	Delete(ctx context.Context, id string, requester domain.Identity) error
}
