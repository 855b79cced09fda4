package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/markpoint/marker-api/internal/core/domain"
	"github.com/markpoint/marker-api/internal/core/ports"
)

// LocationService implements marker creation, listing, and ownership-gated
// deletion. Anyone may read; only authenticated owners may mutate.
type LocationService struct {
	repo ports.LocationRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewLocationService(repo ports.LocationRepository, log zerolog.Logger) *LocationService {
	return &LocationService{repo: repo, log: log, now: time.Now}
}

// Create validates the marker fields and persists it stamped with the
// owner. Validation runs before construction side effects, never after.
func (s *LocationService) Create(ctx context.Context, owner domain.Identity, in ports.CreateLocationInput) (*domain.Location, error) {
	loc := &domain.Location{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Rating:      in.Rating,
		Price:       in.Price,
		Point:       domain.NewGeoPoint(in.Longitude, in.Latitude),
		CreatedBy:   owner.UserID,
		OwnerName:   owner.Username,
		CreatedAt:   s.now().UTC(),
	}
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, loc)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", owner.UserID).Msg("failed to create location")
		return nil, err
	}

	s.log.Info().Str("location_id", created.ID).Str("user_id", owner.UserID).Msg("location created")
	return created, nil
}

// List returns all markers newest-first with owner usernames resolved.
func (s *LocationService) List(ctx context.Context) ([]domain.Location, error) {
	return s.repo.FindAll(ctx, ports.ListOptions{})
}

func (s *LocationService) Get(ctx context.Context, id string) (*domain.Location, error) {
	return s.repo.FindByID(ctx, id)
}

// Delete removes a marker if and only if the requester owns it. The
// ownership check and the removal happen as one conditional operation in
// the repository, so concurrent deletes of the same id resolve to exactly
// one success.
func (s *LocationService) Delete(ctx context.Context, id string, requester domain.Identity) error {
	if err := s.repo.DeleteOwned(ctx, id, requester.UserID); err != nil {
		return err
	}
	s.log.Info().Str("location_id", id).Str("user_id", requester.UserID).Msg("location deleted")
	return nil
}
