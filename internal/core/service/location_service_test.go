package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/markpoint/marker-api/internal/core/domain"
	"github.com/markpoint/marker-api/internal/core/ports"
)

// stubLocationRepo mirrors the store contract, including the conditional
// ownership delete.
type stubLocationRepo struct {
	mu    sync.Mutex
	seq   int
	locs  map[string]domain.Location
	names map[string]string // user id → username, stands in for the owner join
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{
		locs:  make(map[string]domain.Location),
		names: make(map[string]string),
	}
}

func (r *stubLocationRepo) Insert(_ context.Context, loc *domain.Location) (*domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	created := *loc
	created.ID = fmt.Sprintf("loc%d", r.seq)
	r.locs[created.ID] = created
	return &created, nil
}

func (r *stubLocationRepo) FindAll(_ context.Context, _ ports.ListOptions) ([]domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Location, 0, len(r.locs))
	for _, loc := range r.locs {
		if name, ok := r.names[loc.CreatedBy]; ok {
			loc.OwnerName = name
		}
		out = append(out, loc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubLocationRepo) FindByID(_ context.Context, id string) (*domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if loc, ok := r.locs[id]; ok {
		return &loc, nil
	}
	return nil, domain.ErrLocationNotFound
}

func (r *stubLocationRepo) DeleteOwned(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	loc, ok := r.locs[id]
	if !ok {
		return domain.ErrLocationNotFound
	}
	if loc.CreatedBy != ownerID {
		return domain.ErrForbidden
	}
	delete(r.locs, id)
	return nil
}

func newTestLocationService(repo *stubLocationRepo) *LocationService {
	return NewLocationService(repo, zerolog.Nop())
}

func alice() domain.Identity { return domain.Identity{UserID: "user1", Username: "alice1"} }
func bob() domain.Identity   { return domain.Identity{UserID: "user2", Username: "bob1"} }

func cafeInput() ports.CreateLocationInput {
	return ports.CreateLocationInput{
		Title:     "Cafe",
		Rating:    4,
		Longitude: 174.76,
		Latitude:  -36.85,
	}
}

func TestLocationService_Create(t *testing.T) {
	repo := newStubLocationRepo()
	svc := newTestLocationService(repo)

	loc, err := svc.Create(context.Background(), alice(), cafeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if loc.ID == "" {
		t.Fatal("expected assigned id")
	}
	if loc.CreatedBy != "user1" {
		t.Fatalf("expected owner stamp user1, got %s", loc.CreatedBy)
	}
	if loc.Point.Longitude() != 174.76 || loc.Point.Latitude() != -36.85 {
		t.Fatalf("coordinate order wrong: %v", loc.Point.Coordinates)
	}
}

func TestLocationService_Create_Validation(t *testing.T) {
	svc := newTestLocationService(newStubLocationRepo())

	in := cafeInput()
	in.Title = "ab"
	if _, err := svc.Create(context.Background(), alice(), in); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for short title, got %v", err)
	}

	in = cafeInput()
	in.Longitude = 181
	if _, err := svc.Create(context.Background(), alice(), in); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for longitude out of range, got %v", err)
	}

	in = cafeInput()
	negative := -0.01
	in.Price = &negative
	if _, err := svc.Create(context.Background(), alice(), in); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestLocationService_List_NewestFirst(t *testing.T) {
	repo := newStubLocationRepo()
	svc := newTestLocationService(repo)

	base := time.Now().UTC()
	for i, title := range []string{"First", "Second", "Third"} {
		ts := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return ts }
		if _, err := svc.Create(context.Background(), alice(), ports.CreateLocationInput{
			Title: title, Rating: 3, Longitude: 10, Latitude: 20,
		}); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}

	locations, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(locations) != 3 {
		t.Fatalf("expected 3 locations, got %d", len(locations))
	}
	if locations[0].Title != "Third" || locations[2].Title != "First" {
		t.Fatalf("expected newest-first ordering, got %s..%s", locations[0].Title, locations[2].Title)
	}
}

func TestLocationService_Delete_OwnershipRules(t *testing.T) {
	repo := newStubLocationRepo()
	svc := newTestLocationService(repo)

	loc, err := svc.Create(context.Background(), alice(), cafeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// another user cannot remove it, and it stays present
	if err := svc.Delete(context.Background(), loc.ID, bob()); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), loc.ID); err != nil {
		t.Fatalf("location should still exist: %v", err)
	}

	// the owner removes it exactly once
	if err := svc.Delete(context.Background(), loc.ID, alice()); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), loc.ID, alice()); !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("second delete: expected ErrLocationNotFound, got %v", err)
	}
}

func TestLocationService_Delete_ConcurrentSingleWinner(t *testing.T) {
	repo := newStubLocationRepo()
	svc := newTestLocationService(repo)

	loc, err := svc.Create(context.Background(), alice(), cafeInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	const racers = 8
	errs := make(chan error, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.Delete(context.Background(), loc.ID, alice())
		}()
	}
	wg.Wait()
	close(errs)

	var wins, misses int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrLocationNotFound):
			misses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || misses != racers-1 {
		t.Fatalf("expected exactly one winner, got %d wins / %d misses", wins, misses)
	}
}

func TestLocationService_Get_NotFound(t *testing.T) {
	svc := newTestLocationService(newStubLocationRepo())
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}
