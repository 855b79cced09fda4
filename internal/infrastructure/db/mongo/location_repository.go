package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/markpoint/marker-api/internal/core/domain"
	"github.com/markpoint/marker-api/internal/core/ports"
)

const locationCollection = "locations"

type LocationRepository struct {
	coll *mongo.Collection
}

func NewLocationRepository(db *mongo.Database) *LocationRepository {
	return &LocationRepository{coll: db.Collection(locationCollection)}
}

type locationDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Rating      float64            `bson:"rating"`
	Price       *float64           `bson:"price,omitempty"`
	Point       domain.GeoPoint    `bson:"location"`
	CreatedBy   primitive.ObjectID `bson:"created_by"`
	// OwnerName is populated by the $lookup stage on reads; the omitempty
	// keeps it out of inserted documents.
	OwnerName string    `bson:"owner_username,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d locationDoc) toDomain() domain.Location {
	return domain.Location{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Rating:      d.Rating,
		Price:       d.Price,
		Point:       d.Point,
		CreatedBy:   d.CreatedBy.Hex(),
		OwnerName:   d.OwnerName,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

// EnsureIndexes creates the geospatial and owner indexes.
func (r *LocationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *LocationRepository) Insert(ctx context.Context, loc *domain.Location) (*domain.Location, error) {
	owner, err := primitive.ObjectIDFromHex(loc.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("insert location: bad owner id %q", loc.CreatedBy)
	}

	doc := locationDoc{
		Title:       loc.Title,
		Description: loc.Description,
		Rating:      loc.Rating,
		Price:       loc.Price,
		Point:       loc.Point,
		CreatedBy:   owner,
		CreatedAt:   loc.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert location: %w", err)
	}

	created := *loc
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// ownerLookupStages joins the owner's username into each marker document.
func ownerLookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: userCollection},
			{Key: "localField", Value: "created_by"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "owner_username", Value: bson.D{{Key: "$first", Value: "$owner.username"}}},
		}}},
		bson.D{{Key: "$unset", Value: "owner"}},
	}
}

// FindAll returns markers newest-first with owner usernames resolved.
func (r *LocationRepository) FindAll(ctx context.Context, opts ports.ListOptions) ([]domain.Location, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	if opts.Offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: opts.Offset}})
	}
	if opts.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: opts.Limit}})
	}
	pipeline = append(pipeline, ownerLookupStages()...)

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer cur.Close(ctx)

	var docs []locationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}

	out := make([]domain.Location, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id string) (*domain.Location, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrLocationNotFound
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "_id", Value: oid}}}},
	}
	pipeline = append(pipeline, ownerLookupStages()...)

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find location: %w", err)
	}
	defer cur.Close(ctx)

	var docs []locationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("find location: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrLocationNotFound
	}

	loc := docs[0].toDomain()
	return &loc, nil
}

// DeleteOwned removes a marker only when ownerID matches its creator. The
// ownership check and the removal are one conditional DeleteOne, so two
// concurrent deletes of the same id resolve to exactly one success.
func (r *LocationRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrLocationNotFound
	}
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return fmt.Errorf("delete location: bad owner id %q", ownerID)
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid, "created_by": owner})
	if err != nil {
		return fmt.Errorf("delete location %s: %w", id, err)
	}
	if res.DeletedCount == 1 {
		return nil
	}

	// Nothing matched: either the marker is gone or someone else owns it.
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Err()
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrLocationNotFound
	case err != nil:
		return fmt.Errorf("delete location %s: %w", id, err)
	default:
		return domain.ErrForbidden
	}
}
