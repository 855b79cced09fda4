package domain

import "time"

const (
	minTitleLen = 3
	maxTitleLen = 50
	maxRating   = 5
)

// GeoPointType is the GeoJSON geometry type used for markers.
const GeoPointType = "Point"

// GeoPoint is a GeoJSON point. Coordinates are longitude-first, matching
// the stored collection order and the wire format; only the map client
// swaps to latitude-first for display.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint is the single construction point for geographic coordinates,
// so the longitude-first ordering cannot drift between call sites.
func NewGeoPoint(lng, lat float64) GeoPoint {
	return GeoPoint{Type: GeoPointType, Coordinates: []float64{lng, lat}}
}

func (p GeoPoint) Longitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[0]
}

func (p GeoPoint) Latitude() float64 {
	if len(p.Coordinates) < 2 {
		return 0
	}
	return p.Coordinates[1]
}

func (p GeoPoint) validate() error {
	if p.Type != GeoPointType || len(p.Coordinates) != 2 {
		return NewFieldError("location", "location must be a point with a coordinate pair")
	}
	if lng := p.Coordinates[0]; lng < -180 || lng > 180 {
		return NewFieldError("location", "longitude must be between -180 and 180")
	}
	if lat := p.Coordinates[1]; lat < -90 || lat > 90 {
		return NewFieldError("location", "latitude must be between -90 and 90")
	}
	return nil
}

// Location is a bookmarked map marker owned by a single user.
type Location struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Rating      float64   `json:"rating"`
	Price       *float64  `json:"price,omitempty"`
	Point       GeoPoint  `json:"location"`
	CreatedBy   string    `json:"created_by"`
	OwnerName   string    `json:"owner_username,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks field constraints, reporting the first violated rule.
func (l *Location) Validate() error {
	if n := len(l.Title); n < minTitleLen || n > maxTitleLen {
		return NewFieldError("title", "title must be between 3 and 50 characters")
	}
	if l.Rating < 0 || l.Rating > maxRating {
		return NewFieldError("rating", "rating must be between 0 and 5")
	}
	if l.Price != nil && *l.Price < 0 {
		return NewFieldError("price", "price cannot be negative")
	}
	return l.Point.validate()
}
