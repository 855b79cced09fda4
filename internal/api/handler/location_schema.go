package handler

import (
	"time"

	"github.com/markpoint/marker-api/internal/core/domain"
)

// errorResponse mirrors the envelope rendered by the central error handler;
// declared here so swag can reference it.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

// pointRequest carries a GeoJSON-ordered coordinate pair: [longitude, latitude].
type pointRequest struct {
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
}

type createLocationRequest struct {
	Title       string       `json:"title"       validate:"required,min=3,max=50"`
	Description string       `json:"description"`
	Rating      *float64     `json:"rating"      validate:"required,gte=0,lte=5"`
	Price       *float64     `json:"price"       validate:"omitempty,gte=0"`
	Location    pointRequest `json:"location"    validate:"required"`
}

// --- Response types ---
// Intentionally separate from domain types so the JSON contract is not
// coupled to internal changes. Coordinate order matches the request:
// longitude first.

type pointResponse struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type ownerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

type locationResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Rating      float64       `json:"rating"`
	Price       *float64      `json:"price,omitempty"`
	Location    pointResponse `json:"location"`
	CreatedBy   ownerResponse `json:"created_by"`
	CreatedAt   time.Time     `json:"created_at"`
}

func toLocationResponse(loc *domain.Location) locationResponse {
	return locationResponse{
		ID:          loc.ID,
		Title:       loc.Title,
		Description: loc.Description,
		Rating:      loc.Rating,
		Price:       loc.Price,
		Location: pointResponse{
			Type:        loc.Point.Type,
			Coordinates: loc.Point.Coordinates,
		},
		CreatedBy: ownerResponse{
			ID:       loc.CreatedBy,
			Username: loc.OwnerName,
		},
		CreatedAt: loc.CreatedAt,
	}
}
