package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/markpoint/marker-api/internal/api/metrics"
	"github.com/markpoint/marker-api/internal/core/domain"
	"github.com/markpoint/marker-api/internal/core/ports"
)

// LocationHandler handles HTTP requests for map markers.
type LocationHandler struct {
	service ports.LocationService
}

func NewLocationHandler(service ports.LocationService) *LocationHandler {
	return &LocationHandler{service: service}
}

// Create places a new marker owned by the authenticated user.
//
// @Summary      Create a location marker
// @Tags         locations
// @Accept       json
// @Produce      json
// @Param        body  body      createLocationRequest  true  "Marker details; coordinates are [longitude, latitude]"
// @Success      201   {object}  locationResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/locations [post]
func (h *LocationHandler) Create(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createLocationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	loc, err := h.service.Create(c.Request().Context(), ident, ports.CreateLocationInput{
		Title:       req.Title,
		Description: req.Description,
		Rating:      *req.Rating,
		Price:       req.Price,
		Longitude:   req.Location.Coordinates[0],
		Latitude:    req.Location.Coordinates[1],
	})
	if err != nil {
		return err
	}

	metrics.LocationsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toLocationResponse(loc))
}

// List returns all markers newest-first, owner usernames resolved. No
// authentication required.
//
// @Summary      List location markers
// @Tags         locations
// @Produce      json
// @Success      200  {array}  locationResponse
// @Router       /api/locations [get]
func (h *LocationHandler) List(c echo.Context) error {
	locations, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]locationResponse, 0, len(locations))
	for i := range locations {
		out = append(out, toLocationResponse(&locations[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single marker by id. No authentication required.
//
// @Summary      Get a location marker
// @Tags         locations
// @Produce      json
// @Param        id   path      string  true  "Location id"
// @Success      200  {object}  locationResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/locations/{id} [get]
func (h *LocationHandler) Get(c echo.Context) error {
	loc, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLocationResponse(loc))
}

// Delete removes a marker. Only its owner may do so.
//
// @Summary      Delete a location marker
// @Tags         locations
// @Produce      json
// @Param        id   path      string  true  "Location id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/locations/{id} [delete]
func (h *LocationHandler) Delete(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), c.Param("id"), ident); err != nil {
		switch {
		case errors.Is(err, domain.ErrLocationNotFound):
			metrics.LocationsDeletedTotal.WithLabelValues("not_found").Inc()
		case errors.Is(err, domain.ErrForbidden):
			metrics.LocationsDeletedTotal.WithLabelValues("forbidden").Inc()
		}
		return err
	}

	metrics.LocationsDeletedTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "location deleted successfully"})
}
