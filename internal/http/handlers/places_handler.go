// README: Places autocomplete/details and walking-directions handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vecturo/internal/maps"
)

type PlacesHandler struct {
	places     *maps.PlacesService
	directions *maps.DirectionsService
}

func NewPlacesHandler(places *maps.PlacesService, directions *maps.DirectionsService) *PlacesHandler {
	return &PlacesHandler{places: places, directions: directions}
}

func (h *PlacesHandler) Autocomplete(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		writeError(c, http.StatusBadRequest, "input query parameter is required")
		return
	}
	suggestions, err := h.places.Autocomplete(c.Request.Context(), input)
	if err != nil {
		writeError(c, http.StatusBadGateway, "places provider error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": suggestions})
}

func (h *PlacesHandler) Details(c *gin.Context) {
	placeID := c.Query("placeId")
	if placeID == "" {
		writeError(c, http.StatusBadRequest, "placeId query parameter is required")
		return
	}
	place, err := h.places.ResolvePlace(c.Request.Context(), placeID)
	if err != nil {
		writeError(c, http.StatusBadGateway, "places provider error")
		return
	}
	writeJSON(c, http.StatusOK, place)
}

func (h *PlacesHandler) WalkingDirections(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		writeError(c, http.StatusBadRequest, "origin and destination are required")
		return
	}
	route, err := h.directions.Walking(c.Request.Context(), origin, destination)
	if err != nil {
		writeError(c, http.StatusBadGateway, "could not find directions")
		return
	}
	writeJSON(c, http.StatusOK, route)
}
