// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"vecturo/internal/http/handlers"
	"vecturo/internal/http/middleware"
	"vecturo/internal/infra"
	"vecturo/internal/maps"
	"vecturo/internal/modules/match"
	"vecturo/internal/modules/ride"
	"vecturo/internal/modules/user"
)

type RouterDeps struct {
	Rides      *ride.Service
	Match      *match.Service
	Users      *user.Service
	Places     *maps.PlacesService
	Directions *maps.DirectionsService
	Verifier   infra.TokenVerifier
	Log        *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(deps.Log), middleware.Recovery(deps.Log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	rideHandler := handlers.NewRideHandler(deps.Rides, deps.Match)
	api.POST("/rides", rideHandler.Create)
	api.GET("/rides", rideHandler.ListMine)
	api.GET("/rides/:id", rideHandler.Get)
	api.POST("/rides/:id/match", rideHandler.RequestMatch)

	userHandler := handlers.NewUserHandler(deps.Users)
	api.POST("/users", userHandler.Upsert)
	api.GET("/users/me", userHandler.Me)

	if deps.Places != nil && deps.Directions != nil {
		placesHandler := handlers.NewPlacesHandler(deps.Places, deps.Directions)
		api.GET("/places/autocomplete", placesHandler.Autocomplete)
		api.GET("/places/details", placesHandler.Details)
		api.GET("/directions/walking", placesHandler.WalkingDirections)
	}

	return r
}
