// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	gmaps "googlemaps.github.io/maps"

	"vecturo/internal/config"
	httptransport "vecturo/internal/http"
	"vecturo/internal/infra"
	vmaps "vecturo/internal/maps"
	"vecturo/internal/modules/match"
	"vecturo/internal/modules/ride"
	"vecturo/internal/modules/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("service", "vecturo-api")
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("VECTURO_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var placesSvc *vmaps.PlacesService
	var directionsSvc *vmaps.DirectionsService
	if cfg.Maps.APIKey != "" {
		mapsClient, err := gmaps.NewClient(gmaps.WithAPIKey(cfg.Maps.APIKey))
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
		placesSvc = vmaps.NewPlacesServiceWithClient(mapsClient)
		directionsSvc = vmaps.NewDirectionsService(mapsClient)
	} else {
		logger.Warn("GOOGLE_MAPS_API_KEY not set; places and directions endpoints disabled")
	}

	userStore := user.NewStore(dbPool)
	userSvc := user.NewService(userStore)

	rideStore := ride.NewStore(dbPool)
	matchStore := match.NewStore(redisClient)
	uow := infra.NewUnitOfWork(dbPool)

	var resolver ride.PlaceResolver
	if placesSvc != nil {
		resolver = placesSvc
	}
	rideSvc := ride.NewService(rideStore, matchStore, resolver, userSvc, logger)
	matchSvc := match.NewService(rideStore, matchStore, uow, cfg.Matching, logger)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Rides:      rideSvc,
		Match:      matchSvc,
		Users:      userSvc,
		Places:     placesSvc,
		Directions: directionsSvc,
		Verifier:   verifier,
		Log:        logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
