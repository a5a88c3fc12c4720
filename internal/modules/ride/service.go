// README: Ride service implements creation, lookup, and listing.
package ride

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"vecturo/internal/types"
)

var (
	ErrNotFound   = errors.New("ride not found")
	ErrForbidden  = errors.New("ride belongs to another user")
	ErrBadRequest = errors.New("bad request")
)

// PickupIndex registers pending pickups for spatial candidate search.
type PickupIndex interface {
	Add(ctx context.Context, date string, id types.ID, p types.Point) error
}

// PlaceResolver fills in address and coordinates for a place id when the
// client supplied only the id. Backed by the maps provider.
type PlaceResolver interface {
	ResolvePlace(ctx context.Context, placeID string) (types.Place, error)
}

// UserDirectory exposes the contact phone stored on the caller's profile.
type UserDirectory interface {
	PhoneFor(ctx context.Context, uid string) (string, error)
}

type Service struct {
	store  *Store
	index  PickupIndex
	places PlaceResolver
	users  UserDirectory
	log    *slog.Logger
}

func NewService(store *Store, index PickupIndex, places PlaceResolver, users UserDirectory, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, index: index, places: places, users: users, log: log}
}

type CreateCommand struct {
	UserID         string
	Pickup         types.Place
	Destination    types.Place
	Date           string
	TimeRangeStart string
	TimeRangeEnd   string
	Passengers     int
}

// Create validates the command and persists a new pending ride. The caller's
// phone number is copied from their profile so a future match can expose it
// to the counterpart.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Ride, error) {
	if err := s.normalize(ctx, &cmd); err != nil {
		return nil, err
	}

	phone := ""
	if s.users != nil {
		p, err := s.users.PhoneFor(ctx, cmd.UserID)
		if err == nil {
			phone = p
		}
	}

	r := &Ride{
		ID:             types.ID(uuid.NewString()),
		UserID:         cmd.UserID,
		UserPhone:      phone,
		Passengers:     cmd.Passengers,
		Pickup:         cmd.Pickup,
		Destination:    cmd.Destination,
		Date:           cmd.Date,
		TimeRangeStart: cmd.TimeRangeStart,
		TimeRangeEnd:   cmd.TimeRangeEnd,
		CreatedAt:      time.Now().UTC(),
	}
	r.UpdatedAt = r.CreatedAt

	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	// Index registration is best-effort: the ride is already persisted, and
	// failing the request here would hide a committed row from the caller.
	// An unindexed ride can still request matches of its own; it just won't
	// appear as a candidate for others.
	if s.index != nil {
		if err := s.index.Add(ctx, r.Date, r.ID, r.Pickup.Location); err != nil {
			s.log.Warn("failed to register pickup in geo index",
				"ride_id", r.ID, "date", r.Date, "error", err)
		}
	}
	return r, nil
}

// Get returns a ride and, when matched, its counterpart. Only the owner or
// the matched counterpart's owner may read it.
func (s *Service) Get(ctx context.Context, id types.ID, callerUID string) (*Ride, *Ride, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	var peer *Ride
	if r.MatchedRideID != nil {
		peer, err = s.store.Get(ctx, *r.MatchedRideID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, nil, err
		}
	}
	if r.UserID != callerUID && (peer == nil || peer.UserID != callerUID) {
		return nil, nil, ErrForbidden
	}
	return r, peer, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*Ride, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) normalize(ctx context.Context, cmd *CreateCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("%w: missing user", ErrBadRequest)
	}
	if cmd.Passengers < 1 {
		return fmt.Errorf("%w: passengers must be at least 1", ErrBadRequest)
	}
	if _, err := time.Parse("2006-01-02", cmd.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrBadRequest)
	}
	start, err := time.Parse("15:04", cmd.TimeRangeStart)
	if err != nil {
		return fmt.Errorf("%w: timeRangeStart must be HH:MM", ErrBadRequest)
	}
	end, err := time.Parse("15:04", cmd.TimeRangeEnd)
	if err != nil {
		return fmt.Errorf("%w: timeRangeEnd must be HH:MM", ErrBadRequest)
	}
	// Windows stay within a single day; start == end is an exact departure.
	if end.Before(start) {
		return fmt.Errorf("%w: time window end before start", ErrBadRequest)
	}
	if err := s.resolvePlace(ctx, "pickup", &cmd.Pickup); err != nil {
		return err
	}
	return s.resolvePlace(ctx, "destination", &cmd.Destination)
}

func (s *Service) resolvePlace(ctx context.Context, name string, p *types.Place) error {
	if p.PlaceID == "" {
		return fmt.Errorf("%w: %s place id is required", ErrBadRequest, name)
	}
	if p.Location == (types.Point{}) && s.places != nil {
		resolved, err := s.places.ResolvePlace(ctx, p.PlaceID)
		if err != nil {
			return fmt.Errorf("%w: could not resolve %s place", ErrBadRequest, name)
		}
		if p.Name == "" {
			p.Name = resolved.Name
		}
		if p.Address == "" {
			p.Address = resolved.Address
		}
		p.Location = resolved.Location
	}
	if p.Name == "" {
		return fmt.Errorf("%w: %s name is required", ErrBadRequest, name)
	}
	if p.Location.Lat < -90 || p.Location.Lat > 90 || p.Location.Lng < -180 || p.Location.Lng > 180 {
		return fmt.Errorf("%w: %s coordinates out of range", ErrBadRequest, name)
	}
	if p.Location == (types.Point{}) {
		return fmt.Errorf("%w: %s coordinates are required", ErrBadRequest, name)
	}
	return nil
}
