// README: Matching engine: candidate pipeline, shared-trip plan, atomic pair commit.
package match

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"vecturo/internal/config"
	"vecturo/internal/modules/ride"
	"vecturo/internal/types"
)

var (
	// ErrAlreadyMatched rejects a match request for a ride that is no
	// longer pending. Matched rides never re-enter matching.
	ErrAlreadyMatched = errors.New("ride is already matched")
	// ErrNoMatch is the well-formed empty outcome: no candidate survived
	// the pickup, destination, and time filters. Callers may retry later.
	ErrNoMatch = errors.New("no match found")
	// ErrConflict means a concurrent match claimed this ride or the chosen
	// candidate between selection and commit. Retrying the request re-runs
	// the search without the conflicting ride.
	ErrConflict = errors.New("ride claimed by concurrent match")
)

// RideStore is the slice of the ride store the engine needs. All methods
// run inside the ambient unit-of-work transaction.
type RideStore interface {
	Get(ctx context.Context, id types.ID) (*ride.Ride, error)
	PendingByIDs(ctx context.Context, ids []types.ID, excludeID types.ID, excludeUser, date string) ([]*ride.Ride, error)
	SetMatchRequestedAt(ctx context.Context, id types.ID, at time.Time) error
	ClaimPair(ctx context.Context, a, b *ride.Ride, plan ride.SharedPlan) (bool, error)
}

// PickupIndex narrows candidate search to pickups near a point on a date.
type PickupIndex interface {
	Nearby(ctx context.Context, date string, p types.Point, radiusMiles float64) ([]types.ID, error)
	Remove(ctx context.Context, date string, ids ...types.ID) error
}

// UnitOfWork runs fn inside one store transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Service struct {
	rides RideStore
	index PickupIndex
	uow   UnitOfWork
	cfg   config.MatchingConfig
	log   *slog.Logger
}

func NewService(rides RideStore, index PickupIndex, uow UnitOfWork, cfg config.MatchingConfig, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{rides: rides, index: index, uow: uow, cfg: cfg, log: log}
}

// Result is a committed match as seen from the requesting ride.
type Result struct {
	Ride        *ride.Ride
	Counterpart *ride.Ride
	Overlap     Window
}

// RequestMatch attempts to pair the ride with a compatible pending ride.
// Only the ride's owner may request a match; callerUID must be the verified
// uid from the auth token, never empty.
//
// The whole attempt (guards, the match_requested_at write, candidate
// selection, and the dual-row claim) runs in one transaction. When no
// candidate survives, the transaction still commits so the timestamp is
// kept as retry diagnostics; when the claim fails the transaction rolls
// back and the ride is left exactly as it was.
func (s *Service) RequestMatch(ctx context.Context, rideID types.ID, callerUID string) (*Result, error) {
	var res *Result
	err := s.uow.WithinTx(ctx, func(ctx context.Context) error {
		self, err := s.rides.Get(ctx, rideID)
		if err != nil {
			return err
		}
		if self.UserID != callerUID {
			return ride.ErrForbidden
		}
		if self.IsMatched {
			return ErrAlreadyMatched
		}

		now := time.Now().UTC()
		if err := s.rides.SetMatchRequestedAt(ctx, self.ID, now); err != nil {
			return err
		}
		self.MatchRequestedAt = &now

		candidate, win, err := s.selectCandidate(ctx, self)
		if err != nil {
			return err
		}
		if candidate == nil {
			return nil
		}

		plan := sharedPlan(self, candidate)
		claimed, err := s.rides.ClaimPair(ctx, self, candidate, plan)
		if err != nil {
			return err
		}
		if !claimed {
			return ErrConflict
		}

		applyPlan(self, candidate, plan)
		applyPlan(candidate, self, plan)
		res = &Result{Ride: self, Counterpart: candidate, Overlap: win}
		return nil
	})
	if err != nil {
		if isLockConflict(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if res == nil {
		return nil, ErrNoMatch
	}

	// Matched pickups leave the index best-effort; the is_matched guard in
	// the store is the source of truth, a stale member only costs a
	// filtered-out candidate on later searches.
	if err := s.index.Remove(ctx, res.Ride.Date, res.Ride.ID, res.Counterpart.ID); err != nil {
		s.log.Warn("failed to remove matched pickups from geo index",
			"ride_id", res.Ride.ID, "counterpart_id", res.Counterpart.ID, "error", err)
	}
	return res, nil
}

// isLockConflict reports whether Postgres aborted the transaction because a
// concurrent match held the other ride's row: two symmetric RequestMatch
// calls each lock their own ride first and then block on the other's,
// which Postgres resolves by killing one with a deadlock (40P01) or
// serialization (40001) error. Both mean "lost the race", same as a failed
// conditional claim.
func isLockConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == "40P01" || pgErr.Code == "40001")
}

// selectCandidate walks spatial candidates oldest-first and returns the
// first one within the destination radius with a strictly positive window
// overlap. Ties in distance or time resolve to the older request.
func (s *Service) selectCandidate(ctx context.Context, self *ride.Ride) (*ride.Ride, Window, error) {
	ids, err := s.index.Nearby(ctx, self.Date, self.Pickup.Location, s.cfg.PickupRadiusMiles)
	if err != nil {
		return nil, Window{}, err
	}
	candidates, err := s.rides.PendingByIDs(ctx, ids, self.ID, self.UserID, self.Date)
	if err != nil {
		return nil, Window{}, err
	}
	for _, c := range candidates {
		if haversineMiles(c.Destination.Location, self.Destination.Location) > s.cfg.DestRadiusMiles {
			continue
		}
		win, ok := overlapWindow(self.TimeRangeStart, self.TimeRangeEnd, c.TimeRangeStart, c.TimeRangeEnd)
		if !ok {
			continue
		}
		return c, win, nil
	}
	return nil, Window{}, nil
}

// sharedPlan derives the single pickup and drop-off both riders will use.
// The pickup-vs-pickup distance comparison is symmetric, so its tie rule
// decides: the requesting ride's pickup is the starting point. The ending
// point is whichever destination is closer to that starting point, the
// requester's on ties.
func sharedPlan(self, candidate *ride.Ride) ride.SharedPlan {
	start := self.Pickup
	end := self.Destination
	if haversineMiles(start.Location, candidate.Destination.Location) <
		haversineMiles(start.Location, self.Destination.Location) {
		end = candidate.Destination
	}
	return ride.SharedPlan{
		StartingPoint:   start,
		EndingPoint:     end,
		TotalPassengers: self.Passengers + candidate.Passengers,
	}
}

func applyPlan(r, peer *ride.Ride, plan ride.SharedPlan) {
	r.IsMatched = true
	peerID := peer.ID
	r.MatchedRideID = &peerID
	sp := plan.StartingPoint
	ep := plan.EndingPoint
	r.StartingPoint = &sp
	r.EndingPoint = &ep
	total := plan.TotalPassengers
	r.TotalPassengers = &total
	phone := peer.UserPhone
	r.MatchedUserPhone = &phone
}
