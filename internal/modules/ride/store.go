// README: Ride store backed by PostgreSQL; match commit is a conditional dual-update.
package ride

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vecturo/internal/infra"
	"vecturo/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// querier is satisfied by both pgxpool.Pool and pgx.Tx, so store methods run
// against the ambient transaction when one is carried in ctx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := infra.TxFromContext(ctx); ok {
		return tx
	}
	return s.db
}

const rideColumns = `
	id, user_id, user_phone, passengers,
	pickup_name, pickup_address, pickup_place_id, pickup_lng, pickup_lat,
	destination_name, destination_address, destination_place_id, destination_lng, destination_lat,
	to_char(ride_date, 'YYYY-MM-DD'), time_range_start, time_range_end,
	is_matched, matched_ride_id, match_requested_at,
	starting_point_name, starting_point_address, starting_point_place_id, starting_point_lng, starting_point_lat,
	ending_point_name, ending_point_address, ending_point_place_id, ending_point_lng, ending_point_lat,
	total_passengers, matched_user_phone,
	created_at, updated_at`

func (s *Store) Create(ctx context.Context, r *Ride) error {
	_, err := s.q(ctx).Exec(ctx, `
		INSERT INTO rides (
			id, user_id, user_phone, passengers,
			pickup_name, pickup_address, pickup_place_id, pickup_lng, pickup_lat,
			destination_name, destination_address, destination_place_id, destination_lng, destination_lat,
			ride_date, time_range_start, time_range_end,
			is_matched, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14,
			$15::date, $16, $17,
			FALSE, $18, $18
		)`,
		string(r.ID), r.UserID, r.UserPhone, r.Passengers,
		r.Pickup.Name, r.Pickup.Address, r.Pickup.PlaceID, r.Pickup.Location.Lng, r.Pickup.Location.Lat,
		r.Destination.Name, r.Destination.Address, r.Destination.PlaceID, r.Destination.Location.Lng, r.Destination.Location.Lat,
		r.Date, r.TimeRangeStart, r.TimeRangeEnd,
		r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.q(ctx).QueryRow(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, string(id))
	r, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) ListByUser(ctx context.Context, userID string) ([]*Ride, error) {
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+rideColumns+` FROM rides
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

// PendingByIDs hydrates the candidate set returned by the pickup GEO index,
// applying the equality predicates of the candidate search and restoring
// oldest-first ordering (first-come-first-served priority).
func (s *Store) PendingByIDs(ctx context.Context, ids []types.ID, excludeID types.ID, excludeUser, date string) ([]*Ride, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = string(id)
	}
	rows, err := s.q(ctx).Query(ctx, `
		SELECT `+rideColumns+` FROM rides
		WHERE id = ANY($1)
		  AND is_matched = FALSE
		  AND id <> $2
		  AND user_id <> $3
		  AND ride_date = $4::date
		ORDER BY created_at ASC`,
		raw, string(excludeID), excludeUser, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRides(rows)
}

func (s *Store) SetMatchRequestedAt(ctx context.Context, id types.ID, at time.Time) error {
	_, err := s.q(ctx).Exec(ctx, `
		UPDATE rides SET match_requested_at = $2, updated_at = $2 WHERE id = $1`,
		string(id), at)
	return err
}

// ClaimPair transitions both rides to matched in one shot. Each update
// requires is_matched = FALSE at write time; if either row was already
// claimed by a concurrent match the method reports false and the caller
// must roll back the enclosing transaction.
func (s *Store) ClaimPair(ctx context.Context, a, b *Ride, plan SharedPlan) (bool, error) {
	now := time.Now().UTC()
	pairs := []struct {
		self, peer *Ride
	}{
		{a, b},
		{b, a},
	}
	for _, p := range pairs {
		tag, err := s.q(ctx).Exec(ctx, `
			UPDATE rides SET
				is_matched = TRUE,
				matched_ride_id = $2,
				starting_point_name = $3, starting_point_address = $4, starting_point_place_id = $5,
				starting_point_lng = $6, starting_point_lat = $7,
				ending_point_name = $8, ending_point_address = $9, ending_point_place_id = $10,
				ending_point_lng = $11, ending_point_lat = $12,
				total_passengers = $13,
				matched_user_phone = $14,
				updated_at = $15
			WHERE id = $1 AND is_matched = FALSE`,
			string(p.self.ID), string(p.peer.ID),
			plan.StartingPoint.Name, plan.StartingPoint.Address, plan.StartingPoint.PlaceID,
			plan.StartingPoint.Location.Lng, plan.StartingPoint.Location.Lat,
			plan.EndingPoint.Name, plan.EndingPoint.Address, plan.EndingPoint.PlaceID,
			plan.EndingPoint.Location.Lng, plan.EndingPoint.Location.Lat,
			plan.TotalPassengers,
			p.peer.UserPhone,
			now,
		)
		if err != nil {
			return false, err
		}
		if tag.RowsAffected() != 1 {
			return false, nil
		}
	}
	return true, nil
}

func scanRide(row pgx.Row) (*Ride, error) {
	var (
		r              Ride
		matchedRideID  *string
		spName, spAddr *string
		spPlaceID      *string
		spLng, spLat   *float64
		epName, epAddr *string
		epPlaceID      *string
		epLng, epLat   *float64
	)
	err := row.Scan(
		&r.ID, &r.UserID, &r.UserPhone, &r.Passengers,
		&r.Pickup.Name, &r.Pickup.Address, &r.Pickup.PlaceID, &r.Pickup.Location.Lng, &r.Pickup.Location.Lat,
		&r.Destination.Name, &r.Destination.Address, &r.Destination.PlaceID, &r.Destination.Location.Lng, &r.Destination.Location.Lat,
		&r.Date, &r.TimeRangeStart, &r.TimeRangeEnd,
		&r.IsMatched, &matchedRideID, &r.MatchRequestedAt,
		&spName, &spAddr, &spPlaceID, &spLng, &spLat,
		&epName, &epAddr, &epPlaceID, &epLng, &epLat,
		&r.TotalPassengers, &r.MatchedUserPhone,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if matchedRideID != nil {
		id := types.ID(*matchedRideID)
		r.MatchedRideID = &id
	}
	if spName != nil {
		r.StartingPoint = &types.Place{
			Name: *spName, Address: deref(spAddr), PlaceID: deref(spPlaceID),
			Location: types.Point{Lat: derefF(spLat), Lng: derefF(spLng)},
		}
	}
	if epName != nil {
		r.EndingPoint = &types.Place{
			Name: *epName, Address: deref(epAddr), PlaceID: deref(epPlaceID),
			Location: types.Point{Lat: derefF(epLat), Lng: derefF(epLng)},
		}
	}
	return &r, nil
}

func collectRides(rows pgx.Rows) ([]*Ride, error) {
	var out []*Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefF(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
