// README: Pickup GEO index backed by Redis, keyed per ride date.
package match

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vecturo/internal/types"
)

const (
	pickupKeyPrefix = "match:pickups:%s"
	// TTL for per-date keys (a date's pending rides are stale well within 30 days).
	keyTTL = 30 * 24 * time.Hour
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

// Add registers a pending ride's pickup under its date key.
func (s *Store) Add(ctx context.Context, date string, id types.ID, p types.Point) error {
	key := pickupKey(date)
	if err := s.redis.GeoAdd(ctx, key, &redis.GeoLocation{
		Name:      string(id),
		Longitude: p.Lng,
		Latitude:  p.Lat,
	}).Err(); err != nil {
		return err
	}
	return s.redis.Expire(ctx, key, keyTTL).Err()
}

// Nearby returns ids of pickups within radiusMiles of p on the given date,
// closest first. The ride store re-checks every equality predicate and
// restores creation-time ordering; this index only narrows the search.
func (s *Store) Nearby(ctx context.Context, date string, p types.Point, radiusMiles float64) ([]types.ID, error) {
	results, err := s.redis.GeoSearch(ctx, pickupKey(date), &redis.GeoSearchQuery{
		Longitude:  p.Lng,
		Latitude:   p.Lat,
		Radius:     radiusMiles,
		RadiusUnit: "mi",
		Sort:       "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]types.ID, len(results))
	for i, r := range results {
		ids[i] = types.ID(r)
	}
	return ids, nil
}

// Remove drops rides from a date key once they are matched.
func (s *Store) Remove(ctx context.Context, date string, ids ...types.ID) error {
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = string(id)
	}
	return s.redis.ZRem(ctx, pickupKey(date), members...).Err()
}

func pickupKey(date string) string {
	return fmt.Sprintf(pickupKeyPrefix, date)
}
