// README: Ride request record and its two-state lifecycle.
package ride

import (
	"time"

	"vecturo/internal/types"
)

// Ride is a rider's request for a shared trip. It has exactly two states:
// pending (IsMatched false, no counterpart, no shared plan) and matched
// (IsMatched true, MatchedRideID set, shared plan populated). Matched rides
// never re-enter matching.
type Ride struct {
	ID         types.ID
	UserID     string
	UserPhone  string
	Passengers int

	Pickup      types.Place
	Destination types.Place

	// Date is the calendar day of the trip ("2006-01-02"), compared as a
	// date rather than a timestamp. The time window bounds are "HH:MM"
	// clock values within that day; start == end means an exact departure
	// time rather than a range.
	Date           string
	TimeRangeStart string
	TimeRangeEnd   string

	IsMatched        bool
	MatchedRideID    *types.ID
	MatchRequestedAt *time.Time

	// Shared-trip fields, populated only once matched. StartingPoint and
	// EndingPoint are identical on both paired records.
	StartingPoint    *types.Place
	EndingPoint      *types.Place
	TotalPassengers  *int
	MatchedUserPhone *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SharedPlan is the agreed single pickup and drop-off for a matched pair,
// written onto both records in the same transaction.
type SharedPlan struct {
	StartingPoint   types.Place
	EndingPoint     types.Place
	TotalPassengers int
}
