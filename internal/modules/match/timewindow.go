// README: Clock math for departure-window overlap.
package match

import (
	"fmt"
	"strconv"
	"strings"
)

// Window is the intersection of two departure windows, bounds in
// "HH:MM" form.
type Window struct {
	Start           string `json:"start"`
	End             string `json:"end"`
	DurationMinutes int    `json:"durationMinutes"`
}

// parseClock converts "HH:MM" to minutes since midnight in [0, 1439].
func parseClock(v string) (int, error) {
	parts := strings.Split(v, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock value %q", v)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", v)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed clock value %q", v)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock value %q out of range", v)
	}
	return h*60 + m, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// overlapWindow computes the shared sub-window of two windows. The
// intersection must be strictly positive: boundary-touching windows (one
// ends exactly when the other starts) share no usable minute and report no
// overlap. Malformed bounds also report no overlap; creation-time
// validation keeps those out of the store.
func overlapWindow(s1, e1, s2, e2 string) (Window, bool) {
	start1, err := parseClock(s1)
	if err != nil {
		return Window{}, false
	}
	end1, err := parseClock(e1)
	if err != nil {
		return Window{}, false
	}
	start2, err := parseClock(s2)
	if err != nil {
		return Window{}, false
	}
	end2, err := parseClock(e2)
	if err != nil {
		return Window{}, false
	}

	os := max(start1, start2)
	oe := min(end1, end2)
	if os >= oe {
		return Window{}, false
	}
	return Window{
		Start:           formatClock(os),
		End:             formatClock(oe),
		DurationMinutes: oe - os,
	}, true
}
