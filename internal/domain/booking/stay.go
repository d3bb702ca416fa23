package booking

import (
	"math"
	"strings"
	"time"

	"github.com/havenstay/service-rental/internal/platform/apperror"
)

const (
	dateLayout = "2006-01-02"
	day        = 24 * time.Hour
)

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the UTC
// calendar date at midnight. Timestamps are converted to UTC before the
// time of day is dropped.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, apperror.NewValidationError("Invalid dates")
	}
	return NormalizeDate(t), nil
}

// NormalizeDate truncates t to midnight of its UTC calendar date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Stay is the half-open date interval [CheckIn, CheckOut).
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// NewStay normalizes both ends to UTC midnight. A check-out before the
// check-in is rejected; an empty stay is allowed here and caught by Nights.
func NewStay(checkIn, checkOut time.Time) (Stay, error) {
	s := Stay{CheckIn: NormalizeDate(checkIn), CheckOut: NormalizeDate(checkOut)}
	if s.CheckOut.Before(s.CheckIn) {
		return Stay{}, apperror.NewValidationError("checkOut must be after checkIn")
	}
	return s, nil
}

// Nights is the whole number of calendar days between check-in and
// check-out.
func (s Stay) Nights() int {
	return int(math.Round(float64(s.CheckOut.Sub(s.CheckIn)) / float64(day)))
}

// Overlaps reports whether the two half-open intervals intersect. Stays that
// only touch (one's check-out equals the other's check-in) do not overlap.
func (s Stay) Overlaps(other Stay) bool {
	return s.CheckIn.Before(other.CheckOut) && other.CheckIn.Before(s.CheckOut)
}
