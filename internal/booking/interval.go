package booking

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRange rejects malformed candidate ranges (end <= start, or an
// unparseable timestamp). A zero-length range is invalid, never "free".
var ErrInvalidRange = errors.New("end time must be after start time")

// Interval is a half-open time range [Start, End): the start instant is
// included, the end instant is not. Back-to-back bookings therefore never
// conflict.
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewInterval validates and builds a half-open interval.
func NewInterval(start, end time.Time) (Interval, error) {
	if !end.After(start) {
		return Interval{}, ErrInvalidRange
	}
	return Interval{Start: start, End: end}, nil
}

// Overlaps reports whether two half-open intervals share any instant.
// Symmetric; abutting intervals (a.End == b.Start) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// ConflictError is returned when the write-time re-check (or the storage
// exclusion constraint) finds the candidate range already occupied. The
// overlapping intervals are carried for the caller's "why unavailable" UX;
// they may be empty when the conflict was detected by the database
// constraint rather than the in-transaction query.
type ConflictError struct {
	ChargerID int
	Conflicts []Interval
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("charger %d is already booked for the requested time range", e.ChargerID)
}
