package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustInterval(t *testing.T, startHour, endHour int) Interval {
	t.Helper()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	iv, err := NewInterval(day.Add(time.Duration(startHour)*time.Hour), day.Add(time.Duration(endHour)*time.Hour))
	require.NoError(t, err)
	return iv
}

func TestNewIntervalRejectsInvalidRanges(t *testing.T) {
	at := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	_, err := NewInterval(at, at)
	assert.ErrorIs(t, err, ErrInvalidRange, "zero-length range")

	_, err = NewInterval(at, at.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidRange, "end before start")

	_, err = NewInterval(at, at.Add(time.Minute))
	assert.NoError(t, err)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", mustInterval(t, 10, 12), mustInterval(t, 10, 12), true},
		{"partial overlap", mustInterval(t, 10, 12), mustInterval(t, 11, 13), true},
		{"contained", mustInterval(t, 10, 14), mustInterval(t, 11, 12), true},
		{"abutting end to start", mustInterval(t, 10, 12), mustInterval(t, 12, 14), false},
		{"abutting start to end", mustInterval(t, 12, 14), mustInterval(t, 10, 12), false},
		{"disjoint", mustInterval(t, 8, 9), mustInterval(t, 12, 14), false},
		{"one hour apart", mustInterval(t, 10, 11), mustInterval(t, 12, 13), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			// overlap is symmetric
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestIntervalDuration(t *testing.T) {
	iv := mustInterval(t, 10, 12)
	assert.Equal(t, 2*time.Hour, iv.Duration())
}

func TestConflictErrorMessage(t *testing.T) {
	err := &ConflictError{
		ChargerID: 7,
		Conflicts: []Interval{mustInterval(t, 10, 12)},
	}
	assert.Contains(t, err.Error(), "charger 7")
}
