package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepo mimics the transactional repository: the overlap check and the
// insert happen under one lock, exactly like the row lock serializes them in
// Postgres.
type memoryRepo struct {
	mu       sync.Mutex
	nextID   int
	bookings []Booking
}

func (m *memoryRepo) CreateBooking(ctx context.Context, b *Booking) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := b.Interval()
	var conflicts []Interval
	for _, existing := range m.bookings {
		if existing.ChargerID != b.ChargerID {
			continue
		}
		active := existing.Status == StatusPending || existing.Status == StatusConfirmed
		if active && want.Overlaps(existing.Interval()) {
			conflicts = append(conflicts, existing.Interval())
		}
	}
	if len(conflicts) > 0 {
		return nil, &ConflictError{ChargerID: b.ChargerID, Conflicts: conflicts}
	}

	m.nextID++
	created := *b
	created.ID = m.nextID
	m.bookings = append(m.bookings, created)
	return &created, nil
}

func (m *memoryRepo) ActiveBookingsOverlapping(ctx context.Context, chargerID int, start, end time.Time) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	want := Interval{Start: start, End: end}
	var out []Booking
	for _, b := range m.bookings {
		active := b.Status == StatusPending || b.Status == StatusConfirmed
		if b.ChargerID == chargerID && active && want.Overlaps(b.Interval()) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id int) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			found := b
			return &found, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (m *memoryRepo) UpdateStatus(ctx context.Context, id int, fromStatus, toStatus, notes string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id && m.bookings[i].Status == fromStatus {
			m.bookings[i].Status = toStatus
			found := m.bookings[i]
			return &found, nil
		}
	}
	return nil, ErrStatusConflict
}

func (m *memoryRepo) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	return nil, nil
}

func (m *memoryRepo) GetBookingsByCharger(ctx context.Context, chargerID int) ([]BookingWithDetails, error) {
	return nil, nil
}

func (m *memoryRepo) GetBookingsByHost(ctx context.Context, hostID int) ([]BookingWithDetails, error) {
	return nil, nil
}

func TestConcurrentBookingsAtMostOneWins(t *testing.T) {
	repo := &memoryRepo{}

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	const attempts = 16
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID int) {
			defer wg.Done()
			_, err := repo.CreateBooking(context.Background(), &Booking{
				UserID:    userID,
				ChargerID: 5,
				StartTime: start,
				EndTime:   end,
				Status:    StatusPending,
			})
			results <- err
		}(i + 1)
	}
	wg.Wait()
	close(results)

	successes := 0
	conflicts := 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
		conflicts++
	}

	assert.Equal(t, 1, successes, "exactly one writer may claim the range")
	assert.Equal(t, attempts-1, conflicts)
}

func TestConcurrentAbuttingBookingsAllSucceed(t *testing.T) {
	repo := &memoryRepo{}

	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	const slots = 8
	var wg sync.WaitGroup
	errs := make([]error, slots)
	for i := 0; i < slots; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = repo.CreateBooking(context.Background(), &Booking{
				UserID:    slot + 1,
				ChargerID: 5,
				StartTime: day.Add(time.Duration(slot) * time.Hour),
				EndTime:   day.Add(time.Duration(slot+1) * time.Hour),
				Status:    StatusPending,
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "slot %d", i)
	}
}

func TestCancelledBookingFreesTheRange(t *testing.T) {
	repo := &memoryRepo{}
	ctx := context.Background()

	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	first, err := repo.CreateBooking(ctx, &Booking{UserID: 1, ChargerID: 5, StartTime: start, EndTime: end, Status: StatusPending})
	require.NoError(t, err)

	_, err = repo.CreateBooking(ctx, &Booking{UserID: 2, ChargerID: 5, StartTime: start, EndTime: end, Status: StatusPending})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)

	_, err = repo.UpdateStatus(ctx, first.ID, StatusPending, StatusCancelled, "")
	require.NoError(t, err)

	_, err = repo.CreateBooking(ctx, &Booking{UserID: 2, ChargerID: 5, StartTime: start, EndTime: end, Status: StatusPending})
	assert.NoError(t, err)
}
