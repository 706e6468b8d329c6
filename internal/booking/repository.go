package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	// ErrStatusConflict means the booking exists but is not in the expected
	// state for the requested transition.
	ErrStatusConflict = errors.New("booking is not in the expected status")
)

// exclusionViolation is the Postgres error code raised by the
// bookings_no_overlap exclusion constraint, the storage-level guard behind
// the in-transaction overlap check.
const exclusionViolation = "23P01"

const bookingColumns = `id, reference, user_id, charger_id, start_time, end_time, status, total_cost, payment_status, host_notes, user_notes, cancellation_reason, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateBooking closes the check-then-act race: the charger row lock
// serializes concurrent writers for the same charger, the overlap predicate
// is re-run inside the transaction, and the insert still sits behind the
// exclusion constraint in case anything bypasses this path.
func (r *repository) CreateBooking(ctx context.Context, b *Booking) (*Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var chargerID int
	err = tx.GetContext(ctx, &chargerID,
		`SELECT id FROM chargers WHERE id = $1 FOR UPDATE`, b.ChargerID)
	if err != nil {
		return nil, err
	}

	conflicts, err := overlapQuery(ctx, tx, b.ChargerID, b.StartTime, b.EndTime)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		intervals := make([]Interval, 0, len(conflicts))
		for _, c := range conflicts {
			intervals = append(intervals, c.Interval())
		}
		return nil, &ConflictError{ChargerID: b.ChargerID, Conflicts: intervals}
	}

	query := `
		INSERT INTO bookings (reference, user_id, charger_id, start_time, end_time, status, total_cost, payment_status, user_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + bookingColumns

	var created Booking
	err = tx.GetContext(ctx, &created, query,
		b.Reference, b.UserID, b.ChargerID, b.StartTime, b.EndTime,
		b.Status, b.TotalCost, b.PaymentStatus, b.UserNotes,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == exclusionViolation {
			return nil, &ConflictError{ChargerID: b.ChargerID}
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &created, nil
}

type queryer interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

func overlapQuery(ctx context.Context, q queryer, chargerID int, start, end time.Time) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE charger_id = $1
		  AND status IN ('PENDING', 'CONFIRMED')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time ASC
	`

	var bookings []Booking
	if err := q.SelectContext(ctx, &bookings, query, chargerID, start, end); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) ActiveBookingsOverlapping(ctx context.Context, chargerID int, start, end time.Time) ([]Booking, error) {
	return overlapQuery(ctx, r.db, chargerID, start, end)
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

// UpdateStatus performs a guarded transition: the update only applies while
// the booking is still in fromStatus, so concurrent decisions cannot clobber
// each other.
func (r *repository) UpdateStatus(ctx context.Context, id int, fromStatus, toStatus, notes string) (*Booking, error) {
	notesColumn := "host_notes"
	if toStatus == StatusCancelled {
		notesColumn = "cancellation_reason"
	}

	query := fmt.Sprintf(`
		UPDATE bookings
		SET status = $1, %s = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
		RETURNING `+bookingColumns, notesColumn)

	var b Booking
	err := r.db.GetContext(ctx, &b, query, toStatus, notes, id, fromStatus)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStatusConflict
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY start_time DESC
	`

	var bookings []Booking
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, err
	}

	return bookings, nil
}

const bookingDetailColumns = `
		b.id, b.reference, b.user_id, b.charger_id, b.start_time, b.end_time,
		b.status, b.total_cost, b.payment_status, b.host_notes, b.user_notes,
		b.cancellation_reason, b.created_at, b.updated_at,
		c.title AS charger_title,
		c.city AS charger_city,
		u.first_name || ' ' || u.last_name AS user_name,
		u.email AS user_email`

func (r *repository) GetBookingsByCharger(ctx context.Context, chargerID int) ([]BookingWithDetails, error) {
	query := `
		SELECT ` + bookingDetailColumns + `
		FROM bookings b
		JOIN chargers c ON b.charger_id = c.id
		JOIN users u ON b.user_id = u.id
		WHERE b.charger_id = $1
		ORDER BY b.start_time DESC
	`

	var bookings []BookingWithDetails
	if err := r.db.SelectContext(ctx, &bookings, query, chargerID); err != nil {
		return nil, err
	}

	return bookings, nil
}

func (r *repository) GetBookingsByHost(ctx context.Context, hostID int) ([]BookingWithDetails, error) {
	query := `
		SELECT ` + bookingDetailColumns + `
		FROM bookings b
		JOIN chargers c ON b.charger_id = c.id
		JOIN users u ON b.user_id = u.id
		WHERE c.host_id = $1
		ORDER BY b.start_time ASC
	`

	var bookings []BookingWithDetails
	if err := r.db.SelectContext(ctx, &bookings, query, hostID); err != nil {
		return nil, err
	}

	return bookings, nil
}
