package booking

import (
	"context"
	"time"
)

type Repository interface {
	// CreateBooking runs the overlap re-check and the insert as one
	// transaction; it returns *ConflictError when the range is occupied.
	CreateBooking(ctx context.Context, b *Booking) (*Booking, error)

	// ActiveBookingsOverlapping returns PENDING/CONFIRMED bookings for the
	// charger whose ranges overlap [start, end). Snapshot only, no locks.
	ActiveBookingsOverlapping(ctx context.Context, chargerID int, start, end time.Time) ([]Booking, error)

	GetByID(ctx context.Context, id int) (*Booking, error)
	UpdateStatus(ctx context.Context, id int, fromStatus, toStatus, notes string) (*Booking, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetBookingsByCharger(ctx context.Context, chargerID int) ([]BookingWithDetails, error)
	GetBookingsByHost(ctx context.Context, hostID int) ([]BookingWithDetails, error)
}
