package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking lifecycle: PENDING -> CONFIRMED | REJECTED (host decision),
// CONFIRMED -> COMPLETED (host) | CANCELLED (user), PENDING -> CANCELLED
// (user). COMPLETED, CANCELLED and REJECTED are terminal.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
	StatusRejected  = "REJECTED"
)

const (
	PaymentPending  = "PENDING"
	PaymentPaid     = "PAID"
	PaymentRefunded = "REFUNDED"
	PaymentFailed   = "FAILED"
)

// ActiveStatuses are the statuses that occupy a time slot for conflict
// purposes. Cancelled, rejected and completed bookings never block.
var ActiveStatuses = []string{StatusPending, StatusConfirmed}

type Booking struct {
	ID                 int             `db:"id" json:"id"`
	Reference          string          `db:"reference" json:"reference"`
	UserID             int             `db:"user_id" json:"user_id"`
	ChargerID          int             `db:"charger_id" json:"charger_id"`
	StartTime          time.Time       `db:"start_time" json:"start_time"`
	EndTime            time.Time       `db:"end_time" json:"end_time"`
	Status             string          `db:"status" json:"status"`
	TotalCost          decimal.Decimal `db:"total_cost" json:"total_cost"`
	PaymentStatus      string          `db:"payment_status" json:"payment_status"`
	HostNotes          string          `db:"host_notes" json:"host_notes,omitempty"`
	UserNotes          string          `db:"user_notes" json:"user_notes,omitempty"`
	CancellationReason string          `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

// Interval returns the booking's occupied time range.
func (b Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// IsTerminal reports whether the booking can no longer change status.
func (b Booking) IsTerminal() bool {
	switch b.Status {
	case StatusCompleted, StatusCancelled, StatusRejected:
		return true
	}
	return false
}

type BookingWithDetails struct {
	Booking
	ChargerTitle string `db:"charger_title" json:"charger_title"`
	ChargerCity  string `db:"charger_city" json:"charger_city"`
	UserName     string `db:"user_name" json:"user_name"`
	UserEmail    string `db:"user_email" json:"user_email"`
}

type CreateBookingRequest struct {
	ChargerID int    `json:"charger_id" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	UserNotes string `json:"user_notes"`
}

type Availability struct {
	Available bool       `json:"available"`
	Conflicts []Interval `json:"conflicts"`
}

type HostDecisionRequest struct {
	HostNotes string `json:"host_notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}
