package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"chargerbnb/internal/charger"
	"chargerbnb/internal/email"
	"chargerbnb/internal/logger"
	"chargerbnb/internal/metrics"
	"chargerbnb/internal/user"
)

var (
	ErrStartInPast        = errors.New("booking cannot start in the past")
	ErrChargerNotBookable = errors.New("charger is not approved and available for booking")
	ErrNotBookingOwner    = errors.New("booking does not belong to this user")
	ErrNotChargerHost     = errors.New("booking does not belong to this host's chargers")
	ErrInvalidTransition  = errors.New("booking is not in a state that allows this action")
)

// slotSearchHorizon bounds the NextAvailableSlots scan so a fully booked
// charger cannot send it walking forever.
const slotSearchHorizon = 14 * 24 * time.Hour

type Service interface {
	CheckAvailability(ctx context.Context, chargerID int, start, end time.Time) (*Availability, error)
	CreateBooking(ctx context.Context, userID, chargerID int, start, end time.Time, userNotes string) (*Booking, error)
	NextAvailableSlots(ctx context.Context, chargerID int, from time.Time, slotDuration time.Duration, count int) ([]Interval, error)
	CancelBooking(ctx context.Context, userID, bookingID int, reason string) (*Booking, error)
	AcceptBooking(ctx context.Context, hostID, bookingID int, notes string) (*Booking, error)
	RejectBooking(ctx context.Context, hostID, bookingID int, notes string) (*Booking, error)
	CompleteBooking(ctx context.Context, hostID, bookingID int) (*Booking, error)
	GetUserBookings(ctx context.Context, userID int) ([]Booking, error)
	GetBookingsByHost(ctx context.Context, hostID int) ([]BookingWithDetails, error)
	GetBookingsByCharger(ctx context.Context, chargerID int) ([]BookingWithDetails, error)
}

type service struct {
	repo         Repository
	chargerRepo  charger.Repository
	userRepo     user.Repository
	emailService *email.Service
	now          func() time.Time
}

func NewService(repo Repository, chargerRepo charger.Repository, userRepo user.Repository, emailService *email.Service) Service {
	return &service{
		repo:         repo,
		chargerRepo:  chargerRepo,
		userRepo:     userRepo,
		emailService: emailService,
		now:          time.Now,
	}
}

// CheckAvailability reports whether [start, end) is free on the charger.
// The answer is a snapshot, not a reservation; CreateBooking re-checks
// inside its transaction.
func (s *service) CheckAvailability(ctx context.Context, chargerID int, start, end time.Time) (*Availability, error) {
	if _, err := NewInterval(start, end); err != nil {
		return nil, err
	}

	overlapping, err := s.repo.ActiveBookingsOverlapping(ctx, chargerID, start, end)
	if err != nil {
		return nil, err
	}

	conflicts := make([]Interval, 0, len(overlapping))
	for _, b := range overlapping {
		conflicts = append(conflicts, b.Interval())
	}

	return &Availability{
		Available: len(conflicts) == 0,
		Conflicts: conflicts,
	}, nil
}

func (s *service) CreateBooking(ctx context.Context, userID, chargerID int, start, end time.Time, userNotes string) (*Booking, error) {
	interval, err := NewInterval(start, end)
	if err != nil {
		return nil, err
	}

	if start.Before(s.now()) {
		return nil, ErrStartInPast
	}

	ch, err := s.chargerRepo.GetByID(ctx, chargerID)
	if err != nil {
		return nil, charger.ErrChargerNotFound
	}

	if !ch.IsApproved || !ch.IsAvailable {
		return nil, ErrChargerNotBookable
	}

	totalCost := costFor(interval, ch.PricePerHour)

	b := &Booking{
		Reference:     uuid.NewString(),
		UserID:        userID,
		ChargerID:     chargerID,
		StartTime:     start,
		EndTime:       end,
		Status:        StatusPending,
		TotalCost:     totalCost,
		PaymentStatus: PaymentPending,
		UserNotes:     userNotes,
	}

	created, err := s.repo.CreateBooking(ctx, b)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			metrics.RecordBookingConflict()
		}
		return nil, err
	}

	metrics.RecordBooking(StatusPending)
	s.notifyHost(ctx, ch, created)

	return created, nil
}

// costFor computes duration-hours times the hourly rate, exact in decimal
// arithmetic, rounded to currency precision.
func costFor(interval Interval, pricePerHour decimal.Decimal) decimal.Decimal {
	seconds := decimal.NewFromInt(int64(interval.Duration() / time.Second))
	return pricePerHour.Mul(seconds).Div(decimal.NewFromInt(3600)).Round(2)
}

// NextAvailableSlots suggests up to count free slots of slotDuration length,
// aligned to slot boundaries, starting no earlier than from and never in the
// past. Deterministic for a fixed booking snapshot.
func (s *service) NextAvailableSlots(ctx context.Context, chargerID int, from time.Time, slotDuration time.Duration, count int) ([]Interval, error) {
	if slotDuration <= 0 || count <= 0 {
		return nil, ErrInvalidRange
	}

	start := from
	if now := s.now(); start.Before(now) {
		start = now
	}
	start = ceilToBoundary(start, slotDuration)

	horizonEnd := start.Add(slotSearchHorizon)

	booked, err := s.repo.ActiveBookingsOverlapping(ctx, chargerID, start, horizonEnd)
	if err != nil {
		return nil, err
	}

	var slots []Interval
	for candidate := start; len(slots) < count && !candidate.Add(slotDuration).After(horizonEnd); candidate = candidate.Add(slotDuration) {
		iv := Interval{Start: candidate, End: candidate.Add(slotDuration)}

		free := true
		for _, b := range booked {
			if iv.Overlaps(b.Interval()) {
				free = false
				break
			}
		}

		if free {
			slots = append(slots, iv)
		}
	}

	return slots, nil
}

func ceilToBoundary(t time.Time, d time.Duration) time.Time {
	aligned := t.Truncate(d)
	if aligned.Before(t) {
		aligned = aligned.Add(d)
	}
	return aligned
}

func (s *service) CancelBooking(ctx context.Context, userID, bookingID int, reason string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	if b.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	// Both active states may be cancelled by the user; the guarded update
	// still protects against a concurrent host decision.
	updated, err := s.repo.UpdateStatus(ctx, bookingID, b.Status, StatusCancelled, reason)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	metrics.RecordBookingCancellation()
	s.notifyHostOfCancellation(ctx, updated)

	return updated, nil
}

func (s *service) AcceptBooking(ctx context.Context, hostID, bookingID int, notes string) (*Booking, error) {
	return s.hostDecision(ctx, hostID, bookingID, StatusPending, StatusConfirmed, notes, "Confirmed")
}

func (s *service) RejectBooking(ctx context.Context, hostID, bookingID int, notes string) (*Booking, error) {
	return s.hostDecision(ctx, hostID, bookingID, StatusPending, StatusRejected, notes, "Rejected")
}

func (s *service) CompleteBooking(ctx context.Context, hostID, bookingID int) (*Booking, error) {
	return s.hostDecision(ctx, hostID, bookingID, StatusConfirmed, StatusCompleted, "", "Completed")
}

func (s *service) hostDecision(ctx context.Context, hostID, bookingID int, fromStatus, toStatus, notes, decision string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ch, err := s.chargerRepo.GetByID(ctx, b.ChargerID)
	if err != nil {
		return nil, charger.ErrChargerNotFound
	}

	if ch.HostID != hostID {
		return nil, ErrNotChargerHost
	}

	updated, err := s.repo.UpdateStatus(ctx, bookingID, fromStatus, toStatus, notes)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	metrics.RecordBooking(toStatus)
	s.notifyUser(ctx, ch, updated, decision)

	return updated, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID int) ([]Booking, error) {
	return s.repo.GetUserBookings(ctx, userID)
}

func (s *service) GetBookingsByHost(ctx context.Context, hostID int) ([]BookingWithDetails, error) {
	return s.repo.GetBookingsByHost(ctx, hostID)
}

func (s *service) GetBookingsByCharger(ctx context.Context, chargerID int) ([]BookingWithDetails, error) {
	return s.repo.GetBookingsByCharger(ctx, chargerID)
}

// Notifications are best-effort; a queue failure never fails the booking.

func (s *service) notifyHost(ctx context.Context, ch *charger.Charger, b *Booking) {
	host, err := s.userRepo.FindByID(ctx, ch.HostID)
	if err != nil {
		logger.Errorf("Failed to load host %d for notification: %v", ch.HostID, err)
		return
	}
	s.emailService.SendBookingRequested(ctx, host.Email, host.FullName(), ch.Title, b.StartTime, b.EndTime)
}

func (s *service) notifyUser(ctx context.Context, ch *charger.Charger, b *Booking, decision string) {
	u, err := s.userRepo.FindByID(ctx, b.UserID)
	if err != nil {
		logger.Errorf("Failed to load user %d for notification: %v", b.UserID, err)
		return
	}
	s.emailService.SendBookingDecision(ctx, u.Email, u.FullName(), ch.Title, decision, b.StartTime)
}

func (s *service) notifyHostOfCancellation(ctx context.Context, b *Booking) {
	ch, err := s.chargerRepo.GetByID(ctx, b.ChargerID)
	if err != nil {
		return
	}
	host, err := s.userRepo.FindByID(ctx, ch.HostID)
	if err != nil {
		return
	}
	s.emailService.SendBookingCancelled(ctx, host.Email, host.FullName(), ch.Title, b.StartTime)
}
