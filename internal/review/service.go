package review

import (
	"context"
	"errors"

	"chargerbnb/internal/booking"
)

var (
	ErrBookingNotCompleted = errors.New("booking is not completed")
	ErrNotBookingUser      = errors.New("only the booking user can review")
	ErrAlreadyReviewed     = errors.New("booking already reviewed")
)

type Service interface {
	Create(ctx context.Context, userID int, req CreateReviewRequest) (*Review, error)
	ListByCharger(ctx context.Context, chargerID int) ([]ReviewWithAuthor, error)
	SummaryForCharger(ctx context.Context, chargerID int) (*RatingSummary, error)
}

type service struct {
	repo        Repository
	bookingRepo booking.Repository
}

func NewService(repo Repository, bookingRepo booking.Repository) Service {
	return &service{repo: repo, bookingRepo: bookingRepo}
}

// Create allows one review per completed booking, written by the user who
// made the booking.
func (s *service) Create(ctx context.Context, userID int, req CreateReviewRequest) (*Review, error) {
	b, err := s.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	if b.UserID != userID {
		return nil, ErrNotBookingUser
	}

	if b.Status != booking.StatusCompleted {
		return nil, ErrBookingNotCompleted
	}

	reviewed, err := s.repo.ExistsForBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, ErrAlreadyReviewed
	}

	return s.repo.Create(ctx, &Review{
		BookingID: req.BookingID,
		ChargerID: b.ChargerID,
		UserID:    userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
}

func (s *service) ListByCharger(ctx context.Context, chargerID int) ([]ReviewWithAuthor, error) {
	return s.repo.ListByCharger(ctx, chargerID)
}

func (s *service) SummaryForCharger(ctx context.Context, chargerID int) (*RatingSummary, error) {
	return s.repo.SummaryForCharger(ctx, chargerID)
}
