package review

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is raised by the reviews_booking_id_key constraint when a
// second review lands on the same booking.
const uniqueViolation = "23505"

const reviewColumns = `id, booking_id, charger_id, user_id, rating, comment, created_at`

type Repository interface {
	Create(ctx context.Context, rv *Review) (*Review, error)
	ExistsForBooking(ctx context.Context, bookingID int) (bool, error)
	ListByCharger(ctx context.Context, chargerID int) ([]ReviewWithAuthor, error)
	SummaryForCharger(ctx context.Context, chargerID int) (*RatingSummary, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rv *Review) (*Review, error) {
	query := `
		INSERT INTO reviews (booking_id, charger_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + reviewColumns

	var created Review
	err := r.db.GetContext(ctx, &created, query,
		rv.BookingID, rv.ChargerID, rv.UserID, rv.Rating, rv.Comment)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) ExistsForBooking(ctx context.Context, bookingID int) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID)
	return exists, err
}

func (r *repository) ListByCharger(ctx context.Context, chargerID int) ([]ReviewWithAuthor, error) {
	query := `
		SELECT ` + reviewColumnsPrefixed + `,
		       u.first_name || ' ' || u.last_name AS author_name
		FROM reviews r
		JOIN users u ON r.user_id = u.id
		WHERE r.charger_id = $1
		ORDER BY r.created_at DESC
	`

	var reviews []ReviewWithAuthor
	if err := r.db.SelectContext(ctx, &reviews, query, chargerID); err != nil {
		return nil, err
	}

	return reviews, nil
}

const reviewColumnsPrefixed = `r.id, r.booking_id, r.charger_id, r.user_id, r.rating, r.comment, r.created_at`

func (r *repository) SummaryForCharger(ctx context.Context, chargerID int) (*RatingSummary, error) {
	query := `
		SELECT $1::int AS charger_id,
		       COALESCE(ROUND(AVG(rating)::numeric, 1), 0) AS average_rating,
		       COUNT(*) AS review_count
		FROM reviews
		WHERE charger_id = $2
	`

	var summary RatingSummary
	if err := r.db.GetContext(ctx, &summary, query, chargerID, chargerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &RatingSummary{ChargerID: chargerID}, nil
		}
		return nil, err
	}

	return &summary, nil
}
