package review

import "time"

type Review struct {
	ID        int       `db:"id" json:"id"`
	BookingID int       `db:"booking_id" json:"booking_id"`
	ChargerID int       `db:"charger_id" json:"charger_id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Rating    int       `db:"rating" json:"rating"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type ReviewWithAuthor struct {
	Review
	AuthorName string `db:"author_name" json:"author_name"`
}

type CreateReviewRequest struct {
	BookingID int    `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

// RatingSummary aggregates a charger's reviews for the public listing.
type RatingSummary struct {
	ChargerID     int     `db:"charger_id" json:"charger_id"`
	AverageRating float64 `db:"average_rating" json:"average_rating"`
	ReviewCount   int     `db:"review_count" json:"review_count"`
}
