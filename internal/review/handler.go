package review

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chargerbnb/internal/auth"
	"chargerbnb/internal/booking"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreateReview godoc
// @Summary      Review a completed booking
// @Description  Creates one review per completed booking, written by the booking user.
// @Tags         reviews
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateReviewRequest  true  "Review details"
// @Success      201  {object}  Review
// @Failure      400  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rv, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrNotBookingUser):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the booking user can review"})
		case errors.Is(err, ErrBookingNotCompleted):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only completed bookings can be reviewed"})
		case errors.Is(err, ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking already reviewed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, rv)
}

// ListChargerReviews godoc
// @Summary      List reviews for a charger
// @Tags         reviews
// @Produce      json
// @Param        chargerID  path      int  true  "Charger ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /chargers/{chargerID}/reviews [get]
func (h *Handler) ListChargerReviews(c *gin.Context) {
	chargerID, err := strconv.Atoi(c.Param("chargerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid charger ID"})
		return
	}

	reviews, err := h.service.ListByCharger(c.Request.Context(), chargerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reviews"})
		return
	}

	summary, err := h.service.SummaryForCharger(c.Request.Context(), chargerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load rating summary"})
		return
	}

	if reviews == nil {
		reviews = []ReviewWithAuthor{}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"reviews": reviews,
	})
}
