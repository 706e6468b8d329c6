package booking

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"chargerbnb/internal/auth"
	"chargerbnb/internal/charger"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func parseTimeParam(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func conflictBody(conflict *ConflictError) gin.H {
	return gin.H{
		"error":     "Requested time range is already booked",
		"conflicts": conflict.Conflicts,
	}
}

// CheckAvailability godoc
// @Summary      Check charger availability
// @Description  Reports whether the half-open range [start, end) is free, and which bookings conflict if not. Advisory only; booking creation re-checks atomically.
// @Tags         bookings
// @Produce      json
// @Param        chargerID  path      int     true  "Charger ID"
// @Param        start      query     string  true  "Range start (RFC3339)"
// @Param        end        query     string  true  "Range end (RFC3339)"
// @Success      200  {object}  Availability
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /chargers/{chargerID}/availability [get]
func (h *Handler) CheckAvailability(c *gin.Context) {
	chargerID, err := strconv.Atoi(c.Param("chargerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid charger ID"})
		return
	}

	start, err := parseTimeParam(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start time"})
		return
	}

	end, err := parseTimeParam(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end time"})
		return
	}

	availability, err := h.service.CheckAvailability(c.Request.Context(), chargerID, start, end)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	c.JSON(http.StatusOK, availability)
}

// NextAvailableSlots godoc
// @Summary      Suggest free slots
// @Description  Returns up to count free slots of the requested duration, starting from the given time.
// @Tags         bookings
// @Produce      json
// @Param        chargerID  path      int     true   "Charger ID"
// @Param        from       query     string  false  "Search start (RFC3339, default now)"
// @Param        duration   query     string  false  "Slot duration (Go duration, default 1h)"
// @Param        count      query     int     false  "Max slots to return (default 5)"
// @Success      200  {array}   Interval
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /chargers/{chargerID}/slots [get]
func (h *Handler) NextAvailableSlots(c *gin.Context) {
	chargerID, err := strconv.Atoi(c.Param("chargerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid charger ID"})
		return
	}

	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		from, err = parseTimeParam(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from time"})
			return
		}
	}

	slotDuration := time.Hour
	if raw := c.Query("duration"); raw != "" {
		slotDuration, err = time.ParseDuration(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid duration"})
			return
		}
	}

	count := 5
	if raw := c.Query("count"); raw != "" {
		count, err = strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid count"})
			return
		}
	}

	slots, err := h.service.NextAvailableSlots(c.Request.Context(), chargerID, from, slotDuration, count)
	if err != nil {
		if errors.Is(err, ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Duration and count must be positive"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find slots"})
		return
	}

	if slots == nil {
		slots = []Interval{}
	}

	c.JSON(http.StatusOK, slots)
}

// CreateBooking godoc
// @Summary      Create booking
// @Description  Books the half-open range [start, end) on a charger. The overlap check and insert run atomically; conflicting requests receive 409 with the overlapping ranges.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Booking details"
// @Success      201  {object}  Booking
// @Failure      400  {object}  api.ErrorResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ConflictResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseTimeParam(req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start time"})
		return
	}

	end, err := parseTimeParam(req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end time"})
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), userID, req.ChargerID, start, end, req.UserNotes)
	if err != nil {
		var conflict *ConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, conflictBody(conflict))
		case errors.Is(err, ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "End time must be after start time"})
		case errors.Is(err, ErrStartInPast):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot book in the past"})
		case errors.Is(err, charger.ErrChargerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
		case errors.Is(err, ErrChargerNotBookable):
			c.JSON(http.StatusConflict, gin.H{"error": "Charger is not available for booking"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, b)
}

// ListMyBookings godoc
// @Summary      List current user's bookings
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Booking
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.service.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels one of the current user's active bookings.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                   true   "Booking ID"
// @Param        request    body      CancelBookingRequest  false  "Cancellation reason"
// @Success      200  {object}  Booking
// @Failure      400  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	b, err := h.service.CancelBooking(c.Request.Context(), userID, bookingID, req.Reason)
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// AcceptBooking godoc
// @Summary      Accept booking request
// @Tags         host
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                  true   "Booking ID"
// @Param        request    body      HostDecisionRequest  false  "Host notes"
// @Success      200  {object}  Booking
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /host/bookings/{bookingID}/accept [patch]
func (h *Handler) AcceptBooking(c *gin.Context) {
	h.hostDecision(c, h.service.AcceptBooking)
}

// RejectBooking godoc
// @Summary      Reject booking request
// @Tags         host
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                  true   "Booking ID"
// @Param        request    body      HostDecisionRequest  false  "Host notes"
// @Success      200  {object}  Booking
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /host/bookings/{bookingID}/reject [patch]
func (h *Handler) RejectBooking(c *gin.Context) {
	h.hostDecision(c, h.service.RejectBooking)
}

// CompleteBooking godoc
// @Summary      Mark booking completed
// @Tags         host
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200  {object}  Booking
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /host/bookings/{bookingID}/complete [patch]
func (h *Handler) CompleteBooking(c *gin.Context) {
	hostID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	b, err := h.service.CompleteBooking(c.Request.Context(), hostID, bookingID)
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// ListHostBookings godoc
// @Summary      List bookings across the host's chargers
// @Tags         host
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithDetails
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /host/bookings [get]
func (h *Handler) ListHostBookings(c *gin.Context) {
	hostID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.service.GetBookingsByHost(c.Request.Context(), hostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *Handler) hostDecision(c *gin.Context, decide func(ctx context.Context, hostID, bookingID int, notes string) (*Booking, error)) {
	hostID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req HostDecisionRequest
	_ = c.ShouldBindJSON(&req)

	b, err := decide(c.Request.Context(), hostID, bookingID, req.HostNotes)
	if err != nil {
		h.respondLifecycleError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

func (h *Handler) respondLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, charger.ErrChargerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
	case errors.Is(err, ErrNotBookingOwner), errors.Is(err, ErrNotChargerHost):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking is not in a state that allows this action"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
	}
}
