package charger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chargerbnb/internal/auth"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListPublic godoc
// @Summary      List approved chargers
// @Description  Lists approved and available chargers, optionally filtered by city or proximity.
// @Tags         chargers
// @Produce      json
// @Param        city       query     string  false  "City filter"
// @Param        latitude   query     number  false  "Latitude for proximity search"
// @Param        longitude  query     number  false  "Longitude for proximity search"
// @Param        radius_km  query     number  false  "Search radius in km (default 10)"
// @Success      200  {array}   ChargerWithState
// @Failure      400  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /chargers [get]
func (h *Handler) ListPublic(c *gin.Context) {
	city := c.Query("city")

	geo, err := parseGeoFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chargers, err := h.service.ListPublic(c.Request.Context(), city, geo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chargers"})
		return
	}

	out := make([]ChargerWithState, 0, len(chargers))
	for _, ch := range chargers {
		out = append(out, WithState(ch))
	}

	c.JSON(http.StatusOK, out)
}

// parseGeoFilter reads the proximity query params. The filter is only built
// when both coordinates were supplied, so (0, 0) stays searchable.
func parseGeoFilter(c *gin.Context) (*GeoFilter, error) {
	latRaw, hasLat := c.GetQuery("latitude")
	lngRaw, hasLng := c.GetQuery("longitude")
	if !hasLat && !hasLng {
		return nil, nil
	}
	if !hasLat || !hasLng {
		return nil, errors.New("latitude and longitude must be provided together")
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return nil, errors.New("invalid latitude")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil {
		return nil, errors.New("invalid longitude")
	}

	geo := &GeoFilter{Latitude: lat, Longitude: lng}
	if raw := c.Query("radius_km"); raw != "" {
		radius, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid radius_km")
		}
		geo.RadiusKm = radius
	}

	return geo, nil
}

// GetCharger godoc
// @Summary      Get charger
// @Description  Returns a single approved charger by ID.
// @Tags         chargers
// @Produce      json
// @Param        chargerID  path      int  true  "Charger ID"
// @Success      200  {object}  ChargerWithState
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /chargers/{chargerID} [get]
func (h *Handler) GetCharger(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("chargerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid charger ID"})
		return
	}

	ch, err := h.service.GetPublicByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
		return
	}

	c.JSON(http.StatusOK, WithState(*ch))
}

// CreateCharger godoc
// @Summary      Create charger listing
// @Description  Creates a new charger listing for the authenticated host. New listings start pending approval.
// @Tags         host
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateChargerRequest  true  "Charger details"
// @Success      201  {object}  ChargerWithState
// @Failure      400  {object}  api.ErrorResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /host/chargers [post]
func (h *Handler) CreateCharger(c *gin.Context) {
	hostID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateChargerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.service.Create(c.Request.Context(), hostID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price per hour"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create charger"})
		return
	}

	c.JSON(http.StatusCreated, WithState(*ch))
}

// UpdateCharger godoc
// @Summary      Update charger listing
// @Description  Updates an existing listing owned by the authenticated host.
// @Tags         host
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        chargerID  path      int                   true  "Charger ID"
// @Param        request    body      UpdateChargerRequest  true  "Fields to update"
// @Success      200  {object}  ChargerWithState
// @Failure      400  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /host/chargers/{chargerID} [put]
func (h *Handler) UpdateCharger(c *gin.Context) {
	hostID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.Atoi(c.Param("chargerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid charger ID"})
		return
	}

	var req UpdateChargerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ch, err := h.service.Update(c.Request.Context(), hostID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrChargerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "Charger does not belong to you"})
		case errors.Is(err, ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price per hour"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update charger"})
		}
		return
	}

	c.JSON(http.StatusOK, WithState(*ch))
}

// ListMyChargers godoc
// @Summary      List host's chargers
// @Tags         host
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   ChargerWithState
// @Failure      401  {object}  api.ErrorResponse
// @Failure      500  {object}  api.ErrorResponse
// @Router       /host/chargers [get]
func (h *Handler) ListMyChargers(c *gin.Context) {
	hostID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	chargers, err := h.service.ListByHost(c.Request.Context(), hostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chargers"})
		return
	}

	out := make([]ChargerWithState, 0, len(chargers))
	for _, ch := range chargers {
		out = append(out, WithState(ch))
	}

	c.JSON(http.StatusOK, out)
}
