package report

import (
	"errors"
	"net/http"

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

// CreateReport godoc
// @Summary      Report a charger
// @Description  Files a problem report against a listing. Reports are reviewed by admins.
// @Tags         reports
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateReportRequest  true  "Report details"
// @Success      201  {object}  Report
// @Failure      400  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rp, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, charger.ErrChargerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
		case errors.Is(err, ErrOwnCharger):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot report your own charger"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		}
		return
	}

	c.JSON(http.StatusCreated, rp)
}
