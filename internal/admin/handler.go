package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"chargerbnb/internal/auth"
	"chargerbnb/internal/charger"
	"chargerbnb/internal/report"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListUsers godoc
// @Summary      List platform users
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        role  query     string  false  "Filter by role (USER, HOST, ADMIN)"
// @Success      200  {array}   user.User
// @Failure      403  {object}  api.ErrorResponse
// @Router       /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

// ListHosts godoc
// @Summary      List hosts
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   user.User
// @Failure      403  {object}  api.ErrorResponse
// @Router       /admin/hosts [get]
func (h *Handler) ListHosts(c *gin.Context) {
	hosts, err := h.service.ListUsers(c.Request.Context(), auth.RoleHost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list hosts"})
		return
	}

	c.JSON(http.StatusOK, hosts)
}

// ListChargers godoc
// @Summary      List chargers for moderation
// @Description  Lists chargers with their derived approval state, optionally filtered by state or city.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        state  query     string  false  "Filter by state (PENDING, APPROVED, SUSPENDED)"
// @Param        city   query     string  false  "Filter by city"
// @Success      200  {array}   charger.ChargerWithState
// @Failure      403  {object}  api.ErrorResponse
// @Router       /admin/chargers [get]
func (h *Handler) ListChargers(c *gin.Context) {
	chargers, err := h.service.ListChargers(c.Request.Context(), charger.ListFilter{
		State: c.Query("state"),
		City:  c.Query("city"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list chargers"})
		return
	}

	out := make([]charger.ChargerWithState, 0, len(chargers))
	for _, ch := range chargers {
		out = append(out, charger.WithState(ch))
	}

	c.JSON(http.StatusOK, out)
}

// ApproveCharger godoc
// @Summary      Approve a charger listing
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        chargerID  path      int                true   "Charger ID"
// @Param        request    body      ModerationRequest  false  "Moderation notes"
// @Success      200  {object}  charger.ChargerWithState
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/chargers/{chargerID}/approve [patch]
func (h *Handler) ApproveCharger(c *gin.Context) {
	h.moderateCharger(c, h.service.ApproveCharger)
}

// SuspendCharger godoc
// @Summary      Suspend a charger listing
// @Description  Marks the charger unavailable; approval is revoked as a consequence and a fresh approval is required after restore.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        chargerID  path      int                true   "Charger ID"
// @Param        request    body      ModerationRequest  false  "Moderation notes"
// @Success      200  {object}  charger.ChargerWithState
// @Failure      404  {object}  api.ErrorResponse
// @Router       /admin/chargers/{chargerID}/suspend [patch]
func (h *Handler) SuspendCharger(c *gin.Context) {
	h.moderateCharger(c, h.service.SuspendCharger)
}

// ListReports godoc
// @Summary      List charger reports
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Filter by status (OPEN, RESOLVED, DISMISSED)"
// @Success      200  {array}   report.ReportWithCharger
// @Failure      403  {object}  api.ErrorResponse
// @Router       /admin/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.service.ListReports(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reports"})
		return
	}

	if reports == nil {
		reports = []report.ReportWithCharger{}
	}

	c.JSON(http.StatusOK, reports)
}

// ResolveReport godoc
// @Summary      Resolve a report
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reportID  path      int                   true   "Report ID"
// @Param        request   body      report.ResolveReportRequest  false  "Resolution notes"
// @Success      200  {object}  report.Report
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/reports/{reportID}/resolve [patch]
func (h *Handler) ResolveReport(c *gin.Context) {
	h.closeReport(c, h.service.ResolveReport)
}

// DismissReport godoc
// @Summary      Dismiss a report
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        reportID  path      int                   true   "Report ID"
// @Param        request   body      report.ResolveReportRequest  false  "Resolution notes"
// @Success      200  {object}  report.Report
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse
// @Router       /admin/reports/{reportID}/dismiss [patch]
func (h *Handler) DismissReport(c *gin.Context) {
	h.closeReport(c, h.service.DismissReport)
}

// ListActions godoc
// @Summary      List recent moderation actions
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query     int  false  "Max rows (default 100)"
// @Success      200  {array}   AdminAction
// @Failure      403  {object}  api.ErrorResponse
// @Router       /admin/actions [get]
func (h *Handler) ListActions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	actions, err := h.service.ListActions(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list actions"})
		return
	}

	if actions == nil {
		actions = []AdminAction{}
	}

	c.JSON(http.StatusOK, actions)
}

func (h *Handler) moderateCharger(c *gin.Context, moderate func(ctx context.Context, adminID, chargerID int, notes string) (*charger.Charger, error)) {
	adminID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	chargerID, err := strconv.Atoi(c.Param("chargerID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid charger ID"})
		return
	}

	var req ModerationRequest
	_ = c.ShouldBindJSON(&req)

	ch, err := moderate(c.Request.Context(), adminID, chargerID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, charger.ErrChargerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Charger not found"})
		case errors.Is(err, charger.ErrChargerSuspended):
			c.JSON(http.StatusConflict, gin.H{"error": "Suspended charger cannot be approved until the host restores availability"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Moderation failed"})
		}
		return
	}

	c.JSON(http.StatusOK, charger.WithState(*ch))
}

func (h *Handler) closeReport(c *gin.Context, close func(ctx context.Context, adminID, reportID int, notes string) (*report.Report, error)) {
	adminID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reportID, err := strconv.Atoi(c.Param("reportID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req report.ResolveReportRequest
	_ = c.ShouldBindJSON(&req)

	rp, err := close(c.Request.Context(), adminID, reportID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrReportNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		case errors.Is(err, report.ErrReportClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "Report is already closed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close report"})
		}
		return
	}

	c.JSON(http.StatusOK, rp)
}
