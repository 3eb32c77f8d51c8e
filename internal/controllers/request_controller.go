package controllers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"recolecta/internal/catalog"
	"recolecta/internal/latency"
	"recolecta/internal/middleware"
	"recolecta/internal/models"
	"recolecta/internal/stores"
)

type scheduleInput struct {
	Date      string           `json:"date" binding:"required"`
	TimeSlot  string           `json:"timeSlot" binding:"required"`
	Locality  string           `json:"locality" binding:"required"`
	Address   string           `json:"address" binding:"required"`
	WasteType models.WasteType `json:"wasteType" binding:"required,oneof=organic inorganic hazardous"`
}

// validate checks the fields binding tags cannot express and returns the
// canonical locality name.
func (in scheduleInput) validate(today time.Time) (string, error) {
	loc, ok := catalog.Lookup(in.Locality)
	if !ok {
		return "", fmt.Errorf("unknown locality %q", in.Locality)
	}
	if strings.TrimSpace(in.Address) == "" {
		return "", fmt.Errorf("address is required")
	}
	if !slices.Contains(models.TimeSlots, in.TimeSlot) {
		return "", fmt.Errorf("timeSlot must be one of %s", strings.Join(models.TimeSlots, ", "))
	}
	day, err := time.ParseInLocation(models.DateLayout, in.Date, today.Location())
	if err != nil {
		return "", fmt.Errorf("date must use YYYY-MM-DD")
	}
	if day.Before(today) {
		return "", fmt.Errorf("date must not be in the past")
	}
	return loc.Name, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ScheduleRequest creates a pending request owned by the caller.
func (h *Handler) ScheduleRequest(c *gin.Context) {
	var input scheduleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	locality, err := input.validate(startOfDay(h.now()))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := models.Request{
		ID:        "r-" + uuid.NewString(),
		UserID:    middleware.UserIDFrom(c),
		Date:      input.Date,
		TimeSlot:  input.TimeSlot,
		Locality:  locality,
		Address:   strings.TrimSpace(input.Address),
		WasteType: input.WasteType,
		Status:    models.StatusPending,
	}
	if err := h.Requests.CreateRequest(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"request_id": req.ID,
		"user_id":    req.UserID,
		"locality":   req.Locality,
	}).Info("Pickup scheduled")
	c.JSON(http.StatusCreated, gin.H{"data": req})
}

// ListRequests is the caller's history, optionally narrowed by status and
// waste type, with per-status counts over the whole history.
func (h *Handler) ListRequests(c *gin.Context) {
	filter := stores.RequestFilter{
		Status:    models.Status(c.Query("status")),
		WasteType: models.WasteType(c.Query("type")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
		return
	}
	if filter.WasteType != "" && !filter.WasteType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type filter"})
		return
	}
	if !h.wait(c, latency.OpHistory) {
		return
	}

	userID := middleware.UserIDFrom(c)
	c.JSON(http.StatusOK, gin.H{
		"data":   h.Requests.ListForUser(userID, filter),
		"counts": h.Requests.StatusCounts(userID),
	})
}

// CancelRequest is allowed for the owner and for admins.
func (h *Handler) CancelRequest(c *gin.Context) {
	id := c.Param("id")
	req, ok := h.Requests.FindRequest(id)
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", stores.ErrRequestNotFound, id))
		return
	}
	if req.UserID != middleware.UserIDFrom(c) && middleware.RoleFrom(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	updated, err := h.Requests.CancelRequest(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"request_id": id,
		"by":         middleware.UserIDFrom(c),
	}).Info("Pickup cancelled")
	c.JSON(http.StatusOK, gin.H{"data": updated})
}
