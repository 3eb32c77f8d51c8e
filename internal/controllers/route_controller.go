package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	gjson "github.com/twpayne/go-geom/encoding/geojson"

	"recolecta/internal/catalog"
	"recolecta/internal/latency"
	"recolecta/internal/middleware"
	"recolecta/internal/models"
	"recolecta/internal/stores"
)

// PendingStop is a request waiting for a collector, with the centroid of
// its locality so the route view can place it on a map.
type PendingStop struct {
	models.Request
	Location *gjson.Geometry `json:"location,omitempty"`
}

func toPendingStop(r models.Request) PendingStop {
	stop := PendingStop{Request: r}
	if loc, ok := catalog.Lookup(r.Locality); ok {
		g, err := gjson.Encode(loc.Centroid)
		if err != nil {
			logrus.WithError(err).WithField("locality", r.Locality).Warn("Could not encode locality centroid")
			return stop
		}
		stop.Location = g
	}
	return stop
}

type assignInput struct {
	RequestID   string `json:"requestId" binding:"required"`
	CollectorID string `json:"collectorId" binding:"required"`
}

// ListPending returns requests that can still be assigned.
func (h *Handler) ListPending(c *gin.Context) {
	pending := h.Requests.ListPending()
	stops := make([]PendingStop, 0, len(pending))
	for _, r := range pending {
		stops = append(stops, toPendingStop(r))
	}
	c.JSON(http.StatusOK, gin.H{"data": stops})
}

func (h *Handler) ListCollectors(c *gin.Context) {
	if !h.wait(c, latency.OpCollectors) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": prepareUsersResponse(h.Users.ListCollectors())})
}

// AssignCollector attaches a collector to a pending request. The collector
// must be a roster entry with the collector role.
func (h *Handler) AssignCollector(c *gin.Context) {
	var input assignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collector, ok := h.Users.FindUser(input.CollectorID)
	if !ok {
		respondError(c, fmt.Errorf("%w: %s", stores.ErrUserNotFound, input.CollectorID))
		return
	}
	if collector.Role != models.RoleCollector {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is not a collector"})
		return
	}
	if !h.wait(c, latency.OpAssign) {
		return
	}

	updated, err := h.Requests.SetCollector(c.Request.Context(), input.RequestID, input.CollectorID)
	if err != nil {
		respondError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"request_id":   updated.ID,
		"collector_id": collector.ID,
		"by":           middleware.UserIDFrom(c),
	}).Info("Collector assigned")
	c.JSON(http.StatusOK, gin.H{"data": updated})
}
