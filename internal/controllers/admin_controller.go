package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recolecta/internal/latency"
	"recolecta/internal/middleware"
	"recolecta/internal/models"
	"recolecta/internal/stores"
)

type roleInput struct {
	Role models.Role `json:"role" binding:"required"`
}

type pointsInput struct {
	Points *int `json:"points" binding:"required"`
}

// ListUsers searches the roster by name, email or id number and by role.
func (h *Handler) ListUsers(c *gin.Context) {
	filter := stores.UserFilter{
		Search: c.Query("search"),
		Role:   models.Role(c.Query("role")),
	}
	if filter.Role != "" && !filter.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role filter"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":   prepareUsersResponse(h.Users.SearchUsers(filter)),
		"counts": h.Users.RoleCounts(),
	})
}

func (h *Handler) UpdateUserRole(c *gin.Context) {
	var input roleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.wait(c, latency.OpRoleChange) {
		return
	}

	user, err := h.Users.UpdateUserRole(c.Request.Context(), c.Param("id"), input.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    user.Role,
		"by":      middleware.UserIDFrom(c),
	}).Info("Role updated")
	c.JSON(http.StatusOK, gin.H{"user": prepareUserResponse(user)})
}

func (h *Handler) SetPoints(c *gin.Context) {
	var input pointsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.Requests.SetPoints(c.Request.Context(), c.Param("id"), *input.Points)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (h *Handler) SeedUsers(c *gin.Context) {
	seeds, err := h.Users.SeedFixtureData(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithField("count", len(seeds)).Info("User fixtures loaded")
	c.JSON(http.StatusOK, gin.H{"data": prepareUsersResponse(seeds)})
}

func (h *Handler) SeedRequests(c *gin.Context) {
	seeds, err := h.Requests.SeedFixtureData(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithField("count", len(seeds)).Info("Request fixtures loaded")
	c.JSON(http.StatusOK, gin.H{"data": seeds})
}
