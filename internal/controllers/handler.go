package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recolecta/internal/latency"
	"recolecta/internal/middleware"
	"recolecta/internal/stores"
)

// Handler carries the dependencies every controller needs.
type Handler struct {
	Users    *stores.UserStore
	Requests *stores.RequestStore
	Tokens   *middleware.TokenIssuer
	Latency  *latency.Simulator
	Hub      *RequestHub

	now func() time.Time
}

func NewHandler(users *stores.UserStore, requests *stores.RequestStore, tokens *middleware.TokenIssuer, sim *latency.Simulator, hub *RequestHub) *Handler {
	return &Handler{
		Users:    users,
		Requests: requests,
		Tokens:   tokens,
		Latency:  sim,
		Hub:      hub,
		now:      time.Now,
	}
}

// wait applies the simulated delay for op. It writes the error response
// and returns false if the client went away first.
func (h *Handler) wait(c *gin.Context, op latency.Op) bool {
	if err := h.Latency.Wait(c.Request.Context(), op); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// respondError maps store and context errors to a status code.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, stores.ErrUserNotFound), errors.Is(err, stores.ErrRequestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, stores.ErrInvalidTransition),
		errors.Is(err, stores.ErrDuplicateRequest),
		errors.Is(err, stores.ErrDuplicateEmail):
		status = http.StatusConflict
	case errors.Is(err, stores.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, stores.ErrInvalidRole),
		errors.Is(err, stores.ErrPasswordTooLong),
		errors.Is(err, stores.ErrInvalidPoints),
		errors.Is(err, stores.ErrEmptyCollector):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	}

	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
	} else {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"status": status,
		}).Debug("Request rejected")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
