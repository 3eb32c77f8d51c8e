package stores

import (
	"fmt"

	"recolecta/internal/models"
)

// RequestState is the persisted request list. Methods never modify the
// receiver; mutations return a new value sharing no slice memory with the
// old one.
type RequestState struct {
	Requests []models.Request `json:"requests"`
}

// RequestFilter narrows a request listing. Zero fields match everything.
type RequestFilter struct {
	Status    models.Status
	WasteType models.WasteType
}

func (f RequestFilter) matches(r models.Request) bool {
	if f.Status != "" && r.Status != f.Status {
		return false
	}
	if f.WasteType != "" && r.WasteType != f.WasteType {
		return false
	}
	return true
}

func (s RequestState) clone() []models.Request {
	out := make([]models.Request, len(s.Requests))
	copy(out, s.Requests)
	return out
}

func (s RequestState) indexOf(id string) int {
	for i := range s.Requests {
		if s.Requests[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the request with the given id.
func (s RequestState) Find(id string) (models.Request, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Requests[i], true
	}
	return models.Request{}, false
}

// Append adds r at the end. The record is stored as given.
func (s RequestState) Append(r models.Request) (RequestState, error) {
	if s.indexOf(r.ID) >= 0 {
		return s, fmt.Errorf("%w: %s", ErrDuplicateRequest, r.ID)
	}
	next := make([]models.Request, len(s.Requests), len(s.Requests)+1)
	copy(next, s.Requests)
	return RequestState{Requests: append(next, r)}, nil
}

// Cancel moves a pending request to cancelled. Cancelling a cancelled
// request is a no-op.
func (s RequestState) Cancel(id string) (RequestState, error) {
	return s.update(id, func(r *models.Request) error {
		switch r.Status {
		case models.StatusCancelled:
			return nil
		case models.StatusPending:
			r.Status = models.StatusCancelled
			return nil
		default:
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, models.StatusCancelled)
		}
	})
}

// WithPoints overwrites the awarded points.
func (s RequestState) WithPoints(id string, points int) (RequestState, error) {
	if points < 0 {
		return s, ErrInvalidPoints
	}
	return s.update(id, func(r *models.Request) error {
		r.Points = points
		return nil
	})
}

// WithCollector assigns a collector and moves the request to assigned.
func (s RequestState) WithCollector(id, collectorID string) (RequestState, error) {
	if collectorID == "" {
		return s, ErrEmptyCollector
	}
	return s.update(id, func(r *models.Request) error {
		if !r.Assignable() {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, models.StatusAssigned)
		}
		r.CollectorID = collectorID
		r.Status = models.StatusAssigned
		return nil
	})
}

func (s RequestState) update(id string, fn func(*models.Request) error) (RequestState, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrRequestNotFound, id)
	}
	next := s.clone()
	if err := fn(&next[i]); err != nil {
		return s, err
	}
	return RequestState{Requests: next}, nil
}

// Pending returns requests waiting for a collector, in insertion order.
func (s RequestState) Pending() []models.Request {
	out := []models.Request{}
	for _, r := range s.Requests {
		if r.Assignable() {
			out = append(out, r)
		}
	}
	return out
}

// ForUser returns the requests owned by userID that pass the filter.
func (s RequestState) ForUser(userID string, filter RequestFilter) []models.Request {
	out := []models.Request{}
	for _, r := range s.Requests {
		if r.UserID == userID && filter.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// StatusCounts tallies the requests owned by userID per status. Every
// status is present in the result.
func (s RequestState) StatusCounts(userID string) map[models.Status]int {
	counts := make(map[models.Status]int, len(models.Statuses))
	for _, st := range models.Statuses {
		counts[st] = 0
	}
	for _, r := range s.Requests {
		if r.UserID == userID {
			counts[r.Status]++
		}
	}
	return counts
}
