package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"recolecta/internal/fixtures"
	"recolecta/internal/models"
	"recolecta/internal/storage"
)

// RequestStoreKey is the KV key holding the request list.
const RequestStoreKey = "request-store"

const requestStoreName = "requests"

// RequestStore owns the request list and mirrors it to a KV after every
// mutation.
type RequestStore struct {
	mu       sync.RWMutex
	notifyMu sync.Mutex
	state    RequestState
	mirror   *storage.Mirror[RequestState]
	observer Observer
	subs     subscribers[RequestState]
}

// NewRequestStore rehydrates the list persisted in kv.
func NewRequestStore(ctx context.Context, kv storage.KV, opts ...Option) (*RequestStore, error) {
	o := buildOptions(opts)
	mirror := storage.NewMirror[RequestState](kv, RequestStoreKey)

	state, err := mirror.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("stores: load requests: %w", err)
	}
	logrus.WithField("requests", len(state.Requests)).Debug("request store rehydrated")

	return &RequestStore{
		state:    state,
		mirror:   mirror,
		observer: o.observer,
	}, nil
}

// mutate applies fn to the current state, persists the result and swaps it
// in. On any error the current state is kept. Subscribers are called in
// mutation order and may read the store but must not mutate it.
func (s *RequestStore) mutate(ctx context.Context, op string, fn func(RequestState) (RequestState, error)) (RequestState, error) {
	s.mu.Lock()
	next, err := fn(s.state)
	if err == nil {
		err = s.mirror.Save(ctx, next)
	}
	if err != nil {
		s.mu.Unlock()
		s.observer.ObserveMutation(requestStoreName, op, err)
		return RequestState{}, err
	}
	s.state = next
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.subs.publish(next)
	s.notifyMu.Unlock()

	s.observer.ObserveMutation(requestStoreName, op, nil)
	return next, nil
}

func (s *RequestStore) snapshot() RequestState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn for every committed state. The returned func
// unregisters it.
func (s *RequestStore) Subscribe(fn func(RequestState)) func() {
	return s.subs.add(fn)
}

// CreateRequest appends a caller-built request.
func (s *RequestStore) CreateRequest(ctx context.Context, r models.Request) error {
	_, err := s.mutate(ctx, "create", func(st RequestState) (RequestState, error) {
		return st.Append(r)
	})
	return err
}

// CancelRequest marks a pending request cancelled.
func (s *RequestStore) CancelRequest(ctx context.Context, id string) (models.Request, error) {
	next, err := s.mutate(ctx, "cancel", func(st RequestState) (RequestState, error) {
		return st.Cancel(id)
	})
	if err != nil {
		return models.Request{}, err
	}
	r, _ := next.Find(id)
	return r, nil
}

// SetPoints overwrites the points awarded for a request.
func (s *RequestStore) SetPoints(ctx context.Context, id string, points int) (models.Request, error) {
	next, err := s.mutate(ctx, "set_points", func(st RequestState) (RequestState, error) {
		return st.WithPoints(id, points)
	})
	if err != nil {
		return models.Request{}, err
	}
	r, _ := next.Find(id)
	return r, nil
}

// SetCollector assigns collectorID and moves the request to assigned.
func (s *RequestStore) SetCollector(ctx context.Context, id, collectorID string) (models.Request, error) {
	next, err := s.mutate(ctx, "set_collector", func(st RequestState) (RequestState, error) {
		return st.WithCollector(id, collectorID)
	})
	if err != nil {
		return models.Request{}, err
	}
	r, _ := next.Find(id)
	return r, nil
}

// SeedFixtureData replaces the list with the bundled demonstration requests.
func (s *RequestStore) SeedFixtureData(ctx context.Context) ([]models.Request, error) {
	seeds, err := fixtures.Requests()
	if err != nil {
		return nil, err
	}
	next, err := s.mutate(ctx, "seed", func(RequestState) (RequestState, error) {
		return RequestState{Requests: seeds}, nil
	})
	if err != nil {
		return nil, err
	}
	return next.clone(), nil
}

// ListPending returns requests with status pending and no collector.
func (s *RequestStore) ListPending() []models.Request {
	return s.snapshot().Pending()
}

// Requests returns a copy of the whole list.
func (s *RequestStore) Requests() []models.Request {
	return s.snapshot().clone()
}

// FindRequest looks a request up by id.
func (s *RequestStore) FindRequest(id string) (models.Request, bool) {
	return s.snapshot().Find(id)
}

// ListForUser returns userID's requests matching filter.
func (s *RequestStore) ListForUser(userID string, filter RequestFilter) []models.Request {
	return s.snapshot().ForUser(userID, filter)
}

// StatusCounts tallies userID's requests per status.
func (s *RequestStore) StatusCounts(userID string) map[models.Status]int {
	return s.snapshot().StatusCounts(userID)
}
