package stores

import (
	"sync"

	"recolecta/internal/models"
)

// Observer is told about every store operation that changes, or tries to
// change, state. The metrics package implements it.
type Observer interface {
	ObserveMutation(store, op string, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveMutation(string, string, error) {}

// Option configures a store at construction.
type Option func(*options)

type options struct {
	observer  Observer
	seedUsers []models.User
	seedsSet  bool
	hashCost  int
}

// WithObserver reports mutations to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithSeedUsers replaces the static roster consulted by Login and by
// SeedFixtureData. Only the user store reads it.
func WithSeedUsers(users []models.User) Option {
	return func(opts *options) {
		opts.seedUsers = users
		opts.seedsSet = true
	}
}

// WithHashCost sets the bcrypt cost used at registration.
func WithHashCost(cost int) Option {
	return func(opts *options) {
		opts.hashCost = cost
	}
}

func buildOptions(opts []Option) options {
	o := options{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// subscribers fans a state value out to registered callbacks.
type subscribers[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)
}

func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.fns[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

func (s *subscribers[T]) publish(v T) {
	s.mu.Lock()
	fns := make([]func(T), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
