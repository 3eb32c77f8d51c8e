package stores

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"recolecta/internal/fixtures"
	"recolecta/internal/models"
	"recolecta/internal/storage"
)

// UserStoreKey is the KV key holding the session and roster.
const UserStoreKey = "residuos-auth-storage"

const userStoreName = "users"

// UserStore owns the session and the roster and mirrors both to a KV after
// every mutation.
type UserStore struct {
	mu       sync.RWMutex
	notifyMu sync.Mutex
	state    UserState
	seeds    []models.User
	hashCost int
	mirror   *storage.Mirror[UserState]
	observer Observer
	subs     subscribers[UserState]
}

// NewUserStore rehydrates the session and roster persisted in kv. Unless
// WithSeedUsers is given, the bundled fixture users form the static seed
// set consulted by Login.
func NewUserStore(ctx context.Context, kv storage.KV, opts ...Option) (*UserStore, error) {
	o := buildOptions(opts)
	seeds := o.seedUsers
	if !o.seedsSet {
		var err error
		if seeds, err = fixtures.Users(); err != nil {
			return nil, err
		}
	}

	mirror := storage.NewMirror[UserState](kv, UserStoreKey)
	state, err := mirror.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("stores: load users: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"users":         len(state.Users),
		"authenticated": state.IsAuthenticated,
	}).Debug("user store rehydrated")

	return &UserStore{
		state:    state,
		seeds:    seeds,
		hashCost: o.hashCost,
		mirror:   mirror,
		observer: o.observer,
	}, nil
}

// mutate mirrors RequestStore.mutate. When fn fails, onErr may still record
// a message in the in-memory state; that change is not persisted.
func (s *UserStore) mutate(ctx context.Context, op string, fn func(UserState) (UserState, error), onErr func(UserState) UserState) (UserState, error) {
	s.mu.Lock()
	next, err := fn(s.state)
	if err == nil {
		err = s.mirror.Save(ctx, next)
	}
	if err != nil {
		if onErr != nil {
			s.state = onErr(s.state)
		}
		s.mu.Unlock()
		s.observer.ObserveMutation(userStoreName, op, err)
		return UserState{}, err
	}
	s.state = next
	s.notifyMu.Lock()
	s.mu.Unlock()

	s.subs.publish(next)
	s.notifyMu.Unlock()

	s.observer.ObserveMutation(userStoreName, op, nil)
	return next, nil
}

func (s *UserStore) snapshot() UserState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn for every committed state.
func (s *UserStore) Subscribe(fn func(UserState)) func() {
	return s.subs.add(fn)
}

// Login looks for a roster entry, then a seed entry, whose email (ignoring
// case, as registration does) and password both match. Unknown email and wrong password are reported the
// same way.
func (s *UserStore) Login(ctx context.Context, email, password string) (models.User, error) {
	var matched models.User
	_, err := s.mutate(ctx, "login", func(st UserState) (UserState, error) {
		for _, candidates := range [][]models.User{st.Users, s.seeds} {
			for _, u := range candidates {
				if strings.EqualFold(u.Email, email) && passwordMatches(u.Password, password) {
					matched = u
					return st.Authenticate(u), nil
				}
			}
		}
		return st, ErrInvalidCredentials
	}, func(st UserState) UserState {
		st.LoginError = LoginErrorMessage
		return st
	})
	if err != nil {
		return models.User{}, err
	}
	return matched, nil
}

// Logout clears the session.
func (s *UserStore) Logout(ctx context.Context) error {
	_, err := s.mutate(ctx, "logout", func(st UserState) (UserState, error) {
		return st.Logout(), nil
	}, nil)
	return err
}

// EndSession clears the session only if it belongs to userID and reports
// whether it did. Anyone else's session is left alone.
func (s *UserStore) EndSession(ctx context.Context, userID string) (bool, error) {
	if !s.snapshot().OwnedBy(userID) {
		return false, nil
	}
	ended := false
	_, err := s.mutate(ctx, "logout", func(st UserState) (UserState, error) {
		if !st.OwnedBy(userID) {
			return st, nil
		}
		ended = true
		return st.Logout(), nil
	}, nil)
	if err != nil {
		return false, err
	}
	return ended, nil
}

// Register creates a user from profile. Role is always user and points are
// always zero, whatever the profile says. The new user is not logged in.
func (s *UserStore) Register(ctx context.Context, profile models.Profile) (models.User, error) {
	if emailTaken(s.seeds, profile.Email) {
		s.recordRegisterError()
		s.observer.ObserveMutation(userStoreName, "register", ErrDuplicateEmail)
		return models.User{}, fmt.Errorf("%w: %s", ErrDuplicateEmail, profile.Email)
	}

	if len(profile.Password) > maxPasswordBytes {
		s.recordRegisterError()
		s.observer.ObserveMutation(userStoreName, "register", ErrPasswordTooLong)
		return models.User{}, ErrPasswordTooLong
	}

	hash, err := hashPassword(profile.Password, s.hashCost)
	if err != nil {
		s.recordRegisterError()
		return models.User{}, fmt.Errorf("stores: hash password: %w", err)
	}

	user := models.User{
		ID:        uuid.NewString(),
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		IDType:    profile.IDType,
		IDNumber:  profile.IDNumber,
		Address:   profile.Address,
		PhoneCode: profile.PhoneCode,
		Phone:     profile.Phone,
		Points:    0,
		Email:     profile.Email,
		Password:  hash,
		Role:      models.RoleUser,
	}

	_, err = s.mutate(ctx, "register", func(st UserState) (UserState, error) {
		return st.Register(user)
	}, func(st UserState) UserState {
		st.RegisterError = RegisterErrorMessage
		return st
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (s *UserStore) recordRegisterError() {
	s.mu.Lock()
	s.state.RegisterError = RegisterErrorMessage
	s.mu.Unlock()
}

// UpdateUserRole replaces the role of one roster entry.
func (s *UserStore) UpdateUserRole(ctx context.Context, userID string, role models.Role) (models.User, error) {
	next, err := s.mutate(ctx, "update_role", func(st UserState) (UserState, error) {
		return st.WithRole(userID, role)
	}, nil)
	if err != nil {
		return models.User{}, err
	}
	u, _ := next.Find(userID)
	return u, nil
}

// SeedFixtureData adds the seed users missing from the roster and returns
// the seed set.
func (s *UserStore) SeedFixtureData(ctx context.Context) ([]models.User, error) {
	seeds := make([]models.User, len(s.seeds))
	copy(seeds, s.seeds)
	if _, err := s.mutate(ctx, "seed", func(st UserState) (UserState, error) {
		return st.Merge(seeds), nil
	}, nil); err != nil {
		return nil, err
	}
	return seeds, nil
}

// ListCollectors returns roster entries with the collector role.
func (s *UserStore) ListCollectors() []models.User {
	return s.snapshot().Collectors()
}

// Session returns a copy of the current state, including the last error
// messages.
func (s *UserStore) Session() UserState {
	st := s.snapshot()
	st.Users = st.cloneUsers()
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Users returns a copy of the roster.
func (s *UserStore) Users() []models.User {
	return s.snapshot().cloneUsers()
}

// FindUser looks a roster entry up by id.
func (s *UserStore) FindUser(id string) (models.User, bool) {
	return s.snapshot().Find(id)
}

// RoleOf returns the current role of a roster entry, falling back to the
// seed set for accounts that logged in without being seeded.
func (s *UserStore) RoleOf(id string) (models.Role, bool) {
	if u, ok := s.snapshot().Find(id); ok {
		return u.Role, true
	}
	for _, u := range s.seeds {
		if u.ID == id {
			return u.Role, true
		}
	}
	return "", false
}

// SearchUsers returns roster entries matching filter.
func (s *UserStore) SearchUsers(filter UserFilter) []models.User {
	return s.snapshot().Search(filter)
}

// RoleCounts tallies the roster per role.
func (s *UserStore) RoleCounts() map[models.Role]int {
	return s.snapshot().RoleCounts()
}
