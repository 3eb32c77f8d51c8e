package stores

import (
	"fmt"
	"strings"

	"recolecta/internal/models"
)

// UserState is the session plus roster. LoginError and RegisterError hold
// the last failure message for display and are not persisted.
type UserState struct {
	IsAuthenticated bool          `json:"isAuthenticated"`
	User            *models.User  `json:"user"`
	Users           []models.User `json:"users"`

	LoginError    string `json:"-"`
	RegisterError string `json:"-"`
}

// UserFilter narrows a roster search. Zero fields match everything.
type UserFilter struct {
	Search string
	Role   models.Role
}

func (f UserFilter) matches(u models.User) bool {
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(u.FirstName), q) ||
		strings.Contains(strings.ToLower(u.LastName), q) ||
		strings.Contains(strings.ToLower(u.Email), q) ||
		strings.Contains(u.IDNumber, f.Search)
}

func (s UserState) cloneUsers() []models.User {
	out := make([]models.User, len(s.Users))
	copy(out, s.Users)
	return out
}

func (s UserState) indexOf(id string) int {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

// OwnedBy reports whether the session is authenticated as userID.
func (s UserState) OwnedBy(userID string) bool {
	return s.IsAuthenticated && s.User != nil && userID != "" && s.User.ID == userID
}

// Find returns the roster entry with the given id.
func (s UserState) Find(id string) (models.User, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.Users[i], true
	}
	return models.User{}, false
}

// HasEmail reports whether any roster entry uses email, ignoring case.
func (s UserState) HasEmail(email string) bool {
	return emailTaken(s.Users, email)
}

func emailTaken(users []models.User, email string) bool {
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// Register appends u to the roster.
func (s UserState) Register(u models.User) (UserState, error) {
	if s.HasEmail(u.Email) {
		return s, fmt.Errorf("%w: %s", ErrDuplicateEmail, u.Email)
	}
	next := s
	next.Users = append(s.cloneUsers(), u)
	next.RegisterError = ""
	return next, nil
}

// Authenticate opens a session for u.
func (s UserState) Authenticate(u models.User) UserState {
	next := s
	next.IsAuthenticated = true
	next.User = &u
	next.LoginError = ""
	return next
}

// Logout clears the session and any error messages. The roster is kept.
func (s UserState) Logout() UserState {
	return UserState{Users: s.Users}
}

// WithRole replaces the role of one roster entry.
func (s UserState) WithRole(id string, role models.Role) (UserState, error) {
	if !role.Valid() {
		return s, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	i := s.indexOf(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	next := s
	next.Users = s.cloneUsers()
	next.Users[i].Role = role
	return next, nil
}

// Merge appends the seeds whose id is not yet in the roster.
func (s UserState) Merge(seeds []models.User) UserState {
	next := s
	next.Users = s.cloneUsers()
	for _, u := range seeds {
		if s.indexOf(u.ID) < 0 {
			next.Users = append(next.Users, u)
		}
	}
	return next
}

// Collectors returns roster entries with the collector role.
func (s UserState) Collectors() []models.User {
	return s.Search(UserFilter{Role: models.RoleCollector})
}

// Search returns roster entries matching filter, in roster order.
func (s UserState) Search(filter UserFilter) []models.User {
	out := []models.User{}
	for _, u := range s.Users {
		if filter.matches(u) {
			out = append(out, u)
		}
	}
	return out
}

// RoleCounts tallies the roster per role. Every role is present.
func (s UserState) RoleCounts() map[models.Role]int {
	counts := make(map[models.Role]int, len(models.Roles))
	for _, r := range models.Roles {
		counts[r] = 0
	}
	for _, u := range s.Users {
		counts[u.Role]++
	}
	return counts
}
