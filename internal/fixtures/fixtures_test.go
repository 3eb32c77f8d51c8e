package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recolecta/internal/models"
)

func TestUsers_AreWellFormed(t *testing.T) {
	users, err := Users()
	require.NoError(t, err)
	require.NotEmpty(t, users)

	ids := map[string]bool{}
	emails := map[string]bool{}
	for _, u := range users {
		assert.NotEmpty(t, u.ID)
		assert.True(t, u.Role.Valid(), "user %s has role %q", u.ID, u.Role)
		assert.False(t, ids[u.ID], "duplicate id %s", u.ID)
		assert.False(t, emails[u.Email], "duplicate email %s", u.Email)
		ids[u.ID] = true
		emails[u.Email] = true
	}
}

func TestRequests_AreWellFormed(t *testing.T) {
	requests, err := Requests()
	require.NoError(t, err)
	require.NotEmpty(t, requests)

	for _, r := range requests {
		assert.True(t, r.Status.Valid(), "request %s has status %q", r.ID, r.Status)
		assert.True(t, r.WasteType.Valid(), "request %s has waste type %q", r.ID, r.WasteType)
		if r.Status == models.StatusAssigned {
			assert.NotEmpty(t, r.CollectorID)
		}
	}
}

func TestUsers_ReturnsIndependentCopies(t *testing.T) {
	a := MustUsers()
	a[0].Role = models.RoleCollector

	b := MustUsers()
	assert.NotEqual(t, a[0].Role, b[0].Role)
}
