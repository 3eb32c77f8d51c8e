// Package fixtures holds the demonstration users and requests bundled with
// the binary.
package fixtures

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"recolecta/internal/models"
)

var (
	//go:embed users.json
	usersJSON []byte
	//go:embed requests.json
	requestsJSON []byte
)

// Users decodes a fresh copy of the seed roster on every call.
func Users() ([]models.User, error) {
	var users []models.User
	if err := json.Unmarshal(usersJSON, &users); err != nil {
		return nil, fmt.Errorf("fixtures: decode users: %w", err)
	}
	return users, nil
}

// Requests decodes a fresh copy of the seed request list on every call.
func Requests() ([]models.Request, error) {
	var requests []models.Request
	if err := json.Unmarshal(requestsJSON, &requests); err != nil {
		return nil, fmt.Errorf("fixtures: decode requests: %w", err)
	}
	return requests, nil
}

// MustUsers panics on a malformed embedded document.
func MustUsers() []models.User {
	users, err := Users()
	if err != nil {
		panic(err)
	}
	return users
}
