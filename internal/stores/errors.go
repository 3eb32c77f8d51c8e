package stores

import "errors"

var (
	// ErrInvalidCredentials signals that no roster entry matched the email and password.
	ErrInvalidCredentials = errors.New("stores: invalid email or password")
	// ErrDuplicateEmail signals that the email already belongs to a known user.
	ErrDuplicateEmail = errors.New("stores: email already registered")
	// ErrUserNotFound signals that no roster entry has the given id.
	ErrUserNotFound = errors.New("stores: user not found")
	// ErrPasswordTooLong signals a password bcrypt cannot hash.
	ErrPasswordTooLong = errors.New("stores: password longer than 72 bytes")
	// ErrInvalidRole signals a role outside admin, user, company, collector.
	ErrInvalidRole = errors.New("stores: invalid role")

	// ErrRequestNotFound signals that no request has the given id.
	ErrRequestNotFound = errors.New("stores: request not found")
	// ErrDuplicateRequest signals that a request with the same id already exists.
	ErrDuplicateRequest = errors.New("stores: request id already exists")
	// ErrInvalidTransition signals a status change the request lifecycle does not allow.
	ErrInvalidTransition = errors.New("stores: invalid status transition")
	// ErrInvalidPoints signals a negative points value.
	ErrInvalidPoints = errors.New("stores: points must not be negative")
	// ErrEmptyCollector signals an assignment without a collector id.
	ErrEmptyCollector = errors.New("stores: collector id required")
)

// Messages kept in the user store state after a failed login or registration.
const (
	LoginErrorMessage    = "Invalid email or password"
	RegisterErrorMessage = "Registration failed"
)
