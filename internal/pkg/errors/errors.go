package errors

import "errors"

// Shared application errors. Services wrap these with fmt.Errorf("%w: ...")
// and the handler layer maps them to HTTP status codes.
var (
	// ErrNotFound is used when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is used for failed authentication (bad credentials, bad token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is used when the account state forbids the action.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is used for missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken is used when a token or code has passed its expiry.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict is used for state conflicts (e.g. duplicate registration).
	ErrConflict = errors.New("resource state conflict")
)
