package service

import "errors"

// Sentinel errors for credential flows. Handlers map them to HTTP
// statuses in one place.
var (
	// ErrEmailTaken means registration hit an existing email.
	ErrEmailTaken = errors.New("email_already_registered")

	// ErrInvalidCredentials covers both unknown email and wrong password
	// on login, so the response does not reveal which one failed.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrAccountNotVerified means the password matched but the account
	// has not completed email verification.
	ErrAccountNotVerified = errors.New("account_not_verified")

	// ErrPasswordNotSet means the stored record has no password hash.
	// This is a data integrity problem, not a client mistake.
	ErrPasswordNotSet = errors.New("password_not_set")

	// ErrInvalidOrExpiredCode covers every verification code failure:
	// no pending code, mismatch, or expiry.
	ErrInvalidOrExpiredCode = errors.New("invalid_or_expired_code")

	// ErrInvalidOrExpiredResetToken covers every reset token failure:
	// no pending reset, mismatch, or expiry.
	ErrInvalidOrExpiredResetToken = errors.New("invalid_or_expired_reset_token")

	// ErrUnknownEmail means verify, request-reset, or reset-password was
	// called for an email with no account.
	ErrUnknownEmail = errors.New("unknown_email")

	// ErrEmailDeliveryFailed means the verification or reset email could
	// not be sent and the flow is configured to fail closed.
	ErrEmailDeliveryFailed = errors.New("email_delivery_failed")
)
