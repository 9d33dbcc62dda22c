// Package common defines shared constants and sentinel errors used across
// client and server layers of GophMail. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrInternal = errors.New("internal error")

	// Request validation errors. ErrValidation is wrapped with the detail.
	ErrValidation       = errors.New("validation error")
	ErrDuplicateAccount = errors.New("username already exists")

	// Auth errors. ErrAuthentication intentionally covers both an unknown
	// username and a wrong password.
	ErrAuthentication = errors.New("invalid credentials")
	ErrUnauthorized   = errors.New("user not authenticated")

	// Delivery errors.
	ErrUnknownRecipient = errors.New("recipient does not exist")

	// Protocol errors.
	ErrUnknownOperation = errors.New("unknown operation")
	ErrTransport        = errors.New("transport error")
)
