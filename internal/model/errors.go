package model

import "errors"

var (
	// Authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Session lifecycle. Both resolve to "no session" and are only logged.
	ErrSessionExpired   = errors.New("session expired")
	ErrSessionMalformed = errors.New("session malformed")

	// Authorization
	ErrForbidden     = errors.New("forbidden")
	ErrProtectedUser = errors.New("protected user cannot be deleted")

	// Store
	ErrStoreUnreachable  = errors.New("store unreachable")
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrOperationFailed   = errors.New("operation failed")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
	ErrBusy         = errors.New("operation already in progress")
)
