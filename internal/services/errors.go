// Package services defines the business logic for ingestion, search, and
// user accounts. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import "errors"

// Ingestion-related errors.
var (
	// ErrEmptyContent is returned when an ingestion request carries no
	// content at all.
	ErrEmptyContent = errors.New("content is empty")

	// ErrContentTooLarge is returned when an ingestion request exceeds the
	// maximum configured content length limit.
	ErrContentTooLarge = errors.New("content too large")
)

// Search-related errors.
var (
	// ErrInvalidQuery is returned when a search term normalizes to the empty
	// string (e.g. it contains only punctuation or whitespace).
	ErrInvalidQuery = errors.New("query word is empty after normalization")

	// ErrInvalidLimit is returned when a requested result limit falls
	// outside the allowed range.
	ErrInvalidLimit = errors.New("limit out of range")
)

// Account-related errors.
var (
	// ErrUserExists is returned when a registration request uses a username
	// that is already taken.
	ErrUserExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when a login attempt fails, either
	// because the user does not exist or the password does not match. The
	// two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrWeakPassword is returned when a registration password is shorter
	// than the minimum length.
	ErrWeakPassword = errors.New("password too short")

	// ErrInvalidToken is returned when a refresh token fails verification.
	ErrInvalidToken = errors.New("invalid token")

	// ErrUserNotFound indicates that the user referenced by a valid token no
	// longer exists.
	ErrUserNotFound = errors.New("user not found")
)
