// Package common defines shared constants and sentinel errors used across
// client and server layers of ReWear. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrVersionConflict = errors.New("version conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrForbidden      = errors.New("forbidden")

	// Exchange errors.
	ErrNotAuthenticated      = errors.New("not authenticated")
	ErrItemUnavailable       = errors.New("item unavailable")
	ErrInsufficientPoints    = errors.New("insufficient points")
	ErrSelfTransactionDenied = errors.New("self transaction denied")
	ErrAlreadyRequested      = errors.New("swap already requested")
	ErrInvalidTransition     = errors.New("invalid status transition")

	// ErrPersistence marks a storage failure. The operation committed
	// nothing and may be retried by the caller.
	ErrPersistence = errors.New("persistence error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
