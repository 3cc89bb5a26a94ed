package service

import "errors"

var (
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenInvalid         = errors.New("token invalid")
	ErrTokenMalformed       = errors.New("token is malformed")
	ErrTokenMissing         = errors.New("token is missing")
	ErrTokenRevoked         = errors.New("token revoked")
	ErrInvalidSigningMethod = errors.New("invalid signing method")

	// Session gate failures. A missing session and an expired one both report ErrSessionExpired.
	ErrUserNotFound   = errors.New("user not found")
	ErrSessionExpired = errors.New("refresh token has expired")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidArgument    = errors.New("invalid argument")

	// ErrNotFound covers both missing records and records owned by someone else.
	ErrNotFound = errors.New("not found")
)
