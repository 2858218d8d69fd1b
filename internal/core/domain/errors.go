package domain

import "errors"

var (
	// ErrValidation indicates a required field was missing or empty.
	ErrValidation = errors.New("required field is missing or empty")

	// ErrDuplicateCredential indicates the username or email is already taken.
	ErrDuplicateCredential = errors.New("username or email already in use")

	// ErrInvalidCredential covers both "no such user" and "wrong password"
	// so login failures do not reveal which one it was.
	ErrInvalidCredential = errors.New("invalid credentials")

	// ErrUnauthorized indicates a missing, mismatched or otherwise
	// unacceptable token presented on a protected operation.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTokenExpired is kept distinct from ErrTokenInvalid: an expired
	// refresh token means "log in again", a bad signature means forgery.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")

	// ErrUserNotFound indicates the principal behind a valid token no
	// longer exists. Treated as unauthorized at the boundary.
	ErrUserNotFound = errors.New("user not found")
)
