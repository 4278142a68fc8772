package service

import "errors"

// Sentinel errors the handlers translate to HTTP statuses: validation
// errors to 400, ErrNotFound to 404, ErrForbidden to 403; anything else
// is a storage failure and surfaces as 500.
var (
	ErrEmptyContent       = errors.New("post content cannot be empty")
	ErrContentTooLong     = errors.New("post content exceeds maximum length")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrFollowSelf         = errors.New("cannot follow self")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
