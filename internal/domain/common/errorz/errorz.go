package errorz

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidCode     = errors.New("invalid code")
	ErrAlreadySent     = errors.New("reminder already sent")
	ErrTooManyRequests = errors.New("too many requests")
	ErrDelivery        = errors.New("delivery failed")
)
