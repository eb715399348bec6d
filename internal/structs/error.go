package structs

import "errors"

var (
	ErrBadRequest         = errors.New("bad request")
	ErrNotFound           = errors.New("no rows in result set")
	ErrAccessDenied       = errors.New("Access denied: admin privileges required")
	ErrSessionExpired     = errors.New("admin session expired")
	ErrUniqueViolation    = errors.New("unique violation error")
	ErrForeignKeyInUse    = errors.New("record is referenced by existing records")
	ErrSeatTaken          = errors.New("seat already booked")
	ErrDriverInactive     = errors.New("driver account is not active")
	ErrSuperadminRequired = errors.New("superadmin privileges required")
)
