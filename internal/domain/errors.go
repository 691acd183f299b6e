package domain

import "errors"

// Storage-level errors returned by repositories. Usecases translate them into
// apperr codes.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)
