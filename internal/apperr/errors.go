// Package apperr holds the sentinel errors shared by the note store, sessions and transports.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrUnsupportedAddress  = errors.New("unsupported address")
	ErrInvalidColumn       = errors.New("invalid column")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInsertFailed        = errors.New("insert failed")
	ErrSessionClosed       = errors.New("session closed")
	ErrInvalidArgument     = errors.New("invalid argument")

	// ErrAlreadyExists is a recoverable constraint violation (duplicate category name).
	ErrAlreadyExists = fmt.Errorf("%w: already exists", ErrConstraintViolation)
)
