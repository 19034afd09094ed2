package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrInvalidRefreshToken = fmt.Errorf("%w: invalid refresh token", ErrNotAuthenticated)
	ErrForbidden           = errors.New("forbidden")
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrStorageDisabled     = errors.New("file storage is not configured")
)
