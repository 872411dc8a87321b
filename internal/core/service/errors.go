package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalid            = errors.New("invalid_request")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAlreadyExists      = errors.New("already_exists")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not_found")
	ErrStorageUnavailable = errors.New("storage_unavailable")
)

// storageErr wraps infrastructure failures so handlers can report them as
// unavailability. A storage failure is never folded into "not found" or
// "wrong password".
func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
