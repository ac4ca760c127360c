// Package storage describes the sources the user names are loaded from.
package storage

import (
	"context"
	"fmt"
)

// UsersSource is implemented by every backend that can provide the list of
// user names to validate.
type UsersSource interface {
	LoadUsers(ctx context.Context) ([]string, error)

	Ping(ctx context.Context) error

	Close() error
}

// LoadError reports that the users list could not be read or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("unable to load users from %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
