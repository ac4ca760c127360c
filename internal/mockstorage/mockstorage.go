// Package mockstorage provides testify-based mock implementations of the
// users source and the name validator used by the service and router
// packages.
package mockstorage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/namecheck/internal/models"
)

// StorageMock is a testify mock of a users source.
type StorageMock struct {
	mock.Mock
}

// LoadUsers mocks reading the list of user names.
func (m *StorageMock) LoadUsers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]string)
	return users, args.Error(1)
}

// Ping mocks the pinger interface to simulate a health check.
func (m *StorageMock) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks releasing the source.
func (m *StorageMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ValidatorMock is a testify mock of the remote name validator.
type ValidatorMock struct {
	mock.Mock

	// OnValidate, when set, is called instead of the testify handler.
	// Handy for backends that answer depending on the name.
	OnValidate func(ctx context.Context, name string) (models.ValidationOutcome, error)
}

// Validate mocks submitting a single name.
func (m *ValidatorMock) Validate(ctx context.Context, name string) (models.ValidationOutcome, error) {
	if m.OnValidate != nil {
		return m.OnValidate(ctx, name)
	}
	args := m.Called(ctx, name)
	outcome, _ := args.Get(0).(models.ValidationOutcome)
	return outcome, args.Error(1)
}
