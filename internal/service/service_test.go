package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/patric-chuzhbe/namecheck/internal/db/storage"
	"github.com/patric-chuzhbe/namecheck/internal/mockstorage"
	"github.com/patric-chuzhbe/namecheck/internal/models"
	"github.com/patric-chuzhbe/namecheck/internal/validationclient"
)

func newObservedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core).Sugar(), logs
}

func okOutcome(name string) models.ValidationOutcome {
	return models.ValidationOutcome{
		Name:       name,
		StatusCode: http.StatusOK,
		Message:    "Name is valid",
	}
}

func messagesAt(logs *observer.ObservedLogs, level zapcore.Level) []string {
	var result []string
	for _, entry := range logs.FilterLevelExact(level).All() {
		result = append(result, entry.Message)
	}
	return result
}

func TestValidateUsersAllValid(t *testing.T) {
	users := []string{"Luc O'Connor", "María López", "Jason Smith"}

	db := &mockstorage.StorageMock{}
	db.On("LoadUsers", mock.Anything).Return(users, nil).Once()

	validator := &mockstorage.ValidatorMock{}
	var order []string
	for _, name := range users {
		name := name
		validator.On("Validate", mock.Anything, name).
			Run(func(args mock.Arguments) { order = append(order, name) }).
			Return(okOutcome(name), nil).
			Once()
	}

	log, logs := newObservedLogger()
	report, err := New(db, validator, log).ValidateUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Validated)
	assert.Nil(t, report.Failed)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, users, order, "names must be validated in list order")
	assert.Equal(
		t,
		[]string{
			"Luc O'Connor - Name is valid",
			"María López - Name is valid",
			"Jason Smith - Name is valid",
		},
		messagesAt(logs, zapcore.InfoLevel),
	)
	for _, entry := range logs.All() {
		assert.Equal(t, report.RunID, entry.ContextMap()["run_id"])
	}

	db.AssertExpectations(t)
	validator.AssertExpectations(t)
}

func TestValidateUsersEmptyList(t *testing.T) {
	db := &mockstorage.StorageMock{}
	db.On("LoadUsers", mock.Anything).Return([]string{}, nil)

	validator := &mockstorage.ValidatorMock{}

	report, err := New(db, validator, nil).ValidateUsers(context.Background())

	require.NoError(t, err)
	assert.Zero(t, report.Validated)
	validator.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestValidateUsersStopsOnFirstFailure(t *testing.T) {
	rejected := models.ValidationOutcome{
		Name:          "Luc O'Connor",
		SanitizedName: "Luc OConnor",
		StatusCode:    http.StatusBadRequest,
		Message:       "Name contains invalid characters",
	}

	db := &mockstorage.StorageMock{}
	db.On("LoadUsers", mock.Anything).Return([]string{"Jason Smith", "Luc O'Connor", "Noah Johnson"}, nil)

	validator := &mockstorage.ValidatorMock{}
	validator.On("Validate", mock.Anything, "Jason Smith").Return(okOutcome("Jason Smith"), nil).Once()
	validator.On("Validate", mock.Anything, "Luc O'Connor").
		Return(rejected, &validationclient.ValidationFailedError{Outcome: rejected}).
		Once()

	log, logs := newObservedLogger()
	report, err := New(db, validator, log).ValidateUsers(context.Background())

	var failedErr *validationclient.ValidationFailedError
	require.ErrorAs(t, err, &failedErr)
	assert.Equal(t, 1, report.Validated)
	require.NotNil(t, report.Failed)
	assert.Equal(t, rejected, *report.Failed)
	assert.Equal(t, []string{"Luc O'Connor - Name contains invalid characters"}, messagesAt(logs, zapcore.ErrorLevel))

	validator.AssertNotCalled(t, "Validate", mock.Anything, "Noah Johnson")
	validator.AssertExpectations(t)
}

func TestValidateUsersUnreachable(t *testing.T) {
	db := &mockstorage.StorageMock{}
	db.On("LoadUsers", mock.Anything).Return([]string{"Jason Smith"}, nil)

	validator := &mockstorage.ValidatorMock{
		OnValidate: func(ctx context.Context, name string) (models.ValidationOutcome, error) {
			return models.ValidationOutcome{Name: name, Message: "Failed to reach validation service."},
				errors.Join(validationclient.ErrServiceUnreachable, errors.New("dial tcp: connection refused"))
		},
	}

	log, logs := newObservedLogger()
	report, err := New(db, validator, log).ValidateUsers(context.Background())

	assert.ErrorIs(t, err, validationclient.ErrServiceUnreachable)
	assert.Zero(t, report.Validated)
	assert.Equal(t, []string{"Jason Smith - Failed to reach validation service."}, messagesAt(logs, zapcore.ErrorLevel))
}

func TestValidateUsersLoadError(t *testing.T) {
	loadErr := &storage.LoadError{Source: "users.json", Err: errors.New("no such file or directory")}

	db := &mockstorage.StorageMock{}
	db.On("LoadUsers", mock.Anything).Return(nil, loadErr)

	validator := &mockstorage.ValidatorMock{}

	log, logs := newObservedLogger()
	report, err := New(db, validator, log).ValidateUsers(context.Background())

	var gotLoadErr *storage.LoadError
	require.ErrorAs(t, err, &gotLoadErr)
	assert.Zero(t, report.Validated)
	assert.Nil(t, report.Failed)
	assert.Equal(t, 1, logs.FilterMessage("unable to load users").Len())
	validator.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestValidateUsersWithoutValidator(t *testing.T) {
	db := &mockstorage.StorageMock{}

	_, err := New(db, nil, nil).ValidateUsers(context.Background())

	assert.ErrorIs(t, err, ErrNoValidator)
	db.AssertNotCalled(t, "LoadUsers", mock.Anything)
}

func TestPing(t *testing.T) {
	db := &mockstorage.StorageMock{}
	db.On("Ping", mock.Anything).Return(nil).Once()
	db.On("Ping", mock.Anything).Return(errors.New("down")).Once()

	svc := New(db, &mockstorage.ValidatorMock{}, nil)

	assert.NoError(t, svc.Ping(context.Background()))
	assert.Error(t, svc.Ping(context.Background()))
}
