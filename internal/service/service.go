package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/namecheck/internal/models"
)

type usersLoader interface {
	LoadUsers(ctx context.Context) ([]string, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type usersStorage interface {
	usersLoader
	pinger
}

type nameValidator interface {
	Validate(ctx context.Context, name string) (models.ValidationOutcome, error)
}

// ErrNoValidator is returned by ValidateUsers when the service was built without a validator.
var ErrNoValidator = errors.New("name validator is not configured")

type Service struct {
	db        usersStorage
	validator nameValidator
	log       *zap.SugaredLogger
}

func New(
	db usersStorage,
	validator nameValidator,
	log *zap.SugaredLogger,
) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return &Service{
		db:        db,
		validator: validator,
		log:       log,
	}
}

// ValidateUsers loads the users list and submits the names one by one, in
// list order. The batch stops on the first name that could not be
// validated: the report then carries the number of names validated so far
// and the failed outcome, and the validator's error is returned as is.
func (s *Service) ValidateUsers(ctx context.Context) (models.ValidationReport, error) {
	report := models.ValidationReport{
		RunID: uuid.New().String(),
	}
	log := s.log.With("run_id", report.RunID)

	if s.validator == nil {
		return report, ErrNoValidator
	}

	users, err := s.db.LoadUsers(ctx)
	if err != nil {
		log.Errorw("unable to load users", zap.Error(err))
		return report, err
	}

	log.Debugw("validating users", "count", len(users))

	for _, name := range users {
		outcome, err := s.validator.Validate(ctx, name)
		if err != nil {
			log.Errorf("%s - %s", name, outcome.Message)
			report.Failed = &outcome
			return report, err
		}

		log.Infof("%s - %s", name, outcome.Message)
		report.Validated++
	}

	return report, nil
}

// Ping checks the health of the users source.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
