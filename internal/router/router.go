package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/patric-chuzhbe/namecheck/internal/logger"
	"github.com/patric-chuzhbe/namecheck/internal/models"
	"github.com/patric-chuzhbe/namecheck/internal/validationclient"
)

type usersValidator interface {
	ValidateUsers(ctx context.Context) (models.ValidationReport, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type usersService interface {
	usersValidator
	pinger
}

// Router serves the health and validation endpoints.
type Router struct {
	svc usersService
	log *zap.SugaredLogger
}

func writeJSON(res http.ResponseWriter, status int, payload any) error {
	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(status)
	return json.NewEncoder(res).Encode(payload)
}

func (router *Router) respond(res http.ResponseWriter, status int, payload any) {
	if err := writeJSON(res, status, payload); err != nil {
		router.log.Debugw("unable to write response", zap.Error(err))
	}
}

// GetHealth always reports the service as alive.
func (router *Router) GetHealth(res http.ResponseWriter, req *http.Request) {
	router.respond(res, http.StatusOK, models.HealthResponse{Status: "ok"})
}

// GetPing reports whether the users source is reachable.
func (router *Router) GetPing(res http.ResponseWriter, req *http.Request) {
	if err := router.svc.Ping(req.Context()); err != nil {
		router.log.Debugw("users source ping failed", zap.Error(err))
		router.respond(res, http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	res.WriteHeader(http.StatusOK)
}

// GetApivalidateusers validates every known user name and reports how many
// were accepted.
//
// Responses:
//   - 200 {"validated": N} when every name was accepted;
//   - 500 {"error", "validated", "failed"} when the service rejected a name;
//   - 502 with the same body when the service could not be reached;
//   - 500 {"error"} when the users list could not be loaded or on any other error.
func (router *Router) GetApivalidateusers(res http.ResponseWriter, req *http.Request) {
	report, err := router.svc.ValidateUsers(req.Context())

	var failedErr *validationclient.ValidationFailedError
	switch {
	case err == nil:
		router.respond(res, http.StatusOK, models.ValidateUsersResponse{Validated: report.Validated})

	case errors.As(err, &failedErr):
		router.respond(res, http.StatusInternalServerError, models.ValidateUsersFailureResponse{
			Error:     err.Error(),
			Validated: report.Validated,
			Failed:    report.Failed,
		})

	case errors.Is(err, validationclient.ErrServiceUnreachable):
		router.respond(res, http.StatusBadGateway, models.ValidateUsersFailureResponse{
			Error:     err.Error(),
			Validated: report.Validated,
			Failed:    report.Failed,
		})

	default:
		router.respond(res, http.StatusInternalServerError, models.ErrorResponse{Error: errorMessage(err)})
	}
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Unexpected error while validating user names."
}

// New builds the HTTP handler of the service.
func New(svc usersService, log *zap.SugaredLogger) *chi.Mux {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	myRouter := Router{
		svc: svc,
		log: log,
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		logger.WithLoggingHTTPMiddleware(log),
		middleware.Recoverer,
		middleware.Compress(5, "application/json"),
	)
	router.Get(`/health`, myRouter.GetHealth)
	router.Get(`/ping`, myRouter.GetPing)
	router.Get(`/api/validate-users`, myRouter.GetApivalidateusers)

	return router
}
