// Package app initializes and runs the name validation service.
// It configures logging, the users source, the validation client and
// routing, and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/patric-chuzhbe/namecheck/internal/config"
	"github.com/patric-chuzhbe/namecheck/internal/db/jsonfile"
	"github.com/patric-chuzhbe/namecheck/internal/db/memorystorage"
	"github.com/patric-chuzhbe/namecheck/internal/db/postgresdb"
	"github.com/patric-chuzhbe/namecheck/internal/db/storage"
	"github.com/patric-chuzhbe/namecheck/internal/logger"
	"github.com/patric-chuzhbe/namecheck/internal/models"
	"github.com/patric-chuzhbe/namecheck/internal/router"
	"github.com/patric-chuzhbe/namecheck/internal/service"
	"github.com/patric-chuzhbe/namecheck/internal/validationclient"
)

// App encapsulates the configuration, logger, users source and HTTP handler
// needed to run the service.
type App struct {
	cfg         *config.Config
	log         *zap.SugaredLogger
	db          storage.UsersSource
	httpHandler http.Handler
}

// New initializes a new instance of App by:
// - loading configuration
// - initializing logger
// - selecting and setting up the users source
// - setting up the validation client, service and router
func New(options ...config.InitOption) (*App, error) {
	var err error
	app := &App{}

	app.cfg, err = config.New(options...)
	if err != nil {
		return nil, err
	}

	app.log, err = logger.New(app.cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	app.db, err = getUsersSourceByType(app.cfg)
	if err != nil {
		return nil, err
	}

	validator := validationclient.New(
		app.cfg.ValidationURL,
		validationclient.WithTimeout(app.cfg.ValidationTimeout),
	)

	app.httpHandler = router.New(
		service.New(app.db, validator, app.log),
		app.log,
	)

	return app, nil
}

// Handler returns the HTTP handler of the service.
func (a *App) Handler() http.Handler {
	return a.httpHandler
}

// Run starts the HTTP server with graceful shutdown support.
// It listens for system signals and cleans up resources upon termination.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.log.Infow("server running", "RunAddr", a.cfg.RunAddr, "ValidationURL", a.cfg.ValidationURL)

	server := &http.Server{
		Addr:    a.cfg.RunAddr,
		Handler: a.httpHandler,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		a.log.Infoln("Received shutdown signal. Closing the users source and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.db.Close()

	case err := <-serverErrCh:
		closeErr := a.db.Close()
		return errors.Join(fmt.Errorf("server error: %w", err), closeErr)
	}
}

// Close finalizes resources used by App such as logging.
func (a *App) Close() error {
	return logger.Sync(a.log)
}

func getAvailableSourceType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.SourceTypePostgresql
	}

	if cfg.UsersFile != "" {
		return models.SourceTypeFile
	}

	return models.SourceTypeMemory
}

func getUsersSourceByType(cfg *config.Config) (storage.UsersSource, error) {
	switch getAvailableSourceType(cfg) {
	case models.SourceTypeUnknown:
		return nil, errors.New("unknown users source type")

	case models.SourceTypePostgresql:
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
			cfg.MigrationsDir,
		)

	case models.SourceTypeFile:
		return jsonfile.New(cfg.UsersFile)
	}

	return memorystorage.New()
}
