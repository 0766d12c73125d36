package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/xvierd/studyflow/internal/adapters/generator"
	"github.com/xvierd/studyflow/internal/adapters/git"
	"github.com/xvierd/studyflow/internal/adapters/notification"
	"github.com/xvierd/studyflow/internal/adapters/storage"
	"github.com/xvierd/studyflow/internal/config"
	"github.com/xvierd/studyflow/internal/domain"
	"github.com/xvierd/studyflow/internal/ports"
	"github.com/xvierd/studyflow/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config    *config.Config
	logger    *slog.Logger
	logFile   io.Closer
	storage   ports.Storage
	profiles  *services.ProfileService
	plans     *services.PlanService
	state     *services.StateService
	presenter *services.FocusPresenter
	git       ports.GitDetector
	notifier  *notification.Notifier
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.config, err = config.Load()
	if err != nil {
		// A broken config file should not lock the user out; run on defaults.
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		app.config = config.DefaultConfig()
	}

	app.logger, app.logFile, err = config.NewLogger(app.config, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}

	app.notifier = notification.New(&app.config.Notifications)

	path := dbPath
	if path == "" {
		path = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.storage, err = storage.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.git = git.NewDetector(app.config.Git.Enabled)
	app.presenter = services.NewFocusPresenter()

	app.profiles = services.NewProfileService(app.storage.Profiles())
	app.plans = services.NewPlanService(app.storage, generator.New(app.config.Generator, app.logger), app.logger)
	app.state = services.NewStateService(app.storage)

	app.logger.Debug("services initialized", "db", path, "generator", app.plans.GeneratorName())
	return nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.storage != nil {
		err = app.storage.Close()
		app.storage = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
	return err
}

// newFocusService builds a timer host reporting to the shared presenter.
func newFocusService(source string, autoFocus bool, mode domain.TimerMode) *services.FocusService {
	workingDir, _ := os.Getwd()
	return services.NewFocusService(services.FocusConfig{
		Source:     source,
		Storage:    app.storage,
		Presenter:  app.presenter,
		Git:        app.git,
		Notifier:   app.notifier,
		WorkingDir: workingDir,
		AutoFocus:  autoFocus,
		StartMode:  mode,
		Logger:     app.logger,
	})
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// isInteractive reports whether stdin is a terminal we can run forms on.
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
