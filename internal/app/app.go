// Package app wires configuration, the multiplication engine and the
// presentation layers into the matcalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/matcalc/internal/calibration"
	"github.com/agbru/matcalc/internal/cli"
	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/engine"
	apperrors "github.com/agbru/matcalc/internal/errors"
	"github.com/agbru/matcalc/internal/logging"
	"github.com/agbru/matcalc/internal/metrics"
	"github.com/agbru/matcalc/internal/sysmon"
	"github.com/agbru/matcalc/internal/ui"
)

// Application represents the matcalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   engine.MultiplierFactory
	ErrWriter io.Writer

	logger   zerolog.Logger
	recorder *metrics.Recorder
	// availableMemory reports free system memory in bytes, 0 when unknown.
	availableMemory func() uint64
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom MultiplierFactory for the application.
func WithFactory(f engine.MultiplierFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// New creates a new Application instance by parsing command-line arguments.
// args includes the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, availableMemory: sysmon.AvailableMemory}
	for _, opt := range opts {
		opt(app)
	}

	var strategies []string
	if app.Factory != nil {
		strategies = app.Factory.List()
	} else {
		strategies = engine.GlobalFactory().List()
	}

	programName := "matcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, strategies)
	if err != nil {
		return nil, err
	}

	if err := logging.Configure(cfg.LogLevel, cfg.Verbose); err != nil {
		return nil, err
	}
	ui.InitTheme(cfg.NoColor)
	app.logger = logging.NewConsoleLogger(errWriter, cfg.NoColor)
	engine.SetLogger(app.logger)
	calibration.SetLogger(app.logger)

	if app.Factory == nil {
		engineOpts := []engine.EngineOption{engine.WithLogger(app.logger)}
		if cfg.MetricsAddr != "" {
			app.recorder = metrics.NewRecorder()
			engineOpts = append(engineOpts, engine.WithRecorder(app.recorder))
		}
		app.Factory = engine.NewDefaultFactory(engineOpts...)
	}

	if !cfg.Calibrate {
		if withProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
			app.logger.Debug().Int("workers", withProfile.Workers).Int("rows_per_task", withProfile.RowsPerTask).
				Msg("calibration profile applied")
			cfg = withProfile
		}
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	if a.Config.Calibrate {
		ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stopSignals()
		return a.runCalibration(ctx, out)
	}

	if a.recorder != nil {
		stop, err := a.serveMetrics(ctx)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
			return apperrors.ExitErrorConfig
		}
		defer stop()
	}

	a.Config = a.runAutoCalibrationIfEnabled(ctx, out)

	return a.runCalculate(ctx, out)
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	return calibration.RunCalibration(ctx, out, a.Factory.GetAll(), a.Config.CalibrationProfile)
}

// runAutoCalibrationIfEnabled runs auto-calibration if enabled.
func (a *Application) runAutoCalibrationIfEnabled(ctx context.Context, out io.Writer) config.AppConfig {
	if a.Config.AutoCalibrate {
		if updated, ok := calibration.AutoCalibrate(ctx, a.Config, out, a.Factory.GetAll()); ok {
			return updated
		}
	}
	return a.Config
}

// serveMetrics starts the /metrics endpoint. The returned function shuts
// it down and waits for it.
func (a *Application) serveMetrics(ctx context.Context) (func(), error) {
	srv, err := metrics.Listen(a.Config.MetricsAddr, a.recorder, a.logger)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx); err != nil {
			a.logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
