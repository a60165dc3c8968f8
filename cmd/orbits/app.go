package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/solarviz/orbits/internal/config"
	"github.com/solarviz/orbits/internal/ephemeris"
	"github.com/solarviz/orbits/internal/influx"
	"github.com/solarviz/orbits/internal/logging"
	intOtel "github.com/solarviz/orbits/internal/otel"
	"github.com/solarviz/orbits/internal/pipeline"
	"github.com/solarviz/orbits/internal/timegrid"
	"github.com/solarviz/orbits/pkg/core"
)

// app carries the process-wide logging and telemetry handles.
type app struct {
	SessionStart time.Time

	SlogManager *logging.SlogManager
	Logger      *slog.Logger
	LogFile     *os.File
	LogFilePath string

	OTelProvider *intOtel.Provider
	Influx       *influx.Manager

	closers []io.Closer
}

type setupOptions struct {
	ConfigDir string
	EnvFile   string
}

// newApp loads configuration and sets up logging and telemetry.
func newApp(opts setupOptions) (*app, error) {
	a := &app{
		SessionStart: time.Now(),
		SlogManager:  logging.NewSlogManager(),
	}

	// bootstrap logger until the configured level and file are known
	a.SlogManager.Setup(nil, "info", nil)
	a.Logger = a.SlogManager.Logger()

	n, err := config.LoadDotEnv(opts.EnvFile)
	if err != nil {
		a.Logger.Warn("Failed to read env file", "path", opts.EnvFile, "error", err)
	} else if n > 0 {
		a.Logger.Debug("Loaded env file", "path", opts.EnvFile, "vars", n)
	}

	configErr := config.Load(opts.ConfigDir)

	if err := a.openLogFile(); err != nil {
		return nil, err
	}

	var logWriter io.Writer
	if a.LogFile != nil {
		logWriter = a.LogFile
	}

	otelCfg := config.GetOTelConfig()
	a.OTelProvider, err = intOtel.New(intOtel.FromConfig(otelCfg, Version, logWriter))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OTel provider: %w", err)
	}

	var extra []slog.Handler
	graylogCfg := config.GetGraylogConfig()
	if graylogCfg.Enabled {
		h, closer, err := logging.NewGELFHandler(graylogCfg.Address, logging.ParseLevel(config.GetString("logLevel")))
		if err != nil {
			return nil, err
		}
		extra = append(extra, h)
		a.closers = append(a.closers, closer)
	}

	var otelLogProvider *sdklog.LoggerProvider
	if a.OTelProvider.Enabled() {
		otelLogProvider = a.OTelProvider.LoggerProvider()
	}
	a.SlogManager.Setup(logWriter, config.GetString("logLevel"), otelLogProvider, extra...)
	a.Logger = a.SlogManager.Logger()

	if configErr != nil {
		a.Logger.Warn("Failed to load config, using defaults!", "error", configErr)
	} else {
		a.Logger.Info("Loaded config", "dir", opts.ConfigDir)
	}
	if a.LogFile != nil {
		a.Logger.Info("Logging to file", "path", a.LogFilePath)
	}
	if otelCfg.Enabled {
		a.Logger.Info("OTel provider initialized", "endpoint", otelCfg.Endpoint)
	}

	return a, nil
}

func (a *app) openLogFile() error {
	logsDir := config.GetString("logsDir")
	if logsDir == "" {
		return nil
	}
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	a.LogFilePath = logging.LogFilePath(logsDir, AppName, a.SessionStart)
	// keep the previous log of the same second
	if _, err := os.Stat(a.LogFilePath); err == nil {
		os.Rename(a.LogFilePath, a.LogFilePath+".old")
	}

	f, err := os.OpenFile(a.LogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	a.LogFile = f
	return nil
}

// componentLogger returns a zerolog logger for the database and influx managers.
func (a *app) componentLogger(component string) zerolog.Logger {
	var w io.Writer = os.Stderr
	if a.LogFile != nil {
		w = a.LogFile
	}
	return logging.NewZerolog(w, config.GetString("logLevel"), component)
}

// recorder connects the influx stage sink when enabled.
func (a *app) recorder(ctx context.Context) pipeline.Recorder {
	cfg := config.GetInfluxConfig()
	if !cfg.Enabled {
		return pipeline.NoopRecorder{}
	}
	if cfg.BackupPath == "" {
		cfg.BackupPath = filepath.Join(
			config.GetString("logsDir"),
			fmt.Sprintf("influx_backup_%s.log.gz", a.SessionStart.Format("20060102_150405")),
		)
	}

	m := influx.NewManager(a.componentLogger("influx"), cfg)
	if err := m.Connect(ctx); err != nil {
		a.Logger.Warn("InfluxDB unavailable, stage timings disabled", "error", err)
		return pipeline.NoopRecorder{}
	}
	a.Influx = m
	return m
}

// compute reads the run settings and produces a finished run.
func (a *app) compute(ctx context.Context) (*core.Run, error) {
	gridCfg, err := config.GetRunConfig()
	if err != nil {
		return nil, err
	}
	grid, err := timegrid.New(gridCfg)
	if err != nil {
		return nil, err
	}

	ephCfg := config.GetEphemerisConfig()
	mode, err := ephemeris.ParseMode(ephCfg.Mode)
	if err != nil {
		return nil, err
	}
	frame, err := ephemeris.ParseFrame(ephCfg.Frame)
	if err != nil {
		return nil, err
	}
	standish, err := ephemeris.NewStandish(mode, frame)
	if err != nil {
		return nil, err
	}
	var provider ephemeris.Provider = standish
	if ephCfg.Cache {
		provider = ephemeris.Cached(standish, nil)
	}

	a.SlogManager.SetRunAttrs(
		slog.String("runStart", timegrid.FormatISO(gridCfg.Start)),
		slog.String("runEnd", timegrid.FormatISO(gridCfg.End)),
		slog.Int("runSteps", gridCfg.Steps),
	)

	manager, err := pipeline.NewManager(pipeline.Dependencies{
		Provider: provider,
		Logger:   a.Logger,
		Recorder: a.recorder(ctx),
		Meter:    a.OTelProvider.Meter("github.com/solarviz/orbits/internal/ephemeris"),
		Workers:  ephCfg.Workers,
		Frame:    string(frame),
	})
	if err != nil {
		return nil, err
	}

	a.Logger.Info("Computing orbits",
		"ephemeris", provider.Name(),
		"workers", ephCfg.Workers)
	return manager.Run(ctx, grid)
}

// Close flushes telemetry and releases files and sockets.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if a.Influx != nil {
		if err := a.Influx.Close(); err != nil {
			a.Logger.Warn("Failed to close InfluxDB manager", "error", err)
		}
	}
	if a.OTelProvider != nil {
		if err := a.OTelProvider.Shutdown(ctx); err != nil {
			a.Logger.Warn("Failed to shut down OTel provider", "error", err)
		}
	}
	for _, c := range a.closers {
		c.Close()
	}
	if a.LogFile != nil {
		a.LogFile.Close()
	}
}
