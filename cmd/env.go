package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/adb"
	"github.com/FluidXR/adbctl/internal/config"
	"github.com/FluidXR/adbctl/internal/history"
	"github.com/FluidXR/adbctl/internal/metrics"
)

var (
	flagSerial      string
	flagADB         string
	flagTimeout     time.Duration
	flagRetries     int
	flagLogLevel    string
	flagNoHistory   bool
	flagMetricsFile string
)

// newRunner builds the process runner for the adb binary at path.
var newRunner = func(path string) adb.Runner {
	return adb.ExecRunner{Path: path}
}

// env is everything a command needs to talk to adb.
type env struct {
	cfg     *config.Config
	client  *adb.Client
	history *history.DB
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(lvl).
		With().Timestamp().Logger(), nil
}

// openEnv loads config, applies flag overrides and assembles the adb client.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if changed(cmd, "adb") {
		cfg.ADBPath = flagADB
	}
	if changed(cmd, "timeout") {
		cfg.Timeout = flagTimeout
	}
	if changed(cmd, "retries") {
		cfg.Retries = flagRetries
	}
	if changed(cmd, "log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flagNoHistory {
		cfg.History = false
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: logger}

	runner := newRunner(cfg.ADBPath)
	if flagMetricsFile != "" {
		e.metrics = metrics.New()
		runner = e.metrics.Instrument(runner)
	}
	if cfg.History {
		db, err := history.Open(config.ConfigDir())
		if err != nil {
			// Commands still run without history.
			logger.Warn().Err(err).Msg("command history disabled")
		} else {
			e.history = db
			runner = history.NewRecorder(runner, db, logger)
		}
	}

	e.client = adb.NewClient(
		adb.WithRunner(runner),
		adb.WithTimeout(cfg.Timeout),
		adb.WithRetries(cfg.Retries),
		adb.WithLogger(logger),
	)
	return e, nil
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// Close flushes metrics and closes the history database.
func (e *env) Close() {
	if e.metrics != nil {
		if err := e.metrics.WriteTextfile(flagMetricsFile); err != nil {
			e.logger.Warn().Err(err).Str("path", flagMetricsFile).Msg("could not write metrics")
		}
	}
	if e.history != nil {
		e.history.Close()
	}
}

// recordState stores an observed device state, if history is enabled.
func (e *env) recordState(serial string, state adb.State) {
	if e.history == nil {
		return
	}
	if err := e.history.RecordState(serial, string(state)); err != nil {
		e.logger.Warn().Err(err).Str("serial", serial).Msg("could not record device state")
	}
}

// resolveSerial picks the target device: --serial (serial or nickname),
// then $ANDROID_SERIAL, then the only online device.
func (e *env) resolveSerial(ctx context.Context) (string, error) {
	if flagSerial != "" {
		return e.cfg.SerialFor(flagSerial), nil
	}
	if s := os.Getenv("ANDROID_SERIAL"); s != "" {
		return e.cfg.SerialFor(s), nil
	}
	wrappers, err := e.client.Wrappers(ctx)
	if err != nil {
		return "", err
	}
	switch len(wrappers) {
	case 0:
		return "", fmt.Errorf("no online devices; pass --serial")
	case 1:
		return wrappers[0].DeviceSerial(), nil
	default:
		return "", fmt.Errorf("%d devices online; pass --serial", len(wrappers))
	}
}

// withDevice opens an env, resolves the target device and runs fn against it.
func withDevice(cmd *cobra.Command, fn func(ctx context.Context, e *env, w *adb.Wrapper) error) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	serial, err := e.resolveSerial(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, e, e.client.Wrapper(serial))
}

// withClient opens an env and runs fn with its host-level client.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, e *env) error) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, e)
}
