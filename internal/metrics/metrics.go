package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/FluidXR/adbctl/internal/adb"
)

// Metrics holds the adb invocation counters for one process.
type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "adbctl_commands_total",
			Help: "adb invocations by subcommand and result.",
		}, []string{"command", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "adbctl_command_duration_seconds",
			Help:    "Wall time of adb invocations.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"command"}),
	}
	m.registry.MustRegister(m.commands, m.duration)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Instrument returns a Runner that observes every call forwarded to next.
func (m *Metrics) Instrument(next adb.Runner) adb.Runner {
	return adb.RunnerFunc(func(ctx context.Context, args []string) (string, error) {
		start := time.Now()
		out, err := next.Run(ctx, args)
		command := subcommand(args)
		m.duration.WithLabelValues(command).Observe(time.Since(start).Seconds())
		m.commands.WithLabelValues(command, result(err)).Inc()
		return out, err
	})
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func subcommand(args []string) string {
	_, rest := adb.SplitSerial(args)
	if len(rest) == 0 {
		return "none"
	}
	return rest[0]
}

func result(err error) string {
	var timeout *adb.CommandTimeoutError
	var failed *adb.CommandFailedError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &timeout):
		return "timeout"
	case errors.As(err, &failed):
		return "failed"
	default:
		return "error"
	}
}
