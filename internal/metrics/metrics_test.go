package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FluidXR/adbctl/internal/adb"
)

func TestInstrument(t *testing.T) {
	m := New()
	runner := m.Instrument(adb.RunnerFunc(func(_ context.Context, args []string) (string, error) {
		switch args[len(args)-1] {
		case "enable-verity":
			return "", &adb.CommandFailedError{Args: args, Status: 1}
		case "wait-for-device":
			return "", &adb.CommandTimeoutError{Args: args}
		case "version":
			return "", errors.New("exec: not found")
		}
		return "Verity already disabled on /system", nil
	}))

	ctx := context.Background()
	for _, args := range [][]string{
		{"-s", "ABC12345678", "disable-verity"},
		{"-s", "usb:1-2.3", "disable-verity"},
		{"-s", "ABC12345678", "enable-verity"},
		{"-s", "ABC12345678", "wait-for-device"},
		{"version"},
	} {
		_, _ = runner.Run(ctx, args)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues("disable-verity", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("enable-verity", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("wait-for-device", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("version", "error")))
	assert.Equal(t, 4, testutil.CollectAndCount(m.duration))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	runner := m.Instrument(adb.RunnerFunc(func(context.Context, []string) (string, error) { return "", nil }))
	_, _ = runner.Run(context.Background(), []string{"devices"})

	path := filepath.Join(t.TempDir(), "adbctl.prom")
	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `adbctl_commands_total{command="devices",result="ok"} 1`)
}

func TestSubcommand(t *testing.T) {
	assert.Equal(t, "shell", subcommand([]string{"-s", "x", "shell", "ls"}))
	assert.Equal(t, "none", subcommand(nil))
}
