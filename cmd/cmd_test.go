package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FluidXR/adbctl/internal/adb"
	"github.com/FluidXR/adbctl/internal/config"
)

const listing = "List of devices attached\n" +
	"ABC12345678          device usb:1-1 product:bullhead model:Nexus_5X device:bullhead transport_id:1\n" +
	"usb:1-2.3            unauthorized usb:1-2.3 transport_id:2\n"

// fakeADB answers adb invocations from a table keyed by subcommand.
type fakeADB struct {
	mu      sync.Mutex
	replies map[string]string
	calls   []string
}

func (f *fakeADB) Run(_ context.Context, args []string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, strings.Join(args, " "))
	_, rest := adb.SplitSerial(args)
	if len(rest) == 0 {
		return "", nil
	}
	if rest[0] == "shell" {
		return f.replies["shell"], nil
	}
	return f.replies[rest[0]], nil
}

func (f *fakeADB) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

// setupCLI points the CLI at fake and an empty config directory.
func setupCLI(t *testing.T, fake *fakeADB) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ANDROID_SERIAL", "")
	color.NoColor = true

	oldRunner, oldLookPath := newRunner, lookPath
	newRunner = func(string) adb.Runner { return fake }
	lookPath = func(string) (string, error) { return "/usr/bin/adb", nil }
	t.Cleanup(func() {
		newRunner, lookPath = oldRunner, oldLookPath
		resetFlags(rootCmd)
	})
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	resetFlags(rootCmd)
	return out.String(), err
}

func TestStateCommand(t *testing.T) {
	setupCLI(t, &fakeADB{replies: map[string]string{"devices": listing}})

	out, err := run(t, "", "state", "-s", "usb:1-2.3")
	require.NoError(t, err)
	assert.Equal(t, "unauthorized\n", out)

	out, err = run(t, "", "state", "-s", "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "offline\n", out)

	// Without --serial the only online device is used.
	out, err = run(t, "", "state")
	require.NoError(t, err)
	assert.Equal(t, "device\n", out)

	out, err = run(t, "", "history", "--states")
	require.NoError(t, err)
	assert.Contains(t, out, "XYZ")
	assert.Contains(t, out, "usb:1-2.3")
}

func TestVerityCommand(t *testing.T) {
	fake := &fakeADB{replies: map[string]string{
		"devices":        listing,
		"disable-verity": "Verity disabled on /system\nNow reboot your device for settings to take effect",
		"enable-verity":  "Verity already enabled on /system",
	}}
	setupCLI(t, fake)

	out, err := run(t, "", "verity", "disable", "-s", "ABC12345678", "--reboot")
	require.NoError(t, err)
	assert.Contains(t, out, "ABC12345678: verity disabled, reboot required")
	assert.True(t, fake.called("-s ABC12345678 reboot"))

	out, err = run(t, "", "verity", "enable", "-s", "ABC12345678")
	require.NoError(t, err)
	assert.Equal(t, "ABC12345678: verity already enabled\n", out)

	out, err = run(t, "", "history", "-s", "ABC12345678", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "adb enable-verity")
	assert.Contains(t, out, "adb disable-verity")
}

func TestVerityCommandClosed(t *testing.T) {
	setupCLI(t, &fakeADB{replies: map[string]string{"disable-verity": "error: closed"}})

	_, err := run(t, "", "verity", "disable", "-s", "usb:1-2.3")
	assert.ErrorIs(t, err, adb.ErrCommandFailed)
}

func TestShellCommandExitStatus(t *testing.T) {
	setupCLI(t, &fakeADB{replies: map[string]string{"shell": "nope\n%2\n"}})

	out, err := run(t, "", "shell", "-s", "ABC12345678", "false")
	assert.Equal(t, "nope\n", out)
	var exit exitError
	require.ErrorAs(t, err, &exit)
	assert.Equal(t, 2, exit.code)
}

func TestDevicesCommandUsesNicknames(t *testing.T) {
	setupCLI(t, &fakeADB{replies: map[string]string{"devices": listing}})

	_, err := run(t, "", "config", "nickname", "ABC12345678", "bench")
	require.NoError(t, err)

	out, err := run(t, "", "devices")
	require.NoError(t, err)
	assert.Contains(t, out, "ABC12345678")
	assert.Contains(t, out, "(bench)")
	assert.Contains(t, out, "[unauthorized]")

	// Nicknames work as --serial too.
	out, err = run(t, "", "state", "-s", "bench")
	require.NoError(t, err)
	assert.Equal(t, "device\n", out)
}

func TestDevicesNicknameNew(t *testing.T) {
	setupCLI(t, &fakeADB{replies: map[string]string{"devices": listing}})

	out, err := run(t, "bench\n", "devices", "--nickname-new", "--retries", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "New device detected: ABC12345678")
	assert.NotContains(t, out, "New device detected: usb:1-2.3")
	assert.Contains(t, out, "(bench)")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "bench", cfg.Nickname("ABC12345678"))
	assert.Equal(t, 2, cfg.Retries, "flag overrides are not persisted")

	// Known devices are not asked about again.
	out, err = run(t, "", "devices", "--nickname-new")
	require.NoError(t, err)
	assert.NotContains(t, out, "New device detected")
}

func TestDevicesNicknameNewSkip(t *testing.T) {
	setupCLI(t, &fakeADB{replies: map[string]string{"devices": listing}})

	out, err := run(t, "\n", "devices", "--nickname-new")
	require.NoError(t, err)
	assert.Contains(t, out, "New device detected")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Contains(t, cfg.Devices, "ABC12345678")
	assert.Empty(t, cfg.Nickname("ABC12345678"))

	out, err = run(t, "", "devices", "--nickname-new")
	require.NoError(t, err)
	assert.NotContains(t, out, "New device detected")
}

func TestRmCommandPrompts(t *testing.T) {
	fake := &fakeADB{replies: map[string]string{"shell": "%0\n"}}
	setupCLI(t, fake)

	out, err := run(t, "n\n", "rm", "-s", "ABC12345678", "/sdcard/a.mp4")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped.")
	assert.False(t, fake.called("-s ABC12345678 shell ( rm '/sdcard/a.mp4' );echo %$?"))

	out, err = run(t, "y\n", "rm", "-s", "ABC12345678", "/sdcard/a.mp4")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 1 files")
	assert.True(t, fake.called("-s ABC12345678 shell ( rm '/sdcard/a.mp4' );echo %$?"))
}

func TestConfigSet(t *testing.T) {
	setupCLI(t, &fakeADB{})

	_, err := run(t, "", "config", "set", "timeout", "1m")
	require.NoError(t, err)
	_, err = run(t, "", "config", "set", "retries", "many")
	assert.Error(t, err)
	_, err = run(t, "", "config", "set", "colour", "blue")
	assert.Error(t, err)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "1m0s", cfg.Timeout.String())
}

func TestConnectAddr(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Devices["ABC12345678"] = config.DeviceConfig{Nickname: "bench", WiFiIP: "10.0.0.7"}
	e := &env{cfg: cfg}

	assert.Equal(t, "10.0.0.7:5555", connectAddr(e, "bench"))
	assert.Equal(t, "10.0.0.7:5555", connectAddr(e, "ABC12345678"))
	assert.Equal(t, "192.168.1.9:5037", connectAddr(e, "192.168.1.9:5037"))
	assert.Equal(t, "192.168.1.9:5555", connectAddr(e, "192.168.1.9"))
}
