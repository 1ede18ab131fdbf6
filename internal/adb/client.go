package adb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

const (
	DefaultTimeout = 30 * time.Second
	DefaultRetries = 2
)

// Client wraps host-level ADB command-line calls and hands out per-device Wrappers.
type Client struct {
	runner  Runner
	timeout time.Duration
	retries int
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithPath runs the adb binary at path.
func WithPath(path string) Option {
	return func(c *Client) { c.runner = ExecRunner{Path: path} }
}

// WithRunner replaces the process runner, e.g. to decorate or fake it.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.runner = r }
}

// WithTimeout bounds each adb invocation. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRetries sets how many times a timed out or unreachable call is repeated.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithLogger sets the logger used for per-invocation debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a new ADB client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		runner:  ExecRunner{Path: "adb"},
		timeout: DefaultTimeout,
		retries: DefaultRetries,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run executes adb with args, prefixed by -s serial when serial is set.
// With checkError, output starting with "error:" is reported as a failure.
func (c *Client) run(ctx context.Context, serial string, args []string, checkError bool) (string, error) {
	var (
		out string
		err error
	)
	for attempt := 0; attempt <= c.retries; attempt++ {
		out, err = c.runOnce(ctx, serial, args, checkError)
		if err == nil || !transient(err) || ctx.Err() != nil {
			break
		}
		if attempt < c.retries {
			c.logger.Warn().Err(err).Str("serial", serial).Int("attempt", attempt+1).Msg("retrying adb command")
		}
	}
	return out, err
}

func (c *Client) runOnce(ctx context.Context, serial string, args []string, checkError bool) (string, error) {
	full := args
	if serial != "" {
		full = append([]string{"-s", serial}, args...)
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.runner.Run(ctx, full)
	c.logger.Debug().
		Strs("args", full).
		Dur("took", time.Since(start)).
		Err(err).
		Msg("adb")

	// Without checkError the output belongs to the device command, so only
	// a failing adb process can mean the device is gone.
	if serial != "" && (checkError || err != nil) && unreachable(out) {
		return out, &DeviceUnreachableError{Serial: serial, Output: out}
	}
	if err != nil {
		var failed *CommandFailedError
		if errors.As(err, &failed) {
			failed.Args = args
			failed.Serial = serial
		}
		return out, err
	}
	if checkError && strings.HasPrefix(strings.TrimSpace(out), "error:") {
		return out, &CommandFailedError{Args: args, Output: out, Status: -1, Serial: serial}
	}
	return out, nil
}

func unreachable(output string) bool {
	s := strings.ToLower(strings.TrimSpace(output))
	if !strings.HasPrefix(s, "error:") {
		return false
	}
	if strings.Contains(s, "no devices/emulators found") {
		return true
	}
	return strings.Contains(s, "error: device") &&
		(strings.Contains(s, "not found") || strings.Contains(s, "offline"))
}

// RawDevices returns `adb devices` rows split on whitespace, header removed.
func (c *Client) RawDevices(ctx context.Context) ([][]string, error) {
	out, err := c.run(ctx, "", []string{"devices"}, true)
	if err != nil {
		return nil, err
	}
	return splitDeviceLines(out), nil
}

// Devices returns all connected ADB devices.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	out, err := c.run(ctx, "", []string{"devices", "-l"}, true)
	if err != nil {
		return nil, err
	}
	return parseDeviceList(out), nil
}

// Wrappers returns handles for the devices in one of states, "device" by default.
func (c *Client) Wrappers(ctx context.Context, states ...State) ([]*Wrapper, error) {
	if len(states) == 0 {
		states = []State{StateDevice}
	}
	devices, err := c.Devices(ctx)
	if err != nil {
		return nil, err
	}
	matching := lo.Filter(devices, func(d Device, _ int) bool {
		return lo.Contains(states, d.State)
	})
	return lo.Map(matching, func(d Device, _ int) *Wrapper {
		return c.Wrapper(d.Serial)
	}), nil
}

// Connect connects to a network ADB device at host:port.
func (c *Client) Connect(ctx context.Context, addr string) error {
	out, err := c.run(ctx, "", []string{"connect", addr}, true)
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(out), "connected to") {
		return nil
	}
	return &CommandFailedError{Args: []string{"connect", addr}, Output: out, Status: -1}
}

// Disconnect drops a network ADB device, or all of them when addr is empty.
func (c *Client) Disconnect(ctx context.Context, addr string) error {
	args := []string{"disconnect"}
	if addr != "" {
		args = append(args, addr)
	}
	out, err := c.run(ctx, "", args, true)
	if err != nil {
		return err
	}
	if strings.Contains(strings.ToLower(out), "disconnected") {
		return nil
	}
	return &CommandFailedError{Args: args, Output: out, Status: -1}
}

// Version returns the adb client version, e.g. "1.0.41".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "", []string{"version"}, true)
	if err != nil {
		return "", err
	}
	v := parseVersion(out)
	if v == "" {
		return "", fmt.Errorf("adb version: unrecognized output %q", strings.TrimSpace(out))
	}
	return v, nil
}

// KillServer stops the adb server.
func (c *Client) KillServer(ctx context.Context) error {
	_, err := c.run(ctx, "", []string{"kill-server"}, true)
	return err
}

// StartServer starts the adb server if it is not already running.
func (c *Client) StartServer(ctx context.Context) error {
	_, err := c.run(ctx, "", []string{"start-server"}, true)
	return err
}

// ForwardList returns every active port forward across devices.
func (c *Client) ForwardList(ctx context.Context) ([]Forward, error) {
	out, err := c.run(ctx, "", []string{"forward", "--list"}, true)
	if err != nil {
		return nil, err
	}
	return parseForwardList(out), nil
}
