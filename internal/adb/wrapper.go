package adb

import (
	"context"
	"fmt"
	"strings"
)

// Wrapper runs adb commands against a single device serial.
type Wrapper struct {
	client *Client
	serial string
}

// NewWrapper creates a Wrapper for serial backed by a fresh Client.
func NewWrapper(serial string, opts ...Option) *Wrapper {
	return NewClient(opts...).Wrapper(serial)
}

// Wrapper returns a handle for serial that shares the client's runner and options.
func (c *Client) Wrapper(serial string) *Wrapper {
	return &Wrapper{client: c, serial: serial}
}

// DeviceSerial returns the serial this wrapper targets.
func (w *Wrapper) DeviceSerial() string {
	return w.serial
}

func (w *Wrapper) String() string {
	return w.serial
}

func (w *Wrapper) runDevice(ctx context.Context, args ...string) (string, error) {
	return w.client.run(ctx, w.serial, args, true)
}

func (w *Wrapper) failed(args []string, output string) error {
	return &CommandFailedError{Args: args, Output: output, Status: -1, Serial: w.serial}
}

// GetState returns the status token `adb devices` lists for this serial,
// or StateOffline if the serial is not listed.
func (w *Wrapper) GetState(ctx context.Context) (State, error) {
	rows, err := w.client.RawDevices(ctx)
	if err != nil {
		return "", err
	}
	return stateFromRows(rows, w.serial), nil
}

// IsOnline reports whether the device is listed in "device" state.
func (w *Wrapper) IsOnline(ctx context.Context) (bool, error) {
	state, err := w.GetState(ctx)
	if err != nil {
		return false, err
	}
	return state == StateDevice, nil
}

// Shell runs command on the device and fails unless it exits with status 0.
// The returned output excludes the exit status marker.
func (w *Wrapper) Shell(ctx context.Context, command string) (string, error) {
	command = strings.TrimRight(command, " \t\r\n")
	args := []string{"shell", fmt.Sprintf("( %s );echo %%$?", command)}
	out, err := w.client.run(ctx, w.serial, args, false)
	if err != nil {
		return out, err
	}
	body, status, ok := splitShellStatus(out)
	if !ok {
		return out, &ShellCommandFailedError{Command: command, Output: out, Status: -1, Serial: w.serial}
	}
	if status != 0 {
		return body, &ShellCommandFailedError{Command: command, Output: body, Status: status, Serial: w.serial}
	}
	return body, nil
}

// ShellRaw runs command on the device without checking its exit status.
func (w *Wrapper) ShellRaw(ctx context.Context, command string) (string, error) {
	return w.client.run(ctx, w.serial, []string{"shell", command}, false)
}

// Root restarts adbd with root permissions.
func (w *Wrapper) Root(ctx context.Context) error {
	return w.rootCommand(ctx, "root")
}

// Unroot restarts adbd without root permissions.
func (w *Wrapper) Unroot(ctx context.Context) error {
	return w.rootCommand(ctx, "unroot")
}

func (w *Wrapper) rootCommand(ctx context.Context, name string) error {
	out, err := w.runDevice(ctx, name)
	if err != nil {
		return err
	}
	if strings.Contains(out, "cannot") {
		return w.failed([]string{name}, out)
	}
	return nil
}

// Remount remounts /system and friends read-write.
func (w *Wrapper) Remount(ctx context.Context) error {
	out, err := w.runDevice(ctx, "remount")
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(out), "remount succeeded") {
		return w.failed([]string{"remount"}, out)
	}
	return nil
}

// Reboot reboots the device, into the bootloader if toBootloader is set.
func (w *Wrapper) Reboot(ctx context.Context, toBootloader bool) error {
	cmd := "reboot"
	if toBootloader {
		cmd = "reboot-bootloader"
	}
	_, err := w.runDevice(ctx, cmd)
	return err
}

// WaitForDevice blocks until the device is reachable or ctx/the timeout expires.
func (w *Wrapper) WaitForDevice(ctx context.Context) error {
	_, err := w.runDevice(ctx, "wait-for-device")
	return err
}

// GetDevPath returns the device path, e.g. "usb:1-2.3".
func (w *Wrapper) GetDevPath(ctx context.Context) (string, error) {
	out, err := w.runDevice(ctx, "get-devpath")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Forward forwards local to remote, e.g. "tcp:8080" to "tcp:80".
func (w *Wrapper) Forward(ctx context.Context, local, remote string, allowRebind bool) error {
	args := []string{"forward"}
	if !allowRebind {
		args = append(args, "--no-rebind")
	}
	args = append(args, local, remote)
	_, err := w.runDevice(ctx, args...)
	return err
}

// ForwardRemove removes the forward bound to local.
func (w *Wrapper) ForwardRemove(ctx context.Context, local string) error {
	_, err := w.runDevice(ctx, "forward", "--remove", local)
	return err
}

// InstallOptions controls `adb install` flags.
type InstallOptions struct {
	Reinstall        bool
	AllowDowngrade   bool
	GrantPermissions bool
}

// Install installs the APK at apkPath.
func (w *Wrapper) Install(ctx context.Context, apkPath string, opts InstallOptions) error {
	if err := requireLocal(apkPath); err != nil {
		return err
	}
	args := []string{"install"}
	if opts.Reinstall {
		args = append(args, "-r")
	}
	if opts.AllowDowngrade {
		args = append(args, "-d")
	}
	if opts.GrantPermissions {
		args = append(args, "-g")
	}
	args = append(args, apkPath)
	out, err := w.runDevice(ctx, args...)
	if err != nil {
		return err
	}
	if !strings.Contains(out, "Success") {
		return w.failed(args, out)
	}
	return nil
}

// Uninstall removes pkg, keeping its data and cache directories if keepData is set.
func (w *Wrapper) Uninstall(ctx context.Context, pkg string, keepData bool) error {
	args := []string{"uninstall"}
	if keepData {
		args = append(args, "-k")
	}
	args = append(args, pkg)
	out, err := w.runDevice(ctx, args...)
	if err != nil {
		return err
	}
	if strings.Contains(out, "Failure") || strings.Contains(out, "Exception") {
		return w.failed(args, out)
	}
	return nil
}
