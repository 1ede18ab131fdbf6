package adb

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCommandFailed matches every adb failure returned by this package via errors.Is.
var ErrCommandFailed = errors.New("adb command failed")

// CommandFailedError is returned when adb exits non-zero or prints an error message.
type CommandFailedError struct {
	Args   []string
	Output string
	Status int // -1 when the exit status is unknown
	Serial string
}

func (e *CommandFailedError) Error() string {
	var b strings.Builder
	b.WriteString("adb")
	if e.Serial != "" {
		fmt.Fprintf(&b, " -s %s", e.Serial)
	}
	fmt.Fprintf(&b, " %s failed", strings.Join(e.Args, " "))
	if e.Status >= 0 {
		fmt.Fprintf(&b, " with exit status %d", e.Status)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		fmt.Fprintf(&b, ": %s", out)
	}
	return b.String()
}

func (e *CommandFailedError) Is(target error) bool { return target == ErrCommandFailed }

// ShellCommandFailedError is returned when a device shell command exits with
// an unexpected status.
type ShellCommandFailedError struct {
	Command string
	Output  string
	Status  int // -1 when no status marker was found
	Serial  string
}

func (e *ShellCommandFailedError) Error() string {
	if e.Status < 0 {
		return fmt.Sprintf("adb -s %s shell %q: no exit status in output: %s",
			e.Serial, e.Command, strings.TrimSpace(e.Output))
	}
	return fmt.Sprintf("adb -s %s shell %q exited with status %d: %s",
		e.Serial, e.Command, e.Status, strings.TrimSpace(e.Output))
}

func (e *ShellCommandFailedError) Is(target error) bool { return target == ErrCommandFailed }

// DeviceUnreachableError is returned when adb reports the device as missing or offline.
type DeviceUnreachableError struct {
	Serial string
	Output string
}

func (e *DeviceUnreachableError) Error() string {
	return fmt.Sprintf("device %s unreachable: %s", e.Serial, strings.TrimSpace(e.Output))
}

func (e *DeviceUnreachableError) Is(target error) bool { return target == ErrCommandFailed }

// CommandTimeoutError is returned when an adb invocation outlives its deadline.
type CommandTimeoutError struct {
	Args   []string
	Output string
}

func (e *CommandTimeoutError) Error() string {
	return fmt.Sprintf("adb %s timed out", strings.Join(e.Args, " "))
}

func (e *CommandTimeoutError) Is(target error) bool { return target == ErrCommandFailed }

// transient reports whether err is worth retrying.
func transient(err error) bool {
	var timeout *CommandTimeoutError
	var unreachable *DeviceUnreachableError
	return errors.As(err, &timeout) || errors.As(err, &unreachable)
}
