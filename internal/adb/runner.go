package adb

import (
	"context"
	"errors"
	"os/exec"
	"time"
)

// waitDelay bounds how long a killed adb may keep its output pipes open.
const waitDelay = 2 * time.Second

// Runner executes a single adb invocation and returns its combined output.
type Runner interface {
	Run(ctx context.Context, args []string) (string, error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, args []string) (string, error)

func (f RunnerFunc) Run(ctx context.Context, args []string) (string, error) {
	return f(ctx, args)
}

// ExecRunner runs the adb binary found at Path.
type ExecRunner struct {
	Path string
}

// Run executes adb with args. A non-zero exit becomes a *CommandFailedError and
// an expired context deadline a *CommandTimeoutError; output is returned either way.
func (r ExecRunner) Run(ctx context.Context, args []string) (string, error) {
	path := r.Path
	if path == "" {
		path = "adb"
	}
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.WaitDelay = waitDelay
	out, err := cmd.CombinedOutput()
	output := string(out)
	if err == nil {
		return output, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return output, &CommandTimeoutError{Args: args, Output: output}
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return output, &CommandFailedError{Args: args, Output: output, Status: exitErr.ExitCode()}
	}
	return output, err
}

// SplitSerial separates a leading "-s <serial>" from an adb argument list.
func SplitSerial(args []string) (string, []string) {
	if len(args) >= 2 && args[0] == "-s" {
		return args[1], args[2:]
	}
	return "", args
}
