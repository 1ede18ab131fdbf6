package adb

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// shellQuote single-quotes s for the device shell.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func requireLocal(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("local file %s: %w", path, err)
	}
	return nil
}

// ListFiles lists files in a directory on the device, non-recursively.
// A missing directory yields no files and no error.
func (w *Wrapper) ListFiles(ctx context.Context, remotePath string) ([]FileInfo, error) {
	return w.findFiles(ctx, remotePath, "-maxdepth 1 ")
}

// ListFilesRecursive lists all files recursively under a directory.
func (w *Wrapper) ListFilesRecursive(ctx context.Context, remotePath string) ([]FileInfo, error) {
	return w.findFiles(ctx, remotePath, "")
}

func (w *Wrapper) findFiles(ctx context.Context, remotePath, depth string) ([]FileInfo, error) {
	cmd := fmt.Sprintf("find %s %s-type f -exec stat -c '%%s %%Y %%n' {} +", shellQuote(remotePath), depth)
	out, err := w.ShellRaw(ctx, cmd)
	if err != nil {
		if strings.Contains(out, "No such file") {
			return nil, nil
		}
		return nil, err
	}
	if strings.Contains(out, "No such file") && len(parseStatOutput(out)) == 0 {
		return nil, nil
	}
	return parseStatOutput(out), nil
}

// Push copies a local file to the device.
func (w *Wrapper) Push(ctx context.Context, localPath, remotePath string) error {
	if err := requireLocal(localPath); err != nil {
		return err
	}
	_, err := w.runDevice(ctx, "push", localPath, remotePath)
	return err
}

// Pull copies a file from the device to the local filesystem.
func (w *Wrapper) Pull(ctx context.Context, remotePath, localPath string) error {
	args := []string{"pull", remotePath, localPath}
	out, err := w.runDevice(ctx, args...)
	if err != nil {
		return err
	}
	// adb can exit 0 without writing the file.
	if _, err := os.Stat(localPath); err != nil {
		return w.failed(args, out)
	}
	return nil
}

// Remove deletes a file on the device.
func (w *Wrapper) Remove(ctx context.Context, remotePath string) error {
	_, err := w.Shell(ctx, "rm "+shellQuote(remotePath))
	return err
}
