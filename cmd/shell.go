package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/adb"
)

var shellNoCheck bool

var shellCmd = &cobra.Command{
	Use:               "shell <command>...",
	Short:             "Run a shell command on the device and check its exit status",
	Args:              cobra.MinimumNArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := strings.Join(args, " ")
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			var (
				out string
				err error
			)
			if shellNoCheck {
				out, err = w.ShellRaw(ctx, command)
			} else {
				out, err = w.Shell(ctx, command)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)

			var failed *adb.ShellCommandFailedError
			if errors.As(err, &failed) && failed.Status > 0 {
				return exitError{code: failed.Status}
			}
			return err
		})
	},
}

func init() {
	shellCmd.Flags().BoolVar(&shellNoCheck, "no-check", false, "Do not check the exit status")
	shellCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(shellCmd)
}
