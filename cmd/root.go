package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/adb"
)

// Version of adbctl.
const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "adbctl",
	Short:   "Typed wrapper around the Android Debug Bridge",
	Version: Version,
	Long: `adbctl shells out to adb and turns its plain-text answers into typed results:
device state, dm-verity status, shell exit codes and command failures.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError makes the process exit with code, e.g. a device command's status.
type exitError struct {
	code int
}

func (e exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// requireDeps returns a PersistentPreRunE that checks for the adb binary.
func requireDeps() func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return checkDeps(cmd)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exit exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagSerial, "serial", "s", "", "Device serial or nickname (default: $ANDROID_SERIAL or the only online device)")
	pf.StringVar(&flagADB, "adb", "adb", "Path to the adb binary")
	pf.DurationVar(&flagTimeout, "timeout", adb.DefaultTimeout, "Timeout for each adb invocation")
	pf.IntVar(&flagRetries, "retries", adb.DefaultRetries, "Retries for timed out or unreachable devices")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	pf.BoolVar(&flagNoHistory, "no-history", false, "Do not record commands in the history database")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path on exit")
}
