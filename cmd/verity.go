package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/adb"
)

var verityReboot bool

var verityCmd = &cobra.Command{
	Use:               "verity",
	Short:             "Enable or disable dm-verity on the device",
	PersistentPreRunE: requireDeps(),
}

var verityEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable dm-verity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerity(cmd, (*adb.Wrapper).EnableVerity, "enabled")
	},
}

var verityDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable dm-verity",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerity(cmd, (*adb.Wrapper).DisableVerity, "disabled")
	},
}

func runVerity(cmd *cobra.Command, op func(*adb.Wrapper, context.Context) (adb.VerityResult, error), word string) error {
	return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
		result, err := op(w, ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if result == adb.VerityAlreadySet {
			fmt.Fprintf(out, "%s: verity already %s\n", w.DeviceSerial(), word)
			return nil
		}
		fmt.Fprintf(out, "%s: verity %s, %s\n", w.DeviceSerial(), word, color.YellowString("reboot required"))
		if !verityReboot {
			return nil
		}
		fmt.Fprintf(out, "%s: rebooting\n", w.DeviceSerial())
		return w.Reboot(ctx, false)
	})
}

func init() {
	verityCmd.PersistentFlags().BoolVar(&verityReboot, "reboot", false, "Reboot the device if the change needs it")
	verityCmd.AddCommand(verityEnableCmd)
	verityCmd.AddCommand(verityDisableCmd)
	rootCmd.AddCommand(verityCmd)
}
