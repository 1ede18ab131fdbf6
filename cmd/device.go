package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/adb"
)

var rebootBootloader bool

// deviceAction builds a command that runs one Wrapper method and reports success.
// action takes the method expression form, e.g. (*adb.Wrapper).Root.
func deviceAction(use, short, done string, action func(w *adb.Wrapper, ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:               use,
		Short:             short,
		Args:              cobra.NoArgs,
		PersistentPreRunE: requireDeps(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
				if err := action(w, ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", w.DeviceSerial(), done)
				return nil
			})
		},
	}
}

var rebootCmd = deviceAction("reboot", "Reboot the device", "rebooting",
	func(w *adb.Wrapper, ctx context.Context) error {
		return w.Reboot(ctx, rebootBootloader)
	})

var devpathCmd = &cobra.Command{
	Use:               "devpath",
	Short:             "Print the device path, e.g. usb:1-2.3",
	Args:              cobra.NoArgs,
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			path, err := w.GetDevPath(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		})
	},
}

func init() {
	rebootCmd.Flags().BoolVar(&rebootBootloader, "bootloader", false, "Reboot into the bootloader")

	rootCmd.AddCommand(
		deviceAction("root", "Restart adbd as root", "adbd running as root", (*adb.Wrapper).Root),
		deviceAction("unroot", "Restart adbd without root", "adbd running as non-root", (*adb.Wrapper).Unroot),
		deviceAction("remount", "Remount system partitions read-write", "remounted", (*adb.Wrapper).Remount),
		deviceAction("wait", "Wait until the device is reachable", "ready", (*adb.Wrapper).WaitForDevice),
		rebootCmd,
		devpathCmd,
	)
}
