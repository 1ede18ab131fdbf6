package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/adb"
)

var (
	installOpts       adb.InstallOptions
	uninstallKeepData bool
)

var installCmd = &cobra.Command{
	Use:               "install <apk>",
	Short:             "Install an APK on the device",
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			if err := w.Install(ctx, args[0], installOpts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: installed %s\n", w.DeviceSerial(), args[0])
			return nil
		})
	},
}

var uninstallCmd = &cobra.Command{
	Use:               "uninstall <package>",
	Short:             "Uninstall a package from the device",
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			if err := w.Uninstall(ctx, args[0], uninstallKeepData); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: uninstalled %s\n", w.DeviceSerial(), args[0])
			return nil
		})
	},
}

func init() {
	installCmd.Flags().BoolVarP(&installOpts.Reinstall, "reinstall", "r", false, "Replace the existing application")
	installCmd.Flags().BoolVarP(&installOpts.AllowDowngrade, "downgrade", "d", false, "Allow a version code downgrade")
	installCmd.Flags().BoolVarP(&installOpts.GrantPermissions, "grant", "g", false, "Grant all runtime permissions")
	uninstallCmd.Flags().BoolVarP(&uninstallKeepData, "keep-data", "k", false, "Keep the data and cache directories")
	rootCmd.AddCommand(installCmd, uninstallCmd)
}
