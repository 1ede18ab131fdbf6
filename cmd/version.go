package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:               "adb-version",
	Short:             "Print the adb client version",
	Args:              cobra.NoArgs,
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, e *env) error {
			v, err := e.client.Version(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "adbctl %s, adb %s\n", Version, v)
			return nil
		})
	},
}

var killServerCmd = &cobra.Command{
	Use:               "kill-server",
	Short:             "Stop the adb server",
	Args:              cobra.NoArgs,
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, e *env) error {
			return e.client.KillServer(ctx)
		})
	},
}

var startServerCmd = &cobra.Command{
	Use:               "start-server",
	Short:             "Start the adb server",
	Args:              cobra.NoArgs,
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, e *env) error {
			return e.client.StartServer(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd, killServerCmd, startServerCmd)
}
