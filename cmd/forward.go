package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/adb"
)

var (
	forwardRebind bool
	forwardList   bool
	forwardRemove bool
)

var forwardCmd = &cobra.Command{
	Use:   "forward [<local> <remote>]",
	Short: "Forward a local socket to the device",
	Long: `Examples:
  adbctl forward tcp:8080 tcp:80
  adbctl forward --remove tcp:8080
  adbctl forward --list`,
	Args:              cobra.MaximumNArgs(2),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if forwardList {
			return withClient(cmd, func(ctx context.Context, e *env) error {
				forwards, err := e.client.ForwardList(ctx)
				if err != nil {
					return err
				}
				for _, f := range forwards {
					fmt.Fprintf(out, "%-20s %s -> %s\n", f.Serial, f.Local, f.Remote)
				}
				return nil
			})
		}
		if forwardRemove {
			if len(args) != 1 {
				return fmt.Errorf("--remove takes exactly one local socket")
			}
			return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
				return w.ForwardRemove(ctx, args[0])
			})
		}
		if len(args) != 2 {
			return fmt.Errorf("forward needs <local> and <remote>")
		}
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			if err := w.Forward(ctx, args[0], args[1], forwardRebind); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %s -> %s\n", w.DeviceSerial(), args[0], args[1])
			return nil
		})
	},
}

func init() {
	forwardCmd.Flags().BoolVar(&forwardRebind, "rebind", false, "Replace an existing forward on the same local socket")
	forwardCmd.Flags().BoolVar(&forwardList, "list", false, "List all forwards")
	forwardCmd.Flags().BoolVar(&forwardRemove, "remove", false, "Remove the forward on <local>")
	rootCmd.AddCommand(forwardCmd)
}
