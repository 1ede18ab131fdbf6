package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/adb"
)

var (
	lsRecursive bool
	rmConfirm   bool
	rmDryRun    bool
)

var lsCmd = &cobra.Command{
	Use:               "ls <remote-dir>",
	Short:             "List files in a directory on the device",
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			list := w.ListFiles
			if lsRecursive {
				list = w.ListFilesRecursive
			}
			files, err := list(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintf(out, "%8s  %s  %s\n",
					humanize.Bytes(uint64(f.Size)), f.MTime.Format("2006-01-02 15:04"), f.Path)
			}
			return nil
		})
	},
}

var pullCmd = &cobra.Command{
	Use:               "pull <remote> [local]",
	Short:             "Copy a file from the device",
	Args:              cobra.RangeArgs(1, 2),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		local := path.Base(args[0])
		if len(args) == 2 {
			local = args[1]
		}
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			if err := w.Pull(ctx, args[0], local); err != nil {
				return err
			}
			if fi, err := os.Stat(local); err == nil && !fi.IsDir() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", args[0], local, humanize.Bytes(uint64(fi.Size())))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], local)
			return nil
		})
	},
}

var pushCmd = &cobra.Command{
	Use:               "push <local> <remote>",
	Short:             "Copy a file to the device",
	Args:              cobra.ExactArgs(2),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			if err := w.Push(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", filepath.Clean(args[0]), args[1])
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <remote>...",
	Short: "Delete files from the device",
	Long: `Removes the given files from the device.
Lists them and asks for confirmation first unless --confirm is passed.`,
	Args:              cobra.MinimumNArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Device %s: %d files to delete:\n", w.DeviceSerial(), len(args))
			for _, p := range args {
				fmt.Fprintf(out, "  %s\n", p)
			}

			if rmDryRun {
				fmt.Fprintln(out, "  (dry run, no files deleted)")
				return nil
			}

			if !rmConfirm {
				fmt.Fprint(out, "\nDelete these files from the device? [y/N] ")
				reader := bufio.NewReader(cmd.InOrStdin())
				answer, _ := reader.ReadString('\n')
				answer = strings.TrimSpace(strings.ToLower(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(out, "Skipped.")
					return nil
				}
			}

			deleted := 0
			for _, p := range args {
				if err := w.Remove(ctx, p); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "  Error deleting %s: %v\n", p, err)
					continue
				}
				deleted++
			}
			fmt.Fprintf(out, "  Deleted %d files from device %s\n", deleted, w.DeviceSerial())
			if deleted < len(args) {
				return fmt.Errorf("%d of %d files could not be deleted", len(args)-deleted, len(args))
			}
			return nil
		})
	},
}

func init() {
	lsCmd.Flags().BoolVarP(&lsRecursive, "recursive", "R", false, "List subdirectories too")
	rmCmd.Flags().BoolVar(&rmConfirm, "confirm", false, "Skip confirmation prompt")
	rmCmd.Flags().BoolVar(&rmDryRun, "dry-run", false, "Show what would be deleted without deleting")
	rootCmd.AddCommand(lsCmd, pullCmd, pushCmd, rmCmd)
}
