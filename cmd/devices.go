package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/adb"
	"github.com/FluidXR/adbctl/internal/config"
)

var devicesNicknameNew bool

var devicesCmd = &cobra.Command{
	Use:               "devices",
	Short:             "List connected devices and their state",
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, e *env) error {
			devices, err := e.client.Devices(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(devices) == 0 {
				fmt.Fprintln(out, "No devices connected.")
				return nil
			}

			if devicesNicknameNew {
				if err := nicknameNewDevices(cmd.InOrStdin(), out, e.cfg, devices); err != nil {
					return err
				}
			}

			for _, d := range devices {
				e.recordState(d.Serial, d.State)

				nickname := ""
				if n := e.cfg.Nickname(d.Serial); n != "" {
					nickname = fmt.Sprintf(" (%s)", n)
				}
				fmt.Fprintf(out, "%-20s %s  [%s] [%s]%s\n",
					d.Serial, d.Model, d.ConnType, colorState(d.State), nickname)
			}
			return nil
		})
	},
}

var stateCmd = &cobra.Command{
	Use:               "state",
	Short:             "Print the state adb reports for the device",
	Long:              `Prints device, offline, unauthorized, bootloader, no (no permissions), ... A serial missing from the listing is offline.`,
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDevice(cmd, func(ctx context.Context, e *env, w *adb.Wrapper) error {
			state, err := w.GetState(ctx)
			if err != nil {
				return err
			}
			e.recordState(w.DeviceSerial(), state)
			fmt.Fprintln(cmd.OutOrStdout(), state)
			return nil
		})
	},
}

// nicknameNewDevices asks for a nickname for every online device the config
// does not know yet. Skipped devices are still recorded so they are not asked
// about again.
func nicknameNewDevices(in io.Reader, out io.Writer, cfg *config.Config, devices []adb.Device) error {
	// Flags may have overridden fields on cfg; only devices are written back.
	saved, err := config.Load()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(in)
	changed := false
	for _, d := range devices {
		if !d.IsOnline() {
			continue
		}
		if _, known := saved.Devices[d.Serial]; known {
			continue
		}

		model := d.Model
		if model == "" {
			model = "unknown model"
		}
		fmt.Fprintf(out, "New device detected: %s (%s)\n", d.Serial, model)
		fmt.Fprint(out, "Give it a nickname (or press Enter to skip): ")
		name, _ := reader.ReadString('\n')
		name = strings.TrimSpace(name)

		dc := saved.Devices[d.Serial]
		dc.Nickname = name
		saved.Devices[d.Serial] = dc
		if cfg.Devices == nil {
			cfg.Devices = make(map[string]config.DeviceConfig)
		}
		cfg.Devices[d.Serial] = dc
		changed = true
	}

	if !changed {
		return nil
	}
	if err := config.Save(saved); err != nil {
		return fmt.Errorf("save nicknames: %w", err)
	}
	return nil
}

func colorState(s adb.State) string {
	switch s {
	case adb.StateDevice:
		return color.GreenString(string(s))
	case adb.StateUnauthorized, adb.StateNoPermissions:
		return color.YellowString(string(s))
	case adb.StateOffline:
		return color.RedString("OFFLINE")
	default:
		return string(s)
	}
}

func init() {
	devicesCmd.Flags().BoolVar(&devicesNicknameNew, "nickname-new", false, "Prompt for a nickname for each online device not in the config")
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(stateCmd)
}
