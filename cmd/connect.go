package cmd

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"
)

const defaultADBPort = "5555"

var connectCmd = &cobra.Command{
	Use:   "connect <host[:port]|serial|nickname>",
	Short: "Connect to a device over the network",
	Long: `Connects to a device running adb over TCP. A serial or nickname with a
configured WiFi IP (see 'adbctl config set-wifi') connects to that IP.`,
	Args:              cobra.ExactArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, e *env) error {
			addr := connectAddr(e, args[0])
			if err := e.client.Connect(ctx, addr); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s\n", addr)
			return nil
		})
	},
}

var disconnectCmd = &cobra.Command{
	Use:               "disconnect [host[:port]|serial|nickname]",
	Short:             "Disconnect a network device, or all of them",
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: requireDeps(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(cmd, func(ctx context.Context, e *env) error {
			addr := ""
			if len(args) == 1 {
				addr = connectAddr(e, args[0])
			}
			if err := e.client.Disconnect(ctx, addr); err != nil {
				return err
			}
			if addr == "" {
				addr = "all devices"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Disconnected %s\n", addr)
			return nil
		})
	},
}

// connectAddr maps a configured serial or nickname to its WiFi address and
// adds the default port when none is given.
func connectAddr(e *env, target string) string {
	serial := e.cfg.SerialFor(target)
	if dc, ok := e.cfg.Devices[serial]; ok && dc.WiFiIP != "" {
		target = dc.WiFiIP
	}
	if _, _, err := net.SplitHostPort(target); err != nil && !strings.Contains(target, "]") {
		return net.JoinHostPort(target, defaultADBPort)
	}
	return target
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(disconnectCmd)
}
