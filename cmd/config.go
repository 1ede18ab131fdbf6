package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage adbctl configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file: %s\n\n", config.ConfigPath())
		fmt.Fprintf(out, "adb path:  %s\n", cfg.ADBPath)
		fmt.Fprintf(out, "Timeout:   %s\n", cfg.Timeout)
		fmt.Fprintf(out, "Retries:   %d\n", cfg.Retries)
		fmt.Fprintf(out, "Log level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "History:   %t\n", cfg.History)
		fmt.Fprintf(out, "\nDevices:\n")
		if len(cfg.Devices) == 0 {
			fmt.Fprintln(out, "  (none configured)")
		}
		serials := make([]string, 0, len(cfg.Devices))
		for serial := range cfg.Devices {
			serials = append(serials, serial)
		}
		sort.Strings(serials)
		for _, serial := range serials {
			dc := cfg.Devices[serial]
			fmt.Fprintf(out, "  - %s", serial)
			if dc.Nickname != "" {
				fmt.Fprintf(out, " (%s)", dc.Nickname)
			}
			if dc.WiFiIP != "" {
				fmt.Fprintf(out, " [wifi: %s]", dc.WiFiIP)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.DefaultConfig()
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config created at %s\n", config.ConfigPath())
		return nil
	},
}

// updateDevice loads the config, edits one device entry and saves it.
func updateDevice(serial string, edit func(dc *config.DeviceConfig)) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	dc := cfg.Devices[serial]
	edit(&dc)
	cfg.Devices[serial] = dc
	return config.Save(cfg)
}

var configNicknameCmd = &cobra.Command{
	Use:   "nickname <serial> <name>",
	Short: "Set a nickname for a device",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial, name := args[0], args[1]
		if err := updateDevice(serial, func(dc *config.DeviceConfig) { dc.Nickname = name }); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set nickname for %s: %s\n", serial, name)
		return nil
	},
}

var configSetWiFiCmd = &cobra.Command{
	Use:   "set-wifi <serial> <ip>",
	Short: "Set WiFi IP for a device (for wireless ADB)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		serial, ip := args[0], args[1]
		if err := updateDevice(serial, func(dc *config.DeviceConfig) { dc.WiFiIP = ip }); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set WiFi IP for %s: %s\n", serial, ip)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set adb_path, timeout, retries, log_level or history",
	Long:  `Example: adbctl config set timeout 1m`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		switch key {
		case "adb_path":
			cfg.ADBPath = value
		case "timeout":
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("timeout: %w", err)
			}
			cfg.Timeout = d
		case "retries":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return fmt.Errorf("retries must be a non-negative integer, got %q", value)
			}
			cfg.Retries = n
		case "log_level":
			if _, err := newLogger(value); err != nil {
				return err
			}
			cfg.LogLevel = value
		case "history":
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			cfg.History = b
		default:
			return fmt.Errorf("unknown config key %q", key)
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s: %s\n", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configNicknameCmd)
	configCmd.AddCommand(configSetWiFiCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
