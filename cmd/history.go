package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/config"
	"github.com/FluidXR/adbctl/internal/history"
)

var (
	historyLimit  int
	historyStates bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded adb commands",
	Long: `Shows the adb invocations adbctl has made, newest first.
With --serial only that device's commands are listed. --states shows the last
state observed for each device instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		db, err := history.Open(config.ConfigDir())
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer db.Close()

		out := cmd.OutOrStdout()
		if historyStates {
			states, err := db.LastStates()
			if err != nil {
				return err
			}
			if len(states) == 0 {
				fmt.Fprintln(out, "No devices observed yet.")
			}
			for _, s := range states {
				fmt.Fprintf(out, "%-20s %-14s %s\n", s.Serial, s.State, s.ObservedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return nil
		}

		serial := ""
		if flagSerial != "" {
			serial = cfg.SerialFor(flagSerial)
		}
		commands, err := db.Recent(serial, historyLimit)
		if err != nil {
			return err
		}
		if len(commands) == 0 {
			fmt.Fprintln(out, "No commands recorded.")
			return nil
		}
		for _, c := range commands {
			target := c.Serial
			if target == "" {
				target = "(host)"
			}
			result := "ok"
			if c.Error != "" {
				result = fmt.Sprintf("failed (%d)", c.Status)
			}
			fmt.Fprintf(out, "%s  %-20s %-12s %6dms  adb %s\n",
				c.StartedAt.Local().Format("2006-01-02 15:04:05"), target, result,
				c.Duration.Milliseconds(), strings.Join(c.Args, " "))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of commands to show")
	historyCmd.Flags().BoolVar(&historyStates, "states", false, "Show last observed device states")
	rootCmd.AddCommand(historyCmd)
}
