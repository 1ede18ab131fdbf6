package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FluidXR/adbctl/internal/config"
)

var installCmds = map[string]string{
	"darwin":  "brew install android-platform-tools",
	"linux":   "sudo apt install android-tools-adb",
	"windows": "winget install Google.PlatformTools",
}

// lookPath is swapped out by tests that run against a fake adb.
var lookPath = exec.LookPath

// adbPath returns the adb binary the command will run.
func adbPath(cmd *cobra.Command) string {
	if changed(cmd, "adb") {
		return flagADB
	}
	if cfg, err := config.Load(); err == nil && cfg.ADBPath != "" {
		return cfg.ADBPath
	}
	return "adb"
}

// checkDeps verifies that adb is installed, offering to install it when it is not.
func checkDeps(cmd *cobra.Command) error {
	binary := adbPath(cmd)
	if _, err := lookPath(binary); err == nil {
		return nil
	}

	fmt.Printf("adbctl requires ADB (Android Debug Bridge), but %q was not found.\n\n", binary)

	install, ok := installCmds[runtime.GOOS]
	if !ok {
		return fmt.Errorf("%s is required but not installed; please install it manually", binary)
	}

	fmt.Printf("Install ADB with: %s\n", install)
	fmt.Print("Run now? [Y/n] ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.TrimSpace(strings.ToLower(answer))
	if answer != "" && answer != "y" && answer != "yes" {
		return fmt.Errorf("%s is required but not installed", binary)
	}

	fmt.Printf("Running: %s\n", install)
	parts := strings.Fields(install)
	c := exec.Command(parts[0], parts[1:]...)
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	c.Stdin = os.Stdin
	if err := c.Run(); err != nil {
		return fmt.Errorf("install adb: %w", err)
	}

	if _, err := lookPath(binary); err != nil {
		return fmt.Errorf("%s is required but not installed", binary)
	}
	fmt.Println("ADB installed successfully.")
	return nil
}
