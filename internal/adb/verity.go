package adb

import (
	"context"
	"regexp"
	"strings"
)

// VerityResult describes what a verity toggle did.
type VerityResult int

const (
	// VerityAlreadySet means verity was already in the requested state.
	VerityAlreadySet VerityResult = iota
	// VerityRebootRequired means the state changed and takes effect after a reboot.
	VerityRebootRequired
)

func (r VerityResult) String() string {
	switch r {
	case VerityAlreadySet:
		return "already set"
	case VerityRebootRequired:
		return "reboot required"
	default:
		return "unknown"
	}
}

var (
	verityDisabledRE = regexp.MustCompile(`(?i)verity (?:is )?(already )?disabled|successfully disabled verity|now reboot your device`)
	verityEnabledRE  = regexp.MustCompile(`(?i)verity (?:is )?(already )?enabled|successfully enabled verity|now reboot your device`)
)

// DisableVerity turns dm-verity off.
func (w *Wrapper) DisableVerity(ctx context.Context) (VerityResult, error) {
	return w.setVerity(ctx, "disable-verity", verityDisabledRE)
}

// EnableVerity turns dm-verity on.
func (w *Wrapper) EnableVerity(ctx context.Context) (VerityResult, error) {
	return w.setVerity(ctx, "enable-verity", verityEnabledRE)
}

func (w *Wrapper) setVerity(ctx context.Context, cmd string, re *regexp.Regexp) (VerityResult, error) {
	out, err := w.runDevice(ctx, cmd)
	if err != nil {
		return VerityAlreadySet, err
	}
	result, ok := classifyVerity(out, re)
	if !ok {
		return VerityAlreadySet, w.failed([]string{cmd}, out)
	}
	w.client.logger.Info().Str("serial", w.serial).Str("command", cmd).Stringer("result", result).Msg("verity")
	return result, nil
}

// classifyVerity maps verity command output to a result. Output that matches
// neither phrase is not a success.
func classifyVerity(output string, re *regexp.Regexp) (VerityResult, bool) {
	if strings.TrimSpace(output) == "" {
		return VerityAlreadySet, true
	}
	matches := re.FindAllStringSubmatch(output, -1)
	if matches == nil {
		return VerityAlreadySet, false
	}
	// One partition changing is enough to need a reboot.
	for _, m := range matches {
		if m[1] == "" {
			return VerityRebootRequired, true
		}
	}
	return VerityAlreadySet, true
}
