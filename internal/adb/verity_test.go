package adb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisableVerity(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   VerityResult
	}{
		{
			name:   "already disabled",
			output: "Verity already disabled on /system",
			want:   VerityAlreadySet,
		},
		{
			name:   "was enabled",
			output: "Verity disabled on /system\nNow reboot your device for settings to take effect",
			want:   VerityRebootRequired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := replyWith(tt.output)
			for _, w := range testWrappers(runner) {
				got, err := w.DisableVerity(context.Background())
				require.NoError(t, err, w.DeviceSerial())
				assert.Equal(t, tt.want, got, w.DeviceSerial())
				assert.Equal(t, "-s "+w.DeviceSerial()+" disable-verity", runner.lastCall())
			}
		})
	}
}

func TestEnableVerity(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   VerityResult
	}{
		{
			name:   "already enabled",
			output: "Verity already enabled on /system",
			want:   VerityAlreadySet,
		},
		{
			name:   "was disabled",
			output: "Verity enabled on /system\nNow reboot your device for settings to take effect",
			want:   VerityRebootRequired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := replyWith(tt.output)
			for _, w := range testWrappers(runner) {
				got, err := w.EnableVerity(context.Background())
				require.NoError(t, err, w.DeviceSerial())
				assert.Equal(t, tt.want, got, w.DeviceSerial())
				assert.Equal(t, "-s "+w.DeviceSerial()+" enable-verity", runner.lastCall())
			}
		})
	}
}

func TestVerityClosedConnectionFails(t *testing.T) {
	ops := map[string]func(*Wrapper, context.Context) (VerityResult, error){
		"enable":  (*Wrapper).EnableVerity,
		"disable": (*Wrapper).DisableVerity,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			runner := replyWith("error: closed")
			client := NewClient(WithRunner(runner), WithRetries(3))
			for _, serial := range testSerials {
				w := client.Wrapper(serial)
				_, err := op(w, context.Background())
				require.Error(t, err)

				var failed *CommandFailedError
				require.True(t, errors.As(err, &failed), "got %T", err)
				assert.Equal(t, w.DeviceSerial(), failed.Serial)
				assert.Equal(t, "error: closed", failed.Output)
				assert.ErrorIs(t, err, ErrCommandFailed)
			}
			// Failures are not retried.
			assert.Equal(t, len(testSerials), runner.callCount())
		})
	}
}

func TestVerityUnexpectedOutputFails(t *testing.T) {
	runner := replyWith("verity cannot be disabled/enabled - USER build")
	for _, w := range testWrappers(runner) {
		_, err := w.DisableVerity(context.Background())
		assert.ErrorIs(t, err, ErrCommandFailed)
	}
}

func TestClassifyVerity(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   VerityResult
		ok     bool
	}{
		{"empty", "", VerityAlreadySet, true},
		{"lowercase already", "verity is already disabled", VerityAlreadySet, true},
		{"newer builds", "Successfully disabled verity\nNow reboot your device for settings to take effect", VerityRebootRequired, true},
		{"one partition changed", "Verity already disabled on /system\nVerity disabled on /vendor", VerityRebootRequired, true},
		{"reboot prompt only", "Now reboot your device for settings to take effect", VerityRebootRequired, true},
		{"wrong direction", "Verity enabled on /system", VerityAlreadySet, false},
		{"garbage", "something else", VerityAlreadySet, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifyVerity(tt.output, verityDisabledRE)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestVerityRebootPromptOnly(t *testing.T) {
	runner := replyWith("Now reboot your device for settings to take effect")
	for _, w := range testWrappers(runner) {
		got, err := w.DisableVerity(context.Background())
		require.NoError(t, err, w.DeviceSerial())
		assert.Equal(t, VerityRebootRequired, got)

		got, err = w.EnableVerity(context.Background())
		require.NoError(t, err, w.DeviceSerial())
		assert.Equal(t, VerityRebootRequired, got)
	}
}
