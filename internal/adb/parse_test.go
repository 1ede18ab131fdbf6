package adb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitDeviceLines(t *testing.T) {
	rows := splitDeviceLines("List of devices attached\n" +
		"ABC12345678\tno permissions (udev requires plugdev group membership); see [http://developer.android.com/tools/device.html]\n" +
		"\n")
	assert.Equal(t, [][]string{{
		"ABC12345678", "no", "permissions", "(udev", "requires", "plugdev", "group",
		"membership);", "see", "[http://developer.android.com/tools/device.html]",
	}}, rows)
	assert.Empty(t, splitDeviceLines(""))
}

func TestConnTypeOf(t *testing.T) {
	assert.Equal(t, USB, connTypeOf("ABC12345678"))
	assert.Equal(t, USB, connTypeOf("usb:1-2.3"))
	assert.Equal(t, WiFi, connTypeOf("192.168.1.20:5555"))
	assert.Equal(t, Unknown, connTypeOf(""))
}

func TestParseStatOutput(t *testing.T) {
	files := parseStatOutput("12 1700000000 /sdcard/x\nbad line\nnot-a-size 1 /y\n")
	assert.Equal(t, []FileInfo{{Path: "/sdcard/x", Size: 12, MTime: time.Unix(1700000000, 0)}}, files)
}

func TestSplitShellStatus(t *testing.T) {
	tests := []struct {
		in     string
		body   string
		status int
		ok     bool
	}{
		{"out\n%0\n", "out\n", 0, true},
		{"%127\r\n", "", 127, true},
		{"100% done\n%2", "100% done\n", 2, true},
		{"no marker", "no marker", -1, false},
		{"50%", "50%", -1, false},
	}
	for _, tt := range tests {
		body, status, ok := splitShellStatus(tt.in)
		assert.Equal(t, tt.body, body, tt.in)
		assert.Equal(t, tt.status, status, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestVerityResultString(t *testing.T) {
	assert.Equal(t, "already set", VerityAlreadySet.String())
	assert.Equal(t, "reboot required", VerityRebootRequired.String())
	assert.Equal(t, "unknown", VerityResult(9).String())
}
