package adb

import "strings"

// ConnectionType indicates how a device is connected.
type ConnectionType string

const (
	USB     ConnectionType = "usb"
	WiFi    ConnectionType = "wifi"
	Unknown ConnectionType = "unknown"
)

// State is the status token adb reports for a device.
type State string

const (
	StateDevice        State = "device"
	StateOffline       State = "offline"
	StateUnauthorized  State = "unauthorized"
	StateBootloader    State = "bootloader"
	StateRecovery      State = "recovery"
	StateSideload      State = "sideload"
	StateHost          State = "host"
	StateNoPermissions State = "no" // "no permissions (...)" splits to "no"
)

// Device represents one row of `adb devices -l`.
type Device struct {
	Serial      string
	State       State
	ConnType    ConnectionType
	Model       string
	Product     string
	Name        string // the device:<name> field
	TransportID string
}

// IsOnline returns true if the device is in "device" state (ready).
func (d Device) IsOnline() bool {
	return d.State == StateDevice
}

// connTypeOf guesses the transport from the serial. Network devices are
// listed as host:port, USB paths as usb:<bus>-<port>.
func connTypeOf(serial string) ConnectionType {
	switch {
	case serial == "":
		return Unknown
	case strings.HasPrefix(serial, "usb:"):
		return USB
	case strings.Contains(serial, ":"):
		return WiFi
	default:
		return USB
	}
}
