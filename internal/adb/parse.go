package adb

import (
	"bufio"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileInfo represents a file on the device filesystem.
type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
}

// Forward is one row of `adb forward --list`.
type Forward struct {
	Serial string
	Local  string
	Remote string
}

// splitDeviceLines turns `adb devices` output into whitespace-split rows,
// dropping the header and daemon startup chatter.
func splitDeviceLines(output string) [][]string {
	var rows [][]string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "List of") || strings.HasPrefix(line, "*") {
			continue
		}
		rows = append(rows, strings.Fields(line))
	}
	return rows
}

// parseDeviceList parses `adb devices -l` output.
func parseDeviceList(output string) []Device {
	var devices []Device
	for _, fields := range splitDeviceLines(output) {
		if len(fields) < 2 {
			continue
		}
		d := Device{
			Serial:   fields[0],
			State:    State(fields[1]),
			ConnType: connTypeOf(fields[0]),
		}
		for _, f := range fields[2:] {
			key, value, ok := strings.Cut(f, ":")
			if !ok {
				continue
			}
			switch key {
			case "model":
				d.Model = value
			case "product":
				d.Product = value
			case "device":
				d.Name = value
			case "transport_id":
				d.TransportID = value
			case "usb":
				d.ConnType = USB
			}
		}
		devices = append(devices, d)
	}
	return devices
}

// stateFromRows returns the status token of the first row whose serial
// matches, or StateOffline if there is none.
func stateFromRows(rows [][]string, serial string) State {
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		if row[0] == serial {
			return State(row[1])
		}
	}
	return StateOffline
}

// parseStatOutput parses output from `stat -c '%s %Y %n'`.
func parseStatOutput(output string) []FileInfo {
	var files []FileInfo
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		// Format: <size> <mtime_epoch> <full_path>
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			continue
		}
		size, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			continue
		}
		epoch, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:  filepath.ToSlash(strings.TrimRight(parts[2], "\r")),
			Size:  size,
			MTime: time.Unix(epoch, 0),
		})
	}
	return files
}

// parseForwardList parses `adb forward --list` output.
func parseForwardList(output string) []Forward {
	var forwards []Forward
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			continue
		}
		forwards = append(forwards, Forward{Serial: fields[0], Local: fields[1], Remote: fields[2]})
	}
	return forwards
}

// parseVersion extracts the version from `adb version` output.
func parseVersion(output string) string {
	const prefix = "Android Debug Bridge version "
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, prefix); ok {
			return v
		}
	}
	return ""
}

// splitShellStatus separates the trailing "%<status>" marker appended by Shell.
func splitShellStatus(output string) (string, int, bool) {
	trimmed := strings.TrimRight(output, "\r\n")
	i := strings.LastIndex(trimmed, "%")
	if i < 0 {
		return output, -1, false
	}
	status, err := strconv.Atoi(strings.TrimSpace(trimmed[i+1:]))
	if err != nil {
		return output, -1, false
	}
	return trimmed[:i], status, true
}
