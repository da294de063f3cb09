package uart

import (
	"runtime"
	"strings"

	"go.bug.st/serial"

	"tictactoe-bridge/logger"
)

// ListPorts enumerates candidate serial ports for the UI port picker.
// Extra entries (such as a tcp:// emulator endpoint) are appended
// before filtering.
func ListPorts(extra ...string) []string {
	var ports []string

	hwPorts, err := serial.GetPortsList()
	if err != nil {
		logger.Error("Failed to list serial ports: %v", err)
	} else {
		ports = append(ports, hwPorts...)
	}

	ports = append(ports, extra...)

	return filterPorts(ports)
}

// filterPorts filters ports based on OS conventions
func filterPorts(ports []string) []string {
	var filtered []string
	seen := make(map[string]bool)

	for _, port := range ports {
		if seen[port] {
			continue
		}
		seen[port] = true

		// Always include TCP endpoints
		if strings.HasPrefix(port, "tcp://") {
			filtered = append(filtered, port)
			continue
		}

		// Windows: COM ports
		if runtime.GOOS == "windows" {
			if strings.HasPrefix(strings.ToUpper(port), "COM") {
				filtered = append(filtered, port)
			}
			continue
		}

		// macOS/Linux: filter by name
		lower := strings.ToLower(port)
		if strings.Contains(lower, "bluetooth") {
			continue
		}

		if strings.Contains(lower, "ttyusb") ||
			strings.Contains(lower, "ttyacm") ||
			strings.Contains(lower, "usbserial") ||
			strings.Contains(lower, "cu.") ||
			strings.Contains(lower, "ttys") {
			filtered = append(filtered, port)
		}
	}

	return filtered
}
