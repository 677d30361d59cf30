package disc

import (
	"fmt"
	"os"
)

// DefaultDevices are probed in order when no device is configured.
var DefaultDevices = []string{"/dev/cdrom", "/dev/sr0", "/dev/sr1"}

// Discover returns the first optical device node present on the system.
func Discover() (string, error) {
	for _, device := range DefaultDevices {
		if _, err := os.Stat(device); err == nil {
			return device, nil
		}
	}
	return "", fmt.Errorf("no optical device found (tried %v)", DefaultDevices)
}
