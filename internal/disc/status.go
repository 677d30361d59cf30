package disc

import (
	"context"
	"fmt"
	"strings"
	"syscall"
	"time"
	"unsafe"
)

// Linux ioctl numbers from <linux/cdrom.h>.
const (
	ioctlDriveStatus = 0x5326
	ioctlEject       = 0x5309
)

// Status is the drive state reported by CDROM_DRIVE_STATUS.
type Status int

const (
	StatusNoInfo   Status = 0
	StatusNoDisc   Status = 1
	StatusTrayOpen Status = 2
	StatusNotReady Status = 3
	StatusDiscOK   Status = 4
)

func (s Status) String() string {
	switch s {
	case StatusNoInfo:
		return "no_info"
	case StatusNoDisc:
		return "no_disc"
	case StatusTrayOpen:
		return "tray_open"
	case StatusNotReady:
		return "not_ready"
	case StatusDiscOK:
		return "disc_ok"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Check queries the drive state for a device path.
func Check(device string) (Status, error) {
	fd, err := openDrive(device)
	if err != nil {
		return StatusNoInfo, err
	}
	defer syscall.Close(fd)

	r1, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		uintptr(fd),
		uintptr(ioctlDriveStatus),
		uintptr(unsafe.Pointer(nil)),
	)
	if errno != 0 {
		return StatusNoInfo, fmt.Errorf("ioctl CDROM_DRIVE_STATUS on %s: %w", device, errno)
	}
	return Status(r1), nil
}

// WaitForReady polls the drive until it reports a readable disc, the
// timeout elapses, or the context is cancelled.
func WaitForReady(ctx context.Context, device string, timeout time.Duration) (Status, error) {
	const pollInterval = time.Second

	deadline := time.Now().Add(timeout)
	var last Status
	for {
		status, err := Check(device)
		if err != nil {
			return status, err
		}
		last = status
		if status == StatusDiscOK {
			return status, nil
		}
		if time.Now().After(deadline) {
			return last, fmt.Errorf("drive %s not ready after %s (last status: %s)", device, timeout, last)
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// Eject opens the drive tray.
func Eject(device string) error {
	fd, err := openDrive(device)
	if err != nil {
		return err
	}
	defer syscall.Close(fd)

	_, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		uintptr(fd),
		uintptr(ioctlEject),
		uintptr(unsafe.Pointer(nil)),
	)
	if errno != 0 {
		return fmt.Errorf("ioctl CDROMEJECT on %s: %w", device, errno)
	}
	return nil
}

func openDrive(device string) (int, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return -1, fmt.Errorf("empty device path")
	}
	fd, err := syscall.Open(device, syscall.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return -1, fmt.Errorf("open %s: %w", device, err)
	}
	return fd, nil
}
