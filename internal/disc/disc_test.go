package disc

import (
	"testing"

	"github.com/pilebones/go-udev/netlink"
)

func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{StatusNoInfo, "no_info"},
		{StatusNoDisc, "no_disc"},
		{StatusTrayOpen, "tray_open"},
		{StatusNotReady, "not_ready"},
		{StatusDiscOK, "disc_ok"},
		{Status(42), "unknown(42)"},
	}
	for _, tc := range cases {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tc.status), got, tc.want)
		}
	}
}

func TestCheckRejectsEmptyDevice(t *testing.T) {
	if _, err := Check(""); err == nil {
		t.Fatal("expected error for empty device path")
	}
}

func TestDeviceName(t *testing.T) {
	ev := netlink.UEvent{Env: map[string]string{"DEVNAME": "/dev/sr0"}}
	if got := deviceName(ev); got != "/dev/sr0" {
		t.Fatalf("unexpected device name %q", got)
	}

	ev = netlink.UEvent{Env: map[string]string{"DEVPATH": "/devices/pci0000/block/sr1"}}
	if got := deviceName(ev); got != "/dev/sr1" {
		t.Fatalf("unexpected device name from devpath %q", got)
	}

	ev = netlink.UEvent{Env: map[string]string{}}
	if got := deviceName(ev); got != "" {
		t.Fatalf("expected empty name, got %q", got)
	}
}
