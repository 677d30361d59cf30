package disc

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pilebones/go-udev/netlink"

	"platter/internal/logging"
)

// Monitor waits for audio media to appear in a specific drive. It
// prefers udev netlink events and falls back to polling when the
// netlink socket cannot be opened (unprivileged runs, containers).
type Monitor struct {
	device string
	logger *slog.Logger
}

// NewMonitor builds a Monitor for a device path.
func NewMonitor(device string, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Monitor{
		device: strings.TrimSpace(device),
		logger: logging.NewComponentLogger(logger, "disc-monitor"),
	}
}

// WaitForInsert blocks until the configured drive holds a readable
// disc or the context is cancelled.
func (m *Monitor) WaitForInsert(ctx context.Context) error {
	if status, err := Check(m.device); err == nil && status == StatusDiscOK {
		return nil
	}

	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		m.logger.Warn("netlink unavailable, falling back to polling", logging.Error(err))
		return m.pollForInsert(ctx)
	}
	defer conn.Close()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	monitorQuit := conn.Monitor(queue, errs, mediaMatcher())
	defer close(monitorQuit)

	m.logger.Info("waiting for disc", logging.String("device", m.device))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case uevent := <-queue:
			if deviceName(uevent) != m.device {
				continue
			}
			m.logger.Info("disc inserted", logging.String("device", m.device))
			return nil
		case err := <-errs:
			m.logger.Warn("netlink monitor error", logging.Error(err))
		}
	}
}

func (m *Monitor) pollForInsert(ctx context.Context) error {
	const pollInterval = 2 * time.Second
	for {
		status, err := Check(m.device)
		if err == nil && status == StatusDiscOK {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// mediaMatcher selects block-device change events that carry audio media.
func mediaMatcher() netlink.Matcher {
	action := "change|add"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM":      "block",
			"ID_CDROM":       "1",
			"ID_CDROM_MEDIA": "1",
		},
	})
	return rules
}

func deviceName(uevent netlink.UEvent) string {
	if devname := uevent.Env["DEVNAME"]; devname != "" {
		return devname
	}
	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	return "/dev/" + parts[len(parts)-1]
}
