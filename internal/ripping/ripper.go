package ripping

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"platter/internal/config"
	"platter/internal/logging"
	"platter/internal/services"
)

const stageRip = "rip"

// trackLinePattern matches the per-track rows of cdparanoia's table of
// contents output, e.g. "  1.    21660 [04:48.60]   ...".
var trackLinePattern = regexp.MustCompile(`(?m)^\s*(\d+)\.\s+\d+\s+\[`)

// Ripper captures audio tracks from an optical drive.
type Ripper struct {
	device      string
	paranoiaBin string
	flacBin     string
	timeout     time.Duration
	logger      *slog.Logger
}

// Result summarizes a disc capture.
type Result struct {
	TrackCount int
	Ripped     []int
	Failed     []int
}

// NewRipper builds a Ripper from configuration.
func NewRipper(cfg *config.Config, logger *slog.Logger) *Ripper {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ripper{
		device:      cfg.Ripping.Device,
		paranoiaBin: cfg.Ripping.ParanoiaBin,
		flacBin:     cfg.Ripping.FlacBinary,
		timeout:     time.Duration(cfg.Ripping.RipTimeout) * time.Second,
		logger:      logging.NewComponentLogger(logger, "ripping"),
	}
}

// TrackCount queries the disc's table of contents.
func (r *Ripper) TrackCount(ctx context.Context) (int, error) {
	cmd := exec.CommandContext(ctx, r.paranoiaBin, "-Q", "-d", r.device)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		return 0, services.Wrap(services.ErrTransient, stageRip, "track_count",
			fmt.Sprintf("query table of contents on %s", r.device), err)
	}
	count := ParseTrackCount(output.String())
	if count == 0 {
		return 0, services.Wrap(services.ErrNotFound, stageRip, "track_count",
			"no audio tracks reported", nil)
	}
	return count, nil
}

// ParseTrackCount counts the audio track rows in cdparanoia TOC output.
func ParseTrackCount(output string) int {
	highest := 0
	for _, m := range trackLinePattern.FindAllStringSubmatch(output, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}

// RipDisc captures every track into destDir as Track_NN.flac. A track
// that fails to rip or encode is recorded and the capture continues;
// the caller decides whether a partial disc is acceptable.
func (r *Ripper) RipDisc(ctx context.Context, destDir string, trackCount int) (*Result, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTransient, stageRip, "rip_disc", "create staging directory", err)
	}

	result := &Result{TrackCount: trackCount}
	for track := 1; track <= trackCount; track++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := r.ripTrack(ctx, destDir, track); err != nil {
			r.logger.Warn("track capture failed",
				logging.Int("track", track),
				logging.Error(err))
			result.Failed = append(result.Failed, track)
			continue
		}
		result.Ripped = append(result.Ripped, track)
		r.logger.Info("track captured", logging.Int("track", track))
	}

	if len(result.Ripped) == 0 {
		return result, services.Wrap(services.ErrTransient, stageRip, "rip_disc",
			"no tracks captured", nil)
	}
	return result, nil
}

func (r *Ripper) ripTrack(ctx context.Context, destDir string, track int) error {
	trackCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	wavPath := filepath.Join(destDir, fmt.Sprintf("Track_%02d.wav", track))
	flacPath := filepath.Join(destDir, fmt.Sprintf("Track_%02d.flac", track))
	defer os.Remove(wavPath)

	rip := exec.CommandContext(trackCtx, r.paranoiaBin,
		"-d", r.device,
		strconv.Itoa(track),
		wavPath,
	)
	if output, err := rip.CombinedOutput(); err != nil {
		return fmt.Errorf("cdparanoia track %d: %w (%s)", track, err, lastLine(output))
	}

	encode := exec.CommandContext(trackCtx, r.flacBin,
		"--best",
		"--silent",
		"--force",
		"-o", flacPath,
		wavPath,
	)
	if output, err := encode.CombinedOutput(); err != nil {
		os.Remove(flacPath)
		return fmt.Errorf("flac encode track %d: %w (%s)", track, err, lastLine(output))
	}
	return nil
}

func lastLine(output []byte) string {
	lines := bytes.Split(bytes.TrimSpace(output), []byte("\n"))
	if len(lines) == 0 {
		return ""
	}
	return string(lines[len(lines)-1])
}
