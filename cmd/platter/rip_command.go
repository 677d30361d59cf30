package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"platter/internal/disc"
	"platter/internal/media"
	"platter/internal/organizer"
	"platter/internal/ripping"
	"platter/internal/sidecar"
)

func newRipCommand(ctx *commandContext) *cobra.Command {
	var artistFlag, albumFlag, catnoFlag, typeFlag string
	var noWaitFlag, noEnrichFlag bool

	cmd := &cobra.Command{
		Use:   "rip",
		Short: "Capture the disc in the drive into the staging area",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()
			prompter := newConsolePrompter()

			if cfg.Ripping.Device == "" {
				device, err := disc.Discover()
				if err != nil {
					return err
				}
				cfg.Ripping.Device = device
			}

			if cfg.Ripping.WaitForMedia && !noWaitFlag {
				monitor := disc.NewMonitor(cfg.Ripping.Device, logger)
				if err := monitor.WaitForInsert(cmd.Context()); err != nil {
					return err
				}
			}
			if _, err := disc.WaitForReady(cmd.Context(), cfg.Ripping.Device, time.Minute); err != nil {
				return err
			}

			ripper := ripping.NewRipper(cfg, logger)
			trackCount, err := ripper.TrackCount(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Disc reports %d audio tracks\n", trackCount)

			artist := prompter.promptLine("Artist", artistFlag)
			album := prompter.promptLine("Album", albumFlag)
			catno := prompter.promptLine("Catalog number", catnoFlag)
			albumType, err := media.ParseAlbumType(typeFlag)
			if err != nil {
				return err
			}

			destDir := filepath.Join(cfg.Paths.StagingDir, ripDirName(artist, album))
			result, err := ripper.RipDisc(cmd.Context(), destDir, trackCount)
			if err != nil {
				return err
			}

			rec := &sidecar.Record{
				RipDate:       time.Now().UTC(),
				Device:        cfg.Ripping.Device,
				TracksRipped:  len(result.Ripped),
				TotalTracks:   trackCount,
				CatalogNumber: catno,
				Method:        media.MethodManual,
				Metadata: &media.Release{
					MBID:        media.MBIDUserEntered,
					Album:       album,
					Artist:      artist,
					AlbumArtist: artist,
					AlbumType:   albumType,
					Method:      media.MethodManual,
				},
			}
			if err := sidecar.Save(destDir, rec); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Captured %d/%d tracks into %s\n",
				len(result.Ripped), trackCount, destDir)
			if len(result.Failed) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Failed tracks: %v\n", result.Failed)
			}

			if !noEnrichFlag {
				runner, store, err := ctx.newRunner()
				if err != nil {
					return err
				}
				defer store.Close()
				// The capture is already safe on disk; a failed
				// identification pass just leaves the album in staging.
				if _, err := runner.ProcessAlbum(cmd.Context(), destDir); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "identification pass failed: %v\n", err)
				}
			}

			if cfg.Ripping.EjectOnDone {
				if err := disc.Eject(cfg.Ripping.Device); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "eject failed: %v\n", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&artistFlag, "artist", "", "Artist name (skips the prompt)")
	cmd.Flags().StringVar(&albumFlag, "album", "", "Album title (skips the prompt)")
	cmd.Flags().StringVar(&catnoFlag, "catno", "", "Catalog number printed on the disc or case")
	cmd.Flags().StringVar(&typeFlag, "type", "", "Album type: regular, soundtrack, or compilation")
	cmd.Flags().BoolVar(&noWaitFlag, "no-wait", false, "Fail instead of waiting for a disc")
	cmd.Flags().BoolVar(&noEnrichFlag, "no-enrich", false, "Skip the identification pass after capture")
	return cmd
}

// ripDirName builds a staging directory name that stays unique even
// when the operator skips the prompts.
func ripDirName(artist, album string) string {
	if artist != "" && album != "" {
		return organizer.SanitizeFileName(fmt.Sprintf("%s - %s", artist, album))
	}
	return fmt.Sprintf("disc-%s", uuid.NewString()[:8])
}
