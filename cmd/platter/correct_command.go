package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"platter/internal/identification"
	"platter/internal/library"
	"platter/internal/media"
	"platter/internal/musicbrainz"
	"platter/internal/sidecar"
)

func newCorrectCommand(ctx *commandContext) *cobra.Command {
	var mbidFlag string
	var renameFlag bool

	cmd := &cobra.Command{
		Use:   "correct <album-dir>",
		Short: "Rebind an album to a catalog release and re-reconcile it",
		Long: "With --mbid the album is bound to that exact release and retagged\n" +
			"in place; pass --rename to also move it into its canonical location.\n" +
			"Without --mbid the binding is cleared and the full pipeline runs again.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			album, err := library.FindAlbum(args[0])
			if err != nil {
				return err
			}
			rec, err := sidecar.Load(album.Path)
			if err != nil {
				return err
			}

			if mbidFlag != "" {
				client := musicbrainz.NewClient(cfg, logger)
				full, err := client.GetRelease(cmd.Context(), mbidFlag)
				if err != nil {
					return err
				}
				rel, err := identification.Extract(full)
				if err != nil {
					return err
				}
				if rel.TrackCount() != rec.TotalTracks {
					return fmt.Errorf("release %s has %d tracks, album has %d",
						mbidFlag, rel.TrackCount(), rec.TotalTracks)
				}
				rel.Method = media.MethodCorrector
				rec.Metadata = rel
				rec.Method = media.MethodCorrector
			} else if rec.Metadata != nil {
				// Clearing the binding sends the album back through the
				// identification search on the next pass.
				rec.Metadata.MBID = media.MBIDUserEntered
			}
			if err := sidecar.SaveCorrected(album.Path, rec); err != nil {
				return err
			}

			runner, store, err := ctx.newRunner()
			if err != nil {
				return err
			}
			defer store.Close()

			if mbidFlag == "" || renameFlag {
				if _, err := runner.ProcessAlbum(cmd.Context(), album.Path); err != nil {
					return err
				}
			} else {
				changed, err := runner.RetagAlbum(cmd.Context(), album.Path)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d tag fields updated\n", changed)
			}

			rec, err = sidecar.Load(album.Path)
			if err == nil && rec.Metadata != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Album bound to %s (%s - %s)\n",
					rec.Metadata.MBID, rec.Metadata.Artist, rec.Metadata.Album)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mbidFlag, "mbid", "", "MusicBrainz release id to bind the album to")
	cmd.Flags().BoolVar(&renameFlag, "rename", false, "Also rename files and move the album into its canonical location")
	return cmd
}
