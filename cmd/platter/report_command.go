package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"platter/internal/library"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	var detailFlag bool

	cmd := &cobra.Command{
		Use:   "report [library-root]",
		Short: "Summarize the organized library",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := cfg.Paths.OutputDir
			if len(args) == 1 {
				root = args[0]
			}

			albums, err := library.Scan(root)
			if err != nil {
				return err
			}
			if len(albums) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Library is empty")
				return nil
			}

			headers := []string{"Album", "Tracks", "Sidecar"}
			if detailFlag {
				headers = append(headers, "Artist", "Title")
			}
			rows := make([][]string, 0, len(albums))
			for _, album := range albums {
				row := []string{
					album.RelPath,
					strconv.Itoa(album.TrackCount()),
					yesNo(album.HasSidecar),
				}
				if detailFlag {
					artist, title := probeFirstTrack(album)
					row = append(row, artist, title)
				}
				rows = append(rows, row)
			}

			aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			fmt.Fprintf(cmd.OutOrStdout(), "%d albums\n", len(albums))
			return nil
		},
	}

	cmd.Flags().BoolVar(&detailFlag, "detail", false, "Read tags from each album's first track")
	return cmd
}

// probeFirstTrack reads the first track through the generic tag
// parser; unreadable files degrade to empty columns.
func probeFirstTrack(album library.Album) (artist, title string) {
	if len(album.Tracks) == 0 {
		return "", ""
	}
	summary, err := library.Probe(filepath.Join(album.Path, album.Tracks[0]))
	if err != nil {
		return "", ""
	}
	return summary.Artist, summary.Title
}
