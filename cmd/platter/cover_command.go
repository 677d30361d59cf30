package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"platter/internal/library"
	"platter/internal/sidecar"
	"platter/internal/tags"
)

func newCoverCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cover <album-dir> <image>",
		Short: "Embed front cover art into every track of an album",
		Long: "Adds the image as a front cover picture block to each FLAC file.\n" +
			"Tracks that already carry artwork are left untouched.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			album, err := library.FindAlbum(args[0])
			if err != nil {
				return err
			}
			image, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read cover image: %w", err)
			}
			mime, err := imageMIME(args[1])
			if err != nil {
				return err
			}

			for _, file := range album.Tracks {
				if err := tags.EmbedCover(filepath.Join(album.Path, file), image, mime); err != nil {
					return err
				}
			}
			if album.HasSidecar {
				rec, err := sidecar.Load(album.Path)
				if err != nil {
					return err
				}
				if rec.CoverArt == "" {
					rec.CoverArt = filepath.Base(args[1])
					if err := sidecar.Save(album.Path, rec); err != nil {
						return err
					}
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cover embedded into %d tracks\n", album.TrackCount())
			return nil
		},
	}
	return cmd
}

func imageMIME(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".png":
		return "image/png", nil
	default:
		return "", fmt.Errorf("unsupported cover image type %q (use jpeg or png)", filepath.Ext(path))
	}
}
