package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"platter/internal/library"
	"platter/internal/organizer"
	"platter/internal/sidecar"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var dryRunFlag bool

	cmd := &cobra.Command{
		Use:   "organize <album-dir>",
		Short: "Move an identified album into its library location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			album, err := library.FindAlbum(args[0])
			if err != nil {
				return err
			}
			rec, err := sidecar.Load(album.Path)
			if err != nil {
				return err
			}
			if rec.Metadata == nil || !rec.Metadata.Identified() {
				return fmt.Errorf("album is not identified; run enrich or correct first")
			}

			org := organizer.New(cfg.Paths.OutputDir, ctx.ensureLogger())
			renames, err := org.Plan(album.Path, rec.Metadata)
			if err != nil {
				return err
			}
			for _, rn := range renames {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", rn.Source, rn.Target)
			}
			if dryRunFlag {
				return nil
			}

			if err := org.Execute(album.Path, renames); err != nil {
				return err
			}
			finalDir := filepath.Join(cfg.Paths.OutputDir, organizer.AlbumDir(rec.Metadata))
			if err := sidecar.Save(finalDir, rec); err != nil {
				return err
			}
			os.Remove(sidecar.Path(album.Path))
			organizer.Cleanup(album.Path)
			fmt.Fprintf(cmd.OutOrStdout(), "Album organized into %s\n", finalDir)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Show the plan without moving files")
	return cmd
}
