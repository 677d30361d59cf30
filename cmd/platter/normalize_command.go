package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"platter/internal/library"
	"platter/internal/tags"
)

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	var applyFlag bool

	cmd := &cobra.Command{
		Use:   "normalize <album-dir>",
		Short: "Rewrite legacy tag conventions in place",
		Long: "Splits combined disc-track TRACKNUMBER values, zero pads track\n" +
			"numbers, and defaults DISCNUMBER for single disc albums.\n" +
			"Reports only; pass --apply to write the changes.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			album, err := library.FindAlbum(args[0])
			if err != nil {
				return err
			}

			totalChanged := 0
			for _, file := range album.Tracks {
				path := filepath.Join(album.Path, file)
				current, err := tags.ReadFile(path)
				if err != nil {
					return err
				}
				before := current.Clone()
				changed := tags.NormalizeLegacy(current)
				if len(changed) == 0 {
					continue
				}
				totalChanged += len(changed)
				for _, field := range changed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %q -> %q\n",
						file, field, before[field], current[field])
				}
				if !applyFlag {
					continue
				}
				if err := tags.WriteFile(path, tags.Diff(before, current)); err != nil {
					return err
				}
			}

			if totalChanged == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No legacy tags found")
			} else if !applyFlag {
				fmt.Fprintf(cmd.OutOrStdout(), "%d fields would change (pass --apply to write)\n", totalChanged)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d fields normalized\n", totalChanged)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&applyFlag, "apply", false, "Write the changes instead of reporting them")
	return cmd
}
