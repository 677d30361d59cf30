package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"platter/internal/sidecar"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "enrich [album-dir...]",
		Short: "Identify staged albums, reconcile their tags, and file them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dirs := args
			if allFlag || len(dirs) == 0 {
				staged, err := stagedAlbums(cfg.Paths.StagingDir)
				if err != nil {
					return err
				}
				dirs = append(dirs, staged...)
			}
			if len(dirs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to enrich")
				return nil
			}

			runner, store, err := ctx.newRunner()
			if err != nil {
				return err
			}
			defer store.Close()

			summary, err := runner.ProcessBatch(cmd.Context(), dirs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d albums: %d updated, %d skipped, %d errored\n",
				summary.Processed, summary.Updated, summary.Skipped, summary.Errored)
			if summary.Errored > 0 {
				return fmt.Errorf("%d albums failed; see the log for details", summary.Errored)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allFlag, "all", false, "Process every staged album")
	return cmd
}

// stagedAlbums lists staging subdirectories that carry a sidecar, sorted.
func stagedAlbums(stagingDir string) ([]string, error) {
	entries, err := os.ReadDir(stagingDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read staging directory: %w", err)
	}
	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(stagingDir, entry.Name())
		if sidecar.Exists(dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs, nil
}
