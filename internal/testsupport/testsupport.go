// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"platter/internal/config"
)

// TempConfig returns a validated configuration rooted in a per-test
// temporary directory.
func TempConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(root, "library")
	cfg.Paths.StagingDir = filepath.Join(root, "staging")
	cfg.Paths.LogDir = filepath.Join(root, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	return &cfg
}
