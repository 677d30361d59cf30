package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"platter/internal/config"
	"platter/internal/identification"
	"platter/internal/logging"
	"platter/internal/musicbrainz"
	"platter/internal/workflow"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		level := cfg.Logging.Level
		if c.verboseFlag != nil && *c.verboseFlag {
			level = "debug"
		}
		logger, err := logging.New(logging.Options{
			Level:  level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// newRunner wires the full pipeline: MusicBrainz client, identifier,
// FLAC tag IO, organizer, run store, and the interactive prompter.
func (c *commandContext) newRunner() (*workflow.Runner, *workflow.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := c.ensureLogger()

	store, err := workflow.OpenStore(cfg.Paths.LogDir)
	if err != nil {
		return nil, nil, err
	}

	client := musicbrainz.NewClient(cfg, logger)
	resolver := identification.NewIdentifier(client, logger)

	runner := workflow.NewRunner(workflow.RunnerOptions{
		Resolver:    resolver,
		LibraryRoot: cfg.Paths.OutputDir,
		StateDir:    cfg.Paths.LogDir,
		Store:       store,
		Prompter:    newConsolePrompter(),
		Logger:      logger,
	})
	return runner, store, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for cur := cmd; cur != nil; cur = cur.Parent() {
		if cur.Annotations != nil && cur.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
