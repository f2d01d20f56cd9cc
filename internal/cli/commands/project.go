package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/organic-growth/organic-growth/internal/cli/config"
	"github.com/organic-growth/organic-growth/internal/logging"
)

// configError marks an invalid .organic-growth.yaml or environment override.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// project is the resolved environment a command runs in.
type project struct {
	root    string
	config  *config.Config
	logger  *zap.Logger
	noColor bool
}

// loadProject resolves the project root from --dir or the working
// directory, loads its configuration and builds the logger.
func loadProject(cmd *cobra.Command) (*project, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir, err = config.FindRoot(wd)
		if err != nil {
			return nil, err
		}
	} else if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("project directory %s does not exist", dir)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, &configError{err: err}
	}

	if cfg.Output.NoColor {
		color.NoColor = true
	}

	level := cfg.Log.Level
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	logger := logging.NewOrNop(level)
	logger.Debug("project loaded",
		zap.String("root", dir),
		zap.String("config", cfg.File),
		zap.String("source", cfg.Sync.Source))

	return &project{
		root:    dir,
		config:  cfg,
		logger:  logger,
		noColor: color.NoColor,
	}, nil
}

// close flushes the logger.
func (p *project) close() {
	_ = p.logger.Sync()
}
