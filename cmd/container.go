package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/compozy/gitver/internal/config"
	"github.com/compozy/gitver/internal/repository"
)

// container holds all the dependencies for the application.

type container struct {
	settings *config.Settings
	log      *zap.Logger

	fs      afero.Fs
	gitRepo repository.GitRepository
}

// newContainer creates a new container with all the dependencies.
func newContainer(repoDir string, verbose bool) (*container, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &container{
		settings: settings,
		log:      log,
		fs:       afero.NewOsFs(),
		gitRepo:  repository.NewGitRepository(repoDir, log),
	}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	var (
		repoDir string
		verbose bool
	)
	rootCmd.PersistentFlags().StringVarP(&repoDir, "repo", "C", "", "Repository directory (defaults to the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging of git invocations")

	// Dependencies are built lazily so persistent flags are parsed first.
	deps := func() (*container, error) {
		return newContainer(repoDir, verbose)
	}
	rootCmd.AddCommand(newResolveCmd(deps))
	rootCmd.AddCommand(newApplyCmd(deps))
	rootCmd.AddCommand(newVersionCmd())
	return nil
}
