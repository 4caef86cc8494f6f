// Package gitver derives version strings from the state of a git repository.
//
// Every query is importable on its own for scripting use; Resolve combines
// them into the final version string and ApplyFromConfig is the hook-style
// entry point for build tooling that mutates a metadata object in place.
package gitver

import (
	"context"

	"go.uber.org/zap"

	"github.com/compozy/gitver/internal/config"
	"github.com/compozy/gitver/internal/domain"
	"github.com/compozy/gitver/internal/repository"
	"github.com/compozy/gitver/internal/usecase"
)

const (
	// DefaultTemplate is the version format used when Options supplies none.
	DefaultTemplate = domain.DefaultTemplate
	// DefaultStartingVersion is used when the repository has no tags.
	DefaultStartingVersion = domain.DefaultStartingVersion
)

// Options configures Resolve.
type Options struct {
	// Dir is the repository directory; "" means the working directory.
	Dir string
	// VersionFormat is the template with {tag} and {sha} placeholders.
	VersionFormat string
	// StartingVersion is used when the repository has no tags.
	StartingVersion string
	// Logger receives per-query debug output; nil disables it.
	Logger *zap.Logger
}

// Metadata is the mutable target of ApplyFromConfig.
type Metadata struct {
	Version string
}

// LatestTag returns the newest tag reachable from HEAD under version
// ordering, or "" when no tags exist.
func LatestTag(ctx context.Context, dir string) (string, error) {
	return repository.NewGitRepository(dir, nil).LatestTag(ctx)
}

// TagCommit returns the commit sha the given tag points to.
func TagCommit(ctx context.Context, dir, tag string) (string, error) {
	return repository.NewGitRepository(dir, nil).TagCommit(ctx, tag)
}

// HeadSHA returns the full sha of the HEAD commit.
func HeadSHA(ctx context.Context, dir string) (string, error) {
	return repository.NewGitRepository(dir, nil).HeadSHA(ctx)
}

// IsDirty reports whether the working tree has uncommitted or untracked
// changes.
func IsDirty(ctx context.Context, dir string) (bool, error) {
	return repository.NewGitRepository(dir, nil).IsDirty(ctx)
}

// IsHeadAtTag reports whether HEAD is the commit the given tag points to.
func IsHeadAtTag(ctx context.Context, dir, tag string) (bool, error) {
	return repository.NewGitRepository(dir, nil).IsHeadAtTag(ctx, tag)
}

// Resolve derives the version string for the repository described by opts.
func Resolve(ctx context.Context, opts Options) (string, error) {
	template := opts.VersionFormat
	if template == "" {
		template = DefaultTemplate
	}
	starting := opts.StartingVersion
	if starting == "" {
		starting = DefaultStartingVersion
	}
	uc := &usecase.ResolveVersionUseCase{
		GitRepo: repository.NewGitRepository(opts.Dir, opts.Logger),
	}
	version, err := uc.Execute(ctx, domain.Template(template), starting)
	if err != nil {
		return "", err
	}
	return version.String(), nil
}

// ApplyFromConfig is the hook-compatible entry point: cfg must be a
// string-keyed mapping with optional `starting_version` and `version_format`
// keys, and the resolved version is assigned into meta as a side effect.
func ApplyFromConfig(ctx context.Context, meta *Metadata, cfg any) error {
	settings, err := config.FromMapping(cfg)
	if err != nil {
		return err
	}
	version, err := Resolve(ctx, Options{
		VersionFormat:   settings.VersionFormat,
		StartingVersion: settings.StartingVersion,
	})
	if err != nil {
		return err
	}
	meta.Version = version
	return nil
}
