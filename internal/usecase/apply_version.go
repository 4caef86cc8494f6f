package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/compozy/gitver/internal/config"
	"github.com/compozy/gitver/internal/domain"
	"github.com/compozy/gitver/internal/repository"
)

// ApplyVersionUseCase resolves the repository version and rewrites the
// version field of a package metadata file (JSON or YAML). The write is
// atomic and serialized with a sidecar lock so concurrent build hooks on the
// same file do not interleave.

type ApplyVersionUseCase struct {
	GitRepo repository.GitRepository
	Fs      afero.Fs
}

// Execute resolves the version and writes it into the metadata file at path.
// It returns the version that was written.
func (uc *ApplyVersionUseCase) Execute(
	ctx context.Context,
	path string,
	settings *config.Settings,
) (domain.Version, error) {
	if err := settings.Validate(); err != nil {
		return "", fmt.Errorf("invalid settings: %w", err)
	}
	resolve := &ResolveVersionUseCase{GitRepo: uc.GitRepo}
	version, err := resolve.Execute(ctx, settings.Template(), settings.StartingVersion)
	if err != nil {
		return "", err
	}
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !locked {
		return "", fmt.Errorf("failed to lock metadata file %s: %w", path, err)
	}
	defer lock.Unlock() //nolint:errcheck // Unlock failure leaves a stale sidecar at worst
	if err := uc.rewriteVersionField(path, version); err != nil {
		return "", err
	}
	return version, nil
}

// rewriteVersionField decodes the metadata document, replaces its version
// field, and swaps the file in place via a temp file rename.
func (uc *ApplyVersionUseCase) rewriteVersionField(path string, version domain.Version) error {
	raw, err := afero.ReadFile(uc.Fs, path)
	if err != nil {
		return fmt.Errorf("failed to read metadata file %s: %w", path, err)
	}
	useYAML := isYAMLPath(path)
	doc := make(map[string]any)
	if useYAML {
		err = yaml.Unmarshal(raw, &doc)
	} else {
		err = json.Unmarshal(raw, &doc)
	}
	if err != nil {
		return fmt.Errorf("failed to parse metadata file %s: %w", path, err)
	}
	doc["version"] = version.String()
	var out []byte
	if useYAML {
		out, err = yaml.Marshal(doc)
	} else {
		out, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	}
	if err != nil {
		return fmt.Errorf("failed to encode metadata file %s: %w", path, err)
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	if err := afero.WriteFile(uc.Fs, tmp, out, 0600); err != nil {
		return fmt.Errorf("failed to write temp metadata file: %w", err)
	}
	if err := uc.Fs.Rename(tmp, path); err != nil {
		//nolint:errcheck // best effort cleanup of the temp file
		uc.Fs.Remove(tmp)
		return fmt.Errorf("failed to replace metadata file %s: %w", path, err)
	}
	return nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
