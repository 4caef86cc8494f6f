package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/gitver/internal/domain"
	"github.com/compozy/gitver/internal/repository"
)

// ResolveVersionUseCase derives a version string from the repository state.
//
// The decision is a three-way branch: no tag at all yields the starting
// version, HEAD sitting on the latest tag yields the tag itself, and anything
// ahead of the tag yields the template rendered with the tag and the short
// HEAD sha. A dirty working tree appends the dirty marker in every branch.

type ResolveVersionUseCase struct {
	GitRepo repository.GitRepository
}

// Execute runs the use case. Evaluation is sequential and stateless; calling
// it twice against an unchanged repository yields an identical string.
func (uc *ResolveVersionUseCase) Execute(
	ctx context.Context,
	template domain.Template,
	startingVersion string,
) (domain.Version, error) {
	tag, err := uc.GitRepo.LatestTag(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get latest tag: %w", err)
	}
	var version domain.Version
	switch {
	case tag == "":
		version = domain.Version(startingVersion)
	default:
		atTag, err := uc.GitRepo.IsHeadAtTag(ctx, tag)
		if err != nil {
			return "", fmt.Errorf("failed to compare HEAD against tag %s: %w", tag, err)
		}
		if atTag {
			// Exact release, no decoration.
			version = domain.Version(tag)
			break
		}
		sha, err := uc.GitRepo.HeadSHA(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to get HEAD sha: %w", err)
		}
		version = template.Render(tag, sha)
	}
	dirty, err := uc.GitRepo.IsDirty(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get working tree status: %w", err)
	}
	if dirty {
		version = version.MarkDirty()
	}
	return version, nil
}
