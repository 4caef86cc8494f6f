package repository

import "context"

// GitRepository defines the read-only queries against the working repository.

type GitRepository interface {
	// LatestTag returns the newest tag reachable from HEAD under version
	// ordering, or "" when no tags exist.
	LatestTag(ctx context.Context) (string, error)
	// TagCommit returns the commit sha the given tag points to.
	TagCommit(ctx context.Context, tag string) (string, error)
	// HeadSHA returns the full sha of the HEAD commit.
	HeadSHA(ctx context.Context) (string, error)
	// IsDirty reports whether the working tree has modified, staged, or
	// untracked entries.
	IsDirty(ctx context.Context) (bool, error)
	// IsHeadAtTag reports whether HEAD is the commit the given tag points to.
	IsHeadAtTag(ctx context.Context, tag string) (bool, error)
}
