package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/compozy/gitver/internal/domain"
)

// gitRepository shells out to the git binary for every query. The library
// variant of git is deliberately not used here: build environments that have
// a git directory but a broken or partial checkout must degrade to empty
// answers, which is what the binary's output gives us.
type gitRepository struct {
	dir string
	log *zap.Logger
}

// NewGitRepository creates a GitRepository that queries the repository at dir.
// An empty dir means the current working directory.
func NewGitRepository(dir string, log *zap.Logger) GitRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &gitRepository{dir: dir, log: log}
}

// queryOutput runs a git query and returns its trimmed stdout. A nonzero exit
// is swallowed and whatever output the process produced is used as if it had
// succeeded. This tolerance is a compatibility policy: on a broken repository
// environment the resolver degrades to "no tag" / "not dirty" answers instead
// of failing the build. Only spawn failures and context cancellation surface
// as errors.
func (r *gitRepository) queryOutput(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git %s canceled: %w", args[0], ctx.Err())
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to run git %s: %w", args[0], err)
		}
		r.log.Debug("git query exited nonzero, using partial output",
			zap.Strings("args", args),
			zap.Int("exit_code", exitErr.ExitCode()),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
	}
	out := strings.TrimSpace(stdout.String())
	r.log.Debug("git query",
		zap.Strings("args", args),
		zap.Int("output_len", len(out)))
	return out, nil
}

// LatestTag lists the tags merged into HEAD and picks the greatest under
// version ordering.
func (r *gitRepository) LatestTag(ctx context.Context) (string, error) {
	out, err := r.queryOutput(ctx, "tag", "--sort=version:refname", "--merged")
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", nil
	}
	return domain.LatestByVersionOrder(strings.Split(out, "\n")), nil
}

// TagCommit resolves a tag to the commit it points to.
func (r *gitRepository) TagCommit(ctx context.Context, tag string) (string, error) {
	if err := sanitizeTag(tag); err != nil {
		return "", err
	}
	return r.queryOutput(ctx, "rev-list", "-n", "1", tag)
}

// HeadSHA returns the full sha of HEAD.
func (r *gitRepository) HeadSHA(ctx context.Context) (string, error) {
	return r.queryOutput(ctx, "rev-parse", "HEAD")
}

// IsDirty reports whether the short status listing is non-empty.
func (r *gitRepository) IsDirty(ctx context.Context) (bool, error) {
	out, err := r.queryOutput(ctx, "status", "-s")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// IsHeadAtTag compares HEAD against the tag's commit.
func (r *gitRepository) IsHeadAtTag(ctx context.Context, tag string) (bool, error) {
	tagCommit, err := r.TagCommit(ctx, tag)
	if err != nil {
		return false, err
	}
	head, err := r.HeadSHA(ctx)
	if err != nil {
		return false, err
	}
	return head == tagCommit, nil
}

var validTag = regexp.MustCompile(`^[a-zA-Z0-9._/\-]+$`)

// sanitizeTag rejects tag names that could smuggle flags or traversal into
// the git invocation.
func sanitizeTag(tag string) error {
	if tag == "" {
		return fmt.Errorf("tag cannot be empty")
	}
	if !validTag.MatchString(tag) {
		return fmt.Errorf("invalid tag format: %s", tag)
	}
	if strings.Contains(tag, "..") {
		return fmt.Errorf("invalid tag: contains directory traversal")
	}
	if strings.HasPrefix(tag, "-") {
		return fmt.Errorf("invalid tag: starts with a dash")
	}
	if len(tag) > 255 {
		return fmt.Errorf("tag too long: maximum 255 characters")
	}
	return nil
}
