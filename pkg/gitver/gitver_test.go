package gitver

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

type fixture struct {
	dir  string
	repo *git.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &fixture{dir: dir, repo: repo}
}

func (f *fixture) commit(t *testing.T, name string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(name), 0600))
	w, err := f.repo.Worktree()
	require.NoError(t, err)
	_, err = w.Add(name)
	require.NoError(t, err)
	hash, err := w.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func (f *fixture) tag(t *testing.T, name string) {
	t.Helper()
	head, err := f.repo.Head()
	require.NoError(t, err)
	_, err = f.repo.CreateTag(name, head.Hash(), nil)
	require.NoError(t, err)
}

func (f *fixture) dirty(t *testing.T) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "scratch.txt"), []byte("x"), 0600))
}

func TestResolve(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	t.Run("Should return starting version for an untagged clean repository", func(t *testing.T) {
		f := newFixture(t)
		f.commit(t, "a.txt")
		version, err := Resolve(ctx, Options{Dir: f.dir})
		require.NoError(t, err)
		assert.Equal(t, "0.1.0", version)
	})
	t.Run("Should return the bare tag when HEAD carries it", func(t *testing.T) {
		f := newFixture(t)
		f.commit(t, "a.txt")
		f.tag(t, "v1.2.0")
		version, err := Resolve(ctx, Options{Dir: f.dir})
		require.NoError(t, err)
		assert.Equal(t, "v1.2.0", version)
	})
	t.Run("Should decorate with short sha and dirty marker when ahead and dirty", func(t *testing.T) {
		f := newFixture(t)
		f.commit(t, "a.txt")
		f.tag(t, "v1.2.0")
		sha := f.commit(t, "b.txt")
		f.dirty(t)
		version, err := Resolve(ctx, Options{Dir: f.dir})
		require.NoError(t, err)
		assert.Equal(t, "v1.2.0.dev"+sha[:8]+"+dirty", version)
	})
	t.Run("Should honor a custom template and starting version", func(t *testing.T) {
		f := newFixture(t)
		f.commit(t, "a.txt")
		version, err := Resolve(ctx, Options{Dir: f.dir, StartingVersion: "2.0.0"})
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", version)
		f.tag(t, "v3.0.0")
		sha := f.commit(t, "b.txt")
		version, err = Resolve(ctx, Options{Dir: f.dir, VersionFormat: "{tag}+{sha}"})
		require.NoError(t, err)
		assert.Equal(t, "v3.0.0+"+sha[:8], version)
	})
	t.Run("Should be idempotent for unchanged repository state", func(t *testing.T) {
		f := newFixture(t)
		f.commit(t, "a.txt")
		f.tag(t, "v1.0.0")
		first, err := Resolve(ctx, Options{Dir: f.dir})
		require.NoError(t, err)
		second, err := Resolve(ctx, Options{Dir: f.dir})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestQueries(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	t.Run("Should expose each repository query independently", func(t *testing.T) {
		f := newFixture(t)
		sha := f.commit(t, "a.txt")
		f.tag(t, "v1.0.0")
		tag, err := LatestTag(ctx, f.dir)
		require.NoError(t, err)
		assert.Equal(t, "v1.0.0", tag)
		tagSha, err := TagCommit(ctx, f.dir, tag)
		require.NoError(t, err)
		assert.Equal(t, sha, tagSha)
		head, err := HeadSHA(ctx, f.dir)
		require.NoError(t, err)
		assert.Equal(t, sha, head)
		at, err := IsHeadAtTag(ctx, f.dir, tag)
		require.NoError(t, err)
		assert.True(t, at)
		dirty, err := IsDirty(ctx, f.dir)
		require.NoError(t, err)
		assert.False(t, dirty)
	})
}

func TestApplyFromConfig(t *testing.T) {
	t.Run("Should reject a non-mapping config with the fixed message", func(t *testing.T) {
		meta := &Metadata{}
		err := ApplyFromConfig(context.Background(), meta, []string{"not", "a", "mapping"})
		require.Error(t, err)
		assert.Equal(t,
			"Config should be a dictionary with `version_format` and `starting_version` keys.",
			err.Error())
		assert.Equal(t, "", meta.Version)
	})
	t.Run("Should assign the resolved version into the metadata", func(t *testing.T) {
		requireGit(t)
		f := newFixture(t)
		f.commit(t, "a.txt")
		f.tag(t, "v1.5.0")
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(f.dir))
		t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
		meta := &Metadata{}
		require.NoError(t, ApplyFromConfig(context.Background(), meta, map[string]any{}))
		assert.Equal(t, "v1.5.0", meta.Version)
	})
	t.Run("Should honor config keys", func(t *testing.T) {
		requireGit(t)
		f := newFixture(t)
		f.commit(t, "a.txt")
		wd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(f.dir))
		t.Cleanup(func() { require.NoError(t, os.Chdir(wd)) })
		meta := &Metadata{}
		cfg := map[string]any{"starting_version": "4.0.0"}
		require.NoError(t, ApplyFromConfig(context.Background(), meta, cfg))
		assert.Equal(t, "4.0.0", meta.Version)
	})
}
