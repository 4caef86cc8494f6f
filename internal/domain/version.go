package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

const (
	// DefaultTemplate is the version format used when the caller supplies none.
	DefaultTemplate = "{tag}.dev{sha}"
	// DefaultStartingVersion is used when the repository has no tags.
	DefaultStartingVersion = "0.1.0"
	// ShortSHALength is how many characters of the HEAD sha appear in a version.
	ShortSHALength = 8
)

// Version is a resolved version string.
type Version string

func (v Version) String() string {
	return string(v)
}

// MarkDirty appends the dirty suffix. The separator is "+" unless the version
// already carries a build segment, in which case "." keeps the result a single
// build metadata section.
func (v Version) MarkDirty() Version {
	sep := "+"
	if strings.Contains(string(v), "+") {
		sep = "."
	}
	return v + Version(sep) + "dirty"
}

// Template is a version format string with {tag} and {sha} placeholders.
type Template string

// Render substitutes the tag and the short form of sha into the template.
func (t Template) Render(tag, sha string) Version {
	out := strings.ReplaceAll(string(t), "{tag}", tag)
	return Version(strings.ReplaceAll(out, "{sha}", ShortSHA(sha)))
}

// ShortSHA truncates a commit sha for display.
func ShortSHA(sha string) string {
	if len(sha) > ShortSHALength {
		return sha[:ShortSHALength]
	}
	return sha
}

// LatestByVersionOrder returns the greatest tag under version ordering, or ""
// for an empty list. Pairs of tags that both parse as semantic versions rank
// by semver precedence; any pair with an unparseable side falls back to raw
// string comparison, the same fallback git's version:refname sort applies to
// names it cannot read as versions.
func LatestByVersionOrder(tags []string) string {
	latest := ""
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if latest == "" || versionLess(latest, tag) {
			latest = tag
		}
	}
	return latest
}

func versionLess(a, b string) bool {
	va, errA := semver.NewVersion(strings.TrimPrefix(a, "v"))
	vb, errB := semver.NewVersion(strings.TrimPrefix(b, "v"))
	if errA == nil && errB == nil {
		if va.Equal(vb) {
			return a < b
		}
		return va.LessThan(vb)
	}
	return a < b
}
