package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// AllowList is the C-drive allow-list: a configured set of roots (or glob
// patterns, e.g. "Users/*/Desktop") that *replace* the default skip rules
// for C:, per spec.md's "Allow-list semantics on C:" design note. Non-C:
// drives never consult an AllowList.
type AllowList struct {
	roots []string
}

// NewAllowList builds an AllowList from a set of root directories and/or
// doublestar glob patterns, matched case-insensitively against a
// slash-normalized, lowercased path (mirroring how
// pkg/synchronization/core/ignore.go normalizes paths before matching).
func NewAllowList(entries ...string) *AllowList {
	al := &AllowList{}
	for _, e := range entries {
		if e == "" {
			continue
		}
		al.roots = append(al.roots, normalizeForMatch(e))
	}
	return al
}

// normalizeForMatch lowercases a path and converts backslashes to forward
// slashes so doublestar (which expects '/'-separated patterns) can match
// Windows paths.
func normalizeForMatch(p string) string {
	return strings.ToLower(strings.ReplaceAll(p, `\`, `/`))
}

// Contains reports whether path lies inside the allow-list: either under one
// of its literal root directories, or matched by one of its glob patterns.
func (al *AllowList) Contains(path string) bool {
	if al == nil || len(al.roots) == 0 {
		return false
	}
	candidate := normalizeForMatch(path)
	// Entries may omit the drive ("Users/*/Desktop"), so each one is also
	// tried against the path with its leading "x:/" removed.
	rel := candidate
	if i := strings.IndexByte(rel, '/'); i > 0 && strings.HasSuffix(rel[:i], ":") {
		rel = rel[i+1:]
	}
	for _, root := range al.roots {
		for _, c := range []string{candidate, rel} {
			if c == root || strings.HasPrefix(c, root+"/") {
				return true
			}
			if ok, err := doublestar.Match(root, c); err == nil && ok {
				return true
			}
			if ok, err := doublestar.Match(root+"/**", c); err == nil && ok {
				return true
			}
		}
	}
	return false
}
