package filter

import (
	"path/filepath"
	"strings"
)

// segments splits a path into its lowercased path segments, tolerating
// both '\' and '/' separators.
func segments(path string) []string {
	normalized := strings.ReplaceAll(path, `\`, "/")
	parts := strings.Split(normalized, "/")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || strings.HasSuffix(p, ":") {
			continue // drive letters and empty segments from leading/trailing slashes
		}
		result = append(result, strings.ToLower(p))
	}
	return result
}

// ShouldSkipPath reports whether a path should be excluded from indexing.
// If allowList is non-nil and contains the path, the path is never skipped
// regardless of its segments. Otherwise it is skipped if any segment is in
// SkipDirs or matches the CAD/tangent patterns.
func ShouldSkipPath(path string, allowList *AllowList) bool {
	if allowList != nil && allowList.Contains(path) {
		return false
	}
	for _, seg := range segments(path) {
		if isSkippedSegment(seg) {
			return true
		}
	}
	return false
}

// ShouldSkipDir reports whether a single directory name (optionally with
// its full path, for allow-list bypass) should be excluded. Matches
// spec.md's should_skip_dir: the CAD/tangent rules and name-in-SkipDirs
// check, bypassed when path is inside allowList.
func ShouldSkipDir(name string, path string, allowList *AllowList) bool {
	if allowList != nil && path != "" && allowList.Contains(path) {
		return false
	}
	lower := strings.ToLower(name)
	return isSkippedSegment(lower)
}

// ShouldSkipExtension reports whether filename's extension is in SkipExts.
// Only meaningful for files; directories never have an extension to skip.
func ShouldSkipExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	_, skip := SkipExts[ext]
	return skip
}

// ShouldSkipName reports whether a raw entry name should never be
// considered for indexing at all: NTFS metadata files (leading '$'),
// hidden/dotfiles used for tooling state, and the empty name.
func ShouldSkipName(name string) bool {
	if name == "" {
		return true
	}
	return name[0] == '$' || name[0] == '.'
}
