// Package filter implements the pure predicates that decide whether a path,
// directory name, or file extension is indexable (C1 in spec.md §4.1).
package filter

import "strings"

// SkipDirs is the hard-coded set of path segments (lowercase) that cause a
// directory (and everything beneath it) to be excluded from indexing,
// unless the path falls inside a configured allow-list.
var SkipDirs = map[string]struct{}{
	"windows":                     {},
	"program files":               {},
	"program files (x86)":         {},
	"programdata":                 {},
	"$recycle.bin":                {},
	"system volume information":   {},
	"appdata":                     {},
	"node_modules":                {},
	".git":                        {},
	"__pycache__":                 {},
	".cache":                      {},
	"cache":                       {},
	"tmp":                         {},
	"temp":                        {},
	".vs":                         {},
	".vscode":                     {},
	"bin":                         {},
	"obj":                         {},
	"build":                       {},
	"dist":                        {},
	"target":                      {},
	"site-packages":               {},
}

// SkipExts is the fixed set of lowercased file extensions (including the
// leading dot) that are considered non-user content and are filtered only
// for files, never for directories.
var SkipExts = map[string]struct{}{
	".obj": {}, ".o": {}, ".a": {}, ".lib": {},
	".log": {}, ".tmp": {}, ".bak": {},
	".dll": {}, ".pdb": {}, ".exp": {}, ".ilk": {},
	".pyc": {}, ".pyo": {}, ".class": {},
	".cache": {}, ".lock": {},
}

// isCadVersioned reports whether name matches the "cad20{10..24}" family of
// AutoCAD installation directory names.
func isCadVersioned(lower string) bool {
	const prefix = "cad20"
	if !strings.HasPrefix(lower, prefix) {
		return false
	}
	suffix := lower[len(prefix):]
	if len(suffix) != 2 {
		return false
	}
	year, ok := twoDigits(suffix)
	return ok && year >= 10 && year <= 24
}

// isAutocadVersioned reports whether name matches
// "autocad_20{10..25}".
func isAutocadVersioned(lower string) bool {
	const prefix = "autocad_20"
	if !strings.HasPrefix(lower, prefix) {
		return false
	}
	suffix := lower[len(prefix):]
	if len(suffix) != 2 {
		return false
	}
	year, ok := twoDigits(suffix)
	return ok && year >= 10 && year <= 25
}

func twoDigits(s string) (int, bool) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// matchesCadPattern reports whether a lowercased name matches any of the
// CAD/tangent skip rules from spec.md §4.1 and §9's Open Question on the
// "tangent" substring match: it is deliberately a substring test, so
// "tangential" also matches.
func matchesCadPattern(lower string) bool {
	return isCadVersioned(lower) || isAutocadVersioned(lower) || strings.Contains(lower, "tangent")
}

// isSkippedSegment reports whether a single lowercased path segment (a
// directory name) should trigger a skip on its own, independent of any
// allow-list.
func isSkippedSegment(lower string) bool {
	if _, ok := SkipDirs[lower]; ok {
		return true
	}
	return matchesCadPattern(lower)
}
