package query

import (
	"strings"

	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/record"
)

// postFilter applies spec.md §4.6 step 4: drop rows whose normalized
// lowercased path does not lie under any configured scope root (an empty
// scope means "no restriction"), then reapply should_skip_path and, for
// directories, should_skip_dir, since a scope's roots might include
// locations the build-time filters would otherwise have excluded (e.g. a
// C:-only allow-list doesn't apply to a D: scope root).
func postFilter(recs []*record.FileRecord, scopeRoots []string, allowList *filter.AllowList) []*record.FileRecord {
	out := recs[:0]
	for _, r := range recs {
		if len(scopeRoots) > 0 && !underAnyRoot(r.FullPath, scopeRoots) {
			continue
		}
		if filter.ShouldSkipPath(r.FullPath, allowList) {
			continue
		}
		if r.IsDir && filter.ShouldSkipDir(r.Filename, r.FullPath, allowList) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// underAnyRoot reports whether path lies at or under any of roots,
// case-insensitively. A root may be a bare drive letter ("D:") treated as
// that whole volume, or a directory prefix.
func underAnyRoot(path string, roots []string) bool {
	lowerPath := record.Lower(path)
	for _, root := range roots {
		lowerRoot := record.Lower(strings.TrimSuffix(root, `\`))
		if lowerPath == lowerRoot || strings.HasPrefix(lowerPath, lowerRoot+`\`) {
			return true
		}
	}
	return false
}
