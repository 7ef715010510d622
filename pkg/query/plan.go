package query

import (
	"fmt"
	"strings"
)

// DefaultLimit is the row cap applied when a caller doesn't specify one,
// per spec.md §4.6 ("Limit defaults to 50,000").
const DefaultLimit = 50000

// Plan is a parameterized SQL WHERE fragment (without the leading "WHERE")
// plus its bind arguments, ready for catalog.Store.QueryFiles.
type Plan struct {
	Where string
	Args  []any
}

// BuildPlan translates a Parsed query into a Plan. Keyword clauses use
// LIKE against filename_lower, per spec.md §4.6 step 2 ("Build WHERE from
// keyword LIKE clauses AND filter clauses").
func BuildPlan(p Parsed) Plan {
	return buildPlan(p, true)
}

// BuildFilterPlan is BuildPlan without the keyword LIKE clauses, for use
// when keywords are instead being matched through the FTS auxiliary (FTS
// is an optimization the engine may choose, per spec.md §4.6; the filter
// clauses still need to run as an ordinary WHERE alongside the MATCH).
func BuildFilterPlan(p Parsed) Plan {
	return buildPlan(p, false)
}

func buildPlan(p Parsed, includeKeywords bool) Plan {
	var clauses []string
	var args []any

	if includeKeywords {
		for _, kw := range p.Keywords {
			clauses = append(clauses, "filename_lower LIKE ? ESCAPE '\\'")
			args = append(args, "%"+escapeLike(kw)+"%")
		}
	}

	if p.Filters.Extension != "" {
		clauses = append(clauses, "extension = ?")
		args = append(args, p.Filters.Extension)
	}

	if p.Filters.Size.Set {
		if p.Filters.Size.Greater {
			clauses = append(clauses, "size > ?")
		} else {
			clauses = append(clauses, "size < ?")
		}
		args = append(args, p.Filters.Size.Bytes)
	}

	if !p.Filters.ModifiedSince.IsZero() {
		// Rows with an unknown (zero) mtime are kept here so the engine can
		// stat-repair them before applying the date bound itself.
		clauses = append(clauses, "(mtime >= ? OR mtime = 0)")
		args = append(args, float64(p.Filters.ModifiedSince.UnixNano())/1e9)
	}

	switch p.Filters.Scope {
	case ScopeFolder:
		clauses = append(clauses, "is_dir = 1")
	case ScopeFile:
		clauses = append(clauses, "is_dir = 0")
	}

	if p.Filters.PathSubstr != "" {
		clauses = append(clauses, "full_path LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(p.Filters.PathSubstr)+"%")
	}

	return Plan{Where: strings.Join(clauses, " AND "), Args: args}
}

// escapeLike escapes SQL LIKE wildcard characters in a literal substring
// being embedded between '%' anchors.
func escapeLike(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			b.WriteByte('\\')
		}
		fmt.Fprintf(&b, "%c", r)
	}
	return b.String()
}
