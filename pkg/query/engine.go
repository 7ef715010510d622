package query

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mutagen-io/extstat"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/record"
)

// statRepairCap bounds the parallel stat repairs a single search may
// trigger, per spec.md §4.6 step 5 ("up to 10,000 parallel stat
// repairs").
const statRepairCap = 10000

// Search executes a full query per spec.md §4.6: parse, build a SQL plan,
// execute against the catalog (using the FTS auxiliary when available and
// there are bare keywords to match, falling back to the LIKE baseline
// otherwise), post-filter by scope, and — if a "dm:" filter is present —
// repair any zero-mtime rows before applying the date bound. limit <= 0
// uses DefaultLimit. scopeRoots empty means unrestricted.
func Search(ctx context.Context, store *catalog.Store, queryString string, scopeRoots []string, allowList *filter.AllowList, limit int) ([]*record.FileRecord, error) {
	parsed, err := Parse(queryString)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	recs, err := execute(ctx, store, parsed, limit)
	if err != nil {
		return nil, err
	}

	recs = postFilter(recs, scopeRoots, allowList)

	if !parsed.Filters.ModifiedSince.IsZero() {
		recs = repairAndFilterByModTime(ctx, store, recs, parsed.Filters.ModifiedSince)
	}

	return recs, nil
}

// execute runs the built plan against the catalog, preferring the FTS
// auxiliary when it exists and the query has bare keywords to match.
func execute(ctx context.Context, store *catalog.Store, parsed Parsed, limit int) ([]*record.FileRecord, error) {
	if len(parsed.Keywords) > 0 && store.GetStats().HasFTS {
		filterPlan := BuildFilterPlan(parsed)
		matchExpr := strings.Join(quoteFTSTerms(parsed.Keywords), " ")
		recs, err := store.QueryFilesMatchingFTS(ctx, matchExpr, filterPlan.Where, filterPlan.Args, limit)
		if err == nil {
			return recs, nil
		}
		// FTS is an optimization, never a hard dependency (spec.md §4.6):
		// any failure here — a missing auxiliary, a MATCH syntax error from
		// an unusual keyword — falls through to the LIKE baseline below.
	}

	plan := BuildPlan(parsed)
	return store.QueryFiles(ctx, plan.Where, plan.Args, limit)
}

// quoteFTSTerms wraps each term in double quotes so punctuation inside a
// keyword (periods, hyphens) can't be misread as FTS5 query syntax.
func quoteFTSTerms(terms []string) []string {
	out := make([]string, len(terms))
	for i, t := range terms {
		out[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return out
}

// repairAndFilterByModTime implements spec.md §4.6 step 5: for results
// with an unknown (zero) mtime, stat the file, keep it only if the
// repaired mtime satisfies the filter, and asynchronously persist the
// repaired (size, mtime) back to the catalog. At most statRepairCap
// entries are repaired in parallel per call.
func repairAndFilterByModTime(ctx context.Context, store *catalog.Store, recs []*record.FileRecord, since time.Time) []*record.FileRecord {
	var needsRepair []*record.FileRecord
	for _, r := range recs {
		if r.ModTime == 0 {
			needsRepair = append(needsRepair, r)
			if len(needsRepair) >= statRepairCap {
				break
			}
		}
	}

	if len(needsRepair) > 0 {
		var wg sync.WaitGroup
		for _, r := range needsRepair {
			wg.Add(1)
			go func(r *record.FileRecord) {
				defer wg.Done()
				info, err := extstat.NewFromFileName(r.FullPath)
				if err != nil {
					return
				}
				r.Size = uint64(info.Size)
				r.ModTime = float64(info.ModTime.Unix())
				// Persisted against a background context: the write-back must
				// outlive the search call that triggered it.
				go store.UpdateStat(context.Background(), r.FullPath, r.Size, r.ModTime)
			}(r)
		}
		wg.Wait()
	}

	sinceSeconds := float64(since.UnixNano()) / 1e9
	out := recs[:0]
	for _, r := range recs {
		if r.ModTime >= sinceSeconds {
			out = append(out, r)
		}
	}
	return out
}
