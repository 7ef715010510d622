package search

import (
	"context"
	"time"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/query"
)

// indexBatchSize is the streaming batch size spec.md §4.8 specifies for
// the index worker ("streams results in batches of ~200 items").
const indexBatchSize = 200

// now is overridable in tests.
var now = time.Now

// RunIndexSearch executes queryString against store via pkg/query, then
// streams the results to bus in indexBatchSize batches as events.BatchReady,
// finishing with events.SearchFinished. It is the "index worker" of
// spec.md §4.8: a thin streaming wrapper around Catalog.search.
func RunIndexSearch(ctx context.Context, store *catalog.Store, bus *events.Bus, queryString string, scopeRoots []string, allowList *filter.AllowList, limit int) error {
	start := now()

	recs, err := query.Search(ctx, store, queryString, scopeRoots, allowList, limit)
	if err != nil {
		bus.Emit(events.SearchError{Message: err.Error()})
		return err
	}

	for i := 0; i < len(recs); i += indexBatchSize {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		end := i + indexBatchSize
		if end > len(recs) {
			end = len(recs)
		}
		items := make([]*ResultItem, end-i)
		for j, r := range recs[i:end] {
			items[j] = NewResultItem(r)
		}
		bus.Emit(events.BatchReady{Items: items})
	}

	bus.Emit(events.SearchFinished{ElapsedSeconds: now().Sub(start).Seconds()})
	return nil
}
