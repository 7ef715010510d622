// Package backfill implements the lazy stat backfill (C9 in spec.md
// §4.9): filling in size/mtime for result rows the catalog hasn't stat'd
// yet, overwriting the caller's page in place and asynchronously
// persisting the repair back to the catalog.
package backfill

import (
	"context"
	"sync"

	"github.com/mutagen-io/extstat"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/record"
)

// FileInfo is the batched attribute-lookup result spec.md §4.9 step 2
// describes: a parallel array of (size, mtime, exists) keyed by the same
// order as the input paths.
type FileInfo struct {
	Size    uint64
	ModTime float64
	Exists  bool
}

// backfillWorkers bounds the parallel stat calls a single page backfill
// issues; a page is small (tens of rows), so this doesn't need the
// scanner's cardinality-scaled worker count.
const backfillWorkers = 8

// BatchStat looks up (size, mtime, exists) for every path in parallel,
// returning results in the same order as paths.
func BatchStat(paths []string) []FileInfo {
	out := make([]FileInfo, len(paths))
	if len(paths) == 0 {
		return out
	}

	workers := backfillWorkers
	if workers > len(paths) {
		workers = len(paths)
	}

	var wg sync.WaitGroup
	indices := make(chan int, len(paths))
	for i := range paths {
		indices <- i
	}
	close(indices)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				info, err := extstat.NewFromFileName(paths[i])
				if err != nil {
					continue // Exists stays false, the zero value.
				}
				out[i] = FileInfo{
					Size:    uint64(info.Size),
					ModTime: float64(info.ModTime.Unix()),
					Exists:  true,
				}
			}
		}()
	}
	wg.Wait()
	return out
}

// BackfillPage implements spec.md §4.9 steps 1-4 for a single visible page:
// file-type entries (directories never carry a size) whose Size is still
// zero are stat'd, overwritten in place, and the repaired values are
// asynchronously written back to store.
func BackfillPage(ctx context.Context, store *catalog.Store, page []*record.FileRecord) {
	var targets []*record.FileRecord
	for _, r := range page {
		if !r.IsDir && r.Size == 0 {
			targets = append(targets, r)
		}
	}
	if len(targets) == 0 {
		return
	}

	paths := make([]string, len(targets))
	for i, r := range targets {
		paths[i] = r.FullPath
	}

	infos := BatchStat(paths)
	for i, r := range targets {
		info := infos[i]
		if !info.Exists {
			continue
		}
		r.Size = info.Size
		r.ModTime = info.ModTime

		// Persisted in the background: a lost write-back only costs the
		// next search a repeat backfill, never correctness.
		go store.UpdateStat(context.Background(), r.FullPath, info.Size, info.ModTime)
	}
}
