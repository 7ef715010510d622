package volume

import (
	"sync"

	"github.com/mutagen-io/extstat"

	"github.com/ntfs-catalog/core/pkg/record"
)

// workerCountFor scales the metadata-fill worker pool with the number of
// file entries to stat, per spec.md §4.3 step 6: 4 / 8 / 16 workers for
// <200 / <2000 / >=2000 entries.
func workerCountFor(n int) int {
	switch {
	case n < 200:
		return 4
	case n < 2000:
		return 8
	default:
		return 16
	}
}

// fillMetadata populates Size and ModTime on every file record in records
// (directories are left untouched — they carry zero size/mtime by
// definition). Entries whose stat call fails are left at zero rather than
// aborting the batch, matching the FilesystemStat error kind in spec.md §7
// ("per-entry, absorbed").
//
// Work is split into batches of ceil(N/workers) entries, one goroutine per
// batch, with workers sized per workerCountFor, mirroring the scanner's internal metadata-fill pool
// described in spec.md §4.3 and §5.
func fillMetadata(records []*record.FileRecord) {
	var files []*record.FileRecord
	for _, r := range records {
		if !r.IsDir {
			files = append(files, r)
		}
	}
	if len(files) == 0 {
		return
	}

	workers := workerCountFor(len(files))
	if workers > len(files) {
		workers = len(files)
	}
	batchSize := (len(files) + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < len(files); start += batchSize {
		end := start + batchSize
		if end > len(files) {
			end = len(files)
		}
		batch := files[start:end]
		wg.Add(1)
		go func(batch []*record.FileRecord) {
			defer wg.Done()
			for _, r := range batch {
				statOne(r)
			}
		}(batch)
	}
	wg.Wait()
}

// statOne fills a single record's Size and ModTime from the filesystem,
// leaving both at zero if the entry is unreadable.
func statOne(r *record.FileRecord) {
	info, err := extstat.NewFromFileName(r.FullPath)
	if err != nil {
		return
	}
	r.Size = uint64(info.Size)
	r.ModTime = float64(info.ModTime.Unix())
}
