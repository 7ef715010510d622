package backfill

import (
	"context"
	"runtime"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/record"
)

// preloadChunkSize is the chunk size spec.md §4.9 specifies for the
// background pre-loader ("500-item chunks, yielding between chunks").
const preloadChunkSize = 500

// Preloader runs BackfillPage over an entire result set in the background,
// 500 items at a time, so a user scrolling through a long result list
// finds pages already stat'd by the time they arrive. It stops as soon as
// a newer search replaces it.
type Preloader struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartPreloader launches a background pre-load over results. Calling
// Stop ends it promptly; starting another Preloader does not stop this
// one, and a preload in progress never blocks a caller constructing a
// fresh one.
func StartPreloader(store *catalog.Store, results []*record.FileRecord) *Preloader {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Preloader{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)
		for start := 0; start < len(results); start += preloadChunkSize {
			if ctx.Err() != nil {
				return
			}
			end := start + preloadChunkSize
			if end > len(results) {
				end = len(results)
			}
			BackfillPage(ctx, store, results[start:end])
			runtime.Gosched() // yield between chunks, per spec.md §4.9.
		}
	}()

	return p
}

// Stop cancels the preload, per spec.md §4.9 ("exits when a new search
// starts"). It does not wait for the current chunk to finish.
func (p *Preloader) Stop() {
	p.cancel()
}

// Wait blocks until the preload has fully finished or been stopped. Tests
// use this; production callers generally don't need to wait.
func (p *Preloader) Wait() {
	<-p.done
}
