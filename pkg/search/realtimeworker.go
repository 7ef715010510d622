package search

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mutagen-io/extstat"

	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/record"
)

// realtimeWorkerCount is the fixed pool size spec.md §4.8 specifies for
// the realtime worker ("multi-threaded (16 workers on a shared work
// queue)").
const realtimeWorkerCount = 16

// realtimeBatchSize is the emitted batch size spec.md §4.8 specifies
// ("emits batches of 50 matches").
const realtimeBatchSize = 50

// PauseFlag is a cooperative pause/resume signal the realtime worker polls
// between directories, per spec.md §4.8 ("Supports pause/resume via a
// cooperative flag").
type PauseFlag struct {
	paused atomic.Bool
}

// Pause suspends further directory scanning until Resume is called.
func (p *PauseFlag) Pause() { p.paused.Store(true) }

// Resume lifts a pause set by Pause.
func (p *PauseFlag) Resume() { p.paused.Store(false) }

func (p *PauseFlag) wait(ctx context.Context) bool {
	for p.paused.Load() {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
	return true
}

// RunRealtimeSearch scans scopeRoots live, in parallel across
// realtimeWorkerCount workers sharing a directory queue, matching each
// entry's name against keywords (plain-substring mode; fuzzy/regex modes
// are a UI-layer concern on top of this primitive). pause may be nil.
func RunRealtimeSearch(ctx context.Context, bus *events.Bus, scopeRoots []string, keywords []string, allowList *filter.AllowList, pause *PauseFlag) {
	start := now()

	queue := make(chan string, 4096)
	var pending sync.WaitGroup
	var dirsScanned int64
	var itemsFound int64

	var workerWg sync.WaitGroup
	for i := 0; i < realtimeWorkerCount; i++ {
		workerWg.Add(1)
		go func() {
			defer workerWg.Done()
			for dir := range queue {
				scanOneDir(ctx, dir, keywords, allowList, queue, &pending, &dirsScanned, &itemsFound, bus, pause)
				pending.Done()
			}
		}()
	}

	for _, root := range scopeRoots {
		pending.Add(1)
		queue <- root
	}

	go func() {
		pending.Wait()
		close(queue)
	}()
	workerWg.Wait()

	bus.Emit(events.SearchFinished{ElapsedSeconds: now().Sub(start).Seconds()})
}

func scanOneDir(ctx context.Context, dir string, keywords []string, allowList *filter.AllowList, queue chan<- string, pending *sync.WaitGroup, dirsScanned, itemsFound *int64, bus *events.Bus, pause *PauseFlag) {
	if ctx.Err() != nil {
		return
	}
	if pause != nil && !pause.wait(ctx) {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	atomic.AddInt64(dirsScanned, 1)

	var batch []*ResultItem
	flush := func() {
		if len(batch) == 0 {
			return
		}
		bus.Emit(events.BatchReady{Items: batch})
		atomic.AddInt64(itemsFound, int64(len(batch)))
		batch = nil
	}

	for _, e := range entries {
		name := e.Name()
		full := filepath.Join(dir, name)
		if filter.ShouldSkipName(name) {
			continue
		}
		lower := record.Lower(name)

		if e.IsDir() {
			if filter.ShouldSkipDir(name, full, allowList) {
				continue
			}
			// Enqueued from a separate goroutine so a full queue never
			// deadlocks against the very workers that would drain it.
			pending.Add(1)
			go func(p string) { queue <- p }(full)

			if matchesQuery(lower, keywords) {
				r := record.New(name, full, dir, 0, 0, true)
				batch = append(batch, NewResultItem(r))
			}
		} else {
			if filter.ShouldSkipPath(full, allowList) || filter.ShouldSkipExtension(name) {
				continue
			}
			if !matchesQuery(lower, keywords) {
				continue
			}
			r := record.New(name, full, dir, 0, 0, false)
			if info, err := extstat.NewFromFileName(full); err == nil {
				r.Size = uint64(info.Size)
				r.ModTime = float64(info.ModTime.Unix())
			}
			batch = append(batch, NewResultItem(r))
		}

		if len(batch) >= realtimeBatchSize {
			flush()
		}
	}
	flush()

	bus.Emit(events.SearchProgress{
		DirectoriesScanned: int(atomic.LoadInt64(dirsScanned)),
		ItemsPerSecond:     float64(atomic.LoadInt64(itemsFound)),
	})
}
