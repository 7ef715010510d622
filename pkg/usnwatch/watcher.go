// Package usnwatch implements the USN change-journal watcher (C7 in
// spec.md §4.7): an adaptive poll loop per tracked drive, journal-delta
// translation into catalog mutations, and the bounded supplemental scan
// that catches children a restored directory's journal entry alone can't
// describe.
package usnwatch

import (
	"context"
	"fmt"
	"time"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/dircache"
	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/logging"
)

const (
	// baseInterval is the poll period immediately after a cycle that found
	// changes.
	baseInterval = 100 * time.Millisecond
	// maxInterval caps the idle backoff, per spec.md §4.7.
	maxInterval = 2 * time.Second
	// maxIdleSteps caps how many idle cycles the backoff keeps growing for;
	// beyond this it holds at whatever 1.3^maxIdleSteps*baseInterval
	// computes to (clamped by maxInterval regardless).
	maxIdleSteps = 10
	// buildSuspendSleep is how long the loop waits before retrying when the
	// catalog reports a build in progress, per spec.md §4.7's "Suspension
	// points".
	buildSuspendSleep = 1 * time.Second
	// sleepSegment bounds each individual sleep so Run's ctx cancellation
	// is never delayed by more than this, per spec.md §5 ("sleep is
	// segmented into 100ms chunks to keep stop-latency bounded").
	sleepSegment = 100 * time.Millisecond
)

// DriveTarget pairs a drive letter with the scope it should apply USN
// events under (a C-drive allow-list, when present).
type DriveTarget struct {
	Drive     string
	AllowList *filter.AllowList
}

// driveState is the watcher's per-drive mutable position.
type driveState struct {
	lastUsn int64
	cache   *dircache.Cache
}

// Watcher polls a fixed set of drives' USN journals and applies translated
// changes to a catalog.Store.
type Watcher struct {
	store  *catalog.Store
	bus    *events.Bus
	logger *logging.Logger

	targets []DriveTarget
	state   map[string]*driveState
}

// New creates a Watcher over targets. Each drive's starting last_usn is
// either the value persisted in the catalog's meta table from a previous
// run, or the journal's current NextUsn (so a fresh start never replays
// history it has no baseline to diff against). A saved DirCache, if one
// loads and validates, seeds that drive's live tree mirror; otherwise it
// starts empty, meaning early events referencing not-yet-seen parents are
// dropped without an upsert; their entries still enter the tree mirror.
func New(ctx context.Context, store *catalog.Store, targets []DriveTarget, bus *events.Bus, logger *logging.Logger) *Watcher {
	w := &Watcher{
		store:   store,
		bus:     bus,
		logger:  logger,
		targets: targets,
		state:   make(map[string]*driveState),
	}

	for _, t := range targets {
		last, ok := store.DriveUsn(ctx, t.Drive)
		if !ok {
			if usn, err := currentUsn(t.Drive); err == nil {
				last = usn
			}
		}

		cache := dircache.New("")
		if sig, err := dircache.VolumeSignature(t.Drive); err == nil {
			if loaded, ok := dircache.Load(t.Drive, sig); ok {
				cache = loaded
			} else {
				cache.Signature = sig
			}
		}

		w.state[t.Drive] = &driveState{lastUsn: last, cache: cache}
	}

	return w
}

// Run polls every tracked drive until ctx is cancelled, applying the
// adaptive backoff described in spec.md §4.7.
func (w *Watcher) Run(ctx context.Context) {
	idleSteps := 0

	for {
		if ctx.Err() != nil {
			return
		}

		if w.store.IsBuilding() {
			if !w.sleep(ctx, buildSuspendSleep) {
				return
			}
			continue
		}

		anyChanges := false
		for _, t := range w.targets {
			if ctx.Err() != nil {
				return
			}
			if w.pollDrive(ctx, t) {
				anyChanges = true
			}
		}

		if anyChanges {
			idleSteps = 0
		} else if idleSteps < maxIdleSteps {
			idleSteps++
		}

		if !w.sleep(ctx, backoffInterval(idleSteps)) {
			return
		}
	}
}

// backoffInterval computes the adaptive poll period: baseInterval decaying
// via 1.3^idleSteps, capped at maxInterval.
func backoffInterval(idleSteps int) time.Duration {
	interval := float64(baseInterval)
	for i := 0; i < idleSteps; i++ {
		interval *= 1.3
	}
	d := time.Duration(interval)
	if d > maxInterval {
		return maxInterval
	}
	return d
}

// pollDrive runs one cycle for a single drive and reports whether any
// change was applied.
func (w *Watcher) pollDrive(ctx context.Context, t DriveTarget) bool {
	st := w.state[t.Drive]

	next, err := currentUsn(t.Drive)
	if err != nil {
		w.logger.Warn(fmt.Errorf("usnwatch: querying %s failed: %w", t.Drive, err))
		return false
	}
	if next <= st.lastUsn {
		return false
	}

	raws, newUsn, err := readChangesSince(t.Drive, st.lastUsn)
	if err != nil {
		w.logger.Warn(fmt.Errorf("usnwatch: reading changes for %s failed: %w", t.Drive, err))
		return false
	}
	if len(raws) == 0 {
		st.lastUsn = newUsn
		return false
	}

	result := translateChanges(st.cache, t.Drive, raws, t.AllowList, w.logger)
	if len(result.DeletePaths) == 0 && len(result.Upserts) == 0 {
		st.lastUsn = newUsn
		return false
	}

	added, deleted, err := w.store.ApplyChanges(ctx, result.DeletePaths, result.Upserts)
	if err != nil {
		// The journal position is not advanced for a failed drive until
		// its batch succeeds, per spec.md §4.7's failure semantics: the
		// next poll will re-read and retry the same range.
		w.logger.Warn(fmt.Errorf("usnwatch: applying changes for %s failed: %w", t.Drive, err))
		return false
	}

	st.lastUsn = newUsn
	w.store.SetDriveUsn(ctx, t.Drive, newUsn)
	w.bus.Emit(events.FilesChanged{Added: added, Deleted: deleted, DeletedPaths: result.DeletePaths})
	return true
}

// sleep waits for d in sleepSegment-sized chunks so ctx cancellation is
// observed promptly. Returns false if ctx was cancelled during the wait.
func (w *Watcher) sleep(ctx context.Context, d time.Duration) bool {
	for d > 0 {
		chunk := sleepSegment
		if d < chunk {
			chunk = d
		}
		timer := time.NewTimer(chunk)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
		d -= chunk
	}
	return true
}
