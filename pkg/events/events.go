// Package events defines the typed message shapes the core emits toward its
// GUI (or any other) caller, per spec.md's Design Notes §9: PySide signals
// between workers and GUI become typed message channels here. The GUI side
// is out of scope — this package only defines what a caller must be able to
// consume.
package events

// Progress reports incremental progress during a long-running operation
// (a build or drive rebuild).
type Progress struct {
	Count   int
	Message string
}

// BatchReady carries a batch of search result items ready for display.
// The item shape itself lives in pkg/search to avoid a dependency cycle;
// callers type-assert Items to []*search.ResultItem.
type BatchReady struct {
	Items interface{}
}

// BuildFinished signals that a full build or drive rebuild's row-level
// work has completed (the FTS auxiliary may still be rebuilding in the
// background; see FtsFinished).
type BuildFinished struct {
	Drive         string // empty for a full, multi-drive build
	RecordCount   int
	Duration      float64
	UsedMFT       bool
	Cancelled     bool
}

// FtsFinished signals that the background full-text index rebuild
// triggered by a build has completed.
type FtsFinished struct {
	Available bool
}

// FilesChanged reports the effect of one USN watcher poll cycle.
type FilesChanged struct {
	Added        int
	Deleted      int
	DeletedPaths []string
}

// SearchFinished signals that a search worker (index or realtime) has
// exhausted its result set.
type SearchFinished struct {
	ElapsedSeconds float64
}

// SearchProgress reports incremental progress from the realtime worker:
// directories scanned so far and a rolling items/sec rate.
type SearchProgress struct {
	DirectoriesScanned int
	ItemsPerSecond     float64
}

// SearchError reports a non-fatal failure encountered while servicing a
// search request; per spec.md §4.6, the query engine never panics or
// aborts the whole process on these.
type SearchError struct {
	Message string
}

// Event is the union of every event shape above. A consumer switches on
// the dynamic type.
type Event interface{}

// Bus is a buffered event channel with a non-blocking Emit, mirroring the
// buffered-channel contract in pkg/filesystem/watch.go's Watch function
// (which panics if handed an unbuffered events channel). Bus enforces its
// own buffering instead of trusting the caller.
type Bus struct {
	ch chan Event
}

// NewBus creates a Bus with the given channel capacity. A capacity of zero
// is rounded up to 1, since an unbuffered channel would make Emit block.
func NewBus(capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{ch: make(chan Event, capacity)}
}

// Events returns the receive side of the bus.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Emit sends an event without blocking. If the channel is full, the event
// is dropped — a slow or absent consumer must never stall the producer (a
// build, rebuild, or watcher poll loop).
func (b *Bus) Emit(e Event) {
	select {
	case b.ch <- e:
	default:
	}
}

// Close closes the underlying channel. Callers must ensure no further Emit
// calls occur afterward.
func (b *Bus) Close() {
	close(b.ch)
}
