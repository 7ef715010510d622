package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/filter"
)

func TestRunRealtimeSearchFindsMatchingFiles(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "quarterly-report.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file failed: %s", err)
	}
	if err := os.WriteFile(filepath.Join(root, "photo.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed file failed: %s", err)
	}
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("seed dir failed: %s", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "report-2.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("seed nested file failed: %s", err)
	}

	bus := events.NewBus(64)
	// The temp directory usually lies under a skipped segment ("tmp",
	// "temp", "appdata"); allow-listing it keeps the seeded files indexable.
	RunRealtimeSearch(context.Background(), bus, []string{root}, []string{"report"}, filter.NewAllowList(root), nil)

	var found []string
	var finished bool
	for {
		select {
		case e := <-bus.Events():
			switch v := e.(type) {
			case events.BatchReady:
				for _, item := range v.Items.([]*ResultItem) {
					found = append(found, item.Filename)
				}
			case events.SearchFinished:
				finished = true
			}
		default:
			goto done
		}
	}
done:
	if !finished {
		t.Error("expected a SearchFinished event")
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches, got %v", found)
	}
}

func TestPauseFlagBlocksUntilResumed(t *testing.T) {
	p := &PauseFlag{}
	p.Pause()

	done := make(chan bool, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { done <- p.wait(ctx) }()

	select {
	case <-done:
		t.Fatal("expected wait to block while paused")
	case <-time.After(75 * time.Millisecond):
	}

	p.Resume()
	select {
	case ok := <-done:
		if !ok {
			t.Error("expected wait to return true after resuming")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected wait to unblock after Resume")
	}
}
