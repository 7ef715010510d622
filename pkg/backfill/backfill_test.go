package backfill

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ntfs-catalog/core/pkg/catalog"
	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/logging"
	"github.com/ntfs-catalog/core/pkg/record"
)

func openTestStore(t *testing.T) *catalog.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.db")
	s, err := catalog.Open(path, events.NewBus(16), logging.RootLogger)
	if err != nil {
		t.Fatalf("unable to open catalog: %s", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBatchStatReportsExistsAndSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("seed file failed: %s", err)
	}

	infos := BatchStat([]string{path, filepath.Join(dir, "missing.txt")})
	if !infos[0].Exists || infos[0].Size != 5 {
		t.Errorf("expected existing file with size 5, got %+v", infos[0])
	}
	if infos[1].Exists {
		t.Errorf("expected missing file to report Exists=false, got %+v", infos[1])
	}
}

func TestBackfillPageFillsZeroSizeFiles(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("seed file failed: %s", err)
	}

	r := record.New("a.txt", path, dir, 0, 0, false)
	page := []*record.FileRecord{r}

	BackfillPage(context.Background(), store, page)

	if r.Size != 11 {
		t.Errorf("expected size 11 after backfill, got %d", r.Size)
	}
}

func TestBackfillPageSkipsDirectoriesAndAlreadyKnownSizes(t *testing.T) {
	store := openTestStore(t)
	dirRecord := record.New("sub", `C:\sub`, `C:\`, 0, 0, true)
	knownRecord := record.New("b.txt", `C:\b.txt`, `C:\`, 42, 100, false)

	page := []*record.FileRecord{dirRecord, knownRecord}
	BackfillPage(context.Background(), store, page)

	if dirRecord.Size != 0 {
		t.Errorf("expected directory size to remain 0, got %d", dirRecord.Size)
	}
	if knownRecord.Size != 42 {
		t.Errorf("expected known size to remain unchanged, got %d", knownRecord.Size)
	}
}

func TestStartPreloaderProcessesAllChunks(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()

	var results []*record.FileRecord
	for i := 0; i < 5; i++ {
		path := filepath.Join(dir, "f.txt")
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("seed file failed: %s", err)
		}
		results = append(results, record.New("f.txt", path, dir, 0, 0, false))
	}

	p := StartPreloader(store, results)
	p.Wait()

	for _, r := range results {
		if r.Size != 1 {
			t.Errorf("expected size 1 after preload, got %d for %s", r.Size, r.FullPath)
		}
	}
}

func TestPreloaderStopCancelsEarly(t *testing.T) {
	store := openTestStore(t)
	p := StartPreloader(store, nil)
	p.Stop()
	p.Wait() // must not hang
}
