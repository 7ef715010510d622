package usnwatch

import (
	"testing"

	"github.com/ntfs-catalog/core/pkg/dircache"
	"github.com/ntfs-catalog/core/pkg/logging"
	"github.com/ntfs-catalog/core/pkg/record"
)

func TestTranslateChangesCreateFile(t *testing.T) {
	cache := dircache.New("sig")
	cache.AddEntry(10, 5, "Users", true)

	raws := []rawChange{
		{Action: record.ChangeCreate, FileRef: 20, ParentRef: 10, Name: "note.txt", IsDir: false},
	}
	result := translateChanges(cache, `D:`, raws, nil, logging.RootLogger)

	if len(result.Upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(result.Upserts))
	}
	if result.Upserts[0].FullPath != `D:\Users\note.txt` {
		t.Errorf("unexpected path: %q", result.Upserts[0].FullPath)
	}
}

func TestTranslateChangesDropsEventWithUnknownParent(t *testing.T) {
	cache := dircache.New("sig")

	raws := []rawChange{
		{Action: record.ChangeCreate, FileRef: 20, ParentRef: 999, Name: "note.txt", IsDir: false},
	}
	result := translateChanges(cache, `D:`, raws, nil, logging.RootLogger)

	if len(result.Upserts) != 0 {
		t.Errorf("expected no upserts when the parent is unknown, got %v", result.Upserts)
	}
}

func TestTranslateChangesDeleteEmitsSubtreePath(t *testing.T) {
	cache := dircache.New("sig")
	cache.AddEntry(10, 5, "Users", true)
	cache.AddEntry(20, 10, "report.docx", false)

	raws := []rawChange{
		{Action: record.ChangeDelete, FileRef: 20, ParentRef: 10, Name: "report.docx", IsDir: false},
	}
	result := translateChanges(cache, `D:`, raws, nil, logging.RootLogger)

	if len(result.DeletePaths) != 1 || result.DeletePaths[0] != `D:\Users\report.docx` {
		t.Fatalf("unexpected delete paths: %v", result.DeletePaths)
	}
	if _, ok := cache.IsDir(20); ok {
		t.Error("expected the deleted entry to be removed from the cache")
	}
}

func TestTranslateChangesRenameOldThenNew(t *testing.T) {
	cache := dircache.New("sig")
	cache.AddEntry(10, 5, "Users", true)
	cache.AddEntry(20, 10, "old.txt", false)

	raws := []rawChange{
		{Action: record.ChangeRenameOld, FileRef: 20, ParentRef: 10, Name: "old.txt", IsDir: false},
		{Action: record.ChangeRenameNew, FileRef: 20, ParentRef: 10, Name: "new.txt", IsDir: false},
	}
	result := translateChanges(cache, `D:`, raws, nil, logging.RootLogger)

	if len(result.DeletePaths) != 1 || result.DeletePaths[0] != `D:\Users\old.txt` {
		t.Fatalf("expected the old path to be deleted, got %v", result.DeletePaths)
	}
	if len(result.Upserts) != 1 || result.Upserts[0].FullPath != `D:\Users\new.txt` {
		t.Fatalf("expected the new path to be upserted, got %v", result.Upserts)
	}
}

func TestTranslateChangesSkipsNtfsMetadataNames(t *testing.T) {
	cache := dircache.New("sig")
	cache.AddEntry(10, 5, "Users", true)

	raws := []rawChange{
		{Action: record.ChangeCreate, FileRef: 20, ParentRef: 10, Name: "$Recycle.Bin", IsDir: true},
	}
	result := translateChanges(cache, `D:`, raws, nil, logging.RootLogger)

	if len(result.Upserts) != 0 {
		t.Errorf("expected NTFS metadata name to be skipped, got %v", result.Upserts)
	}
}

func TestBackoffIntervalGrowsThenCaps(t *testing.T) {
	if d := backoffInterval(0); d != baseInterval {
		t.Errorf("expected baseInterval at 0 idle steps, got %v", d)
	}
	grown := backoffInterval(5)
	if grown <= baseInterval {
		t.Errorf("expected growth after idle steps, got %v", grown)
	}
	if d := backoffInterval(50); d != maxInterval {
		t.Errorf("expected the cap at maxInterval, got %v", d)
	}
}
