package search

import (
	"testing"

	"github.com/ntfs-catalog/core/pkg/record"
)

func TestNewResultItemFile(t *testing.T) {
	r := record.New("report.pdf", `C:\a\report.pdf`, `C:\a`, 2048, 1700000000, false)
	item := NewResultItem(r)

	if item.TypeCode != TypeFile {
		t.Errorf("expected TypeFile, got %v", item.TypeCode)
	}
	if item.SizeText == "" {
		t.Error("expected a non-empty formatted size")
	}
	if item.ModTimeText == "" {
		t.Error("expected a non-empty formatted mtime")
	}
}

func TestNewResultItemDirectoryHasNoSizeText(t *testing.T) {
	r := record.New("Projects", `C:\a\Projects`, `C:\a`, 0, 0, true)
	item := NewResultItem(r)

	if item.TypeCode != TypeFolder {
		t.Errorf("expected TypeFolder, got %v", item.TypeCode)
	}
	if item.SizeText != "" {
		t.Errorf("expected empty size text for a directory, got %q", item.SizeText)
	}
}

func TestNewResultItemArchiveType(t *testing.T) {
	r := record.New("backup.zip", `C:\a\backup.zip`, `C:\a`, 100, 1700000000, false)
	item := NewResultItem(r)
	if item.TypeCode != TypeArchive {
		t.Errorf("expected TypeArchive, got %v", item.TypeCode)
	}
}

func TestMatchesQueryAllKeywordsRequired(t *testing.T) {
	if !matchesQuery("quarterly report.docx", []string{"quarterly", "report"}) {
		t.Error("expected a match when every keyword is present")
	}
	if matchesQuery("quarterly report.docx", []string{"quarterly", "invoice"}) {
		t.Error("expected no match when a keyword is missing")
	}
}

func TestMatchesQueryEmptyKeywordsAlwaysMatches(t *testing.T) {
	if !matchesQuery("anything.txt", nil) {
		t.Error("expected an empty keyword list to match everything")
	}
}
