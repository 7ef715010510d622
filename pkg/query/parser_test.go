package query

import (
	"testing"
	"time"
)

func TestParseBareKeywords(t *testing.T) {
	p, err := Parse("invoice march")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if len(p.Keywords) != 2 || p.Keywords[0] != "invoice" || p.Keywords[1] != "march" {
		t.Errorf("unexpected keywords: %v", p.Keywords)
	}
}

func TestParseExtensionFilter(t *testing.T) {
	p, err := Parse("ext:pdf report")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if p.Filters.Extension != ".pdf" {
		t.Errorf("expected extension .pdf, got %q", p.Filters.Extension)
	}
	if len(p.Keywords) != 1 || p.Keywords[0] != "report" {
		t.Errorf("unexpected keywords: %v", p.Keywords)
	}
}

func TestParseSizeFilterGreater(t *testing.T) {
	p, err := Parse("size:>10mb")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if !p.Filters.Size.Set || !p.Filters.Size.Greater {
		t.Fatal("expected a greater-than size filter")
	}
	if p.Filters.Size.Bytes != 10*1000*1000 {
		t.Errorf("unexpected byte bound: %d", p.Filters.Size.Bytes)
	}
}

func TestParseSizeFilterLess(t *testing.T) {
	p, err := Parse("size:<500kb")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if !p.Filters.Size.Set || p.Filters.Size.Greater {
		t.Fatal("expected a less-than size filter")
	}
}

func TestParseSizeFilterRejectsBadPrefix(t *testing.T) {
	if _, err := Parse("size:10mb"); err == nil {
		t.Error("expected an error for a size filter missing > or <")
	}
}

func TestParseFolderFilterAddsTrailingKeyword(t *testing.T) {
	p, err := Parse("folder:project")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if p.Filters.Scope != ScopeFolder {
		t.Error("expected ScopeFolder")
	}
	if len(p.Keywords) != 1 || p.Keywords[0] != "project" {
		t.Errorf("expected trailing text to become a keyword, got %v", p.Keywords)
	}
}

func TestParseFileFilterWithoutTrailingText(t *testing.T) {
	p, err := Parse("file:")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if p.Filters.Scope != ScopeFile {
		t.Error("expected ScopeFile")
	}
	if len(p.Keywords) != 0 {
		t.Errorf("expected no keywords, got %v", p.Keywords)
	}
}

func TestParsePathFilter(t *testing.T) {
	p, err := Parse(`path:Users\alice`)
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if p.Filters.PathSubstr != `users\alice` {
		t.Errorf("unexpected path substring: %q", p.Filters.PathSubstr)
	}
}

func TestParseDmToday(t *testing.T) {
	fixed := time.Date(2026, 7, 29, 15, 30, 0, 0, time.UTC)
	restore := nowFunc
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = restore }()

	p, err := Parse("dm:today")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	expected := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	if !p.Filters.ModifiedSince.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, p.Filters.ModifiedSince)
	}
}

func TestParseDmDays(t *testing.T) {
	fixed := time.Date(2026, 7, 29, 12, 0, 0, 0, time.UTC)
	restore := nowFunc
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = restore }()

	p, err := Parse("dm:3d")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	expected := fixed.AddDate(0, 0, -3)
	if !p.Filters.ModifiedSince.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, p.Filters.ModifiedSince)
	}
}

func TestParseUnknownModifierIgnored(t *testing.T) {
	p, err := Parse("bogus:xyz report")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if len(p.Keywords) != 1 || p.Keywords[0] != "report" {
		t.Errorf("expected only 'report' as a keyword, got %v", p.Keywords)
	}
}

func TestParseColonTokenNeverBecomesKeyword(t *testing.T) {
	p, err := Parse("ext:pdf")
	if err != nil {
		t.Fatalf("Parse failed: %s", err)
	}
	if len(p.Keywords) != 0 {
		t.Errorf("expected no bare keywords, got %v", p.Keywords)
	}
}
