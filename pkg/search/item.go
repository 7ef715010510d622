// Package search implements the two interchangeable search workers (C8 in
// spec.md §4.8): the index worker, which streams catalog query results,
// and the realtime worker, which scans the live filesystem directly.
// Both share the ResultItem shape defined here.
package search

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ntfs-catalog/core/pkg/record"
)

// TypeCode classifies a ResultItem for display, per spec.md §4.8's
// {0,1,2}=folder|archive|file encoding.
type TypeCode int

const (
	TypeFolder TypeCode = iota
	TypeArchive
	TypeFile
)

// archiveExtensions classifies a file extension as an archive for display
// purposes only; it has no bearing on indexing or filtering.
var archiveExtensions = map[string]bool{
	".zip": true, ".rar": true, ".7z": true, ".tar": true,
	".gz": true, ".bz2": true, ".xz": true, ".iso": true,
}

// ResultItem is the shape both search workers produce, per spec.md §4.8:
// the raw fields plus pre-formatted display strings, so neither worker nor
// its caller needs to format twice.
type ResultItem struct {
	Filename    string
	FullPath    string
	DirPath     string
	Size        uint64
	ModTime     float64
	TypeCode    TypeCode
	SizeText    string
	ModTimeText string
}

// NewResultItem builds a ResultItem from a cataloged or freshly scanned
// FileRecord.
func NewResultItem(r *record.FileRecord) *ResultItem {
	item := &ResultItem{
		Filename: r.Filename,
		FullPath: r.FullPath,
		DirPath:  r.ParentDir,
		Size:     r.Size,
		ModTime:  r.ModTime,
	}

	switch {
	case r.IsDir:
		item.TypeCode = TypeFolder
		item.SizeText = ""
	case archiveExtensions[r.Extension]:
		item.TypeCode = TypeArchive
	default:
		item.TypeCode = TypeFile
	}

	if !r.IsDir {
		item.SizeText = humanize.Bytes(r.Size)
	}
	if r.ModTime > 0 {
		item.ModTimeText = time.Unix(int64(r.ModTime), 0).Format("2006-01-02 15:04")
	}

	return item
}

// matchesQuery reports whether filename (already lowercased) contains
// every keyword as a substring, the realtime worker's matching rule for
// the plain-substring mode described in spec.md §4.8. Fuzzy and regex
// modes are a per-deployment UI concern layered on top of this core.
func matchesQuery(filenameLower string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(filenameLower, kw) {
			return false
		}
	}
	return true
}
