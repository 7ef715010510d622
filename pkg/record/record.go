// Package record defines the logical value types shared by every component
// in the catalog core: the cataloged file/directory entry, the raw MFT
// intermediate the scanner produces before paths are reconstructed, the
// change-journal event shape the watcher applies, and the tiny key/value
// metadata the catalog persists alongside the files table.
package record

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// lowerCaser performs Unicode simple-lowercase folding, matching the
// "Unicode-simple-lowercase" invariant spec.md requires for filename_lower.
// cases.Lower(language.Und) applies the locale-independent simple mapping
// rather than any language-specific tailoring.
var lowerCaser = cases.Lower(language.Und)

// Lower returns the Unicode simple-lowercase form of s.
func Lower(s string) string {
	return lowerCaser.String(s)
}

// FileRecord is the logical unit of a cataloged filesystem entry.
type FileRecord struct {
	// Filename is the entry's name in its original case.
	Filename string
	// FilenameLower is the case-folded form of Filename, used for
	// LIKE-style matching.
	FilenameLower string
	// FullPath is the absolute, normalized path. Unique within the catalog.
	FullPath string
	// ParentDir is the absolute directory path containing this entry.
	ParentDir string
	// Extension is the lowercased extension including the leading dot, or
	// empty for directories.
	Extension string
	// Size is the byte count; 0 for directories or entries pending backfill.
	Size uint64
	// ModTime is the last-modified instant as seconds since the epoch;
	// 0 means unknown or pending.
	ModTime float64
	// IsDir indicates a directory entry.
	IsDir bool
}

// New constructs a FileRecord from the fields a producer (scanner or
// watcher) has directly, deriving FilenameLower and Extension so callers
// never have to (and can't) get them out of sync with Filename.
func New(filename, fullPath, parentDir string, size uint64, modTime float64, isDir bool) *FileRecord {
	r := &FileRecord{
		Filename:      filename,
		FilenameLower: Lower(filename),
		FullPath:      fullPath,
		ParentDir:     parentDir,
		Size:          size,
		ModTime:       modTime,
		IsDir:         isDir,
	}
	if !isDir {
		r.Extension = extensionOf(filename)
	}
	return r
}

// extensionOf returns the lowercased extension (including leading dot) of a
// filename, or "" if the name has none (including dotfiles, whose leading
// dot is not treated as an extension separator).
func extensionOf(filename string) string {
	ext := path.Ext(filename)
	if ext == filename {
		// The "extension" is the entire name (a dotfile like ".gitignore");
		// NTFS/Explorer convention treats that as having no extension.
		return ""
	}
	return Lower(ext)
}

// EnsureValid checks the invariants spec.md §3 and §8 place on a FileRecord
// relative to a set of scanned volume roots.
func (r *FileRecord) EnsureValid(roots []string) error {
	if r == nil {
		return fmt.Errorf("nil file record")
	}
	if r.FullPath == "" {
		return fmt.Errorf("empty full path")
	}
	if r.FilenameLower != Lower(r.Filename) {
		return fmt.Errorf("filename_lower out of sync with filename for %q", r.FullPath)
	}
	if !r.IsDir {
		if extensionOf(r.Filename) != r.Extension {
			return fmt.Errorf("extension out of sync with filename for %q", r.FullPath)
		}
	} else if r.Extension != "" {
		return fmt.Errorf("directory %q has non-empty extension", r.FullPath)
	}
	matched := false
	for _, root := range roots {
		if underRoot(r.FullPath, root) {
			matched = true
			break
		}
	}
	if len(roots) > 0 && !matched {
		return fmt.Errorf("path %q is not under any scanned root", r.FullPath)
	}
	if strings.HasSuffix(r.FullPath, `\`) && !isDriveRoot(r.FullPath) {
		return fmt.Errorf("path %q has a trailing separator but is not a drive root", r.FullPath)
	}
	return nil
}

// underRoot reports whether p lies at or under root, case-insensitively.
func underRoot(p, root string) bool {
	p, root = Lower(p), Lower(root)
	root = strings.TrimSuffix(root, `\`)
	return p == root || strings.HasPrefix(p, root+`\`)
}

// isDriveRoot reports whether p is of the form "X:\".
func isDriveRoot(p string) bool {
	return len(p) == 3 && p[1] == ':' && p[2] == '\\'
}

// MftRawRecord is the in-memory intermediate produced during MFT
// enumeration, before parent/child relationships are resolved into full
// paths.
type MftRawRecord struct {
	// FileRef is the 48-bit file reference number for this record.
	FileRef uint64
	// ParentRef is the 48-bit file reference number of the containing
	// directory. The volume root has FileRef RootFileRef (5).
	ParentRef uint64
	// Name is the entry's filename in its original case.
	Name string
	// IsDir indicates a directory entry.
	IsDir bool
}

// RootFileRef is the well-known FRN of an NTFS volume's root directory.
const RootFileRef uint64 = 5

// FrnMask extracts the 48-bit file reference number from a raw NTFS 64-bit
// file reference.
func FrnMask(ref uint64) uint64 {
	return ref & 0x0000FFFFFFFFFFFF
}

// ChangeAction enumerates the kinds of USN journal events the watcher
// translates into catalog mutations.
type ChangeAction int

const (
	ChangeCreate ChangeAction = iota
	ChangeModify
	ChangeDelete
	ChangeRenameOld
	ChangeRenameNew
)

// String implements fmt.Stringer for readable logging.
func (a ChangeAction) String() string {
	switch a {
	case ChangeCreate:
		return "create"
	case ChangeModify:
		return "modify"
	case ChangeDelete:
		return "delete"
	case ChangeRenameOld:
		return "rename-old"
	case ChangeRenameNew:
		return "rename-new"
	default:
		return "unknown"
	}
}

// UsnChange is a single translated change-journal event.
type UsnChange struct {
	Action ChangeAction
	Path   string
	IsDir  bool
}

// CatalogMeta holds the small key/value metadata rows persisted alongside
// the files table: build_time, build_duration, used_mft, and the USN
// position recorded per drive.
type CatalogMeta struct {
	BuildTime      float64
	BuildDuration  float64
	UsedMFT        bool
	DriveUsn       map[string]int64
}
