// Package volume implements the volume scanner (C3 in spec.md §4.3): raw
// NTFS MFT enumeration where available, a directory-walk fallback
// everywhere else, BFS-based full-path reconstruction, and parallel
// metadata backfill.
package volume

import (
	"context"
	"fmt"

	"github.com/ntfs-catalog/core/pkg/catalogfs"
	"github.com/ntfs-catalog/core/pkg/codec"
	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/logging"
	"github.com/ntfs-catalog/core/pkg/record"
)

// ScanPreferences holds the per-drive scan input: the optional C-drive
// allow-list (spec.md §4.3 "Inputs"). The skip predicates are the fixed
// package-level rules in pkg/filter.
type ScanPreferences struct {
	AllowList *filter.AllowList
}

// Result is the outcome of scanning a single drive: the packed records
// ready for the catalog builder, along with whether the raw MFT path was
// used (for CatalogMeta.UsedMFT) and the journal position observed at scan
// time (for seeding the watcher's last_usn, per spec.md §4.7).
type Result struct {
	Packed     *codec.PackedScanResult
	UsedMFT    bool
	JournalID  uint64
	NextUsn    int64
}

// Scan enumerates drive (e.g. "D:") and returns a packed scan result.
// It first attempts raw MFT enumeration (mftScan); if that fails for any
// reason (volume can't be opened, journal query fails, or the platform
// doesn't support it at all) it falls back to a directory walk
// (walkScan), per spec.md §4.3's fallback semantics. Per-drive errors from
// the MFT path are absorbed here; only a fallback failure propagates.
func Scan(ctx context.Context, drive string, prefs ScanPreferences, caps catalogfs.Capabilities, logger *logging.Logger) (*Result, error) {
	if caps.MFTAvailable {
		raw, journalID, nextUsn, err := mftScan(ctx, drive, prefs, logger)
		if err == nil {
			return finishResult(raw, true, journalID, nextUsn), nil
		}
		logger.Warn(fmt.Errorf("MFT scan of %s failed, falling back to directory walk: %w", drive, err))
	}

	raw, err := walkScan(ctx, drive, prefs, logger)
	if err != nil {
		return nil, fmt.Errorf("fallback walk of %s failed: %w", drive, err)
	}
	return finishResult(raw, false, 0, 0), nil
}

func finishResult(records []*record.FileRecord, usedMFT bool, journalID uint64, nextUsn int64) *Result {
	packed := codec.NewPackedScanResult(codec.Encode(records), len(records))
	return &Result{
		Packed:    packed,
		UsedMFT:   usedMFT,
		JournalID: journalID,
		NextUsn:   nextUsn,
	}
}

// filterRecord applies the shared file/directory filtering predicates used
// by both scan strategies: the allow-list-aware skip rules, plus (for
// files) the extension skip set.
func filterRecord(name, fullPath string, isDir bool, prefs ScanPreferences) bool {
	if filter.ShouldSkipName(name) {
		return true
	}
	if isDir {
		return filter.ShouldSkipDir(name, fullPath, prefs.AllowList)
	}
	if filter.ShouldSkipPath(fullPath, prefs.AllowList) {
		return true
	}
	return filter.ShouldSkipExtension(name)
}
