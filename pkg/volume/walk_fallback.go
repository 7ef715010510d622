package volume

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/logging"
	"github.com/ntfs-catalog/core/pkg/record"
)

// walkScan performs the recursive scandir-style traversal described in
// spec.md §4.3's "Fallback path (no MFT)": used whenever the volume can't
// be opened raw, the journal query fails, or the current platform has no
// MFT support at all (pkg/catalogfs.Capabilities.MFTAvailable == false).
// It honors the same skip predicates as the MFT path and emits identical
// FileRecord shapes, so a caller can't tell which strategy produced a
// given batch.
func walkScan(ctx context.Context, drive string, prefs ScanPreferences, logger *logging.Logger) ([]*record.FileRecord, error) {
	root := strings.TrimSuffix(drive, `\`) + `\`

	var results []*record.FileRecord
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err != nil {
			if path == root {
				return fmt.Errorf("unable to open volume root: %w", err)
			}
			// Individual entry errors (permission denied, races with
			// deletion) are absorbed: the entry is simply not indexed.
			return nil
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if filter.ShouldSkipName(name) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		parent := filepath.Dir(path)
		if d.IsDir() {
			if filter.ShouldSkipDir(name, path, prefs.AllowList) {
				return fs.SkipDir
			}
			results = append(results, record.New(name, path, parent, 0, 0, true))
			return nil
		}

		if filterRecord(name, path, false, prefs) {
			return nil
		}
		r := record.New(name, path, parent, 0, 0, false)
		results = append(results, r)
		return nil
	})
	if err != nil {
		return nil, err
	}

	fillMetadata(results)
	return results, nil
}
