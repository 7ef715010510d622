package usnwatch

import (
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/mutagen-io/extstat"

	"github.com/ntfs-catalog/core/pkg/dircache"
	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/logging"
	"github.com/ntfs-catalog/core/pkg/record"
)

// supplementalScanMaxItems, supplementalScanMaxDepth, and
// supplementalScanBudget bound the restored-directory rescan a create
// event on a directory triggers, per spec.md §4.7's event-translation
// rule ("bounded supplemental scan ... limits: ≤200k items, depth ≤15,
// wall time ≤0.5s").
const (
	supplementalScanMaxItems = 200000
	supplementalScanMaxDepth = 15
	supplementalScanBudget   = 500 * time.Millisecond
)

// translated is the outcome of translating one poll cycle's raw changes
// into catalog mutations.
type translated struct {
	DeletePaths []string
	Upserts     []*record.FileRecord
}

// translateChanges implements spec.md §4.7's event-translation table. It
// maintains cache (the watcher's live in-memory mirror of the volume's
// directory tree, seeded from a full scan or a loaded DirCache) so that a
// bare (FileRef, ParentRef, Name) triple from the journal can be turned
// into an absolute path without re-opening the volume. Events are
// processed strictly in journal order, since a later event may depend on
// a path an earlier event in the same batch just established.
func translateChanges(cache *dircache.Cache, drive string, raws []rawChange, allowList *filter.AllowList, logger *logging.Logger) translated {
	var out translated

	for _, rc := range raws {
		switch rc.Action {
		case record.ChangeDelete, record.ChangeRenameOld:
			path, ok := cache.FullPath(drive, rc.FileRef)
			cache.RemoveEntry(rc.FileRef)
			if !ok {
				continue
			}
			if filter.ShouldSkipPath(path, allowList) {
				continue
			}
			out.DeletePaths = append(out.DeletePaths, path)

		case record.ChangeCreate, record.ChangeModify, record.ChangeRenameNew:
			cache.AddEntry(rc.FileRef, rc.ParentRef, rc.Name, rc.IsDir)
			path, ok := cache.FullPath(drive, rc.FileRef)
			if !ok {
				// The parent directory hasn't been observed yet (its own
				// create event may arrive later in this same batch, or was
				// missed entirely). The entry stays in the tree mirror, so
				// later events beneath it can resolve, but no upsert is
				// emitted for this event and it is not retried.
				continue
			}
			if filter.ShouldSkipName(rc.Name) {
				continue
			}
			if rc.IsDir {
				if filter.ShouldSkipDir(rc.Name, path, allowList) {
					continue
				}
				parent := filepath.Dir(path)
				out.Upserts = append(out.Upserts, record.New(rc.Name, path, parent, 0, 0, true))

				// A directory that reappears (restore from Recycle Bin, a
				// move back into scope) may carry children the journal
				// will never individually emit for; catch them with a
				// bounded rescan, per spec.md §4.7.
				supplemental, ok := supplementalScan(path, allowList, logger)
				if ok {
					out.Upserts = append(out.Upserts, supplemental...)
				}
				continue
			}
			if filter.ShouldSkipPath(path, allowList) || filter.ShouldSkipExtension(rc.Name) {
				continue
			}
			parent := filepath.Dir(path)
			r := record.New(rc.Name, path, parent, 0, 0, false)
			if info, err := extstat.NewFromFileName(path); err == nil {
				r.Size = uint64(info.Size)
				r.ModTime = float64(info.ModTime.Unix())
			}
			out.Upserts = append(out.Upserts, r)
		}
	}

	return out
}

// supplementalScan walks root up to supplementalScanMaxDepth levels deep,
// stopping once it has visited supplementalScanMaxItems entries or spent
// supplementalScanBudget of wall-clock time. ok is false if root could not
// be opened at all (e.g. it was removed again before the scan ran), which
// the caller treats as "nothing to add", not a failure worth logging.
func supplementalScan(root string, allowList *filter.AllowList, logger *logging.Logger) ([]*record.FileRecord, bool) {
	deadline := time.Now().Add(supplementalScanBudget)
	rootDepth := strings.Count(strings.TrimSuffix(root, `\`), `\`)

	var results []*record.FileRecord
	visited := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if time.Now().After(deadline) || visited >= supplementalScanMaxItems {
			return fs.SkipAll
		}
		if path == root {
			return nil
		}

		depth := strings.Count(strings.TrimSuffix(path, `\`), `\`) - rootDepth
		if depth > supplementalScanMaxDepth {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		visited++
		name := d.Name()
		if filter.ShouldSkipName(name) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		parent := filepath.Dir(path)
		if d.IsDir() {
			if filter.ShouldSkipDir(name, path, allowList) {
				return fs.SkipDir
			}
			results = append(results, record.New(name, path, parent, 0, 0, true))
			return nil
		}

		if filter.ShouldSkipPath(path, allowList) || filter.ShouldSkipExtension(name) {
			return nil
		}
		r := record.New(name, path, parent, 0, 0, false)
		if info, err := extstat.NewFromFileName(path); err == nil {
			r.Size = uint64(info.Size)
			r.ModTime = float64(info.ModTime.Unix())
		}
		results = append(results, r)
		return nil
	})
	if err != nil {
		logger.Warn(err)
	}

	return results, true
}
