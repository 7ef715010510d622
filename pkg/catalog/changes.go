package catalog

import (
	"context"

	"github.com/ntfs-catalog/core/pkg/record"
)

// ApplyChanges applies one USN watcher poll cycle's translated events
// (C7, spec.md §4.7) as a single transaction: every deletePath sweeps its
// whole subtree (a directory delete must remove everything beneath it,
// since the journal emits no separate delete for descendants that were
// never individually touched), and every upsert is inserted or updated by
// full_path, exactly like a build's bulk insert.
func (s *Store) ApplyChanges(ctx context.Context, deletePaths []string, upserts []*record.FileRecord) (added, deleted int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}

	for _, path := range deletePaths {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM files WHERE full_path = ? OR full_path LIKE ? ESCAPE '\'
		`, path, escapeLikePrefix(path)+`\\%`)
		if err != nil {
			tx.Rollback()
			return added, deleted, err
		}
		if n, err := res.RowsAffected(); err == nil {
			deleted += int(n)
		}
	}

	if len(upserts) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO files (filename, filename_lower, full_path, parent_dir, extension, size, mtime, is_dir)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(full_path) DO UPDATE SET
				filename = excluded.filename,
				filename_lower = excluded.filename_lower,
				parent_dir = excluded.parent_dir,
				extension = excluded.extension,
				size = excluded.size,
				mtime = excluded.mtime,
				is_dir = excluded.is_dir
		`)
		if err != nil {
			tx.Rollback()
			return added, deleted, err
		}
		for _, r := range upserts {
			isDir := 0
			if r.IsDir {
				isDir = 1
			}
			if _, err := stmt.ExecContext(ctx, r.Filename, r.FilenameLower, r.FullPath, r.ParentDir, r.Extension, r.Size, r.ModTime, isDir); err != nil {
				stmt.Close()
				tx.Rollback()
				return added, deleted, err
			}
			added++
		}
		stmt.Close()
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}

	s.refreshStats()
	return added, deleted, nil
}
