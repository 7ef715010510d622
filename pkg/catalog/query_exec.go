package catalog

import (
	"context"

	"github.com/ntfs-catalog/core/pkg/record"
)

// QueryFiles is the low-level SQL execution primitive the query engine
// (pkg/query) builds its WHERE clauses and parameters against, per
// spec.md §4.6. where must not include the leading "WHERE" keyword; an
// empty where matches every row. Results are ordered by full_path for
// stable pagination and capped at limit rows (limit <= 0 means
// unbounded).
func (s *Store) QueryFiles(ctx context.Context, where string, args []any, limit int) ([]*record.FileRecord, error) {
	query := `SELECT filename, filename_lower, full_path, parent_dir, extension, size, mtime, is_dir FROM files`
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY full_path"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(append([]any{}, args...), limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*record.FileRecord
	for rows.Next() {
		r := &record.FileRecord{}
		var isDir int
		if err := rows.Scan(&r.Filename, &r.FilenameLower, &r.FullPath, &r.ParentDir, &r.Extension, &r.Size, &r.ModTime, &isDir); err != nil {
			return nil, err
		}
		r.IsDir = isDir != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateStat writes a repaired (size, mtime) pair back to a single row,
// the asynchronous write-back spec.md §4.6 step 5 and §4.9 step 4 both
// describe ("UPDATE files SET size=?, mtime=? WHERE full_path=?").
// Callers typically fire this from a goroutine and ignore the error, since
// a lost stat repair is never user-visible beyond the next search.
func (s *Store) UpdateStat(ctx context.Context, fullPath string, size uint64, mtime float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `UPDATE files SET size = ?, mtime = ? WHERE full_path = ?`, size, mtime, fullPath)
	return err
}

// QueryFilesMatchingFTS runs a full-text query against the files_fts
// auxiliary, joined back to files for the full row. Callers must check
// GetStats().HasFTS first; if the auxiliary is unavailable this returns an
// error rather than silently falling back, so the query engine can make
// that decision itself (spec.md §4.6: "fall back to the LIKE path ...
// decided by the query engine, not hidden in the store").
func (s *Store) QueryFilesMatchingFTS(ctx context.Context, matchExpr string, where string, args []any, limit int) ([]*record.FileRecord, error) {
	query := `
		SELECT f.filename, f.filename_lower, f.full_path, f.parent_dir, f.extension, f.size, f.mtime, f.is_dir
		FROM files_fts
		JOIN files f ON f.id = files_fts.rowid
		WHERE files_fts MATCH ?`
	allArgs := append([]any{matchExpr}, args...)
	if where != "" {
		query += " AND " + where
	}
	query += " ORDER BY f.full_path"
	if limit > 0 {
		query += " LIMIT ?"
		allArgs = append(allArgs, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, allArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*record.FileRecord
	for rows.Next() {
		r := &record.FileRecord{}
		var isDir int
		if err := rows.Scan(&r.Filename, &r.FilenameLower, &r.FullPath, &r.ParentDir, &r.Extension, &r.Size, &r.ModTime, &isDir); err != nil {
			return nil, err
		}
		r.IsDir = isDir != 0
		out = append(out, r)
	}
	return out, rows.Err()
}
