package catalog

import (
	"context"
	"fmt"

	"github.com/ntfs-catalog/core/pkg/catalogfs"
	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/record"
	"github.com/ntfs-catalog/core/pkg/volume"
)

// insertBatchSize bounds how many rows a single INSERT statement carries,
// per spec.md §4.5's build() batching ("50k rows per statement, to keep the
// WAL from growing unbounded mid-build").
const insertBatchSize = 50000

// StopFunc is polled between scan units (drives, insert batches) so a
// build or rebuild can be cancelled cooperatively. Builders never abort via
// panic or hard error; they simply stop issuing new work and return what
// was already committed, per spec.md §4.5.
type StopFunc func() bool

// DriveScan pairs a drive letter with the scan preferences to use for it
// (the C-drive allow-list, when present, never applies to other drives).
type DriveScan struct {
	Drive string
	Prefs volume.ScanPreferences
}

// Build performs a full catalog rebuild across drives: drop and recreate
// the files table, scan and bulk-insert each drive in turn, persist meta,
// and kick off a background FTS rebuild, per spec.md §4.5. Only one build
// or per-drive rebuild may run at a time; a concurrent call returns
// immediately with an error rather than blocking.
func (s *Store) Build(ctx context.Context, drives []DriveScan, caps catalogfs.Capabilities, stop StopFunc) error {
	if !s.building.CompareAndSwap(false, true) {
		return fmt.Errorf("catalog: a build is already in progress")
	}
	defer s.building.Store(false)

	start := now()
	s.bus.Emit(events.Progress{Message: "dropping existing catalog"})

	s.mu.Lock()
	if err := s.execStatements(ctx, dropStatements); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("catalog: drop before rebuild: %w", err)
	}
	if err := s.execStatements(ctx, schemaStatements); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("catalog: recreate schema: %w", err)
	}
	s.mu.Unlock()

	meta := record.CatalogMeta{DriveUsn: make(map[string]int64)}
	total := 0
	usedMFTAny := false
	cancelled := false

	for _, ds := range drives {
		if stop() {
			cancelled = true
			break
		}
		s.bus.Emit(events.Progress{Count: total, Message: fmt.Sprintf("scanning %s", ds.Drive)})

		result, err := volume.Scan(ctx, ds.Drive, ds.Prefs, caps, s.logger)
		if err != nil {
			s.logger.Warn(fmt.Errorf("catalog: scan of %s failed, skipping drive: %w", ds.Drive, err))
			continue
		}

		recs, err := result.Packed.Decode()
		result.Packed.Release()
		if err != nil {
			s.logger.Warn(fmt.Errorf("catalog: decode scan of %s failed, skipping drive: %w", ds.Drive, err))
			continue
		}

		n, err := s.insertRecords(ctx, recs, stop)
		total += n
		if err != nil {
			return fmt.Errorf("catalog: inserting records for %s: %w", ds.Drive, err)
		}

		if result.UsedMFT {
			usedMFTAny = true
		}
		meta.DriveUsn[ds.Drive] = result.NextUsn

		if stop() {
			cancelled = true
			break
		}
	}

	meta.BuildTime = timestamp(start)
	meta.UsedMFT = usedMFTAny
	meta.BuildDuration = now().Sub(start).Seconds()

	s.mu.Lock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("catalog: persisting meta: %w", err)
	}
	if err := writeMeta(ctx, tx, meta); err != nil {
		tx.Rollback()
		s.mu.Unlock()
		return fmt.Errorf("catalog: persisting meta: %w", err)
	}
	if err := tx.Commit(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("catalog: persisting meta: %w", err)
	}
	s.mu.Unlock()

	s.refreshStats()
	s.bus.Emit(events.BuildFinished{
		RecordCount: total,
		Duration:    meta.BuildDuration,
		UsedMFT:     usedMFTAny,
		Cancelled:   cancelled,
	})

	// The FTS auxiliary is rebuilt from files in the background: it is an
	// optimization (spec.md §4.6), never a gate on search availability.
	go s.rebuildFTS()

	return nil
}

// RebuildDrive replaces the catalog's rows for a single drive letter
// (e.g. "D:"), used after a journal wraparound or a watcher-detected
// desync, per spec.md §4.5 rebuild_drive(). It uses its own start time
// rather than any enclosing full-build timestamp.
func (s *Store) RebuildDrive(ctx context.Context, ds DriveScan, caps catalogfs.Capabilities, stop StopFunc) error {
	if !s.building.CompareAndSwap(false, true) {
		return fmt.Errorf("catalog: a build is already in progress")
	}
	defer s.building.Store(false)

	start := now()
	s.bus.Emit(events.Progress{Message: fmt.Sprintf("rebuilding %s", ds.Drive)})

	s.mu.Lock()
	if _, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE full_path LIKE ? ESCAPE '\'`, escapeLikePrefix(ds.Drive)+`%`); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("catalog: clearing rows for %s: %w", ds.Drive, err)
	}
	s.mu.Unlock()

	if stop() {
		s.refreshStats()
		return nil
	}

	result, err := volume.Scan(ctx, ds.Drive, ds.Prefs, caps, s.logger)
	if err != nil {
		return fmt.Errorf("catalog: rescanning %s: %w", ds.Drive, err)
	}
	recs, err := result.Packed.Decode()
	result.Packed.Release()
	if err != nil {
		return fmt.Errorf("catalog: decoding rescan of %s: %w", ds.Drive, err)
	}

	n, err := s.insertRecords(ctx, recs, stop)
	if err != nil {
		return fmt.Errorf("catalog: inserting rescanned records for %s: %w", ds.Drive, err)
	}

	duration := now().Sub(start).Seconds()

	s.mu.Lock()
	// Read before opening the transaction: the pool holds a single
	// connection, so a read outside the open tx would block on it.
	existing, _ := s.readMeta(ctx)
	if existing.DriveUsn == nil {
		existing.DriveUsn = make(map[string]int64)
	}
	existing.DriveUsn[ds.Drive] = result.NextUsn
	existing.UsedMFT = existing.UsedMFT || result.UsedMFT
	existing.BuildDuration = duration
	tx, err := s.db.BeginTx(ctx, nil)
	if err == nil {
		if err := writeMeta(ctx, tx, existing); err != nil {
			tx.Rollback()
		} else {
			tx.Commit()
		}
	}
	s.mu.Unlock()

	s.refreshStats()
	s.bus.Emit(events.BuildFinished{
		Drive:       ds.Drive,
		RecordCount: n,
		Duration:    duration,
		UsedMFT:     result.UsedMFT,
	})

	go s.rebuildFTS()

	return nil
}

// insertRecords bulk-inserts recs in insertBatchSize chunks, checking stop
// between batches.
func (s *Store) insertRecords(ctx context.Context, recs []*record.FileRecord, stop StopFunc) (int, error) {
	total := 0
	for start := 0; start < len(recs); start += insertBatchSize {
		if stop() {
			return total, nil
		}
		end := start + insertBatchSize
		if end > len(recs) {
			end = len(recs)
		}
		batch := recs[start:end]

		s.mu.Lock()
		n, err := s.insertBatch(ctx, batch)
		s.mu.Unlock()
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Store) insertBatch(ctx context.Context, batch []*record.FileRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
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
		return 0, err
	}
	defer stmt.Close()

	for _, r := range batch {
		isDir := 0
		if r.IsDir {
			isDir = 1
		}
		if _, err := stmt.ExecContext(ctx, r.Filename, r.FilenameLower, r.FullPath, r.ParentDir, r.Extension, r.Size, r.ModTime, isDir); err != nil {
			tx.Rollback()
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(batch), nil
}

// rebuildFTS drops and repopulates the files_fts auxiliary from the current
// files table contents. Run as a background goroutine after a build
// commits, per spec.md §4.6.
func (s *Store) rebuildFTS() {
	ctx := context.Background()
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS files_fts`)
	if err == nil {
		err = s.ensureFTS(ctx)
	}
	if err == nil {
		_, err = s.db.ExecContext(ctx, `INSERT INTO files_fts(rowid, filename) SELECT id, filename FROM files`)
	}

	available := err == nil
	if err != nil {
		s.logger.Warn(fmt.Errorf("catalog: background FTS rebuild failed: %w", err))
	}
	s.refreshStats()
	s.bus.Emit(events.FtsFinished{Available: available})
}

func (s *Store) execStatements(ctx context.Context, stmts []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// escapeLikePrefix escapes the LIKE wildcard characters in a literal
// prefix (drive letters never contain them, but this keeps the query
// correct if that assumption ever changes).
func escapeLikePrefix(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
