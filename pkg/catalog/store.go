// Package catalog implements the persistent catalog store (C5 in
// spec.md §4.5): the files table, an optional FTS5 auxiliary, atomic full
// and per-drive rebuild, and the low-level query primitive the query engine
// (pkg/query) builds on.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ntfs-catalog/core/pkg/catalogerr"
	"github.com/ntfs-catalog/core/pkg/events"
	"github.com/ntfs-catalog/core/pkg/logging"
)

// Store is the catalog's single database connection. Writes are serialized
// by mu, a plain sync.Mutex that is not reentrant: a goroutine holding it
// must not call another Store method that takes it.
type Store struct {
	db     *sql.DB
	path   string
	logger *logging.Logger
	bus    *events.Bus

	mu sync.Mutex // serializes writes; database/sql already pools reads safely

	building atomic.Bool // single-flight build/rebuild flag

	statsMu sync.RWMutex
	stats   Stats
}

// Stats is the snapshot returned by GetStats, per spec.md §4.5.
type Stats struct {
	Count        int
	Ready        bool
	Building     bool
	BuildTime    float64
	Duration     float64
	HasFTS       bool
	UsedMFT      bool
	DatabasePath string
}

// Open opens (creating if necessary) the catalog database at path, applying
// the pragmas spec.md §4.5 requires: WAL journaling, NORMAL synchronous,
// and a large page cache.
func Open(path string, bus *events.Bus, logger *logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", catalogerr.ErrDbInitialize, err)
	}
	db.SetMaxOpenConns(1) // a single serialized connection, per spec.md §5

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -2097152", // ~2 GiB, negative means KiB of page cache
		"PRAGMA foreign_keys = OFF",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: pragma %q failed: %v", catalogerr.ErrDbInitialize, p, err)
		}
	}

	s := &Store{
		db:     db,
		path:   path,
		logger: logger,
		bus:    bus,
	}

	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", catalogerr.ErrDbInitialize, err)
	}

	s.refreshStats()

	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	// FTS is an optimization, not a contract (spec.md §4.6): failure here
	// downgrades to the LIKE path and is logged once, never fatal.
	if err := s.ensureFTS(ctx); err != nil {
		s.logger.Warn(fmt.Errorf("%w: %v", catalogerr.ErrFtsUnavailable, err))
	}
	return nil
}

func (s *Store) ensureFTS(ctx context.Context) error {
	for _, stmt := range ftsStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// hasFTS reports whether the files_fts virtual table currently exists.
func (s *Store) hasFTS(ctx context.Context) bool {
	row := s.db.QueryRowContext(ctx, `SELECT 1 FROM sqlite_master WHERE type='table' AND name='files_fts'`)
	var x int
	return row.Scan(&x) == nil
}

// IsBuilding reports whether a build or drive rebuild is currently in
// progress (the single-flight flag from spec.md §4.5).
func (s *Store) IsBuilding() bool {
	return s.building.Load()
}

// GetStats returns the current catalog statistics, per spec.md §4.5.
func (s *Store) GetStats() Stats {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	stats := s.stats
	stats.Building = s.building.Load()
	return stats
}

// refreshStats recomputes the cached Stats snapshot from the database.
// Called after any mutation that affects counts or meta.
func (s *Store) refreshStats() {
	ctx := context.Background()

	var count int
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM files`).Scan(&count)

	meta, _ := s.readMeta(ctx)

	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats = Stats{
		Count:        count,
		Ready:        count > 0,
		BuildTime:    meta.BuildTime,
		Duration:     meta.BuildDuration,
		HasFTS:       s.hasFTS(ctx),
		UsedMFT:      meta.UsedMFT,
		DatabasePath: s.path,
	}
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// now is overridable in tests; production code always uses the wall clock.
var now = func() time.Time { return time.Now() }

// timestamp converts t to seconds since the epoch, the form CatalogMeta
// persists build_time in.
func timestamp(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}
