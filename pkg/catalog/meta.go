package catalog

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/ntfs-catalog/core/pkg/record"
)

const usnKeyPrefix = "usn:"

// readMeta loads the meta table into a record.CatalogMeta value. Missing
// keys are left at their zero value.
func (s *Store) readMeta(ctx context.Context) (record.CatalogMeta, error) {
	meta := record.CatalogMeta{DriveUsn: make(map[string]int64)}

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		if err == sql.ErrNoRows {
			return meta, nil
		}
		return meta, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return meta, err
		}
		switch {
		case key == "build_time":
			meta.BuildTime, _ = strconv.ParseFloat(value, 64)
		case key == "build_duration":
			meta.BuildDuration, _ = strconv.ParseFloat(value, 64)
		case key == "used_mft":
			meta.UsedMFT = value == "1"
		case strings.HasPrefix(key, usnKeyPrefix):
			drive := strings.TrimPrefix(key, usnKeyPrefix)
			meta.DriveUsn[drive], _ = strconv.ParseInt(value, 10, 64)
		}
	}
	return meta, rows.Err()
}

// writeMeta upserts the meta table from meta, within an existing
// transaction (the caller controls commit/rollback).
func writeMeta(ctx context.Context, tx *sql.Tx, meta record.CatalogMeta) error {
	upsert := func(key, value string) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO meta(key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, value)
		return err
	}

	usedMFT := "0"
	if meta.UsedMFT {
		usedMFT = "1"
	}
	if err := upsert("build_time", strconv.FormatFloat(meta.BuildTime, 'f', -1, 64)); err != nil {
		return err
	}
	if err := upsert("build_duration", strconv.FormatFloat(meta.BuildDuration, 'f', -1, 64)); err != nil {
		return err
	}
	if err := upsert("used_mft", usedMFT); err != nil {
		return err
	}
	for drive, usn := range meta.DriveUsn {
		if err := upsert(usnKeyPrefix+drive, strconv.FormatInt(usn, 10)); err != nil {
			return err
		}
	}
	return nil
}

// SetDriveUsn records the watcher's last-applied USN position for drive, so
// a restart can resume from it instead of rescanning. It is its own small
// transaction, independent of a build.
func (s *Store) SetDriveUsn(ctx context.Context, drive string, usn int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, usnKeyPrefix+drive, strconv.FormatInt(usn, 10)); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// DriveUsn returns the persisted USN position for drive, and whether one
// was found.
func (s *Store) DriveUsn(ctx context.Context, drive string) (int64, bool) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, usnKeyPrefix+drive).Scan(&value)
	if err != nil {
		return 0, false
	}
	usn, err := strconv.ParseInt(value, 10, 64)
	return usn, err == nil
}
