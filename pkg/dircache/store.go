package dircache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// baseDir resolves the dir_cache directory spec.md §4.8 names:
// %LOCALAPPDATA%/SearchTool/dir_cache. On platforms without LOCALAPPDATA,
// os.UserCacheDir provides the nearest equivalent.
func baseDir() (string, error) {
	root := os.Getenv("LOCALAPPDATA")
	if root == "" {
		var err error
		root, err = os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("dircache: resolve cache directory: %w", err)
		}
	}
	return filepath.Join(root, "SearchTool", "dir_cache"), nil
}

// pathFor returns the per-drive cache file path for a drive letter like
// "D:" or "D:\".
func pathFor(drive string) (string, error) {
	dir, err := baseDir()
	if err != nil {
		return "", err
	}
	letter := strings.ToUpper(strings.TrimSuffix(strings.TrimSuffix(drive, `\`), ":"))
	return filepath.Join(dir, fmt.Sprintf("dir_cache_%s.bin", letter)), nil
}

// Save persists c to its per-drive file, creating the containing
// directory if necessary. Writes go to a temporary file and are renamed
// into place, so a crash mid-write never leaves a half-written cache file
// that Load would need to reject.
func Save(drive string, c *Cache) error {
	path, err := pathFor(drive)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("dircache: create cache directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, c.Marshal(), 0o644); err != nil {
		return fmt.Errorf("dircache: write cache file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("dircache: finalize cache file: %w", err)
	}
	return nil
}

// Load reads the per-drive cache file and validates it against the
// volume's current signature. Per spec.md §4.4, any failure — missing
// file, bad magic, truncation, signature mismatch, or an inconsistent
// parent graph — is not an error a caller must handle specially: it
// simply means no usable cache exists, so ok is false and a full rebuild
// should proceed.
func Load(drive, currentSignature string) (cache *Cache, ok bool) {
	path, err := pathFor(drive)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	c, err := Unmarshal(data)
	if err != nil {
		return nil, false
	}
	if c.Signature != currentSignature {
		return nil, false
	}
	if err := c.Validate(); err != nil {
		return nil, false
	}
	return c, true
}
