// Package dircache implements the directory-tree cache (C4 in spec.md
// §4.4): a per-volume (frn→name, frn→parent, frn→is_dir) triple that lets
// a restart skip full MFT enumeration in favor of an incremental USN-delta
// update, when a previously persisted cache is present and self-consistent.
package dircache

import (
	"fmt"
	"strings"
	"sync"

	lru "github.com/golang/groupcache/lru"
)

// Cache holds one volume's directory tree, indexed by 48-bit file
// reference number.
type Cache struct {
	// Signature identifies the volume this cache was built from. A cache
	// loaded for a volume whose current signature differs is discarded,
	// per spec.md §4.4 ("fails integrity validation is silently
	// discarded").
	Signature string
	// NextUsn is the journal position observed when this cache was last
	// saved. It is persisted and reloaded with the cache; the watcher takes
	// its starting position from the catalog meta or the journal instead.
	NextUsn int64

	mu       sync.RWMutex
	parent   map[uint64]uint64
	name     map[uint64]string
	isDir    map[uint64]bool
	children map[uint64][]uint64

	// pathStaging memoizes recently resolved full paths keyed by FRN, so
	// repeated FullPath calls for siblings don't re-walk the same parent
	// chain. Bounded so it never grows unbounded on volumes with millions
	// of entries, mirroring the bounded LRU eviction in the teacher's
	// non-recursive watch staging cache.
	pathStaging *lru.Cache
}

// New creates an empty Cache for the given volume signature.
func New(signature string) *Cache {
	return &Cache{
		Signature:   signature,
		parent:      make(map[uint64]uint64),
		name:        make(map[uint64]string),
		isDir:       make(map[uint64]bool),
		children:    make(map[uint64][]uint64),
		pathStaging: lru.New(stagingCacheSize),
	}
}

// stagingCacheSize bounds the path-resolution memo. 200k entries comfortably
// covers the working set of a single scan pass without being unbounded.
const stagingCacheSize = 200000

// AddEntry records one directory-tree node. Re-adding an existing frn
// replaces its name/parent/isDir and invalidates any staged path for it
// (and, conservatively, the whole staging cache, since descendants may
// have cached a path built through the old value).
func (c *Cache) AddEntry(frn, parentFrn uint64, name string, isDir bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if oldParent, existed := c.parent[frn]; existed {
		if oldParent != parentFrn {
			c.removeChildLocked(oldParent, frn)
		}
		c.pathStaging = lru.New(stagingCacheSize)
	}

	c.parent[frn] = parentFrn
	c.name[frn] = name
	c.isDir[frn] = isDir
	if isDir {
		c.addChildLocked(parentFrn, frn)
	}
}

// RemoveEntry deletes frn and, for a directory, its recorded child list
// (callers are expected to have already removed or reparented descendants
// via their own USN events).
func (c *Cache) RemoveEntry(frn uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if parentFrn, ok := c.parent[frn]; ok {
		c.removeChildLocked(parentFrn, frn)
	}
	delete(c.parent, frn)
	delete(c.name, frn)
	delete(c.isDir, frn)
	delete(c.children, frn)
	c.pathStaging.Remove(frn)
}

func (c *Cache) addChildLocked(parentFrn, childFrn uint64) {
	list := c.children[parentFrn]
	for _, existing := range list {
		if existing == childFrn {
			return
		}
	}
	c.children[parentFrn] = append(list, childFrn)
}

func (c *Cache) removeChildLocked(parentFrn, childFrn uint64) {
	list := c.children[parentFrn]
	for i, existing := range list {
		if existing == childFrn {
			c.children[parentFrn] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Children returns the recorded child FRNs of a directory.
func (c *Cache) Children(parentFrn uint64) []uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]uint64, len(c.children[parentFrn]))
	copy(out, c.children[parentFrn])
	return out
}

// Len reports the number of entries tracked.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.name)
}

// rootFrn is the well-known FRN of a volume's root directory (NTFS FRN 5).
// Kept distinct from record.RootFileRef to avoid an import cycle between
// pkg/record and pkg/dircache; the two constants must agree.
const rootFrn = 5

// FullPath reconstructs the absolute path for frn by walking parent
// pointers up to the root, prefixing with drive. Results are memoized in
// pathStaging. Returns false if frn is unknown or a cycle is detected
// (a corrupt cache, treated the same as "not found" so callers fall back
// to a full rebuild).
func (c *Cache) FullPath(drive string, frn uint64) (string, bool) {
	if frn == rootFrn {
		return strings.TrimSuffix(drive, `\`) + `\`, true
	}
	if cached, ok := c.pathStaging.Get(frn); ok {
		return cached.(string), true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var segments []string
	seen := make(map[uint64]bool)
	cur := frn
	for cur != rootFrn {
		if seen[cur] {
			return "", false // cycle: corrupt cache
		}
		seen[cur] = true

		name, ok := c.name[cur]
		if !ok {
			return "", false
		}
		segments = append(segments, name)

		parentFrn, ok := c.parent[cur]
		if !ok {
			return "", false
		}
		cur = parentFrn
	}

	root := strings.TrimSuffix(drive, `\`) + `\`
	var b strings.Builder
	b.WriteString(root)
	for i := len(segments) - 1; i >= 0; i-- {
		b.WriteString(segments[i])
		if i != 0 {
			b.WriteByte('\\')
		}
	}
	full := b.String()
	c.pathStaging.Add(frn, full)
	return full, true
}

// IsDir reports whether frn names a directory, and whether frn is known
// at all.
func (c *Cache) IsDir(frn uint64) (isDir, known bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	isDir, known = c.isDir[frn]
	return isDir, known
}

// Validate reports a human-readable error if the cache is not
// self-consistent: every non-root entry's parent must itself be a known
// entry (or be the root).
func (c *Cache) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for frn, parentFrn := range c.parent {
		if parentFrn == rootFrn || frn == rootFrn {
			continue
		}
		if _, ok := c.name[parentFrn]; !ok {
			return fmt.Errorf("dircache: entry %d references unknown parent %d", frn, parentFrn)
		}
	}
	return nil
}
