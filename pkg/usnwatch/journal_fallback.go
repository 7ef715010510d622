//go:build !windows

package usnwatch

import (
	"errors"

	"github.com/ntfs-catalog/core/pkg/record"
)

// errJournalUnsupported is returned by every journal call on a platform
// with no NTFS change journal. The watcher's Run loop treats this the
// same as any other per-drive query failure: log and skip this drive
// until the next poll, per spec.md §4.7's failure semantics.
var errJournalUnsupported = errors.New("usnwatch: change journal not supported on this platform")

type rawChange struct {
	Action    record.ChangeAction
	FileRef   uint64
	ParentRef uint64
	Name      string
	IsDir     bool
}

func currentUsn(drive string) (int64, error) {
	return 0, errJournalUnsupported
}

func readChangesSince(drive string, sinceUsn int64) ([]rawChange, int64, error) {
	return nil, sinceUsn, errJournalUnsupported
}
