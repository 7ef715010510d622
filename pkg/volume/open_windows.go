//go:build windows

// Backup-semantics volume handle opens, grounded on
// pkg/filesystem/open_windows.go's CreateFile wrapping, re-expressed over
// github.com/Microsoft/go-winio's OpenForBackup so SeBackupPrivilege is
// enabled on the calling thread the same way containerd's backup-tar
// tooling opens raw volumes, instead of a bare windows.CreateFile call.

package volume

import (
	"fmt"
	"os"

	"github.com/Microsoft/go-winio"
	"golang.org/x/sys/windows"
)

// openBackupFile opens path (e.g. `\\.\C:`) for backup-semantics access
// with the given access mask, sharing read/write/delete. The caller must
// keep the returned *os.File alive (and eventually Close it) for as long
// as any windows.Handle derived from its Fd() is in use.
func openBackupFile(path string, access uint32) (*os.File, error) {
	file, err := winio.OpenForBackup(
		path,
		access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		windows.OPEN_EXISTING,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s for backup access: %w", path, err)
	}
	return file, nil
}
