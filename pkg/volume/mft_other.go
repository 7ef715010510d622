//go:build !windows

package volume

import (
	"context"
	"errors"

	"github.com/ntfs-catalog/core/pkg/logging"
	"github.com/ntfs-catalog/core/pkg/record"
)

// errMFTUnsupported is returned by mftScan on any platform other than
// Windows, where the MFT and USN journal are NTFS-specific kernel
// mechanisms with no analogue. Scan always falls back to walkScan in this
// case, per spec.md §4.3.
var errMFTUnsupported = errors.New("volume: MFT enumeration requires Windows")

func mftScan(ctx context.Context, drive string, prefs ScanPreferences, logger *logging.Logger) ([]*record.FileRecord, uint64, int64, error) {
	return nil, 0, 0, errMFTUnsupported
}
