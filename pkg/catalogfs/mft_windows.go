//go:build windows

package catalogfs

// mftSupported reports true on Windows, where raw MFT/USN enumeration is at
// least attemptable (a given volume may still reject it, e.g. non-NTFS,
// which is handled per-drive by the scanner's fallback).
func mftSupported() bool {
	return true
}
