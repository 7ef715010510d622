//go:build !windows

package catalogfs

// mftSupported is always false on non-Windows platforms: the MFT/USN
// journal is an NTFS-specific mechanism, and spec.md explicitly scopes
// non-NTFS volumes out of the scanner's raw path.
func mftSupported() bool {
	return false
}
