//go:build !windows

package dircache

import "github.com/google/uuid"

// VolumeSignature has no stable NTFS serial to read outside of Windows, so
// it returns a freshly generated UUID every call. That makes Load always
// reject an existing cache on this platform (signatures never match
// across runs) and fall through to a full rebuild — an acceptable
// fallback since raw MFT enumeration itself is Windows-only
// (pkg/catalogfs.Capabilities.MFTAvailable is false here), so there is no
// cache to accelerate in the first place.
func VolumeSignature(drive string) (string, error) {
	return uuid.NewString(), nil
}
