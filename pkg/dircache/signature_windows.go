//go:build windows

package dircache

import (
	"fmt"
	"strings"

	"golang.org/x/sys/windows"
)

// VolumeSignature returns the NTFS volume serial number for drive (e.g.
// "D:"), formatted as 8 hex digits. The serial is stable across reboots
// for a given formatted volume, making it a reliable cache-validity key
// per spec.md §4.4.
func VolumeSignature(drive string) (string, error) {
	root := strings.TrimSuffix(drive, `\`) + `\`
	rootPtr, err := windows.UTF16PtrFromString(root)
	if err != nil {
		return "", fmt.Errorf("dircache: encode volume root: %w", err)
	}

	var volumeNameBuf [windows.MAX_PATH]uint16
	var serial uint32
	var maxComponentLen uint32
	var fsFlags uint32
	var fsNameBuf [windows.MAX_PATH]uint16

	err = windows.GetVolumeInformation(
		rootPtr,
		&volumeNameBuf[0], uint32(len(volumeNameBuf)),
		&serial,
		&maxComponentLen,
		&fsFlags,
		&fsNameBuf[0], uint32(len(fsNameBuf)),
	)
	if err != nil {
		return "", fmt.Errorf("dircache: GetVolumeInformation %s: %w", drive, err)
	}

	return fmt.Sprintf("%08x", serial), nil
}
