//go:build windows

// FSCTL_READ_USN_JOURNAL-based change polling, grounded on the same
// USN_RECORD_V2 layout pkg/volume/mft_windows.go uses for enumeration, and
// on _examples/fsnotify-fsnotify/backend_usn.go's read-journal loop.

package usnwatch

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/Microsoft/go-winio"
	"golang.org/x/sys/windows"

	"github.com/ntfs-catalog/core/pkg/record"
)

const (
	fsctlQueryUsnJournal = 0x000900F4
	fsctlReadUsnJournal  = 0x000900BB

	readBufferSize = 1 << 16 // 64 KiB per read call, enough for a poll cycle's typical burst.
)

const (
	usnReasonDataOverwrite   = 0x00000001
	usnReasonDataExtend      = 0x00000002
	usnReasonDataTruncation  = 0x00000004
	usnReasonBasicInfoChange = 0x00008000
	usnReasonFileCreate      = 0x00000100
	usnReasonFileDelete      = 0x00000200
	usnReasonRenameOldName   = 0x00001000
	usnReasonRenameNewName   = 0x00002000
)

type queryUsnJournalData struct {
	UsnJournalID    uint64
	FirstUsn        int64
	NextUsn         int64
	LowestValidUsn  int64
	MaxUsn          int64
	MaximumSize     uint64
	AllocationDelta uint64
}

type readUsnJournalDataV0 struct {
	StartUsn          int64
	ReasonMask        uint32
	ReturnOnlyOnClose  uint32
	Timeout           uint64
	BytesToWaitFor    uint64
	UsnJournalID      uint64
}

type usnRecordV2 struct {
	RecordLength              uint32
	MajorVersion              uint16
	MinorVersion              uint16
	FileReferenceNumber       uint64
	ParentFileReferenceNumber uint64
	Usn                       int64
	TimeStamp                 int64
	Reason                    uint32
	SourceInfo                uint32
	SecurityID                uint32
	FileAttributes            uint32
	FileNameLength            uint16
	FileNameOffset            uint16
}

const fileAttributeDirectory = 0x10

// openVolume opens drive for backup-semantics read access via go-winio's
// OpenForBackup, grounded on pkg/volume/open_windows.go's identical
// wrapper (duplicated here rather than imported, since usnwatch and
// volume are sibling packages and neither depends on the other).
func openVolume(drive string) (*os.File, error) {
	path := fmt.Sprintf(`\\.\%s`, drive)
	file, err := winio.OpenForBackup(
		path,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		windows.OPEN_EXISTING,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to open volume %s: %w", drive, err)
	}
	return file, nil
}

// currentUsn issues FSCTL_QUERY_USN_JOURNAL and returns the journal's
// current NextUsn position, per spec.md §4.7 loop step 1.
func currentUsn(drive string) (int64, error) {
	file, err := openVolume(drive)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	handle := windows.Handle(file.Fd())

	var data queryUsnJournalData
	var bytesReturned uint32
	err = windows.DeviceIoControl(
		handle, fsctlQueryUsnJournal,
		nil, 0,
		(*byte)(unsafe.Pointer(&data)), uint32(unsafe.Sizeof(data)),
		&bytesReturned, nil,
	)
	if err != nil {
		return 0, fmt.Errorf("unable to query USN journal for %s: %w", drive, err)
	}
	return data.NextUsn, nil
}

// rawChange is one decoded USN_RECORD_V2, before path normalization and
// predicate filtering (which belong to translate.go, not this platform
// file).
type rawChange struct {
	Action    record.ChangeAction
	FileRef   uint64
	ParentRef uint64
	Name      string
	IsDir     bool
}

// readChangesSince reads every USN record in (sinceUsn, currentNextUsn]
// from drive's change journal, in batches of readBufferSize, per spec.md
// §4.7 loop step 2. Returns the decoded changes and the new position to
// persist as last_usn.
func readChangesSince(drive string, sinceUsn int64) ([]rawChange, int64, error) {
	file, err := openVolume(drive)
	if err != nil {
		return nil, sinceUsn, err
	}
	defer file.Close()
	handle := windows.Handle(file.Fd())

	var queryData queryUsnJournalData
	var bytesReturned uint32
	if err := windows.DeviceIoControl(
		handle, fsctlQueryUsnJournal,
		nil, 0,
		(*byte)(unsafe.Pointer(&queryData)), uint32(unsafe.Sizeof(queryData)),
		&bytesReturned, nil,
	); err != nil {
		return nil, sinceUsn, fmt.Errorf("unable to query USN journal for %s: %w", drive, err)
	}

	var changes []rawChange
	buffer := make([]byte, readBufferSize)
	cursor := sinceUsn

	for cursor < queryData.NextUsn {
		input := readUsnJournalDataV0{
			StartUsn:       cursor,
			ReasonMask:     0xFFFFFFFF,
			Timeout:        0,
			BytesToWaitFor: 0,
			UsnJournalID:   queryData.UsnJournalID,
		}

		var n uint32
		err := windows.DeviceIoControl(
			handle, fsctlReadUsnJournal,
			(*byte)(unsafe.Pointer(&input)), uint32(unsafe.Sizeof(input)),
			&buffer[0], uint32(len(buffer)),
			&n, nil,
		)
		if err != nil {
			return changes, cursor, fmt.Errorf("FSCTL_READ_USN_JOURNAL failed for %s: %w", drive, err)
		}
		if n <= 8 {
			break
		}

		nextUsnInBuffer := int64(*(*uint64)(unsafe.Pointer(&buffer[0])))
		decoded, advanced := parseUsnRecords(buffer[8:n])
		changes = append(changes, decoded...)

		if !advanced {
			break
		}
		cursor = nextUsnInBuffer
	}

	return changes, queryData.NextUsn, nil
}

func parseUsnRecords(buf []byte) ([]rawChange, bool) {
	var out []rawChange
	offset := uint32(0)
	advanced := false
	for offset+8 <= uint32(len(buf)) {
		rec := (*usnRecordV2)(unsafe.Pointer(&buf[offset]))
		if rec.RecordLength == 0 || offset+rec.RecordLength > uint32(len(buf)) {
			break
		}
		advanced = true

		nameStart := offset + uint32(rec.FileNameOffset)
		nameEnd := nameStart + uint32(rec.FileNameLength)
		var name string
		if nameEnd <= offset+rec.RecordLength && nameEnd <= uint32(len(buf)) {
			name = utf16BytesToString(buf[nameStart:nameEnd])
		}

		if action, ok := classifyReason(rec.Reason); ok {
			out = append(out, rawChange{
				Action:    action,
				FileRef:   record.FrnMask(rec.FileReferenceNumber),
				ParentRef: record.FrnMask(rec.ParentFileReferenceNumber),
				Name:      name,
				IsDir:     rec.FileAttributes&fileAttributeDirectory != 0,
			})
		}

		offset += rec.RecordLength
	}
	return out, advanced
}

// classifyReason maps a USN reason bitmask to the single ChangeAction the
// watcher cares about, per spec.md §4.7's event translation table. A
// record with none of the recognized bits is dropped (ok=false): metadata
// security/EA changes with no content or presence implication, which this
// catalog doesn't track.
func classifyReason(reason uint32) (record.ChangeAction, bool) {
	switch {
	case reason&usnReasonFileDelete != 0:
		return record.ChangeDelete, true
	case reason&usnReasonRenameOldName != 0:
		return record.ChangeRenameOld, true
	case reason&usnReasonRenameNewName != 0:
		return record.ChangeRenameNew, true
	case reason&usnReasonFileCreate != 0:
		return record.ChangeCreate, true
	case reason&(usnReasonDataOverwrite|usnReasonDataExtend|usnReasonDataTruncation|usnReasonBasicInfoChange) != 0:
		return record.ChangeModify, true
	default:
		return 0, false
	}
}

func utf16BytesToString(b []byte) string {
	u16 := make([]uint16, len(b)/2)
	for i := range u16 {
		u16[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return windows.UTF16ToString(u16)
}
