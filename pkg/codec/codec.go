// Package codec implements the framed, little-endian byte stream by which
// the volume scanner hands off enumerated records to the catalog builder
// (C2 in spec.md §4.2). It is a single-pass encoder/decoder pair: the
// canonical 24-byte-header layout is used everywhere, per the Open Question
// resolution in SPEC_FULL.md §E.2 — there is exactly one layout, with no
// separate name_lower field on the wire.
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ntfs-catalog/core/pkg/catalogerr"
	"github.com/ntfs-catalog/core/pkg/record"
)

// headerSize is the fixed width, in bytes, of a single record's header
// (is_dir, name_len, path_len, parent_len, ext_len, size, mtime).
const headerSize = 1 + 2 + 2 + 2 + 1 + 8 + 8

// ErrTruncated is returned by Decode when the buffer ends mid-record. Per
// spec.md §4.2 and §7 (Codec/Truncation), this is not a hard failure: the
// caller gets back the records successfully decoded so far.
var ErrTruncated = fmt.Errorf("codec: truncated record stream: %w", catalogerr.ErrTruncation)

// Encode serializes records into the packed wire format described in
// spec.md §4.2, in order.
func Encode(records []*record.FileRecord) []byte {
	var size int
	for _, r := range records {
		size += headerSize + len(r.Filename) + len(r.FullPath) + len(r.ParentDir) + len(r.Extension)
	}
	buf := make([]byte, 0, size)
	for _, r := range records {
		buf = appendRecord(buf, r)
	}
	return buf
}

func appendRecord(buf []byte, r *record.FileRecord) []byte {
	var isDir byte
	if r.IsDir {
		isDir = 1
	}
	nameBytes := []byte(r.Filename)
	pathBytes := []byte(r.FullPath)
	parentBytes := []byte(r.ParentDir)
	extBytes := []byte(r.Extension)

	header := make([]byte, headerSize)
	header[0] = isDir
	binary.LittleEndian.PutUint16(header[1:3], uint16(len(nameBytes)))
	binary.LittleEndian.PutUint16(header[3:5], uint16(len(pathBytes)))
	binary.LittleEndian.PutUint16(header[5:7], uint16(len(parentBytes)))
	header[7] = byte(len(extBytes))
	binary.LittleEndian.PutUint64(header[8:16], r.Size)
	binary.LittleEndian.PutUint64(header[16:24], math.Float64bits(r.ModTime))

	buf = append(buf, header...)
	buf = append(buf, nameBytes...)
	buf = append(buf, pathBytes...)
	buf = append(buf, parentBytes...)
	buf = append(buf, extBytes...)
	return buf
}

// Decode parses as many complete records as are present in buf. A short
// trailing fragment terminates iteration rather than failing: the returned
// records are a valid prefix of what was originally encoded, and err is
// ErrTruncated only if at least one byte of an incomplete record was
// present (a buffer that ends exactly on a record boundary returns a nil
// error).
func Decode(buf []byte) ([]*record.FileRecord, error) {
	var records []*record.FileRecord
	offset := 0
	for offset < len(buf) {
		r, consumed, err := decodeOne(buf[offset:])
		if err != nil {
			if errors.Is(err, ErrTruncated) {
				return records, ErrTruncated
			}
			return records, err
		}
		records = append(records, r)
		offset += consumed
	}
	return records, nil
}

func decodeOne(buf []byte) (*record.FileRecord, int, error) {
	if len(buf) < headerSize {
		return nil, 0, ErrTruncated
	}
	isDir := buf[0] == 1
	nameLen := int(binary.LittleEndian.Uint16(buf[1:3]))
	pathLen := int(binary.LittleEndian.Uint16(buf[3:5]))
	parentLen := int(binary.LittleEndian.Uint16(buf[5:7]))
	extLen := int(buf[7])
	size := binary.LittleEndian.Uint64(buf[8:16])
	modTime := math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24]))

	total := headerSize + nameLen + pathLen + parentLen + extLen
	if len(buf) < total {
		return nil, 0, ErrTruncated
	}

	cursor := headerSize
	name := string(buf[cursor : cursor+nameLen])
	cursor += nameLen
	fullPath := string(buf[cursor : cursor+pathLen])
	cursor += pathLen
	parentDir := string(buf[cursor : cursor+parentLen])
	cursor += parentLen
	ext := string(buf[cursor : cursor+extLen])

	r := record.New(name, fullPath, parentDir, size, modTime, isDir)
	// record.New derives the extension from the name (always empty for a
	// directory) and that derived value is kept. For files the wire
	// extension must equal it; a mismatch is returned as an error.
	if !isDir && r.Extension != ext {
		return nil, 0, fmt.Errorf("codec: extension mismatch for %q: wire=%q derived=%q", fullPath, ext, r.Extension)
	}
	return r, total, nil
}
