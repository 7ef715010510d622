package dircache

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// The on-disk format is a small length-prefixed binary layout in the same
// spirit as pkg/codec's packed scan result, rather than a general-purpose
// serialization library: dircache only ever has one reader and one writer
// (the owning scanner/watcher), so there is nothing a schema-evolving
// codec like protobuf would buy here.
//
// Layout:
//
//	magic      uint32  "DCH1"
//	sigLen     uint16
//	signature  []byte
//	nextUsn    int64
//	count      uint32
//	records    count * entry
//
// entry:
//
//	frn        uint64
//	parentFrn  uint64
//	isDir      uint8
//	nameLen    uint16
//	name       []byte (UTF-8)
const dircacheMagic uint32 = 0x44434831 // "DCH1"

// ErrBadMagic indicates the file does not begin with the expected magic
// number, so it is not (or no longer) a valid dircache file.
var ErrBadMagic = fmt.Errorf("dircache: bad magic number")

// Marshal serializes c into the on-disk binary format.
func (c *Cache) Marshal() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var buf bytes.Buffer
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], dircacheMagic)
	buf.Write(hdr[:])

	sig := []byte(c.Signature)
	var sigLen [2]byte
	binary.LittleEndian.PutUint16(sigLen[:], uint16(len(sig)))
	buf.Write(sigLen[:])
	buf.Write(sig)

	var usn [8]byte
	binary.LittleEndian.PutUint64(usn[:], uint64(c.NextUsn))
	buf.Write(usn[:])

	var count [4]byte
	binary.LittleEndian.PutUint32(count[:], uint32(len(c.name)))
	buf.Write(count[:])

	for frn, name := range c.name {
		var rec [8 + 8 + 1 + 2]byte
		binary.LittleEndian.PutUint64(rec[0:8], frn)
		binary.LittleEndian.PutUint64(rec[8:16], c.parent[frn])
		if c.isDir[frn] {
			rec[16] = 1
		}
		nameBytes := []byte(name)
		binary.LittleEndian.PutUint16(rec[17:19], uint16(len(nameBytes)))
		buf.Write(rec[:])
		buf.Write(nameBytes)
	}

	return buf.Bytes()
}

// Unmarshal decodes the on-disk binary format into a new Cache. A
// truncated or malformed trailing entry is treated as corruption: the
// whole cache is rejected (unlike the scan codec, where a truncated
// trailing record is tolerated; dircache is a single atomic snapshot, not
// an append stream).
func Unmarshal(data []byte) (*Cache, error) {
	if len(data) < 4 || binary.LittleEndian.Uint32(data[:4]) != dircacheMagic {
		return nil, ErrBadMagic
	}
	pos := 4

	if len(data) < pos+2 {
		return nil, fmt.Errorf("dircache: truncated signature length")
	}
	sigLen := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
	pos += 2
	if len(data) < pos+sigLen {
		return nil, fmt.Errorf("dircache: truncated signature")
	}
	signature := string(data[pos : pos+sigLen])
	pos += sigLen

	if len(data) < pos+8 {
		return nil, fmt.Errorf("dircache: truncated usn")
	}
	nextUsn := int64(binary.LittleEndian.Uint64(data[pos : pos+8]))
	pos += 8

	if len(data) < pos+4 {
		return nil, fmt.Errorf("dircache: truncated count")
	}
	count := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	pos += 4

	c := New(signature)
	c.NextUsn = nextUsn

	for i := 0; i < count; i++ {
		if len(data) < pos+19 {
			return nil, fmt.Errorf("dircache: truncated entry %d", i)
		}
		frn := binary.LittleEndian.Uint64(data[pos : pos+8])
		parentFrn := binary.LittleEndian.Uint64(data[pos+8 : pos+16])
		isDir := data[pos+16] != 0
		nameLen := int(binary.LittleEndian.Uint16(data[pos+17 : pos+19]))
		pos += 19
		if len(data) < pos+nameLen {
			return nil, fmt.Errorf("dircache: truncated name for entry %d", i)
		}
		name := string(data[pos : pos+nameLen])
		pos += nameLen

		c.parent[frn] = parentFrn
		c.name[frn] = name
		c.isDir[frn] = isDir
		if isDir {
			c.addChildLocked(parentFrn, frn)
		}
	}

	return c, nil
}
