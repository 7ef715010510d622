package codec

import "github.com/ntfs-catalog/core/pkg/record"

// PackedScanResult is the hand-off container from the scanner to the
// catalog builder described in spec.md §3 and §6: a byte slice plus
// (record_count, total_bytes). In the native FFI this models a
// producer-allocated buffer that the consumer must release through an
// explicit free call; the in-process Go scanner doesn't need a foreign
// allocator, but Release is kept as an explicit step so callers that
// iterate large batches don't accidentally retain a scan's buffer after
// they've decoded it — it nils the slice so that doing so is at least
// impossible by accident.
type PackedScanResult struct {
	data        []byte
	RecordCount int
	TotalBytes  int
}

// NewPackedScanResult wraps an encoded buffer together with its known
// record count.
func NewPackedScanResult(data []byte, recordCount int) *PackedScanResult {
	return &PackedScanResult{
		data:        data,
		RecordCount: recordCount,
		TotalBytes:  len(data),
	}
}

// Decode decodes every record in the result. It does not release the
// buffer; callers must still call Release exactly once when finished.
func (p *PackedScanResult) Decode() ([]*record.FileRecord, error) {
	return Decode(p.data)
}

// Release frees the underlying buffer. The contract, per spec.md §6, is
// "producer allocates, producer frees via explicit call" — callers must
// invoke this exactly once and must not retain or re-decode the buffer
// afterward.
func (p *PackedScanResult) Release() {
	p.data = nil
	p.RecordCount = 0
	p.TotalBytes = 0
}
