package codec

import (
	"errors"
	"testing"

	"github.com/ntfs-catalog/core/pkg/record"
)

func sampleRecords() []*record.FileRecord {
	return []*record.FileRecord{
		record.New("t", `D:\t`, `D:\`, 0, 0, true),
		record.New("a.txt", `D:\t\a.txt`, `D:\t`, 3, 1700000000, false),
		record.New("sub", `D:\t\sub`, `D:\t`, 0, 0, true),
		record.New("b.log", `D:\t\sub\b.log`, `D:\t\sub`, 128, 1700000100, false),
	}
}

func recordsEqual(a, b *record.FileRecord) bool {
	return a.Filename == b.Filename &&
		a.FilenameLower == b.FilenameLower &&
		a.FullPath == b.FullPath &&
		a.ParentDir == b.ParentDir &&
		a.Extension == b.Extension &&
		a.Size == b.Size &&
		a.ModTime == b.ModTime &&
		a.IsDir == b.IsDir
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := sampleRecords()
	encoded := Encode(original)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if len(decoded) != len(original) {
		t.Fatalf("got %d records, want %d", len(decoded), len(original))
	}
	for i := range original {
		if !recordsEqual(original[i], decoded[i]) {
			t.Errorf("record %d mismatch: got %+v, want %+v", i, decoded[i], original[i])
		}
	}
}

func TestEncodeDecodeEmptyExtensionDirectory(t *testing.T) {
	records := []*record.FileRecord{record.New("dir", `D:\dir`, `D:\`, 0, 0, true)}
	decoded, err := Decode(Encode(records))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Extension != "" {
		t.Fatalf("expected single directory with empty extension, got %+v", decoded)
	}
}

func TestDecodeTruncatedPrefix(t *testing.T) {
	original := sampleRecords()
	encoded := Encode(original)

	for cut := 1; cut < len(encoded); cut++ {
		decoded, err := Decode(encoded[:cut])
		if err != nil && !errors.Is(err, ErrTruncated) {
			t.Fatalf("unexpected error at cut %d: %v", cut, err)
		}
		if len(decoded) > len(original) {
			t.Fatalf("cut %d: decoded more records (%d) than encoded (%d)", cut, len(decoded), len(original))
		}
		for i, r := range decoded {
			if !recordsEqual(r, original[i]) {
				t.Fatalf("cut %d: decoded record %d does not match a prefix of the original", cut, i)
			}
		}
	}
}

func TestDecodeExactBoundaryHasNoError(t *testing.T) {
	original := sampleRecords()[:1]
	encoded := Encode(original)
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("unexpected error decoding an exact single record: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 record, got %d", len(decoded))
	}
}
