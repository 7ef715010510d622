package dircache

import "testing"

func buildSample() *Cache {
	c := New("sig-1")
	c.NextUsn = 42
	c.AddEntry(10, rootFrn, "Users", true)
	c.AddEntry(20, 10, "alice", true)
	c.AddEntry(30, 20, "report.docx", false)
	return c
}

func TestFullPathWalksParentChain(t *testing.T) {
	c := buildSample()
	full, ok := c.FullPath(`D:`, 30)
	if !ok {
		t.Fatal("expected FullPath to resolve frn 30")
	}
	if full != `D:\Users\alice\report.docx` {
		t.Errorf("unexpected path: %q", full)
	}
}

func TestFullPathRoot(t *testing.T) {
	c := buildSample()
	full, ok := c.FullPath(`D:`, rootFrn)
	if !ok || full != `D:\` {
		t.Errorf("expected root path D:\\, got %q ok=%v", full, ok)
	}
}

func TestFullPathUnknownFrn(t *testing.T) {
	c := buildSample()
	if _, ok := c.FullPath(`D:`, 999); ok {
		t.Error("expected FullPath to fail for an unknown frn")
	}
}

func TestFullPathDetectsCycle(t *testing.T) {
	c := New("sig-1")
	c.AddEntry(1, 2, "a", true)
	c.AddEntry(2, 1, "b", true)
	if _, ok := c.FullPath(`D:`, 1); ok {
		t.Error("expected a parent cycle to be rejected")
	}
}

func TestChildrenTracksDirectoriesOnly(t *testing.T) {
	c := buildSample()
	children := c.Children(10)
	if len(children) != 1 || children[0] != 20 {
		t.Errorf("expected [20], got %v", children)
	}
}

func TestRemoveEntryDetachesFromParent(t *testing.T) {
	c := buildSample()
	c.RemoveEntry(20)
	if children := c.Children(10); len(children) != 0 {
		t.Errorf("expected no children after removal, got %v", children)
	}
	if _, ok := c.IsDir(20); ok {
		t.Error("expected frn 20 to be gone")
	}
}

func TestValidateRejectsDanglingParent(t *testing.T) {
	c := New("sig-1")
	c.parent[99] = 12345 // 12345 is never added as an entry
	c.name[99] = "orphan"
	if err := c.Validate(); err == nil {
		t.Error("expected Validate to reject a dangling parent reference")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	c := buildSample()
	decoded, err := Unmarshal(c.Marshal())
	if err != nil {
		t.Fatalf("Unmarshal failed: %s", err)
	}
	if decoded.Signature != c.Signature || decoded.NextUsn != c.NextUsn {
		t.Errorf("signature/usn mismatch: got %q/%d", decoded.Signature, decoded.NextUsn)
	}
	full, ok := decoded.FullPath(`D:`, 30)
	if !ok || full != `D:\Users\alice\report.docx` {
		t.Errorf("unexpected decoded path: %q ok=%v", full, ok)
	}
}

func TestUnmarshalRejectsBadMagic(t *testing.T) {
	_, err := Unmarshal([]byte{0, 0, 0, 0})
	if err != ErrBadMagic {
		t.Errorf("expected ErrBadMagic, got %v", err)
	}
}

func TestUnmarshalRejectsTruncatedEntry(t *testing.T) {
	data := buildSample().Marshal()
	_, err := Unmarshal(data[:len(data)-3])
	if err == nil {
		t.Error("expected an error decoding a truncated cache file")
	}
}
