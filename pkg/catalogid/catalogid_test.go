package catalogid

import "testing"

func TestNewProducesValidIdentifier(t *testing.T) {
	id, err := New(PrefixDrive)
	if err != nil {
		t.Fatalf("New returned error: %s", err)
	}
	if !IsValid(id) {
		t.Errorf("expected %q to be valid", id)
	}
	if len(id) != requiredPrefixLength+1+targetEncodedLength {
		t.Errorf("expected length %d, got %d (%q)", requiredPrefixLength+1+targetEncodedLength, len(id), id)
	}
}

func TestNewRejectsBadPrefix(t *testing.T) {
	cases := []string{"", "ab", "toolong", "AB_D", "12_4"}
	for _, prefix := range cases {
		if _, err := New(prefix); err == nil {
			t.Errorf("expected error for prefix %q", prefix)
		}
	}
}

func TestNewProducesDistinctIdentifiers(t *testing.T) {
	a, err := New(PrefixQuery)
	if err != nil {
		t.Fatalf("New returned error: %s", err)
	}
	b, err := New(PrefixQuery)
	if err != nil {
		t.Fatalf("New returned error: %s", err)
	}
	if a == b {
		t.Error("expected two calls to New to produce distinct identifiers")
	}
}

func TestIsValidRejectsGarbage(t *testing.T) {
	cases := []string{"", "not-an-id", "driv_short", PrefixDrive}
	for _, v := range cases {
		if IsValid(v) {
			t.Errorf("expected %q to be invalid", v)
		}
	}
}

func TestNewCorrelationIDProducesUUIDShape(t *testing.T) {
	id := NewCorrelationID()
	if len(id) != 36 {
		t.Errorf("expected a 36-character UUID string, got %q", id)
	}
}
