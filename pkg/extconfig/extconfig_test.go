package extconfig

import (
	"strings"
	"testing"
)

func TestDecodeParsesDrivesAndAllowList(t *testing.T) {
	doc := `{"drives":[{"drive":"C:","allowList":["Users/*/Desktop"]},{"drive":"D:"}]}`
	decoded, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %s", err)
	}
	if len(decoded.Drives) != 2 {
		t.Fatalf("expected 2 drives, got %d", len(decoded.Drives))
	}

	cPrefs, ok := decoded.Prefs["C:"]
	if !ok {
		t.Fatal("expected prefs for C:")
	}
	if cPrefs.AllowList == nil || !cPrefs.AllowList.Contains(`C:\Users\alice\Desktop\file.txt`) {
		t.Error("expected C: allow-list to contain the configured Desktop path")
	}

	dPrefs, ok := decoded.Prefs["D:"]
	if !ok {
		t.Fatal("expected prefs for D:")
	}
	if dPrefs.AllowList != nil {
		t.Error("expected D: to have a nil allow-list")
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	doc := `{"drives":[{"drive":"C:"}],"unexpected":true}`
	if _, err := Decode(strings.NewReader(doc)); err == nil {
		t.Error("expected an error for an unknown top-level field")
	}
}

func TestDecodeRejectsMissingDrive(t *testing.T) {
	doc := `{"drives":[{"allowList":["Users"]}]}`
	if _, err := Decode(strings.NewReader(doc)); err == nil {
		t.Error("expected an error for a drive entry missing \"drive\"")
	}
}

func TestDecodeRejectsDuplicateDrive(t *testing.T) {
	doc := `{"drives":[{"drive":"C:"},{"drive":"C:"}]}`
	if _, err := Decode(strings.NewReader(doc)); err == nil {
		t.Error("expected an error for a duplicate drive entry")
	}
}

func TestDecodeEmptyDriveListSucceeds(t *testing.T) {
	doc := `{"drives":[]}`
	decoded, err := Decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Decode returned error: %s", err)
	}
	if len(decoded.Drives) != 0 {
		t.Errorf("expected 0 drives, got %d", len(decoded.Drives))
	}
}
