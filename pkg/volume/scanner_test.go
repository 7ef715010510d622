package volume

import (
	"testing"

	"github.com/ntfs-catalog/core/pkg/filter"
)

func TestFilterRecordSkipsReservedNames(t *testing.T) {
	if !filterRecord("$MFT", `C:\$MFT`, false, ScanPreferences{}) {
		t.Error("expected $MFT to be filtered")
	}
	if !filterRecord("System Volume Information", `C:\System Volume Information`, true, ScanPreferences{}) {
		t.Error("expected System Volume Information to be filtered as a directory")
	}
}

func TestFilterRecordSkipsKnownExtensions(t *testing.T) {
	if !filterRecord("image.tmp", `C:\Users\alice\image.tmp`, false, ScanPreferences{}) {
		t.Error("expected a .tmp file to be filtered")
	}
}

func TestFilterRecordAllowsOrdinaryFiles(t *testing.T) {
	if filterRecord("report.docx", `C:\Users\alice\Documents\report.docx`, false, ScanPreferences{}) {
		t.Error("expected an ordinary file not to be filtered")
	}
}

func TestFilterRecordAllowListOverridesDefaultSkipOnC(t *testing.T) {
	prefs := ScanPreferences{AllowList: filter.NewAllowList(`Users\alice\AppData\Local\MyApp`)}
	if filterRecord("notes.txt", `C:\Users\alice\AppData\Local\MyApp\notes.txt`, false, prefs) {
		t.Error("expected a file under an allow-listed root to pass despite the default appdata skip")
	}
	if !filterRecord("notes.txt", `C:\Users\alice\AppData\Local\Other\notes.txt`, false, prefs) {
		t.Error("expected a file under appdata but outside the allow-listed root to be filtered")
	}
}
