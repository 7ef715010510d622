package filter

import "testing"

func TestShouldSkipPathDefaultRules(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{`C:\Users\bob\Documents\report.txt`, false},
		{`D:\Projects\widget\main.go`, false},
		{`D:\Projects\node_modules\pkg\index.js`, true},
		{`C:\AutoCAD_2030\drawings\a.dwg`, false},
		{`C:\AutoCAD_2017\drawings\a.dwg`, true},
		{`C:\Tools\tangential\file.txt`, true},
	}
	for _, c := range cases {
		if got := ShouldSkipPath(c.path, nil); got != c.want {
			t.Errorf("ShouldSkipPath(%q) = %v, want %v", c.path, got, c.want)
		}
	}
}

func TestAllowListReplacesSkipRules(t *testing.T) {
	al := NewAllowList(`C:\Users\bob\Desktop`)
	path := `C:\Users\bob\Desktop\notes.txt`
	if ShouldSkipPath(path, al) {
		t.Fatalf("path inside allow-list should not be skipped: %q", path)
	}
	other := `C:\Users\bob\AppData\Local\foo.txt`
	if !ShouldSkipPath(other, al) {
		t.Fatalf("path outside allow-list should fall back to skip rules: %q", other)
	}
}

func TestShouldSkipPathMonotone(t *testing.T) {
	base := `D:\node_modules`
	extended := base + `\pkg\index.js`
	if !ShouldSkipPath(base, nil) {
		t.Fatal("base path expected to be skipped")
	}
	if !ShouldSkipPath(extended, nil) {
		t.Fatal("extending a skipped path must keep it skipped")
	}
}

func TestShouldSkipPathIdempotent(t *testing.T) {
	path := `D:\Projects\main.go`
	first := ShouldSkipPath(path, nil)
	second := ShouldSkipPath(path, nil)
	if first != second {
		t.Fatal("ShouldSkipPath must be idempotent")
	}
}

func TestShouldSkipExtension(t *testing.T) {
	if !ShouldSkipExtension("module.pyc") {
		t.Fatal("expected .pyc to be skipped")
	}
	if ShouldSkipExtension("main.go") {
		t.Fatal("did not expect .go to be skipped")
	}
}

func TestShouldSkipName(t *testing.T) {
	for _, n := range []string{"$MFT", ".gitignore", ""} {
		if !ShouldSkipName(n) {
			t.Errorf("expected %q to be skipped", n)
		}
	}
	if ShouldSkipName("report.txt") {
		t.Fatal("did not expect report.txt to be skipped")
	}
}
