// Package extconfig decodes the one external configuration artifact this
// core reads rather than owns: a JSON document written by the GUI process
// naming which drives to index and the C: allow-list, per spec.md §6 and
// SPEC_FULL.md §A.3. encoding/json is used deliberately here rather than a
// pack library (doublestar, go-humanize, ... all get used elsewhere in this
// module): the wire format is dictated by the GUI, not chosen by this core,
// so there is no domain concern for a third-party decoder to add value to —
// this is the one standard-library boundary the design calls out explicitly.
package extconfig

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ntfs-catalog/core/pkg/filter"
	"github.com/ntfs-catalog/core/pkg/volume"
)

// DriveConfig is one drive entry from the external document: the drive
// letter to scan, and (for "C:" only, per spec.md's allow-list semantics)
// the roots/glob patterns that replace the default skip rules.
type DriveConfig struct {
	Drive     string   `json:"drive"`
	AllowList []string `json:"allowList,omitempty"`
}

// document is the on-wire shape of the GUI-authored config file.
type document struct {
	Drives []DriveConfig `json:"drives"`
}

// Decoded is the parsed, validated result: per-drive scan preferences ready
// to hand to volume.Scan, keyed by drive letter.
type Decoded struct {
	Drives []string
	Prefs  map[string]volume.ScanPreferences
}

// Decode reads and validates the external config document from r.
func Decode(r io.Reader) (*Decoded, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("extconfig: decoding config: %w", err)
	}

	out := &Decoded{Prefs: make(map[string]volume.ScanPreferences, len(doc.Drives))}
	seen := make(map[string]bool, len(doc.Drives))
	for _, d := range doc.Drives {
		if d.Drive == "" {
			return nil, fmt.Errorf("extconfig: drive entry missing \"drive\"")
		}
		if seen[d.Drive] {
			return nil, fmt.Errorf("extconfig: duplicate drive entry %q", d.Drive)
		}
		seen[d.Drive] = true

		var allowList *filter.AllowList
		if len(d.AllowList) > 0 && strings.EqualFold(strings.TrimSuffix(d.Drive, `\`), "C:") {
			allowList = filter.NewAllowList(d.AllowList...)
		}

		out.Drives = append(out.Drives, d.Drive)
		out.Prefs[d.Drive] = volume.ScanPreferences{AllowList: allowList}
	}
	return out, nil
}
