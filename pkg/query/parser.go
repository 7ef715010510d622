// Package query implements the Everything-style query engine (C6 in
// spec.md §4.6): a mini-language parser, a SQL plan builder, and the
// post-filter/backfill orchestration that sits on top of pkg/catalog's
// low-level QueryFiles primitive.
package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ntfs-catalog/core/pkg/record"
)

// ScopeKind restricts results to files, folders, or either, per the
// "folder:"/"file:" tokens.
type ScopeKind int

const (
	ScopeEither ScopeKind = iota
	ScopeFolder
	ScopeFile
)

// SizeBound is a parsed "size:>N[kb|mb|gb]" / "size:<N[…]" filter.
type SizeBound struct {
	Set     bool
	Greater bool // true for ">" , false for "<"
	Bytes   uint64
}

// Filters holds every non-keyword token parsed from a query string.
type Filters struct {
	Extension     string // lowercased, including leading dot; "" if unset
	Size          SizeBound
	ModifiedSince time.Time // zero if unset ("dm:" not present)
	Scope         ScopeKind
	PathSubstr    string // lowercased; "" if unset
}

// Parsed is the result of parsing a query string: the ANDed bare keywords
// plus the structured filters.
type Parsed struct {
	Keywords []string
	Filters  Filters
}

// nowFunc is overridable in tests; production code always uses the wall
// clock, matching the catalog package's own now().
var nowFunc = time.Now

// Parse tokenizes query on whitespace and classifies each token per
// spec.md §4.6's syntax table. Tokens containing ':' are never treated as
// bare keywords, even if their prefix doesn't match a known filter (an
// unrecognized "foo:bar" token is simply dropped, the same tolerant
// behavior Everything itself exhibits for unknown modifiers).
func Parse(query string) (Parsed, error) {
	p := Parsed{Filters: Filters{Scope: ScopeEither}}

	for _, tok := range strings.Fields(query) {
		if !strings.Contains(tok, ":") {
			p.Keywords = append(p.Keywords, record.Lower(tok))
			continue
		}

		idx := strings.IndexByte(tok, ':')
		prefix, rest := strings.ToLower(tok[:idx]), tok[idx+1:]

		switch prefix {
		case "ext":
			ext := rest
			if ext != "" && !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			p.Filters.Extension = record.Lower(ext)

		case "size":
			bound, err := parseSizeBound(rest)
			if err != nil {
				return Parsed{}, fmt.Errorf("query: %w", err)
			}
			p.Filters.Size = bound

		case "dm":
			since, err := parseModifiedWindow(rest, nowFunc())
			if err != nil {
				return Parsed{}, fmt.Errorf("query: %w", err)
			}
			p.Filters.ModifiedSince = since

		case "folder":
			p.Filters.Scope = ScopeFolder
			if rest != "" {
				p.Keywords = append(p.Keywords, record.Lower(rest))
			}

		case "file":
			p.Filters.Scope = ScopeFile
			if rest != "" {
				p.Keywords = append(p.Keywords, record.Lower(rest))
			}

		case "path":
			p.Filters.PathSubstr = record.Lower(rest)

		default:
			// Unknown modifier: ignored rather than rejected.
		}
	}

	return p, nil
}

// parseSizeBound parses the text after "size:", e.g. ">10mb" or "<500kb".
func parseSizeBound(s string) (SizeBound, error) {
	if s == "" {
		return SizeBound{}, fmt.Errorf("empty size filter")
	}
	var greater bool
	switch s[0] {
	case '>':
		greater = true
	case '<':
		greater = false
	default:
		return SizeBound{}, fmt.Errorf("size filter must start with '>' or '<': %q", s)
	}

	bytes, err := humanize.ParseBytes(s[1:])
	if err != nil {
		return SizeBound{}, fmt.Errorf("invalid size filter %q: %w", s, err)
	}
	return SizeBound{Set: true, Greater: greater, Bytes: bytes}, nil
}

// parseModifiedWindow parses the text after "dm:": "today", "<k>d", or
// "<k>h", returning the absolute cutoff instant relative to now.
func parseModifiedWindow(s string, now time.Time) (time.Time, error) {
	if s == "today" {
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), nil
	}
	if s == "" {
		return time.Time{}, fmt.Errorf("empty dm filter")
	}

	unit := s[len(s)-1]
	count, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid dm filter %q: %w", s, err)
	}

	switch unit {
	case 'd':
		return now.AddDate(0, 0, -count), nil
	case 'h':
		return now.Add(-time.Duration(count) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("dm filter must end in 'd' or 'h': %q", s)
	}
}
