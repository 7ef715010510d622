package query

import "strings"

// Span is a half-open [Start, End) byte range within a filename that
// matched one of the query's bare keywords, for UI highlighting.
type Span struct {
	Start, End int
}

// MatchSpans computes the highlight spans for filename against the parsed
// query's keywords, matching case-insensitively the same way the filter
// clauses do. Overlapping or adjacent spans from different keywords are
// merged so a renderer never double-highlights a character.
func MatchSpans(filename string, keywords []string) []Span {
	if len(keywords) == 0 {
		return nil
	}
	lower := strings.ToLower(filename)

	var spans []Span
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		start := 0
		for {
			idx := strings.Index(lower[start:], kw)
			if idx < 0 {
				break
			}
			absolute := start + idx
			spans = append(spans, Span{Start: absolute, End: absolute + len(kw)})
			start = absolute + len(kw)
		}
	}
	return mergeSpans(spans)
}

// mergeSpans sorts spans by start and merges any that overlap or touch.
func mergeSpans(spans []Span) []Span {
	if len(spans) < 2 {
		return spans
	}
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j-1].Start > spans[j].Start; j-- {
			spans[j-1], spans[j] = spans[j], spans[j-1]
		}
	}

	out := spans[:1]
	for _, s := range spans[1:] {
		last := &out[len(out)-1]
		if s.Start <= last.End {
			if s.End > last.End {
				last.End = s.End
			}
			continue
		}
		out = append(out, s)
	}
	return out
}
