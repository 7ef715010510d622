package query

import (
	"reflect"
	"testing"
)

func TestMatchSpansSingleKeyword(t *testing.T) {
	spans := MatchSpans("Quarterly Report.docx", []string{"report"})
	want := []Span{{Start: 10, End: 16}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %v, want %v", spans, want)
	}
}

func TestMatchSpansRepeatedKeywordSeparateSpans(t *testing.T) {
	spans := MatchSpans("report-report.txt", []string{"report"})
	want := []Span{{Start: 0, End: 6}, {Start: 7, End: 13}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %v, want %v", spans, want)
	}
}

func TestMatchSpansOverlappingKeywordsMerge(t *testing.T) {
	spans := MatchSpans("abcdef", []string{"abc", "cde"})
	want := []Span{{Start: 0, End: 5}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %v, want %v", spans, want)
	}
}

func TestMatchSpansNoKeywords(t *testing.T) {
	if spans := MatchSpans("anything.txt", nil); spans != nil {
		t.Errorf("expected nil spans, got %v", spans)
	}
}

func TestMatchSpansCaseInsensitive(t *testing.T) {
	spans := MatchSpans("REPORT.txt", []string{"report"})
	want := []Span{{Start: 0, End: 6}}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("got %v, want %v", spans, want)
	}
}
