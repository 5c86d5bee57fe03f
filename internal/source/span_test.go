package source

import (
	"testing"
)

func TestSpan_Cover(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Span
		expected Span
	}{
		{
			name:     "disjoint spans",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 30, End: 40},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "nested span",
			a:        Span{File: 1, Start: 10, End: 40},
			b:        Span{File: 1, Start: 15, End: 20},
			expected: Span{File: 1, Start: 10, End: 40},
		},
		{
			name:     "other starts earlier",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 1, Start: 5, End: 12},
			expected: Span{File: 1, Start: 5, End: 20},
		},
		{
			name:     "different files are not merged",
			a:        Span{File: 1, Start: 10, End: 20},
			b:        Span{File: 2, Start: 0, End: 50},
			expected: Span{File: 1, Start: 10, End: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.expected {
				t.Errorf("Cover() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestSpan_EdgeCases(t *testing.T) {
	empty := Span{File: 0, Start: 7, End: 7}
	if !empty.Empty() {
		t.Error("expected zero-length span to be empty")
	}
	if empty.Len() != 0 {
		t.Errorf("expected Len 0, got %d", empty.Len())
	}
	if empty.Contains(7) {
		t.Error("empty span must not contain its start")
	}

	s := Span{File: 3, Start: 2, End: 5}
	if s.Len() != 3 {
		t.Errorf("expected Len 3, got %d", s.Len())
	}
	if !s.Contains(2) || !s.Contains(4) || s.Contains(5) {
		t.Error("Contains must be half-open")
	}
	if s.String() != "3:2-5" {
		t.Errorf("unexpected String(): %q", s.String())
	}
}
