package layout

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Truncate("abc", 6); got != "abc" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := Truncate("abcdef", 2); got != "ab" {
		t.Fatalf("expected hard cut for narrow widths, got %q", got)
	}
}

func TestFitLines(t *testing.T) {
	got := FitLines("ab\nc\nd\ne", 3, 2)
	if got != "ab \nc  " {
		t.Fatalf("unexpected fit: %q", got)
	}
	got = FitLines("x", 2, 3)
	if strings.Count(got, "\n") != 2 || !strings.HasPrefix(got, "x ") {
		t.Fatalf("expected blank filler lines, got %q", got)
	}
}
