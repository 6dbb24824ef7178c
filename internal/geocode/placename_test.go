package geocode

import "testing"

func TestNormalizePlaceName_DropsShortAndNumericTokens(t *testing.T) {
	got := NormalizePlaceName("  Frankfurt am Main 1 ")
	if got != "Frankfurt Main" {
		t.Fatalf("expected 'Frankfurt Main', got %q", got)
	}
}

func TestNormalizePlaceName_KeepsPlainNames(t *testing.T) {
	got := NormalizePlaceName("Dresden")
	if got != "Dresden" {
		t.Fatalf("expected 'Dresden', got %q", got)
	}
}

func TestNormalizePlaceName_CollapsesWhitespace(t *testing.T) {
	got := NormalizePlaceName("Bad   Homburg")
	if got != "Bad Homburg" {
		t.Fatalf("expected 'Bad Homburg', got %q", got)
	}
}

func TestNormalizePlaceName_EmptyWhenNothingSurvives(t *testing.T) {
	for _, raw := range []string{"", "  ", "ab", "B12", "12 ab x9"} {
		if got := NormalizePlaceName(raw); got != "" {
			t.Fatalf("expected empty key for %q, got %q", raw, got)
		}
	}
}

func TestNormalizePlaceName_Deterministic(t *testing.T) {
	raw := " Neustadt an der Weinstraße 3 "
	first := NormalizePlaceName(raw)
	second := NormalizePlaceName(raw)
	if first != second {
		t.Fatalf("normalization not deterministic: %q vs %q", first, second)
	}
}
