package matcher

import (
	"testing"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

func catalog(names ...string) []domain.CatalogEntry {
	entries := make([]domain.CatalogEntry, len(names))
	for i, n := range names {
		entries[i] = domain.CatalogEntry{ID: n, Name: n}
	}
	return entries
}

func TestMatch_HighConfidence(t *testing.T) {
	t.Parallel()

	// Accent and case differences must not prevent a match.
	m := New(Config{})
	res := m.Match("Lapiz grafito HB", catalog("Lápiz Grafito HB", "Lápiz de Colores"))

	if res.State != domain.LinkStateMatched {
		t.Fatalf("state: got %s, want MATCHED", res.State)
	}
	if res.Entry == nil || res.Entry.Name != "Lápiz Grafito HB" {
		t.Errorf("entry: got %+v, want Lápiz Grafito HB", res.Entry)
	}
	if res.Score < 0.85 {
		t.Errorf("score: got %f, want >= 0.85", res.Score)
	}
}

func TestMatch_EmptyCatalog(t *testing.T) {
	t.Parallel()

	m := New(Config{})
	res := m.Match("Cuaderno", nil)
	if res.State != domain.LinkStateUnmatched {
		t.Errorf("state: got %s, want UNMATCHED", res.State)
	}
	if res.Entry != nil {
		t.Errorf("entry should be nil, got %+v", res.Entry)
	}
}

func TestMatch_BlankName(t *testing.T) {
	t.Parallel()

	m := New(Config{})
	res := m.Match("   ", catalog("Cuaderno"))
	if res.State != domain.LinkStateUnmatched {
		t.Errorf("state: got %s, want UNMATCHED", res.State)
	}
}

func TestMatch_NoCandidateAboveLow(t *testing.T) {
	t.Parallel()

	m := New(Config{})
	res := m.Match("Microscopio electrónico", catalog("Goma de borrar", "Lápiz"))
	if res.State != domain.LinkStateUnmatched {
		t.Errorf("state: got %s, want UNMATCHED", res.State)
	}
}

func TestMatch_AmbiguousWhenBandCrowded(t *testing.T) {
	t.Parallel()

	// Two near-identical mid-confidence candidates must come back ambiguous
	// instead of silently picking one.
	m := New(Config{HighThreshold: 0.95, LowThreshold: 0.30, AmbiguityBand: 0.10})
	res := m.Match("cuaderno matematica", catalog(
		"cuaderno matematicas 100 hojas",
		"cuaderno matematicas 80 hojas",
	))

	if res.State != domain.LinkStateAmbiguous {
		t.Fatalf("state: got %s (score %f), want AMBIGUOUS", res.State, res.Score)
	}
	if res.Entry == nil {
		t.Error("ambiguous result should still carry the best entry")
	}
}

func TestMatch_SingleMidConfidenceCandidate(t *testing.T) {
	t.Parallel()

	m := New(Config{HighThreshold: 0.95, LowThreshold: 0.40, AmbiguityBand: 0.05})
	res := m.Match("cuaderno college", catalog(
		"cuaderno college 100 hojas",
		"tijeras escolares",
	))

	if res.State != domain.LinkStateMatched {
		t.Fatalf("state: got %s (score %f), want MATCHED", res.State, res.Score)
	}
	if res.Entry == nil || res.Entry.Name != "cuaderno college 100 hojas" {
		t.Errorf("entry: got %+v", res.Entry)
	}
}

func TestScore_TokenOrderInsensitive(t *testing.T) {
	t.Parallel()

	if got := Score("lapiz colores", "colores lapiz"); got != 1 {
		t.Errorf("token-sorted score: got %f, want 1", got)
	}
}

func TestScore_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
	}{
		{"", ""},
		{"a", ""},
		{"abc", "abc"},
		{"abc", "xyz"},
		{"cuaderno", "cuadernos"},
	}
	for _, tt := range tests {
		got := Score(tt.a, tt.b)
		if got < 0 || got > 1 {
			t.Errorf("Score(%q, %q) = %f out of [0,1]", tt.a, tt.b, got)
		}
	}
}
