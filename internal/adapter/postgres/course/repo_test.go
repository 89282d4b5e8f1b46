package course

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

func testRepo() *Repo {
	return &Repo{log: slog.Default()}
}

func TestVersionsCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	isbn := "9789561111111"
	versions := []domain.ListVersion{
		{
			VersionTS:      time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
			ModifiedTS:     time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
			SourceDocument: "lista-2026.pdf",
			Items: []domain.MaterialItem{
				{
					ID:          "item-1",
					Name:        "Cuaderno universitario",
					Quantity:    2,
					ISBN:        &isbn,
					Ordinal:     1,
					Purchasable: true,
					LinkState:   domain.LinkStateMatched,
					CreatedAt:   time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	doc, err := encodeVersions(versions)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	got := testRepo().decodeVersions(context.Background(), uuid.New(), doc)
	if len(got) != 1 || len(got[0].Items) != 1 {
		t.Fatalf("round trip shape: got %+v", got)
	}
	it := got[0].Items[0]
	if it.ID != "item-1" || it.ISBN == nil || *it.ISBN != isbn || it.LinkState != domain.LinkStateMatched {
		t.Errorf("round trip item: got %+v", it)
	}
}

func TestEncodeVersions_NilBecomesEmptyArray(t *testing.T) {
	t.Parallel()

	doc, err := encodeVersions(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(doc) != "[]" {
		t.Errorf("nil history: got %s, want []", doc)
	}
}

func TestDecodeVersions_MalformedIsEmptyHistory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  []byte
	}{
		{"empty", nil},
		{"garbage", []byte("not json at all")},
		{"wrong shape", []byte(`{"versions": 1}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := testRepo().decodeVersions(context.Background(), uuid.New(), tt.doc)
			if len(got) != 0 {
				t.Errorf("malformed doc should decode to empty history, got %+v", got)
			}
		})
	}
}

func TestFilterNormalize(t *testing.T) {
	t.Parallel()

	f := domain.CourseFilter{Limit: -3, Offset: -1}
	normalizeFilter(&f)
	if f.Limit != defaultLimit || f.Offset != 0 {
		t.Errorf("defaults: got limit=%d offset=%d", f.Limit, f.Offset)
	}

	f = domain.CourseFilter{Limit: 10_000}
	normalizeFilter(&f)
	if f.Limit != maxLimit {
		t.Errorf("clamp: got limit=%d, want %d", f.Limit, maxLimit)
	}
}
