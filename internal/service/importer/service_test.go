package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almonteweb/listaescolar-backend/internal/adapter/classifier"
	"github.com/almonteweb/listaescolar-backend/internal/config"
	"github.com/almonteweb/listaescolar-backend/internal/domain"
	"github.com/almonteweb/listaescolar-backend/internal/matcher"
	"github.com/almonteweb/listaescolar-backend/internal/service/listversion"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type mockListEngine struct {
	ReplaceVersionFunc    func(ctx context.Context, input listversion.ReplaceVersionInput) (*domain.ListVersion, error)
	ApplySuggestionsFunc  func(ctx context.Context, input listversion.ApplySuggestionsInput) (*domain.ListVersion, int, error)
	GetCurrentVersionFunc func(ctx context.Context, courseID uuid.UUID) (*domain.ListVersion, error)
}

func (m *mockListEngine) ReplaceVersion(ctx context.Context, input listversion.ReplaceVersionInput) (*domain.ListVersion, error) {
	if m.ReplaceVersionFunc != nil {
		return m.ReplaceVersionFunc(ctx, input)
	}
	now := time.Now().UTC()
	return &domain.ListVersion{
		VersionTS:      now,
		ModifiedTS:     now,
		SourceDocument: input.SourceDocument,
		Items:          input.Items,
	}, nil
}

func (m *mockListEngine) ApplySuggestions(ctx context.Context, input listversion.ApplySuggestionsInput) (*domain.ListVersion, int, error) {
	if m.ApplySuggestionsFunc != nil {
		return m.ApplySuggestionsFunc(ctx, input)
	}
	return nil, 0, nil
}

func (m *mockListEngine) GetCurrentVersion(ctx context.Context, courseID uuid.UUID) (*domain.ListVersion, error) {
	if m.GetCurrentVersionFunc != nil {
		return m.GetCurrentVersionFunc(ctx, courseID)
	}
	return nil, domain.ErrNotFound
}

type mockCatalog struct {
	ListProductsFunc func(ctx context.Context, query string) ([]domain.CatalogEntry, error)
}

func (m *mockCatalog) ListProducts(ctx context.Context, query string) ([]domain.CatalogEntry, error) {
	if m.ListProductsFunc != nil {
		return m.ListProductsFunc(ctx, query)
	}
	return nil, nil
}

type mockClassifier struct {
	ClassifyFunc func(ctx context.Context, items []classifier.Item) (map[string]domain.Suggestion, error)
}

func (m *mockClassifier) Classify(ctx context.Context, items []classifier.Item) (map[string]domain.Suggestion, error) {
	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, items)
	}
	return map[string]domain.Suggestion{}, nil
}

// ===========================================================================
// Helpers
// ===========================================================================

func newTestService(lists listEngine, catalog catalogClient, classify classifierClient) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, lists, catalog, classify,
		matcher.New(matcher.DefaultConfig()), config.ImporterConfig{MaxItems: 300})
}

func strPtr(s string) *string { return &s }

func testCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{ID: "prod-1", Name: "Lápiz Grafito HB"},
		{ID: "prod-2", Name: "Lápiz de Colores"},
	}
}

// ===========================================================================
// ImportVersion
// ===========================================================================

func TestImportVersion_MatchesClassifiesAndPersists(t *testing.T) {
	courseID := uuid.New()

	var replaced listversion.ReplaceVersionInput
	lists := &mockListEngine{
		ReplaceVersionFunc: func(_ context.Context, input listversion.ReplaceVersionInput) (*domain.ListVersion, error) {
			replaced = input
			now := time.Now().UTC()
			return &domain.ListVersion{VersionTS: now, ModifiedTS: now, SourceDocument: input.SourceDocument, Items: input.Items}, nil
		},
	}
	catalog := &mockCatalog{
		ListProductsFunc: func(context.Context, string) ([]domain.CatalogEntry, error) {
			return testCatalog(), nil
		},
	}
	var classified []classifier.Item
	classify := &mockClassifier{
		ClassifyFunc: func(_ context.Context, items []classifier.Item) (map[string]domain.Suggestion, error) {
			classified = items
			return map[string]domain.Suggestion{
				"item-1": {Category: strPtr("Escritura"), Subject: strPtr("General")},
			}, nil
		},
	}
	svc := newTestService(lists, catalog, classify)

	result, err := svc.ImportVersion(context.Background(), ImportInput{
		CourseID:       courseID,
		SourceDocument: "lista_2026.pdf",
		Items: []DraftItem{
			{Name: "Lapiz grafito HB"},
			{Name: "Calculadora cientifica", Category: strPtr("Otros"), Subject: strPtr("Matemática")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, courseID, replaced.CourseID)
	assert.Equal(t, "lista_2026.pdf", replaced.SourceDocument)
	require.Len(t, replaced.Items, 2)
	assert.Equal(t, "item-1", replaced.Items[0].ID)
	assert.Equal(t, "item-2", replaced.Items[1].ID)
	assert.Equal(t, []int{1, 2}, []int{replaced.Items[0].Ordinal, replaced.Items[1].Ordinal})

	assert.Equal(t, domain.LinkStateMatched, replaced.Items[0].LinkState)
	require.NotNil(t, replaced.Items[0].CatalogRef)
	assert.Equal(t, "prod-1", *replaced.Items[0].CatalogRef)
	assert.Equal(t, domain.LinkStateUnmatched, replaced.Items[1].LinkState)

	require.Len(t, classified, 1, "pre-classified drafts must not go to the classifier")
	assert.Equal(t, "item-1", classified[0].ID)
	require.NotNil(t, replaced.Items[0].Category)
	assert.Equal(t, "Escritura", *replaced.Items[0].Category)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Matched)
	assert.Equal(t, 1, result.Unmatched)
	assert.Equal(t, 0, result.Ambiguous)
	assert.Equal(t, 1, result.Classified)
	assert.False(t, result.Degraded)
	assert.False(t, result.VersionTS.IsZero())

	require.Len(t, result.Items, 2)
	assert.Equal(t, "item-1", result.Items[0].ItemID)
	assert.GreaterOrEqual(t, result.Items[0].Score, 0.85)
	assert.True(t, result.Items[0].Classified)
	assert.True(t, result.Items[1].Classified, "drafts arriving with category/subject count as classified")
}

func TestImportVersion_CatalogFailureDegradesToUnmatched(t *testing.T) {
	courseID := uuid.New()
	catalog := &mockCatalog{
		ListProductsFunc: func(context.Context, string) ([]domain.CatalogEntry, error) {
			return nil, domain.ErrUnavailable
		},
	}
	svc := newTestService(&mockListEngine{}, catalog, &mockClassifier{})

	result, err := svc.ImportVersion(context.Background(), ImportInput{
		CourseID: courseID,
		Items:    []DraftItem{{Name: "Lapiz grafito HB"}, {Name: "Goma de borrar"}},
	})
	require.NoError(t, err, "a catalog outage must not abort the import")
	assert.True(t, result.Degraded)
	assert.Equal(t, 2, result.Unmatched)
	assert.Equal(t, 0, result.Matched)
}

func TestImportVersion_ClassifierFailureLeavesUnclassified(t *testing.T) {
	courseID := uuid.New()
	classify := &mockClassifier{
		ClassifyFunc: func(context.Context, []classifier.Item) (map[string]domain.Suggestion, error) {
			return nil, domain.ErrUnavailable
		},
	}
	var replaced listversion.ReplaceVersionInput
	lists := &mockListEngine{
		ReplaceVersionFunc: func(_ context.Context, input listversion.ReplaceVersionInput) (*domain.ListVersion, error) {
			replaced = input
			now := time.Now().UTC()
			return &domain.ListVersion{VersionTS: now, Items: input.Items}, nil
		},
	}
	svc := newTestService(lists, &mockCatalog{}, classify)

	result, err := svc.ImportVersion(context.Background(), ImportInput{
		CourseID: courseID,
		Items:    []DraftItem{{Name: "Mochila escolar"}},
	})
	require.NoError(t, err, "a classifier outage must not abort the import")
	assert.True(t, result.Degraded)
	assert.Equal(t, 0, result.Classified)
	require.Len(t, replaced.Items, 1)
	assert.Nil(t, replaced.Items[0].Category)
	assert.False(t, result.Items[0].Classified)
}

func TestImportVersion_StoreFailureAborts(t *testing.T) {
	lists := &mockListEngine{
		ReplaceVersionFunc: func(context.Context, listversion.ReplaceVersionInput) (*domain.ListVersion, error) {
			return nil, domain.ErrConflict
		},
	}
	svc := newTestService(lists, &mockCatalog{}, &mockClassifier{})

	_, err := svc.ImportVersion(context.Background(), ImportInput{
		CourseID: uuid.New(),
		Items:    []DraftItem{{Name: "Lapiz"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestImportVersion_ExplicitOrdinalsOrderTheBatch(t *testing.T) {
	var replaced listversion.ReplaceVersionInput
	lists := &mockListEngine{
		ReplaceVersionFunc: func(_ context.Context, input listversion.ReplaceVersionInput) (*domain.ListVersion, error) {
			replaced = input
			return &domain.ListVersion{VersionTS: time.Now().UTC(), Items: input.Items}, nil
		},
	}
	svc := newTestService(lists, &mockCatalog{}, &mockClassifier{})

	_, err := svc.ImportVersion(context.Background(), ImportInput{
		CourseID: uuid.New(),
		Items: []DraftItem{
			{Name: "Goma", Ordinal: 3},
			{Name: "Lapiz", Ordinal: 1},
			{Name: "Regla", Ordinal: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, replaced.Items, 3)
	assert.Equal(t, []string{"Lapiz", "Regla", "Goma"},
		[]string{replaced.Items[0].Name, replaced.Items[1].Name, replaced.Items[2].Name})
	assert.Equal(t, []int{1, 2, 3},
		[]int{replaced.Items[0].Ordinal, replaced.Items[1].Ordinal, replaced.Items[2].Ordinal})
	assert.Equal(t, "item-2", replaced.Items[0].ID, "ids keep tracking the source lines")
}

func TestImportVersion_ValidationErrors(t *testing.T) {
	svc := newTestService(&mockListEngine{}, &mockCatalog{}, &mockClassifier{})

	tests := []struct {
		name  string
		input ImportInput
	}{
		{name: "no items", input: ImportInput{CourseID: uuid.New()}},
		{name: "missing course", input: ImportInput{Items: []DraftItem{{Name: "Lapiz"}}}},
		{name: "unnamed item", input: ImportInput{CourseID: uuid.New(), Items: []DraftItem{{Name: "  "}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ImportVersion(context.Background(), tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestImportVersion_TooManyItems(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(logger, &mockListEngine{}, &mockCatalog{}, &mockClassifier{},
		matcher.New(matcher.DefaultConfig()), config.ImporterConfig{MaxItems: 2})

	_, err := svc.ImportVersion(context.Background(), ImportInput{
		CourseID: uuid.New(),
		Items:    []DraftItem{{Name: "a"}, {Name: "b"}, {Name: "c"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ===========================================================================
// ClassifyCurrent
// ===========================================================================

func TestClassifyCurrent_SubmitsOnlyUnclassifiedUntouchedItems(t *testing.T) {
	courseID := uuid.New()
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	lists := &mockListEngine{
		GetCurrentVersionFunc: func(context.Context, uuid.UUID) (*domain.ListVersion, error) {
			return &domain.ListVersion{
				VersionTS: ts,
				Items: []domain.MaterialItem{
					{ID: "item-1", Name: "Lapiz", Ordinal: 1},
					{ID: "item-2", Name: "Goma", Ordinal: 2, Validated: true},
					{ID: "item-3", Name: "Regla", Ordinal: 3, Category: strPtr("Otros"), Subject: strPtr("General")},
				},
			}, nil
		},
		ApplySuggestionsFunc: func(_ context.Context, input listversion.ApplySuggestionsInput) (*domain.ListVersion, int, error) {
			require.NotNil(t, input.VersionTS)
			assert.Equal(t, ts, *input.VersionTS, "suggestions must target the version that was read")
			return nil, len(input.Suggestions), nil
		},
	}
	var submitted []classifier.Item
	classify := &mockClassifier{
		ClassifyFunc: func(_ context.Context, items []classifier.Item) (map[string]domain.Suggestion, error) {
			submitted = items
			return map[string]domain.Suggestion{
				"item-1": {Category: strPtr("Escritura")},
			}, nil
		},
	}
	svc := newTestService(lists, &mockCatalog{}, classify)

	result, err := svc.ClassifyCurrent(context.Background(), courseID)
	require.NoError(t, err)

	require.Len(t, submitted, 1)
	assert.Equal(t, "item-1", submitted[0].ID)
	assert.Equal(t, 1, result.Submitted)
	assert.Equal(t, 1, result.Suggested)
	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, ts, result.VersionTS)
}

func TestClassifyCurrent_NothingPendingSkipsClassifier(t *testing.T) {
	lists := &mockListEngine{
		GetCurrentVersionFunc: func(context.Context, uuid.UUID) (*domain.ListVersion, error) {
			return &domain.ListVersion{
				VersionTS: time.Now().UTC(),
				Items: []domain.MaterialItem{
					{ID: "item-1", Name: "Lapiz", Category: strPtr("Escritura"), Subject: strPtr("General")},
				},
			}, nil
		},
	}
	classify := &mockClassifier{
		ClassifyFunc: func(context.Context, []classifier.Item) (map[string]domain.Suggestion, error) {
			t.Fatal("classifier must not be called when nothing is pending")
			return nil, nil
		},
	}
	svc := newTestService(lists, &mockCatalog{}, classify)

	result, err := svc.ClassifyCurrent(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Submitted)
}

func TestClassifyCurrent_ClassifierFailureSurfaces(t *testing.T) {
	lists := &mockListEngine{
		GetCurrentVersionFunc: func(context.Context, uuid.UUID) (*domain.ListVersion, error) {
			return &domain.ListVersion{
				VersionTS: time.Now().UTC(),
				Items:     []domain.MaterialItem{{ID: "item-1", Name: "Lapiz"}},
			}, nil
		},
	}
	classify := &mockClassifier{
		ClassifyFunc: func(context.Context, []classifier.Item) (map[string]domain.Suggestion, error) {
			return nil, errors.New("all models failed: service unavailable")
		},
	}
	svc := newTestService(lists, &mockCatalog{}, classify)

	_, err := svc.ClassifyCurrent(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestClassifyCurrent_NoVersionsIsNotFound(t *testing.T) {
	svc := newTestService(&mockListEngine{}, &mockCatalog{}, &mockClassifier{})

	_, err := svc.ClassifyCurrent(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
