package classifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

func newTestClient(models []string, complete completeFunc) *Client {
	return &Client{
		models:   models,
		timeout:  time.Second,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		complete: complete,
	}
}

func TestClassify_Success(t *testing.T) {
	c := newTestClient([]string{"model-a"}, func(_ context.Context, model, prompt string) (string, error) {
		assert.Equal(t, "model-a", model)
		assert.Contains(t, prompt, "item-1")
		assert.Contains(t, prompt, "Cuaderno universitario")
		return `{"item-1": {"category": "Cuadernos", "subject": "General"}}`, nil
	})

	got, err := c.Classify(context.Background(), []Item{
		{ID: "item-1", Name: "Cuaderno universitario"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got["item-1"].Category)
	assert.Equal(t, "Cuadernos", *got["item-1"].Category)
	require.NotNil(t, got["item-1"].Subject)
	assert.Equal(t, "General", *got["item-1"].Subject)
}

func TestClassify_EmptyBatch(t *testing.T) {
	c := newTestClient([]string{"model-a"}, func(context.Context, string, string) (string, error) {
		t.Fatal("complete should not be called for an empty batch")
		return "", nil
	})

	got, err := c.Classify(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClassify_NoModelsConfigured(t *testing.T) {
	c := newTestClient(nil, nil)

	_, err := c.Classify(context.Background(), []Item{{ID: "item-1", Name: "Lapiz"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClassify_FallbackToSecondModel(t *testing.T) {
	var calls []string
	c := newTestClient([]string{"model-a", "model-b"}, func(_ context.Context, model, _ string) (string, error) {
		calls = append(calls, model)
		if model == "model-a" {
			return "", errors.New("overloaded")
		}
		return `{"item-1": {"category": "Escritura", "subject": "General"}}`, nil
	})

	got, err := c.Classify(context.Background(), []Item{{ID: "item-1", Name: "Lapiz grafito"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"model-a", "model-b"}, calls)
	assert.Len(t, got, 1)
}

func TestClassify_RetriesOnMalformedOutput(t *testing.T) {
	var calls int
	c := newTestClient([]string{"model-a", "model-b"}, func(context.Context, string, string) (string, error) {
		calls++
		if calls == 1 {
			return "I could not produce JSON for these items.", nil
		}
		return `{"item-1": {"category": "Otros", "subject": "General"}}`, nil
	})

	got, err := c.Classify(context.Background(), []Item{{ID: "item-1", Name: "Mochila"}})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Len(t, got, 1)
}

func TestClassify_AllModelsFail(t *testing.T) {
	c := newTestClient([]string{"model-a", "model-b"}, func(_ context.Context, model, _ string) (string, error) {
		return "", fmt.Errorf("%s is down", model)
	})

	_, err := c.Classify(context.Background(), []Item{{ID: "item-1", Name: "Lapiz"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Contains(t, err.Error(), "model-a is down")
	assert.Contains(t, err.Error(), "model-b is down")
}

func TestClassify_DropsUnknownIDs(t *testing.T) {
	c := newTestClient([]string{"model-a"}, func(context.Context, string, string) (string, error) {
		return `{
			"item-1": {"category": "Cuadernos", "subject": "General"},
			"item-99": {"category": "Otros", "subject": "General"}
		}`, nil
	})

	got, err := c.Classify(context.Background(), []Item{{ID: "item-1", Name: "Cuaderno"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	_, ok := got["item-99"]
	assert.False(t, ok)
}

func TestClassify_SkipsEmptySuggestions(t *testing.T) {
	c := newTestClient([]string{"model-a"}, func(context.Context, string, string) (string, error) {
		return `{
			"item-1": {"category": "", "subject": "  "},
			"item-2": {"category": "Arte"}
		}`, nil
	})

	got, err := c.Classify(context.Background(), []Item{
		{ID: "item-1", Name: "Cosa rara"},
		{ID: "item-2", Name: "Tempera 12 colores"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got["item-2"].Category)
	assert.Equal(t, "Arte", *got["item-2"].Category)
	assert.Nil(t, got["item-2"].Subject)
}

func TestClassify_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	c := newTestClient([]string{"model-a", "model-b"}, func(context.Context, string, string) (string, error) {
		calls++
		cancel()
		return "", errors.New("interrupted")
	})

	_, err := c.Classify(ctx, []Item{{ID: "item-1", Name: "Lapiz"}})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "remaining models should be skipped after cancellation")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "bare object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "markdown fence", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "surrounding prose", in: `Here you go: {"a":1} hope it helps`, want: `{"a":1}`},
		{name: "no object", in: "sorry, no can do", wantErr: true},
		{name: "reversed braces", in: "} {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSON(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
