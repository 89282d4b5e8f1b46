// Package classifier suggests a subject and category for material items by
// sending batched prompts to a text-classification backend. Classification
// is best-effort enrichment: callers must never block item creation on it.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/almonteweb/listaescolar-backend/internal/config"
	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// Item is one (id, name) pair submitted for classification.
type Item struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// completeFunc produces the raw model output for a prompt. It exists so
// tests can run without the real API.
type completeFunc func(ctx context.Context, model, prompt string) (string, error)

// Client classifies item batches, falling back across an ordered list of
// backend models until one returns a parseable result.
type Client struct {
	models   []string
	timeout  time.Duration
	log      *slog.Logger
	complete completeFunc
}

// New creates a Client backed by the Anthropic API.
func New(cfg config.ClassifierConfig, logger *slog.Logger) *Client {
	api := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}

	return &Client{
		models:  cfg.Models,
		timeout: timeout,
		log:     logger.With("adapter", "classifier"),
		complete: func(ctx context.Context, model, prompt string) (string, error) {
			msg, err := api.Messages.New(ctx, anthropic.MessageNewParams{
				Model:     anthropic.Model(model),
				MaxTokens: maxTokens,
				Messages: []anthropic.MessageParam{
					anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
				},
			})
			if err != nil {
				return "", err
			}
			if len(msg.Content) == 0 {
				return "", fmt.Errorf("empty response")
			}
			return msg.Content[0].Text, nil
		},
	}
}

// Classify sends one batched request per call and returns suggestions keyed
// by item id. Coverage may be partial: ids the model skipped are simply
// absent, and unknown ids in the response are dropped. When every configured
// model fails the aggregated error wraps domain.ErrUnavailable.
func (c *Client) Classify(ctx context.Context, items []Item) (map[string]domain.Suggestion, error) {
	if len(items) == 0 {
		return map[string]domain.Suggestion{}, nil
	}
	if len(c.models) == 0 {
		return nil, fmt.Errorf("classifier: no models configured: %w", domain.ErrUnavailable)
	}

	prompt, err := buildPrompt(items)
	if err != nil {
		return nil, fmt.Errorf("classifier: build prompt: %w", err)
	}

	var attempts []error
	for _, model := range c.models {
		result, err := c.classifyWith(ctx, model, prompt, items)
		if err == nil {
			return result, nil
		}

		c.log.WarnContext(ctx, "classifier model failed, trying next",
			slog.String("model", model),
			slog.String("error", err.Error()),
		)
		attempts = append(attempts, fmt.Errorf("%s: %w", model, err))

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("classifier: all models failed: %w: %w", domain.ErrUnavailable, errors.Join(attempts...))
}

// classifyWith runs one model attempt under the per-attempt timeout.
func (c *Client) classifyWith(ctx context.Context, model, prompt string, items []Item) (map[string]domain.Suggestion, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.complete(attemptCtx, model, prompt)
	if err != nil {
		return nil, err
	}

	return parseSuggestions(raw, items)
}

// buildPrompt creates the batched classification prompt.
func buildPrompt(items []Item) (string, error) {
	itemsJSON, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are cataloging school supply lists for Chilean schools.

For each item below, suggest a school subject ("subject", e.g. "Matemática",
"Lenguaje", "Historia", "Ciencias", "Arte", "Educación Física", or "General"
when the item is not subject-specific) and a product category ("category",
e.g. "Cuadernos", "Escritura", "Papelería", "Libros", "Arte", "Otros").

Items:
%s

Output ONLY a valid JSON object mapping each item id to its suggestion:
{
  "<id>": {"category": "<category>", "subject": "<subject>"}
}

Rules:
- Use exactly the ids given; do not invent ids
- Omit an id entirely if you cannot classify it
- Output ONLY the JSON, no markdown, no explanations`, itemsJSON), nil
}

// apiSuggestion is the wire shape of one suggestion in the model output.
type apiSuggestion struct {
	Category string `json:"category"`
	Subject  string `json:"subject"`
}

// parseSuggestions extracts and validates the suggestion map from raw model
// output. Entries for ids that were not submitted are dropped silently.
func parseSuggestions(raw string, items []Item) (map[string]domain.Suggestion, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var parsed map[string]apiSuggestion
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	submitted := make(map[string]bool, len(items))
	for _, it := range items {
		submitted[it.ID] = true
	}

	result := make(map[string]domain.Suggestion, len(parsed))
	for id, sug := range parsed {
		if !submitted[id] {
			continue
		}
		var s domain.Suggestion
		if cat := strings.TrimSpace(sug.Category); cat != "" {
			s.Category = &cat
		}
		if sub := strings.TrimSpace(sug.Subject); sub != "" {
			s.Subject = &sub
		}
		if s.Category == nil && s.Subject == nil {
			continue
		}
		result[id] = s
	}

	return result, nil
}

// extractJSON finds the first complete JSON object in a string. Models wrap
// output in prose or markdown fences often enough that the outermost {...}
// span is taken instead of trusting the raw text.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
