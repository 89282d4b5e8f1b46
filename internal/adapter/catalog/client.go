// Package catalog fetches product data from the external catalog service.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/almonteweb/listaescolar-backend/internal/config"
	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// Client fetches catalog products over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Client from configuration.
func New(cfg config.CatalogConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "catalog"),
	}
}

// ListProducts returns the catalog snapshot, optionally narrowed by a
// free-text search. An empty query returns the full catalog page the
// service is willing to serve. HTTP 404 is an empty catalog, not an error.
func (c *Client) ListProducts(ctx context.Context, query string) ([]domain.CatalogEntry, error) {
	reqURL := c.baseURL + "/products"
	if query != "" {
		reqURL += "?search=" + url.QueryEscape(query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		c.log.ErrorContext(ctx, "catalog request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("catalog: request failed: %w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: unexpected status %d: %w", resp.StatusCode, domain.ErrUnavailable)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("catalog: read body: %w", err)
	}

	var products []apiProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("catalog: decode json: %w: %v", domain.ErrUnavailable, err)
	}

	entries := make([]domain.CatalogEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, p.toDomain())
	}

	c.log.DebugContext(ctx, "catalog response",
		slog.String("query", query),
		slog.Int("products", len(entries)),
	)

	return entries, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "catalog retry", slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	return c.httpClient.Do(req)
}
