// Package importer orchestrates turning a batch of extracted draft items
// into a new persisted list version: catalog matching, batch classification,
// ordinal assignment, and the final all-or-nothing write through the list
// version engine.
package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/adapter/classifier"
	"github.com/almonteweb/listaescolar-backend/internal/config"
	"github.com/almonteweb/listaescolar-backend/internal/domain"
	"github.com/almonteweb/listaescolar-backend/internal/matcher"
	"github.com/almonteweb/listaescolar-backend/internal/service/listversion"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type listEngine interface {
	ReplaceVersion(ctx context.Context, input listversion.ReplaceVersionInput) (*domain.ListVersion, error)
	ApplySuggestions(ctx context.Context, input listversion.ApplySuggestionsInput) (*domain.ListVersion, int, error)
	GetCurrentVersion(ctx context.Context, courseID uuid.UUID) (*domain.ListVersion, error)
}

type catalogClient interface {
	ListProducts(ctx context.Context, query string) ([]domain.CatalogEntry, error)
}

type classifierClient interface {
	Classify(ctx context.Context, items []classifier.Item) (map[string]domain.Suggestion, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the import business logic.
type Service struct {
	log        *slog.Logger
	lists      listEngine
	catalog    catalogClient
	classifier classifierClient
	matcher    *matcher.Matcher
	cfg        config.ImporterConfig
}

// NewService creates a new import service.
func NewService(
	logger *slog.Logger,
	lists listEngine,
	catalog catalogClient,
	classify classifierClient,
	match *matcher.Matcher,
	cfg config.ImporterConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "importer"),
		lists:      lists,
		catalog:    catalog,
		classifier: classify,
		matcher:    match,
		cfg:        cfg,
	}
}
