package importer

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/adapter/classifier"
	"github.com/almonteweb/listaescolar-backend/internal/domain"
	"github.com/almonteweb/listaescolar-backend/internal/service/listversion"
)

// ---------------------------------------------------------------------------
// 1. ImportVersion
// ---------------------------------------------------------------------------

// ImportVersion turns extracted draft items into a new persisted list
// version. Matching and classification are best-effort: a catalog fetch
// failure degrades every item to unmatched, a classifier failure leaves
// items unclassified, and in both cases the import still completes. Only the
// final write can abort it, and then nothing is persisted.
func (s *Service) ImportVersion(ctx context.Context, input ImportInput) (*ImportResult, error) {
	if err := input.Validate(s.cfg.MaxItems); err != nil {
		return nil, err
	}

	result := &ImportResult{Imported: len(input.Items)}

	// One catalog snapshot per import; every item is matched against it.
	snapshot, err := s.catalog.ListProducts(ctx, "")
	if err != nil {
		s.log.WarnContext(ctx, "catalog fetch failed, importing all items as unmatched",
			slog.String("course_id", input.CourseID.String()),
			slog.String("error", err.Error()),
		)
		snapshot = nil
		result.Degraded = true
	}

	items, scores := s.buildItems(input.Items, snapshot, result)

	version := domain.ListVersion{Items: items}
	if hasExplicitOrdinals(input.Items) {
		version.SortItemsByOrdinal()
	}

	s.classifyMissing(ctx, input.CourseID, &version, result)

	stored, err := s.lists.ReplaceVersion(ctx, listversion.ReplaceVersionInput{
		CourseID:       input.CourseID,
		SourceDocument: input.SourceDocument,
		Items:          version.Items,
	})
	if err != nil {
		return nil, err
	}

	result.VersionTS = stored.VersionTS
	result.Items = outcomes(stored.Items, scores)

	s.log.InfoContext(ctx, "version imported",
		slog.String("course_id", input.CourseID.String()),
		slog.Int("imported", result.Imported),
		slog.Int("matched", result.Matched),
		slog.Int("ambiguous", result.Ambiguous),
		slog.Int("unmatched", result.Unmatched),
		slog.Int("classified", result.Classified),
		slog.Bool("degraded", result.Degraded),
	)
	return result, nil
}

// buildItems materializes drafts into items with fresh ids, defaults, and
// catalog link state. Ids follow extraction order regardless of any explicit
// ordinals, so outcomes stay traceable to the source lines.
func (s *Service) buildItems(drafts []DraftItem, snapshot []domain.CatalogEntry, result *ImportResult) ([]domain.MaterialItem, map[string]float64) {
	now := time.Now().UTC()
	items := make([]domain.MaterialItem, 0, len(drafts))
	scores := make(map[string]float64, len(drafts))

	for i, draft := range drafts {
		quantity := draft.Quantity
		if quantity == 0 {
			quantity = 1
		}
		purchasable := true
		if draft.Purchasable != nil {
			purchasable = *draft.Purchasable
		}
		ordinal := draft.Ordinal
		if ordinal <= 0 {
			ordinal = i + 1
		}

		item := domain.MaterialItem{
			ID:          "item-" + strconv.Itoa(i+1),
			Name:        strings.TrimSpace(draft.Name),
			Quantity:    quantity,
			ISBN:        draft.ISBN,
			Brand:       draft.Brand,
			Price:       draft.Price,
			Ordinal:     ordinal,
			Category:    draft.Category,
			Subject:     draft.Subject,
			Mandatory:   draft.Mandatory,
			Purchasable: purchasable,
			CreatedAt:   now,
		}

		match := s.matcher.Match(item.Name, snapshot)
		item.LinkState = match.State
		scores[item.ID] = match.Score
		switch match.State {
		case domain.LinkStateMatched:
			item.CatalogRef = &match.Entry.ID
			result.Matched++
		case domain.LinkStateAmbiguous:
			result.Ambiguous++
		default:
			result.Unmatched++
		}

		items = append(items, item)
	}

	return items, scores
}

// classifyMissing batch-classifies every item that arrived without a
// category and subject, folding the suggestions back in. A classifier
// failure leaves the items unclassified and the import goes on.
func (s *Service) classifyMissing(ctx context.Context, courseID uuid.UUID, version *domain.ListVersion, result *ImportResult) {
	var pending []classifier.Item
	for i := range version.Items {
		it := &version.Items[i]
		if it.Category == nil && it.Subject == nil {
			pending = append(pending, classifier.Item{ID: it.ID, Name: it.Name})
		}
	}
	if len(pending) == 0 {
		return
	}

	suggestions, err := s.classifier.Classify(ctx, pending)
	if err != nil {
		s.log.WarnContext(ctx, "classification failed, items left unclassified",
			slog.String("course_id", courseID.String()),
			slog.Int("items", len(pending)),
			slog.String("error", err.Error()),
		)
		result.Degraded = true
		return
	}

	result.Classified = version.ApplySuggestions(suggestions)
}

// hasExplicitOrdinals reports whether the source supplied its own ordering.
func hasExplicitOrdinals(drafts []DraftItem) bool {
	for _, d := range drafts {
		if d.Ordinal > 0 {
			return true
		}
	}
	return false
}

// outcomes builds the per-item audit trail from the stored version.
func outcomes(items []domain.MaterialItem, scores map[string]float64) []ItemOutcome {
	out := make([]ItemOutcome, 0, len(items))
	for i := range items {
		it := &items[i]
		out = append(out, ItemOutcome{
			ItemID:     it.ID,
			Name:       it.Name,
			Ordinal:    it.Ordinal,
			LinkState:  it.LinkState,
			Score:      scores[it.ID],
			CatalogRef: it.CatalogRef,
			Classified: it.Category != nil || it.Subject != nil,
		})
	}
	return out
}
