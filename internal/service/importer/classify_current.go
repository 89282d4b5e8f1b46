package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/adapter/classifier"
	"github.com/almonteweb/listaescolar-backend/internal/domain"
	"github.com/almonteweb/listaescolar-backend/internal/service/listversion"
)

// ---------------------------------------------------------------------------
// 2. ClassifyCurrent
// ---------------------------------------------------------------------------

// ClassifyCurrent runs the classifier over every item of the current version
// that still lacks a category or subject and has not been validated or
// approved, then folds the suggestions back in. Unlike during import, a
// classifier failure here is surfaced: the caller asked for classification
// explicitly and there is nothing else to deliver.
func (s *Service) ClassifyCurrent(ctx context.Context, courseID uuid.UUID) (*ClassifyResult, error) {
	if courseID == uuid.Nil {
		return nil, domain.NewValidationError("course_id", "required")
	}

	version, err := s.lists.GetCurrentVersion(ctx, courseID)
	if err != nil {
		return nil, err
	}

	result := &ClassifyResult{VersionTS: version.VersionTS}

	var pending []classifier.Item
	for i := range version.Items {
		it := &version.Items[i]
		if it.Validated || it.Approved {
			continue
		}
		if it.Category == nil || it.Subject == nil {
			pending = append(pending, classifier.Item{ID: it.ID, Name: it.Name})
		}
	}
	result.Submitted = len(pending)
	if len(pending) == 0 {
		return result, nil
	}

	suggestions, err := s.classifier.Classify(ctx, pending)
	if err != nil {
		return nil, err
	}
	result.Suggested = len(suggestions)
	if len(suggestions) == 0 {
		return result, nil
	}

	// Target the exact version we read; if a concurrent import replaced it,
	// the suggestions belong to the old items and must not land on the new
	// ones.
	versionTS := version.VersionTS
	_, applied, err := s.lists.ApplySuggestions(ctx, listversion.ApplySuggestionsInput{
		CourseID:    courseID,
		VersionTS:   &versionTS,
		Suggestions: suggestions,
	})
	if err != nil {
		return nil, err
	}
	result.Applied = applied

	s.log.InfoContext(ctx, "current version classified",
		slog.String("course_id", courseID.String()),
		slog.Int("submitted", result.Submitted),
		slog.Int("suggested", result.Suggested),
		slog.Int("applied", result.Applied),
	)
	return result, nil
}
