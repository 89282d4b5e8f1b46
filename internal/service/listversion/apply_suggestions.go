package listversion

import (
	"context"
	"log/slog"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 4. ApplySuggestions
// ---------------------------------------------------------------------------

// ApplySuggestions folds automated category/subject suggestions into a
// version. Items a human has already validated or approved are never
// overwritten, and suggestions for unknown ids are ignored. Returns the
// stored version and the number of items changed.
func (s *Service) ApplySuggestions(ctx context.Context, input ApplySuggestionsInput) (*domain.ListVersion, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}

	var applied int
	stored, err := s.mutateVersion(ctx, input.CourseID, input.VersionTS, func(v *domain.ListVersion) error {
		applied = v.ApplySuggestions(input.Suggestions)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	s.log.InfoContext(ctx, "suggestions applied",
		slog.String("course_id", input.CourseID.String()),
		slog.Int("suggested", len(input.Suggestions)),
		slog.Int("applied", applied),
	)
	return stored, applied, nil
}
