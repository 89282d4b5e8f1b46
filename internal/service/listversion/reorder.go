package listversion

import (
	"context"
	"log/slog"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 2. Reorder
// ---------------------------------------------------------------------------

// Reorder rewrites a version's item order to follow input.OrderedIDs and
// applies any category/subject overrides in the same write. Omitting items
// is tolerated: they are appended after the ordered ones in their prior
// relative order. Unknown ids are skipped. Returns the version as stored.
func (s *Service) Reorder(ctx context.Context, input ReorderInput) (*domain.ListVersion, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.mutateVersion(ctx, input.CourseID, input.VersionTS, func(v *domain.ListVersion) error {
		v.Reorder(input.OrderedIDs, input.Overrides)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "version reordered",
		slog.String("course_id", input.CourseID.String()),
		slog.Int("ordered", len(input.OrderedIDs)),
		slog.Int("overrides", len(input.Overrides)),
	)
	return stored, nil
}
