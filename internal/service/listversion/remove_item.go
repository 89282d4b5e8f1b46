package listversion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 6. RemoveItem
// ---------------------------------------------------------------------------

// RemoveItem deletes one item from a version and renumbers the remaining
// ordinals so they stay contiguous.
func (s *Service) RemoveItem(ctx context.Context, input RemoveItemInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	_, err := s.mutateVersion(ctx, input.CourseID, input.VersionTS, func(v *domain.ListVersion) error {
		if !v.RemoveItem(input.ItemID) {
			return fmt.Errorf("item %s: %w", input.ItemID, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.InfoContext(ctx, "item removed",
		slog.String("course_id", input.CourseID.String()),
		slog.String("item_id", input.ItemID),
	)
	return nil
}
