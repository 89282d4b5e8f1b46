package course

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// Deactivate retires a course. Its version history stays readable; only new
// imports and edits stop making sense for it.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.NewValidationError("course_id", "required")
	}

	if err := s.courses.SetActive(ctx, id, false); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "course deactivated", slog.String("course_id", id.String()))
	return nil
}
