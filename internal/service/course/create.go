package course

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// Create registers a new course with an empty list history.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Course, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.courses.Create(ctx, &domain.Course{
		ID:     uuid.New(),
		School: strings.TrimSpace(input.School),
		Level:  strings.TrimSpace(input.Level),
		Grade:  strings.TrimSpace(input.Grade),
		Year:   input.Year,
		Active: true,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "course created",
		slog.String("course_id", created.ID.String()),
		slog.String("school", created.School),
		slog.Int("year", created.Year),
	)
	return created, nil
}
