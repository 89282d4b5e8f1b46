package course

import (
	"context"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// List returns courses matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	return s.courses.List(ctx, filter)
}
