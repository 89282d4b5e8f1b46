// Package course implements course lifecycle logic: creation, filtered
// listing, and deactivation. Courses are never deleted; a course that no
// longer runs is deactivated so its list history stays reachable.
package course

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type courseRepo interface {
	Create(ctx context.Context, c *domain.Course) (*domain.Course, error)
	List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the course business logic.
type Service struct {
	log     *slog.Logger
	courses courseRepo
}

// NewService creates a new course service.
func NewService(logger *slog.Logger, courses courseRepo) *Service {
	return &Service{
		log:     logger.With("service", "course"),
		courses: courses,
	}
}
