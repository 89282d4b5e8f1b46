package listversion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 7. Reads
// ---------------------------------------------------------------------------

// GetCurrentVersion returns the authoritative version of a course's list:
// the one with the greatest effective timestamp, not the last array element.
// A course with no versions is a not-found.
func (s *Service) GetCurrentVersion(ctx context.Context, courseID uuid.UUID) (*domain.ListVersion, error) {
	if courseID == uuid.Nil {
		return nil, domain.NewValidationError("course_id", "required")
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	idx := domain.CurrentVersionIndex(course.Versions)
	if idx < 0 {
		return nil, fmt.Errorf("course %s has no versions: %w", courseID, domain.ErrNotFound)
	}

	version := course.Versions[idx]
	return &version, nil
}

// GetVersion returns one version selected the way mutations select theirs:
// nil versionTS means current, an explicit timestamp must match exactly.
func (s *Service) GetVersion(ctx context.Context, courseID uuid.UUID, versionTS *time.Time) (*domain.ListVersion, error) {
	if courseID == uuid.Nil {
		return nil, domain.NewValidationError("course_id", "required")
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	idx, err := versionIndex(course, versionTS)
	if err != nil {
		return nil, err
	}

	version := course.Versions[idx]
	return &version, nil
}

// ListVersions returns history summaries for a course, in storage order. An
// empty history yields an empty slice, not an error.
func (s *Service) ListVersions(ctx context.Context, courseID uuid.UUID) ([]VersionSummary, error) {
	if courseID == uuid.Nil {
		return nil, domain.NewValidationError("course_id", "required")
	}

	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	current := domain.CurrentVersionIndex(course.Versions)
	summaries := make([]VersionSummary, 0, len(course.Versions))
	for i := range course.Versions {
		v := &course.Versions[i]
		summaries = append(summaries, VersionSummary{
			VersionTS:      v.VersionTS,
			ModifiedTS:     v.ModifiedTS,
			SourceDocument: v.SourceDocument,
			ItemCount:      len(v.Items),
			Current:        i == current,
		})
	}
	return summaries, nil
}
