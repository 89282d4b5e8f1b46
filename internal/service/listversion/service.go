// Package listversion implements the course list mutation engine. Every
// operation targets one version inside a course's history, mutates it, and
// writes the whole history back under the revision read with it, so a
// concurrent writer gets a conflict instead of silently losing its edit.
package listversion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type courseRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error)
	SaveVersions(ctx context.Context, id uuid.UUID, versions []domain.ListVersion, revision int64) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the list version business logic.
type Service struct {
	log     *slog.Logger
	courses courseRepo
	tx      txManager
}

// NewService creates a new list version service.
func NewService(logger *slog.Logger, courses courseRepo, tx txManager) *Service {
	return &Service{
		log:     logger.With("service", "listversion"),
		courses: courses,
		tx:      tx,
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// versionIndex locates the version an operation targets. A nil versionTS
// selects the current version; an explicit timestamp must match a version
// exactly. An empty history is a not-found, not an empty result.
func versionIndex(c *domain.Course, versionTS *time.Time) (int, error) {
	if versionTS != nil {
		for i := range c.Versions {
			if c.Versions[i].VersionTS.Equal(*versionTS) {
				return i, nil
			}
		}
		return -1, fmt.Errorf("course %s: version %s: %w",
			c.ID, versionTS.UTC().Format(time.RFC3339Nano), domain.ErrNotFound)
	}

	idx := domain.CurrentVersionIndex(c.Versions)
	if idx < 0 {
		return -1, fmt.Errorf("course %s has no versions: %w", c.ID, domain.ErrNotFound)
	}
	return idx, nil
}

// mutateVersion runs fn against the targeted version, bumps its modified
// timestamp, and persists the full history under the revision it was read
// with. The read and the write share one transaction. Returns the version as
// stored.
func (s *Service) mutateVersion(ctx context.Context, courseID uuid.UUID, versionTS *time.Time, fn func(v *domain.ListVersion) error) (*domain.ListVersion, error) {
	var stored domain.ListVersion

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		course, err := s.courses.GetByID(txCtx, courseID)
		if err != nil {
			return err
		}

		idx, err := versionIndex(course, versionTS)
		if err != nil {
			return err
		}

		v := &course.Versions[idx]
		if err := fn(v); err != nil {
			return err
		}
		v.Touch(time.Now().UTC())

		if err := s.courses.SaveVersions(txCtx, courseID, course.Versions, course.Revision); err != nil {
			return fmt.Errorf("save versions: %w", err)
		}

		stored = *v
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &stored, nil
}
