package listversion

import (
	"context"
	"log/slog"
	"time"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// 3. ReplaceVersion
// ---------------------------------------------------------------------------

// ReplaceVersion appends a new version to a course's history and makes it
// current. Earlier versions stay in place untouched; the history is
// append-only. Returns the stored version.
func (s *Service) ReplaceVersion(ctx context.Context, input ReplaceVersionInput) (*domain.ListVersion, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	version := domain.ListVersion{
		VersionTS:      now,
		ModifiedTS:     now,
		SourceDocument: input.SourceDocument,
		Items:          input.Items,
	}
	if version.Items == nil {
		version.Items = []domain.MaterialItem{}
	}

	var stored domain.ListVersion
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		course, err := s.courses.GetByID(txCtx, input.CourseID)
		if err != nil {
			return err
		}

		course.Versions = append(course.Versions, version)
		if err := s.courses.SaveVersions(txCtx, input.CourseID, course.Versions, course.Revision); err != nil {
			return err
		}

		stored = course.Versions[len(course.Versions)-1]
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	s.log.InfoContext(ctx, "version replaced",
		slog.String("course_id", input.CourseID.String()),
		slog.Time("version_ts", stored.VersionTS),
		slog.Int("items", len(stored.Items)),
	)
	return &stored, nil
}
