package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedCourse creates an active course with an empty version history.
// Returns a filled domain.Course.
func SeedCourse(t *testing.T, pool *pgxpool.Pool) domain.Course {
	t.Helper()
	return SeedCourseWithVersions(t, pool)
}

// SeedCourseWithVersions creates an active course whose version history holds
// the given versions, oldest first. Returns a filled domain.Course with
// revision 0, the value a fresh read would return.
func SeedCourseWithVersions(t *testing.T, pool *pgxpool.Pool, versions ...domain.ListVersion) domain.Course {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	course := domain.Course{
		ID:        uuid.New(),
		School:    "Colegio " + suffix,
		Level:     "basica",
		Grade:     "3A",
		Year:      now.Year(),
		Active:    true,
		Versions:  versions,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if course.Versions == nil {
		course.Versions = []domain.ListVersion{}
	}
	doc, err := json.Marshal(course.Versions)
	if err != nil {
		t.Fatalf("testhelper: SeedCourseWithVersions marshal versions: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO courses (id, school, level, grade, year, active, versions, revision, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $8)`,
		course.ID, course.School, course.Level, course.Grade, course.Year, course.Active, doc, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCourseWithVersions insert course: %v", err)
	}

	return course
}

// TestVersion builds a list version with two items, suitable for seeding.
// VersionTS and ModifiedTS are both set to ts.
func TestVersion(ts time.Time) domain.ListVersion {
	return domain.ListVersion{
		VersionTS:      ts,
		ModifiedTS:     ts,
		SourceDocument: "lista-" + ts.Format("2006") + ".pdf",
		Items: []domain.MaterialItem{
			{
				ID:          "item-1",
				Name:        "Lapiz grafito",
				Quantity:    2,
				Ordinal:     1,
				Mandatory:   true,
				Purchasable: true,
				LinkState:   domain.LinkStateUnmatched,
				CreatedAt:   ts,
			},
			{
				ID:          "item-2",
				Name:        "Goma de borrar",
				Quantity:    1,
				Ordinal:     2,
				Purchasable: true,
				LinkState:   domain.LinkStateUnmatched,
				CreatedAt:   ts,
			},
		},
	}
}
