// Package course implements the course repository using PostgreSQL.
// The version history of a course is persisted as one opaque JSONB document
// per row; all mutations are read-modify-write over the whole document,
// guarded by a revision counter so a stale writer is rejected instead of
// silently overwriting a concurrent edit.
package course

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/almonteweb/listaescolar-backend/internal/adapter/postgres"
	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// Repo provides course persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// New creates a new course repository.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Repo {
	return &Repo{
		pool: pool,
		log:  logger.With("adapter", "course_repo"),
	}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

const getCourseSQL = `
SELECT id, school, level, grade, year, active, versions, revision, created_at, updated_at
FROM courses
WHERE id = $1`

// GetByID returns a course with its full version history and the revision
// token required for SaveVersions. Returns domain.ErrNotFound if no such
// course exists.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Course, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		c        domain.Course
		versions []byte
	)
	err := q.QueryRow(ctx, getCourseSQL, id).Scan(
		&c.ID, &c.School, &c.Level, &c.Grade, &c.Year, &c.Active,
		&versions, &c.Revision, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, postgres.MapError(err, "course", id)
	}

	c.Versions = r.decodeVersions(ctx, id, versions)
	return &c, nil
}

const (
	// Default and maximum page size for List.
	defaultLimit = 50
	maxLimit     = 200
)

func normalizeFilter(f *domain.CourseFilter) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// List returns courses matching the filter, newest first. The version
// history is loaded for each row; list pages are small enough that this
// stays cheap.
func (r *Repo) List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error) {
	normalizeFilter(&filter)

	builder := sq.Select(
		"id", "school", "level", "grade", "year", "active",
		"versions", "revision", "created_at", "updated_at",
	).
		From("courses").
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(sq.Dollar)

	if filter.School != nil {
		builder = builder.Where(sq.Eq{"school": *filter.School})
	}
	if filter.Level != nil {
		builder = builder.Where(sq.Eq{"level": *filter.Level})
	}
	if filter.Year != nil {
		builder = builder.Where(sq.Eq{"year": *filter.Year})
	}
	if filter.Active != nil {
		builder = builder.Where(sq.Eq{"active": *filter.Active})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		var (
			c        domain.Course
			versions []byte
		)
		if err := rows.Scan(
			&c.ID, &c.School, &c.Level, &c.Grade, &c.Year, &c.Active,
			&versions, &c.Revision, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		c.Versions = r.decodeVersions(ctx, c.ID, versions)
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	return courses, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const insertCourseSQL = `
INSERT INTO courses (id, school, level, grade, year, active, versions, revision, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $8)`

// Create inserts a new course with an empty version history.
func (r *Repo) Create(ctx context.Context, c *domain.Course) (*domain.Course, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	doc, err := encodeVersions(c.Versions)
	if err != nil {
		return nil, fmt.Errorf("encode versions: %w", err)
	}

	now := time.Now().UTC()
	_, err = q.Exec(ctx, insertCourseSQL,
		c.ID, c.School, c.Level, c.Grade, c.Year, c.Active, doc, now,
	)
	if err != nil {
		return nil, postgres.MapError(err, "course", c.ID)
	}

	created := *c
	created.Revision = 0
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

const saveVersionsSQL = `
UPDATE courses
SET versions = $2, revision = revision + 1, updated_at = $3
WHERE id = $1 AND revision = $4`

// SaveVersions writes back the full version history. The revision must be
// the value read together with the history; when it is stale the write is
// rejected with domain.ErrConflict and nothing is persisted.
func (r *Repo) SaveVersions(ctx context.Context, id uuid.UUID, versions []domain.ListVersion, revision int64) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	doc, err := encodeVersions(versions)
	if err != nil {
		return fmt.Errorf("encode versions: %w", err)
	}

	tag, err := q.Exec(ctx, saveVersionsSQL, id, doc, time.Now().UTC(), revision)
	if err != nil {
		return postgres.MapError(err, "course", id)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows: either the course vanished or the revision is stale.
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, id).Scan(&exists); err != nil {
		return postgres.MapError(err, "course", id)
	}
	if !exists {
		return fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("course %s: revision %d is stale: %w", id, revision, domain.ErrConflict)
}

const setActiveSQL = `
UPDATE courses SET active = $2, updated_at = $3 WHERE id = $1`

// SetActive flips the active flag. Courses are never deleted.
func (r *Repo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := q.Exec(ctx, setActiveSQL, id, active, time.Now().UTC())
	if err != nil {
		return postgres.MapError(err, "course", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("course %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Version document codec
// ---------------------------------------------------------------------------

func encodeVersions(versions []domain.ListVersion) ([]byte, error) {
	if versions == nil {
		versions = []domain.ListVersion{}
	}
	return json.Marshal(versions)
}

// decodeVersions unmarshals the stored history document. A missing or
// malformed document is treated as an empty history, never a fatal error:
// the row may predate this service or have been mangled by hand.
func (r *Repo) decodeVersions(ctx context.Context, id uuid.UUID, doc []byte) []domain.ListVersion {
	if len(doc) == 0 {
		return nil
	}

	var versions []domain.ListVersion
	if err := json.Unmarshal(doc, &versions); err != nil {
		r.log.WarnContext(ctx, "malformed versions document, treating as empty",
			slog.String("course_id", id.String()),
			slog.String("error", err.Error()),
		)
		return nil
	}
	return versions
}

