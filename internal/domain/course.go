package domain

import (
	"time"

	"github.com/google/uuid"
)

// Course identifies a school class that owns a supply-list history.
// Courses are never deleted, only deactivated.
type Course struct {
	ID     uuid.UUID
	School string
	Level  string
	Grade  string
	Year   int
	Active bool

	// Versions is the append-only list history, oldest first by insertion
	// order. The authoritative version is selected by timestamp, not
	// position; see CurrentVersionIndex.
	Versions []ListVersion

	// Revision is the optimistic-concurrency token for the version history.
	// Every SaveVersions must present the revision it read; a stale revision
	// is rejected with ErrConflict instead of silently overwriting.
	Revision int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CourseFilter defines parameters for listing courses. Nil fields are not
// filtered on.
type CourseFilter struct {
	School *string
	Level  *string
	Year   *int
	Active *bool

	Limit  int
	Offset int
}

// CurrentVersion returns the authoritative version for editing/display.
// Returns nil, false when the course has no versions.
func (c *Course) CurrentVersion() (*ListVersion, bool) {
	idx := CurrentVersionIndex(c.Versions)
	if idx < 0 {
		return nil, false
	}
	return &c.Versions[idx], true
}
