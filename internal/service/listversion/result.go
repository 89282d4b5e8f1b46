package listversion

import (
	"time"
)

// VersionSummary describes one version in a course's history without its
// items.
type VersionSummary struct {
	VersionTS      time.Time
	ModifiedTS     time.Time
	SourceDocument string
	ItemCount      int
	Current        bool
}
