package importer

import (
	"time"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ImportResult summarizes one completed import.
type ImportResult struct {
	VersionTS  time.Time
	Imported   int
	Matched    int
	Ambiguous  int
	Unmatched  int
	Classified int
	Degraded   bool // catalog or classifier failed; items fell back
	Items      []ItemOutcome
}

// ItemOutcome records what happened to one imported item.
type ItemOutcome struct {
	ItemID     string
	Name       string
	Ordinal    int
	LinkState  domain.CatalogLinkState
	Score      float64
	CatalogRef *string
	Classified bool
}

// ClassifyResult summarizes an on-demand classification pass over the
// current version.
type ClassifyResult struct {
	VersionTS time.Time
	Submitted int
	Suggested int
	Applied   int
}
