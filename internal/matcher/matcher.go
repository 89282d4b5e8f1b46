// Package matcher links free-text item names to catalog products using a
// normalized edit-distance score. It is pure: the caller supplies the catalog
// snapshot and is responsible for its freshness.
package matcher

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// Config holds the decision thresholds. Scores are in [0, 1].
type Config struct {
	// HighThreshold and above is an automatic match.
	HighThreshold float64
	// Below LowThreshold no candidate is considered at all.
	LowThreshold float64
	// AmbiguityBand: when two or more candidates score within this distance
	// of the best one (and the best is below HighThreshold), the result is
	// ambiguous and needs human resolution.
	AmbiguityBand float64
}

// DefaultConfig returns the tuned production thresholds.
func DefaultConfig() Config {
	return Config{
		HighThreshold: 0.85,
		LowThreshold:  0.55,
		AmbiguityBand: 0.05,
	}
}

// Result is the outcome of matching one item name against the catalog.
type Result struct {
	// Entry is the best-matching catalog entry; nil unless State is
	// LinkStateMatched or LinkStateAmbiguous.
	Entry *domain.CatalogEntry
	Score float64
	State domain.CatalogLinkState
}

// Matcher scores item names against catalog entries.
type Matcher struct {
	cfg Config
}

// New creates a Matcher. Zero thresholds fall back to defaults.
func New(cfg Config) *Matcher {
	def := DefaultConfig()
	if cfg.HighThreshold <= 0 {
		cfg.HighThreshold = def.HighThreshold
	}
	if cfg.LowThreshold <= 0 {
		cfg.LowThreshold = def.LowThreshold
	}
	if cfg.AmbiguityBand <= 0 {
		cfg.AmbiguityBand = def.AmbiguityBand
	}
	return &Matcher{cfg: cfg}
}

// Match finds the best catalog entry for the given item name. An empty
// catalog or a blank name always yields LinkStateUnmatched. Match never
// fails; low-confidence results simply come back unmatched.
func (m *Matcher) Match(name string, catalog []domain.CatalogEntry) Result {
	normalized := domain.NormalizeText(name)
	if normalized == "" || len(catalog) == 0 {
		return Result{State: domain.LinkStateUnmatched}
	}

	bestIdx := -1
	bestScore := 0.0
	scores := make([]float64, len(catalog))
	for i := range catalog {
		s := Score(normalized, domain.NormalizeText(catalog[i].Name))
		scores[i] = s
		if s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}

	if bestIdx < 0 || bestScore < m.cfg.LowThreshold {
		return Result{Score: bestScore, State: domain.LinkStateUnmatched}
	}

	entry := catalog[bestIdx]

	if bestScore >= m.cfg.HighThreshold {
		return Result{Entry: &entry, Score: bestScore, State: domain.LinkStateMatched}
	}

	// Mid-confidence: ambiguous when a second candidate is close behind.
	inBand := 0
	for _, s := range scores {
		if s >= bestScore-m.cfg.AmbiguityBand {
			inBand++
		}
	}
	if inBand >= 2 {
		return Result{Entry: &entry, Score: bestScore, State: domain.LinkStateAmbiguous}
	}

	return Result{Entry: &entry, Score: bestScore, State: domain.LinkStateMatched}
}

// Score computes the similarity of two already-normalized strings as the
// better of a plain and a token-sorted normalized levenshtein ratio. The
// token-sorted pass makes "colores lapiz" and "lapiz colores" score 1.0.
func Score(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	plain := ratio(a, b)
	sorted := ratio(sortTokens(a), sortTokens(b))
	if sorted > plain {
		return sorted
	}
	return plain
}

// ratio is 1 - dist/maxLen over runes.
func ratio(a, b string) float64 {
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(dist)/float64(maxLen)
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
