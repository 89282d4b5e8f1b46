package domain

import (
	"sort"
	"strconv"
	"time"
	"unicode"
)

// MaterialItem is one line entry in a list version: a supply, book, or
// material to acquire. Its ID is assigned once and survives reorder, edit,
// and reclassification; only Ordinal changes.
type MaterialItem struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Quantity    int              `json:"quantity"`
	ISBN        *string          `json:"isbn,omitempty"`
	Brand       *string          `json:"brand,omitempty"`
	Price       *int64           `json:"price,omitempty"`
	Ordinal     int              `json:"ordinal"`
	Category    *string          `json:"category,omitempty"`
	Subject     *string          `json:"subject,omitempty"`
	Mandatory   bool             `json:"mandatory"`
	Purchasable bool             `json:"purchasable"`
	Validated   bool             `json:"validated"`
	Approved    bool             `json:"approved"`
	LinkState   CatalogLinkState `json:"link_state"`
	CatalogRef  *string          `json:"catalog_ref,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ListVersion is one snapshot of a course's material list, tied to the
// document it was extracted from. VersionTS is immutable once the version
// exists; ModifiedTS is bumped on every mutation.
type ListVersion struct {
	VersionTS      time.Time      `json:"version_ts"`
	ModifiedTS     time.Time      `json:"modified_ts"`
	SourceDocument string         `json:"source_document,omitempty"`
	Items          []MaterialItem `json:"items"`
}

// Suggestion is an automated category/subject proposal for one item.
// Nil fields mean "no opinion".
type Suggestion struct {
	Category *string `json:"category,omitempty"`
	Subject  *string `json:"subject,omitempty"`
}

// EffectiveTS is the timestamp used for current-version selection:
// ModifiedTS when set, otherwise VersionTS.
func (v *ListVersion) EffectiveTS() time.Time {
	if !v.ModifiedTS.IsZero() {
		return v.ModifiedTS
	}
	return v.VersionTS
}

// CurrentVersionIndex selects the authoritative version among a history:
// the one with the greatest effective timestamp, ties broken by the later
// array position. Returns -1 for an empty history.
func CurrentVersionIndex(versions []ListVersion) int {
	best := -1
	var bestTS time.Time
	for i := range versions {
		ts := versions[i].EffectiveTS()
		if best < 0 || !ts.Before(bestTS) {
			best = i
			bestTS = ts
		}
	}
	return best
}

// Touch records a mutation to the version.
func (v *ListVersion) Touch(now time.Time) {
	v.ModifiedTS = now
}

// Item returns a pointer to the item with the given id, or nil, false.
func (v *ListVersion) Item(id string) (*MaterialItem, bool) {
	for i := range v.Items {
		if v.Items[i].ID == id {
			return &v.Items[i], true
		}
	}
	return nil, false
}

// NextItemID returns the next stable item id for this version. Ids carry a
// numeric suffix; the next id is max(existing suffixes)+1 regardless of
// prefix, so histories imported from older systems keep numbering correctly.
func (v *ListVersion) NextItemID() string {
	max := 0
	for i := range v.Items {
		if n, ok := numericSuffix(v.Items[i].ID); ok && n > max {
			max = n
		}
	}
	return "item-" + strconv.Itoa(max+1)
}

// numericSuffix extracts the trailing decimal number of an id.
func numericSuffix(id string) (int, bool) {
	end := len(id)
	start := end
	for start > 0 && unicode.IsDigit(rune(id[start-1])) {
		start--
	}
	if start == end {
		return 0, false
	}
	n, err := strconv.Atoi(id[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// renumber rewrites ordinals to 1..N in array order.
func (v *ListVersion) renumber() {
	for i := range v.Items {
		v.Items[i].Ordinal = i + 1
	}
}

// InsertItem inserts item at the requested 1-based ordinal and renumbers all
// ordinals to stay contiguous. requested <= 0 appends; out-of-range values
// are clamped into [1, N+1]. The item keeps whatever ID it carries; callers
// assign one via NextItemID before inserting.
func (v *ListVersion) InsertItem(item MaterialItem, requested int) {
	n := len(v.Items)
	pos := requested
	if pos <= 0 || pos > n+1 {
		pos = n + 1
	}

	v.Items = append(v.Items, MaterialItem{})
	copy(v.Items[pos:], v.Items[pos-1:])
	v.Items[pos-1] = item
	v.renumber()
}

// RemoveItem deletes the item with the given id and renumbers the remaining
// ordinals. Returns false when no such item exists.
func (v *ListVersion) RemoveItem(id string) bool {
	for i := range v.Items {
		if v.Items[i].ID == id {
			v.Items = append(v.Items[:i], v.Items[i+1:]...)
			v.renumber()
			return true
		}
	}
	return false
}

// Reorder rebuilds the item list to follow orderedIDs exactly, applying any
// per-id category/subject overrides. Items whose ids are not listed are
// appended after the ordered ones, preserving their prior relative order.
// Unknown ids in orderedIDs are skipped. Ordinals are renumbered 1..N over
// the final sequence; ids never change. The operation is idempotent.
func (v *ListVersion) Reorder(orderedIDs []string, overrides map[string]Suggestion) {
	byID := make(map[string]int, len(v.Items))
	for i := range v.Items {
		byID[v.Items[i].ID] = i
	}

	result := make([]MaterialItem, 0, len(v.Items))
	placed := make(map[string]bool, len(orderedIDs))

	for _, id := range orderedIDs {
		idx, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		placed[id] = true
		result = append(result, v.Items[idx])
	}

	// Omitted items keep their prior relative order at the end.
	for i := range v.Items {
		if !placed[v.Items[i].ID] {
			result = append(result, v.Items[i])
		}
	}

	for i := range result {
		if ov, ok := overrides[result[i].ID]; ok {
			if ov.Category != nil {
				result[i].Category = ov.Category
			}
			if ov.Subject != nil {
				result[i].Subject = ov.Subject
			}
		}
	}

	v.Items = result
	v.renumber()
}

// ApplySuggestions overwrites category/subject from automated suggestions,
// skipping items a human has validated or approved. Suggestions keyed by
// unknown ids are ignored. Returns the number of items changed.
func (v *ListVersion) ApplySuggestions(suggestions map[string]Suggestion) int {
	applied := 0
	for i := range v.Items {
		it := &v.Items[i]
		sug, ok := suggestions[it.ID]
		if !ok || it.Validated || it.Approved {
			continue
		}
		changed := false
		if sug.Category != nil {
			it.Category = sug.Category
			changed = true
		}
		if sug.Subject != nil {
			it.Subject = sug.Subject
			changed = true
		}
		if changed {
			applied++
		}
	}
	return applied
}

// SortItemsByOrdinal orders items by their explicit ordinals (stable for
// equal values) and renumbers them contiguously. Used when an import source
// supplies its own ordering.
func (v *ListVersion) SortItemsByOrdinal() {
	sort.SliceStable(v.Items, func(i, j int) bool {
		return v.Items[i].Ordinal < v.Items[j].Ordinal
	})
	v.renumber()
}
