package domain

// CatalogLinkState represents how an item relates to the product catalog.
type CatalogLinkState string

const (
	// LinkStateUnmatched means no catalog product matched the item name.
	LinkStateUnmatched CatalogLinkState = "UNMATCHED"
	// LinkStateMatched means exactly one catalog product matched with
	// sufficient confidence.
	LinkStateMatched CatalogLinkState = "MATCHED"
	// LinkStateAmbiguous means several catalog products scored too close to
	// each other and a human must pick one.
	LinkStateAmbiguous CatalogLinkState = "AMBIGUOUS"
)

func (s CatalogLinkState) String() string { return string(s) }

func (s CatalogLinkState) IsValid() bool {
	switch s {
	case LinkStateUnmatched, LinkStateMatched, LinkStateAmbiguous:
		return true
	}
	return false
}
