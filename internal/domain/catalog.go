package domain

// CatalogEntry is one product in the external catalog used to link free-text
// item names to purchasable products.
type CatalogEntry struct {
	ID    string
	Name  string
	SKU   *string
	Brand *string
	Price *int64
}
