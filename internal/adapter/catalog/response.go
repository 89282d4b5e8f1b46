package catalog

import "github.com/almonteweb/listaescolar-backend/internal/domain"

// apiProduct mirrors the catalog service's wire shape. The service has
// shipped both "sku" and the older "code" key; both are accepted.
type apiProduct struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	SKU   string  `json:"sku"`
	Code  string  `json:"code"`
	Brand string  `json:"brand"`
	Price *int64  `json:"price"`
}

func (p apiProduct) toDomain() domain.CatalogEntry {
	entry := domain.CatalogEntry{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
	}

	sku := p.SKU
	if sku == "" {
		sku = p.Code
	}
	if sku != "" {
		entry.SKU = &sku
	}
	if p.Brand != "" {
		b := p.Brand
		entry.Brand = &b
	}
	return entry
}
