package importer

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// ImportInput holds one extracted supply list to import as a new version.
type ImportInput struct {
	CourseID       uuid.UUID
	SourceDocument string
	Items          []DraftItem
}

// DraftItem is one extracted line before matching and classification. A zero
// Ordinal means "use extraction order"; when any draft carries an explicit
// ordinal the whole batch is ordered by those values.
type DraftItem struct {
	Name        string
	Quantity    int
	ISBN        *string
	Brand       *string
	Price       *int64
	Ordinal     int
	Category    *string
	Subject     *string
	Mandatory   bool
	Purchasable *bool // default true
}

// Validate checks all fields and collects all errors.
func (i *ImportInput) Validate(maxItems int) error {
	var errs []domain.FieldError

	if i.CourseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "course_id", Message: "required"})
	}
	if len(i.Items) == 0 {
		errs = append(errs, domain.FieldError{Field: "items", Message: "required (at least 1)"})
	} else if maxItems > 0 && len(i.Items) > maxItems {
		errs = append(errs, domain.FieldError{Field: "items", Message: "too many (max " + strconv.Itoa(maxItems) + ")"})
	}

	for idx, item := range i.Items {
		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, domain.FieldError{
				Field:   "items[" + strconv.Itoa(idx) + "].name",
				Message: "required",
			})
		}
		if item.Quantity < 0 {
			errs = append(errs, domain.FieldError{
				Field:   "items[" + strconv.Itoa(idx) + "].quantity",
				Message: "must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
