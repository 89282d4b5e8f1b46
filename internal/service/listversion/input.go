package listversion

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// AddItemInput holds the parameters for adding one item to a list version.
// VersionTS is optional; nil targets the current version. Ordinal is the
// requested 1-based position; zero or out-of-range values append.
type AddItemInput struct {
	CourseID  uuid.UUID
	VersionTS *time.Time

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
func (i *AddItemInput) Validate() error {
	var errs []domain.FieldError

	if i.CourseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "course_id", Message: "required"})
	}
	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 500 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long (max 500)"})
	}
	if i.Quantity < 0 {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if i.Price != nil && *i.Price < 0 {
		errs = append(errs, domain.FieldError{Field: "price", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReorderInput holds the parameters for reordering a version's items.
// Overrides carry per-item category/subject changes applied in the same
// write. Items omitted from OrderedIDs are kept and appended at the end.
type ReorderInput struct {
	CourseID  uuid.UUID
	VersionTS *time.Time

	OrderedIDs []string
	Overrides  map[string]domain.Suggestion
}

// Validate checks all fields and collects all errors.
func (i *ReorderInput) Validate() error {
	var errs []domain.FieldError

	if i.CourseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "course_id", Message: "required"})
	}
	if len(i.OrderedIDs) == 0 && len(i.Overrides) == 0 {
		errs = append(errs, domain.FieldError{Field: "ordered_ids", Message: "required (or overrides)"})
	}
	for idx, id := range i.OrderedIDs {
		if id == "" {
			errs = append(errs, domain.FieldError{
				Field:   "ordered_ids[" + strconv.Itoa(idx) + "]",
				Message: "required",
			})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReplaceVersionInput holds the parameters for appending a new version to a
// course's history. Items arrive fully formed; the engine stamps both
// timestamps and leaves earlier versions untouched.
type ReplaceVersionInput struct {
	CourseID       uuid.UUID
	SourceDocument string
	Items          []domain.MaterialItem
}

// Validate checks all fields and collects all errors.
func (i *ReplaceVersionInput) Validate() error {
	var errs []domain.FieldError

	if i.CourseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "course_id", Message: "required"})
	}
	for idx, item := range i.Items {
		if strings.TrimSpace(item.Name) == "" {
			errs = append(errs, domain.FieldError{
				Field:   "items[" + strconv.Itoa(idx) + "].name",
				Message: "required",
			})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ApplySuggestionsInput holds automated suggestions to fold into a version.
type ApplySuggestionsInput struct {
	CourseID  uuid.UUID
	VersionTS *time.Time

	Suggestions map[string]domain.Suggestion
}

// Validate checks all fields and collects all errors.
func (i *ApplySuggestionsInput) Validate() error {
	var errs []domain.FieldError

	if i.CourseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "course_id", Message: "required"})
	}
	if len(i.Suggestions) == 0 {
		errs = append(errs, domain.FieldError{Field: "suggestions", Message: "required (at least 1)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateItemInput holds a partial update for one item. Nil fields are left
// unchanged.
type UpdateItemInput struct {
	CourseID  uuid.UUID
	VersionTS *time.Time
	ItemID    string

	Name        *string
	Quantity    *int
	ISBN        *string
	Brand       *string
	Price       *int64
	Category    *string
	Subject     *string
	Mandatory   *bool
	Purchasable *bool
	Validated   *bool
	Approved    *bool
}

// Validate checks all fields and collects all errors.
func (i *UpdateItemInput) Validate() error {
	var errs []domain.FieldError

	if i.CourseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "course_id", Message: "required"})
	}
	if i.ItemID == "" {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}
	if i.Name != nil {
		if strings.TrimSpace(*i.Name) == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
		} else if len(*i.Name) > 500 {
			errs = append(errs, domain.FieldError{Field: "name", Message: "too long (max 500)"})
		}
	}
	if i.Quantity != nil && *i.Quantity < 0 {
		errs = append(errs, domain.FieldError{Field: "quantity", Message: "must not be negative"})
	}
	if i.Price != nil && *i.Price < 0 {
		errs = append(errs, domain.FieldError{Field: "price", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// RemoveItemInput identifies one item to delete from a version.
type RemoveItemInput struct {
	CourseID  uuid.UUID
	VersionTS *time.Time
	ItemID    string
}

// Validate checks all fields and collects all errors.
func (i *RemoveItemInput) Validate() error {
	var errs []domain.FieldError

	if i.CourseID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "course_id", Message: "required"})
	}
	if i.ItemID == "" {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
