package course

import (
	"strings"
	"time"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// CreateInput holds the parameters for creating a course.
type CreateInput struct {
	School string
	Level  string
	Grade  string
	Year   int
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.School) == "" {
		errs = append(errs, domain.FieldError{Field: "school", Message: "required"})
	} else if len(i.School) > 200 {
		errs = append(errs, domain.FieldError{Field: "school", Message: "too long (max 200)"})
	}
	if strings.TrimSpace(i.Level) == "" {
		errs = append(errs, domain.FieldError{Field: "level", Message: "required"})
	}
	if strings.TrimSpace(i.Grade) == "" {
		errs = append(errs, domain.FieldError{Field: "grade", Message: "required"})
	}
	if i.Year < 2000 || i.Year > time.Now().Year()+2 {
		errs = append(errs, domain.FieldError{Field: "year", Message: "out of range"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
