package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
)

// envelope is the uniform JSON wrapper for every API response: exactly one
// of Data or Error is set.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Message string       `json:"message"`
	Fields  []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string, fields []fieldError) {
	writeJSON(w, status, envelope{Success: false, Error: &errorBody{Message: message, Fields: fields}})
}

// respondServiceError maps domain errors onto HTTP statuses. Validation
// errors carry their field list; unexpected errors are logged and hidden
// behind a generic 500.
func respondServiceError(ctx context.Context, w http.ResponseWriter, log *slog.Logger, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		fields := make([]fieldError, 0, len(vErr.Errors))
		for _, fe := range vErr.Errors {
			fields = append(fields, fieldError{Field: fe.Field, Message: fe.Message})
		}
		respondError(w, http.StatusBadRequest, "validation failed", fields)
	case errors.Is(err, domain.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found", nil)
	case errors.Is(err, domain.ErrAlreadyExists):
		respondError(w, http.StatusConflict, "already exists", nil)
	case errors.Is(err, domain.ErrConflict):
		respondError(w, http.StatusConflict, "conflicting concurrent modification, retry", nil)
	case errors.Is(err, domain.ErrUnavailable):
		respondError(w, http.StatusBadGateway, "upstream service unavailable", nil)
	default:
		log.ErrorContext(ctx, "internal error", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
