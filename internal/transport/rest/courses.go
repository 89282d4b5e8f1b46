package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
	"github.com/almonteweb/listaescolar-backend/internal/service/course"
)

// courseService defines the minimal interface needed by CourseHandler.
type courseService interface {
	Create(ctx context.Context, input course.CreateInput) (*domain.Course, error)
	List(ctx context.Context, filter domain.CourseFilter) ([]domain.Course, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// CourseHandler serves course REST endpoints.
type CourseHandler struct {
	svc courseService
	log *slog.Logger
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(svc courseService, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{svc: svc, log: logger.With("handler", "courses")}
}

type createCourseRequest struct {
	School string `json:"school"`
	Level  string `json:"level"`
	Grade  string `json:"grade"`
	Year   int    `json:"year"`
}

type courseResponse struct {
	ID               string     `json:"id"`
	School           string     `json:"school"`
	Level            string     `json:"level"`
	Grade            string     `json:"grade"`
	Year             int        `json:"year"`
	Active           bool       `json:"active"`
	VersionCount     int        `json:"versionCount"`
	CurrentVersionTS *time.Time `json:"currentVersionTs,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func toCourseResponse(c *domain.Course) courseResponse {
	resp := courseResponse{
		ID:           c.ID.String(),
		School:       c.School,
		Level:        c.Level,
		Grade:        c.Grade,
		Year:         c.Year,
		Active:       c.Active,
		VersionCount: len(c.Versions),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if current, ok := c.CurrentVersion(); ok {
		ts := current.VersionTS
		resp.CurrentVersionTS = &ts
	}
	return resp
}

// List handles GET /api/v1/courses.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCourseFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	courses, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	resp := make([]courseResponse, 0, len(courses))
	for i := range courses {
		resp = append(resp, toCourseResponse(&courses[i]))
	}
	respondData(w, http.StatusOK, resp)
}

// Create handles POST /api/v1/courses.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	created, err := h.svc.Create(r.Context(), course.CreateInput{
		School: req.School,
		Level:  req.Level,
		Grade:  req.Grade,
		Year:   req.Year,
	})
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	respondData(w, http.StatusCreated, toCourseResponse(created))
}

// Deactivate handles POST /api/v1/courses/{id}/deactivate.
func (h *CourseHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

// courseIDParam parses the {id} route parameter, responding 400 on garbage.
func courseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid course id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func parseCourseFilter(r *http.Request) (domain.CourseFilter, error) {
	var filter domain.CourseFilter
	q := r.URL.Query()

	if school := q.Get("school"); school != "" {
		filter.School = &school
	}
	if level := q.Get("level"); level != "" {
		filter.Level = &level
	}
	if yearStr := q.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return filter, errInvalidQueryParam("year")
		}
		filter.Year = &year
	}
	if activeStr := q.Get("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return filter, errInvalidQueryParam("active")
		}
		filter.Active = &active
	}
	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return filter, errInvalidQueryParam("limit")
		}
		filter.Limit = limit
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return filter, errInvalidQueryParam("offset")
		}
		filter.Offset = offset
	}

	return filter, nil
}

type errInvalidQueryParam string

func (e errInvalidQueryParam) Error() string { return "invalid query parameter: " + string(e) }
