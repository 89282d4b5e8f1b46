package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/almonteweb/listaescolar-backend/internal/domain"
	"github.com/almonteweb/listaescolar-backend/internal/service/importer"
	"github.com/almonteweb/listaescolar-backend/internal/service/listversion"
)

// listService defines the list version engine surface needed by ListHandler.
type listService interface {
	GetCurrentVersion(ctx context.Context, courseID uuid.UUID) (*domain.ListVersion, error)
	ListVersions(ctx context.Context, courseID uuid.UUID) ([]listversion.VersionSummary, error)
	AddItem(ctx context.Context, input listversion.AddItemInput) (*domain.MaterialItem, error)
	UpdateItem(ctx context.Context, input listversion.UpdateItemInput) (*domain.MaterialItem, error)
	RemoveItem(ctx context.Context, input listversion.RemoveItemInput) error
	Reorder(ctx context.Context, input listversion.ReorderInput) (*domain.ListVersion, error)
}

// importService defines the import orchestrator surface needed by ListHandler.
type importService interface {
	ImportVersion(ctx context.Context, input importer.ImportInput) (*importer.ImportResult, error)
	ClassifyCurrent(ctx context.Context, courseID uuid.UUID) (*importer.ClassifyResult, error)
}

// ListHandler serves supply-list REST endpoints.
type ListHandler struct {
	lists   listService
	imports importService
	log     *slog.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(lists listService, imports importService, logger *slog.Logger) *ListHandler {
	return &ListHandler{
		lists:   lists,
		imports: imports,
		log:     logger.With("handler", "lists"),
	}
}

// ---------------------------------------------------------------------------
// Wire shapes
// ---------------------------------------------------------------------------

type itemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Quantity    int       `json:"quantity"`
	ISBN        *string   `json:"isbn,omitempty"`
	Brand       *string   `json:"brand,omitempty"`
	Price       *int64    `json:"price,omitempty"`
	Ordinal     int       `json:"ordinal"`
	Category    *string   `json:"category,omitempty"`
	Subject     *string   `json:"subject,omitempty"`
	Mandatory   bool      `json:"mandatory"`
	Purchasable bool      `json:"purchasable"`
	Validated   bool      `json:"validated"`
	Approved    bool      `json:"approved"`
	LinkState   string    `json:"linkState"`
	CatalogRef  *string   `json:"catalogRef,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type versionResponse struct {
	VersionTS      time.Time      `json:"versionTs"`
	ModifiedTS     time.Time      `json:"modifiedTs"`
	SourceDocument string         `json:"sourceDocument,omitempty"`
	Items          []itemResponse `json:"items"`
}

type versionSummaryResponse struct {
	VersionTS      time.Time `json:"versionTs"`
	ModifiedTS     time.Time `json:"modifiedTs"`
	SourceDocument string    `json:"sourceDocument,omitempty"`
	ItemCount      int       `json:"itemCount"`
	Current        bool      `json:"current"`
}

type suggestionRequest struct {
	Category *string `json:"category"`
	Subject  *string `json:"subject"`
}

type addItemRequest struct {
	VersionTS   *time.Time `json:"versionTs"`
	Name        string     `json:"name"`
	Quantity    int        `json:"quantity"`
	ISBN        *string    `json:"isbn"`
	Brand       *string    `json:"brand"`
	Price       *int64     `json:"price"`
	Ordinal     int        `json:"ordinal"`
	Category    *string    `json:"category"`
	Subject     *string    `json:"subject"`
	Mandatory   bool       `json:"mandatory"`
	Purchasable *bool      `json:"purchasable"`
}

type updateItemRequest struct {
	VersionTS   *time.Time `json:"versionTs"`
	Name        *string    `json:"name"`
	Quantity    *int       `json:"quantity"`
	ISBN        *string    `json:"isbn"`
	Brand       *string    `json:"brand"`
	Price       *int64     `json:"price"`
	Category    *string    `json:"category"`
	Subject     *string    `json:"subject"`
	Mandatory   *bool      `json:"mandatory"`
	Purchasable *bool      `json:"purchasable"`
	Validated   *bool      `json:"validated"`
	Approved    *bool      `json:"approved"`
}

type reorderRequest struct {
	VersionTS  *time.Time                   `json:"versionTs"`
	OrderedIDs []string                     `json:"orderedIds"`
	Overrides  map[string]suggestionRequest `json:"overrides"`
}

type importRequest struct {
	SourceDocument string             `json:"sourceDocument"`
	Items          []draftItemRequest `json:"items"`
}

type draftItemRequest struct {
	Name        string  `json:"name"`
	Quantity    int     `json:"quantity"`
	ISBN        *string `json:"isbn"`
	Brand       *string `json:"brand"`
	Price       *int64  `json:"price"`
	Ordinal     int     `json:"ordinal"`
	Category    *string `json:"category"`
	Subject     *string `json:"subject"`
	Mandatory   bool    `json:"mandatory"`
	Purchasable *bool   `json:"purchasable"`
}

type importResponse struct {
	VersionTS  time.Time             `json:"versionTs"`
	Imported   int                   `json:"imported"`
	Matched    int                   `json:"matched"`
	Ambiguous  int                   `json:"ambiguous"`
	Unmatched  int                   `json:"unmatched"`
	Classified int                   `json:"classified"`
	Degraded   bool                  `json:"degraded"`
	Items      []itemOutcomeResponse `json:"items"`
}

type itemOutcomeResponse struct {
	ItemID     string  `json:"itemId"`
	Name       string  `json:"name"`
	Ordinal    int     `json:"ordinal"`
	LinkState  string  `json:"linkState"`
	Score      float64 `json:"score"`
	CatalogRef *string `json:"catalogRef,omitempty"`
	Classified bool    `json:"classified"`
}

type classifyResponse struct {
	VersionTS time.Time `json:"versionTs"`
	Submitted int       `json:"submitted"`
	Suggested int       `json:"suggested"`
	Applied   int       `json:"applied"`
}

func toItemResponse(it *domain.MaterialItem) itemResponse {
	return itemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Quantity:    it.Quantity,
		ISBN:        it.ISBN,
		Brand:       it.Brand,
		Price:       it.Price,
		Ordinal:     it.Ordinal,
		Category:    it.Category,
		Subject:     it.Subject,
		Mandatory:   it.Mandatory,
		Purchasable: it.Purchasable,
		Validated:   it.Validated,
		Approved:    it.Approved,
		LinkState:   it.LinkState.String(),
		CatalogRef:  it.CatalogRef,
		CreatedAt:   it.CreatedAt,
	}
}

func toVersionResponse(v *domain.ListVersion) versionResponse {
	items := make([]itemResponse, 0, len(v.Items))
	for i := range v.Items {
		items = append(items, toItemResponse(&v.Items[i]))
	}
	return versionResponse{
		VersionTS:      v.VersionTS,
		ModifiedTS:     v.ModifiedTS,
		SourceDocument: v.SourceDocument,
		Items:          items,
	}
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// GetCurrent handles GET /api/v1/courses/{id}/list.
func (h *ListHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	version, err := h.lists.GetCurrentVersion(r.Context(), id)
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	respondData(w, http.StatusOK, toVersionResponse(version))
}

// ListVersions handles GET /api/v1/courses/{id}/versions.
func (h *ListHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	summaries, err := h.lists.ListVersions(r.Context(), id)
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	resp := make([]versionSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, versionSummaryResponse{
			VersionTS:      s.VersionTS,
			ModifiedTS:     s.ModifiedTS,
			SourceDocument: s.SourceDocument,
			ItemCount:      s.ItemCount,
			Current:        s.Current,
		})
	}
	respondData(w, http.StatusOK, resp)
}

// AddItem handles POST /api/v1/courses/{id}/items.
func (h *ListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	created, err := h.lists.AddItem(r.Context(), listversion.AddItemInput{
		CourseID:    id,
		VersionTS:   req.VersionTS,
		Name:        req.Name,
		Quantity:    req.Quantity,
		ISBN:        req.ISBN,
		Brand:       req.Brand,
		Price:       req.Price,
		Ordinal:     req.Ordinal,
		Category:    req.Category,
		Subject:     req.Subject,
		Mandatory:   req.Mandatory,
		Purchasable: req.Purchasable,
	})
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	respondData(w, http.StatusCreated, toItemResponse(created))
}

// UpdateItem handles PATCH /api/v1/courses/{id}/items/{itemId}.
func (h *ListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	updated, err := h.lists.UpdateItem(r.Context(), listversion.UpdateItemInput{
		CourseID:    id,
		VersionTS:   req.VersionTS,
		ItemID:      chi.URLParam(r, "itemId"),
		Name:        req.Name,
		Quantity:    req.Quantity,
		ISBN:        req.ISBN,
		Brand:       req.Brand,
		Price:       req.Price,
		Category:    req.Category,
		Subject:     req.Subject,
		Mandatory:   req.Mandatory,
		Purchasable: req.Purchasable,
		Validated:   req.Validated,
		Approved:    req.Approved,
	})
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	respondData(w, http.StatusOK, toItemResponse(updated))
}

// RemoveItem handles DELETE /api/v1/courses/{id}/items/{itemId}.
func (h *ListHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	err := h.lists.RemoveItem(r.Context(), listversion.RemoveItemInput{
		CourseID: id,
		ItemID:   chi.URLParam(r, "itemId"),
	})
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"status": "removed"})
}

// Reorder handles POST /api/v1/courses/{id}/reorder.
func (h *ListHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	overrides := make(map[string]domain.Suggestion, len(req.Overrides))
	for itemID, s := range req.Overrides {
		overrides[itemID] = domain.Suggestion{Category: s.Category, Subject: s.Subject}
	}

	version, err := h.lists.Reorder(r.Context(), listversion.ReorderInput{
		CourseID:   id,
		VersionTS:  req.VersionTS,
		OrderedIDs: req.OrderedIDs,
		Overrides:  overrides,
	})
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	respondData(w, http.StatusOK, toVersionResponse(version))
}

// Import handles POST /api/v1/courses/{id}/import.
func (h *ListHandler) Import(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	drafts := make([]importer.DraftItem, 0, len(req.Items))
	for _, it := range req.Items {
		drafts = append(drafts, importer.DraftItem{
			Name:        it.Name,
			Quantity:    it.Quantity,
			ISBN:        it.ISBN,
			Brand:       it.Brand,
			Price:       it.Price,
			Ordinal:     it.Ordinal,
			Category:    it.Category,
			Subject:     it.Subject,
			Mandatory:   it.Mandatory,
			Purchasable: it.Purchasable,
		})
	}

	result, err := h.imports.ImportVersion(r.Context(), importer.ImportInput{
		CourseID:       id,
		SourceDocument: req.SourceDocument,
		Items:          drafts,
	})
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	outcomes := make([]itemOutcomeResponse, 0, len(result.Items))
	for _, o := range result.Items {
		outcomes = append(outcomes, itemOutcomeResponse{
			ItemID:     o.ItemID,
			Name:       o.Name,
			Ordinal:    o.Ordinal,
			LinkState:  o.LinkState.String(),
			Score:      o.Score,
			CatalogRef: o.CatalogRef,
			Classified: o.Classified,
		})
	}
	respondData(w, http.StatusCreated, importResponse{
		VersionTS:  result.VersionTS,
		Imported:   result.Imported,
		Matched:    result.Matched,
		Ambiguous:  result.Ambiguous,
		Unmatched:  result.Unmatched,
		Classified: result.Classified,
		Degraded:   result.Degraded,
		Items:      outcomes,
	})
}

// Classify handles POST /api/v1/courses/{id}/classify.
func (h *ListHandler) Classify(w http.ResponseWriter, r *http.Request) {
	id, ok := courseIDParam(w, r)
	if !ok {
		return
	}

	result, err := h.imports.ClassifyCurrent(r.Context(), id)
	if err != nil {
		respondServiceError(r.Context(), w, h.log, err)
		return
	}

	respondData(w, http.StatusOK, classifyResponse{
		VersionTS: result.VersionTS,
		Submitted: result.Submitted,
		Suggested: result.Suggested,
		Applied:   result.Applied,
	})
}
