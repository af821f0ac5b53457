package resources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/upeo/website-backend/internal/observability/metrics"
	"github.com/upeo/website-backend/pkg/logging"
)

// Lister provides the published catalog for the public listing endpoint.
// Satisfied by both Repository and Cache.
type Lister interface {
	ListPublished(ctx context.Context) ([]Resource, error)
}

// Invalidator drops derived catalog state after an admin write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Handler handles HTTP requests for the resource catalog.
type Handler struct {
	lister      Lister
	repo        Repository
	invalidator Invalidator
	metrics     *metrics.CatalogMetrics
	logger      *logging.Logger
}

// NewHandler creates a new resources handler. invalidator and m may be nil;
// lister may be the repository itself when no cache is configured.
func NewHandler(lister Lister, repo Repository, invalidator Invalidator, m *metrics.CatalogMetrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if lister == nil {
		lister = repo
	}
	return &Handler{
		lister:      lister,
		repo:        repo,
		invalidator: invalidator,
		metrics:     m,
		logger:      logger,
	}
}

// ListResponse is the response for the public catalog listing.
type ListResponse struct {
	Resources []Resource `json:"resources"`
	Count     int        `json:"count"`
	Total     int        `json:"total"`
	// Query is the canonical encoding of the effective filters, usable as a
	// shareable link's query string.
	Query string `json:"query,omitempty"`
}

// List handles GET /resources requests: fetch once, then derive the filtered
// and sorted view from the query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	all, err := h.lister.ListPublished(r.Context())
	if err != nil {
		h.logger.Error("failed to list resources", "error", err)
		http.Error(w, "failed to list resources", http.StatusInternalServerError)
		return
	}

	params := ParseParams(r.URL.Query())
	filtered := params.Apply(all)
	h.metrics.ObserveQueryLatency(time.Since(start).Seconds())

	response := ListResponse{
		Resources: filtered,
		Count:     len(filtered),
		Total:     len(all),
		Query:     params.Values().Encode(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Get handles GET /resources/{slug} requests. Unpublished resources are only
// visible through the admin listing.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	res, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			http.Error(w, "resource not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get resource", "error", err, "slug", slug)
		http.Error(w, "failed to get resource", http.StatusInternalServerError)
		return
	}
	if !res.Published {
		http.Error(w, "resource not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// ListAll handles GET /admin/resources requests, drafts included.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list resources", "error", err)
		http.Error(w, "failed to list resources", http.StatusInternalServerError)
		return
	}

	response := ListResponse{Resources: all, Count: len(all), Total: len(all)}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// Create handles POST /admin/resources requests.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var res Resource
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.repo.Create(r.Context(), &res)
	if err != nil {
		h.respondWriteError(w, err)
		return
	}
	h.invalidate(r)

	h.logger.Info("resource created", "id", created.ID, "slug", created.Slug)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// Update handles PUT /admin/resources/{resourceID} requests.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var res Resource
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	res.ID = chi.URLParam(r, "resourceID")

	updated, err := h.repo.Update(r.Context(), &res)
	if err != nil {
		h.respondWriteError(w, err)
		return
	}
	h.invalidate(r)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// Delete handles DELETE /admin/resources/{resourceID} requests.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "resourceID")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.respondWriteError(w, err)
		return
	}
	h.invalidate(r)

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) invalidate(r *http.Request) {
	if h.invalidator == nil {
		return
	}
	if err := h.invalidator.Invalidate(r.Context()); err != nil {
		h.logger.Warn("catalog cache invalidation failed", "error", err)
	}
}

func (h *Handler) respondWriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrResourceNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrMissingTitle), errors.Is(err, ErrInvalidType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrSlugTaken):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.Error("resource write failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
