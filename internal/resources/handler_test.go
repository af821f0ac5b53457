package resources

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type countingInvalidator struct {
	calls int
}

func (i *countingInvalidator) Invalidate(ctx context.Context) error {
	i.calls++
	return nil
}

func newTestRouter(t *testing.T) (chi.Router, *InMemoryRepository, *countingInvalidator) {
	t.Helper()
	repo := NewInMemoryRepository()
	ctx := context.Background()
	for _, r := range sampleCatalog() {
		if _, err := repo.Create(ctx, &r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	inv := &countingInvalidator{}
	handler := NewHandler(nil, repo, inv, nil, nil)

	r := chi.NewRouter()
	r.Get("/resources", handler.List)
	r.Get("/resources/{slug}", handler.Get)
	r.Get("/admin/resources", handler.ListAll)
	r.Post("/admin/resources", handler.Create)
	r.Put("/admin/resources/{resourceID}", handler.Update)
	r.Delete("/admin/resources/{resourceID}", handler.Delete)
	return r, repo, inv
}

func TestHandlerListWithFilters(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/resources?year=2024&sort=a-z", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || resp.Total != 4 {
		t.Fatalf("expected count=2 total=4, got count=%d total=%d", resp.Count, resp.Total)
	}
	assertIDs(t, resp.Resources, "3", "2")
	if resp.Query != "sort=a-z&year=2024" {
		t.Fatalf("unexpected canonical query %q", resp.Query)
	}
}

func TestHandlerListEmptyResult(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/resources?search=blockchain", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("empty result is a valid state, got %d", rec.Code)
	}

	var resp ListResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Count != 0 || len(resp.Resources) != 0 {
		t.Fatalf("expected empty listing, got %+v", resp)
	}
}

func TestHandlerGetBySlug(t *testing.T) {
	router, repo, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/resources/evaluation-toolkit", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var res Resource
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Slug != "evaluation-toolkit" {
		t.Fatalf("wrong resource: %q", res.Slug)
	}

	// Unknown slug and unpublished resources are both 404s publicly.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resources/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slug, got %d", rec.Code)
	}

	draft, err := repo.Create(context.Background(), &Resource{Title: "Draft Brief", Type: TypeArticle})
	if err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/resources/"+draft.Slug, nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for draft, got %d", rec.Code)
	}
}

func TestHandlerAdminCreate(t *testing.T) {
	router, _, inv := newTestRouter(t)

	body, _ := json.Marshal(Resource{
		Title:     "New Market Entry Brief",
		Type:      TypeArticle,
		Published: true,
	})
	req := httptest.NewRequest(http.MethodPost, "/admin/resources", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if inv.calls != 1 {
		t.Fatalf("create should invalidate the cache, calls=%d", inv.calls)
	}

	var created Resource
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.Slug != "new-market-entry-brief" {
		t.Fatalf("slug not derived: %q", created.Slug)
	}

	// Duplicate slug conflicts.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/resources", bytes.NewReader(body)))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate slug, got %d", rec.Code)
	}

	// Validation failures are 400s.
	bad, _ := json.Marshal(Resource{Title: "x", Type: "podcast"})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/resources", bytes.NewReader(bad)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on invalid type, got %d", rec.Code)
	}
}

func TestHandlerAdminUpdateAndDelete(t *testing.T) {
	router, _, inv := newTestRouter(t)

	body, _ := json.Marshal(Resource{
		Slug:      "evaluation-toolkit",
		Title:     "Evaluation Toolkit, Second Edition",
		Type:      TypeDownload,
		Published: true,
	})
	req := httptest.NewRequest(http.MethodPut, "/admin/resources/4", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var updated Resource
	json.Unmarshal(rec.Body.Bytes(), &updated)
	if updated.ID != "4" || updated.Title != "Evaluation Toolkit, Second Edition" {
		t.Fatalf("update result wrong: %+v", updated)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/resources/4", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/resources/4", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}

	if inv.calls != 2 {
		t.Fatalf("expected two invalidations, got %d", inv.calls)
	}
}

func TestHandlerAdminListIncludesDrafts(t *testing.T) {
	router, repo, _ := newTestRouter(t)
	if _, err := repo.Create(context.Background(), &Resource{Title: "Draft Brief", Type: TypeArticle}); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/resources", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp ListResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Count != 5 {
		t.Fatalf("admin listing should include the draft, count=%d", resp.Count)
	}
}
