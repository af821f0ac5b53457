package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/upeo/website-backend/internal/leads"
)

func newTestHandler(t *testing.T) (*Handler, *leads.InMemoryRepository) {
	t.Helper()
	repo := leads.NewInMemoryRepository()
	svc := NewService(Config{
		Store:       NewMemoryStore(0),
		Leads:       repo,
		Attachments: &fakeAttachmentStore{},
	})
	return NewHandler(svc, nil), repo
}

func doJSON(t *testing.T, h http.Handler, method, target string, body any) (*httptest.ResponseRecorder, SessionResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp SessionResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, resp
}

func TestHandlerSessionLifecycle(t *testing.T) {
	handler, repo := newTestHandler(t)
	router := handler.Routes()

	rec, resp := doJSON(t, router, http.MethodPost, "/sessions", StartSessionRequest{Service: "Strategy & Advisory"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	id := resp.Session.ID
	if id == "" {
		t.Fatalf("no session id returned")
	}
	if len(resp.Session.Form.Services) != 1 {
		t.Fatalf("preselected service not seeded: %v", resp.Session.Form.Services)
	}

	// Next on the empty first step is rejected with inline errors.
	rec, resp = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/next", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("next: expected 422, got %d", rec.Code)
	}
	if resp.Errors["full_name"] == "" {
		t.Fatalf("expected full_name error, got %v", resp.Errors)
	}

	// Fill the form in one patch.
	form := completeForm()
	patch := UpdateRequest{
		FullName:     &form.FullName,
		Organization: &form.Organization,
		Email:        &form.Email,
		Phone:        &form.Phone,
		Description:  &form.Description,
		Timeframe:    &form.Timeframe,
		Consent:      &form.Consent,
	}
	rec, _ = doJSON(t, router, http.MethodPatch, "/sessions/"+id, patch)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec, resp = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/next", nil)
	if rec.Code != http.StatusOK || resp.Session.CurrentStep != StepOrganization {
		t.Fatalf("next: code=%d step=%d", rec.Code, resp.Session.CurrentStep)
	}
	rec, resp = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/prev", nil)
	if rec.Code != http.StatusOK || resp.Session.CurrentStep != FirstStep {
		t.Fatalf("prev: code=%d step=%d", rec.Code, resp.Session.CurrentStep)
	}

	// Submit and verify the lead landed.
	rec, resp = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/submit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !resp.Session.Submitted || resp.Session.LeadID == "" {
		t.Fatalf("submit response incomplete: %+v", resp.Session)
	}
	if _, err := repo.GetByID(context.Background(), resp.Session.LeadID); err != nil {
		t.Fatalf("lead not persisted: %v", err)
	}

	// A second submit conflicts and inserts nothing new.
	rec, _ = doJSON(t, router, http.MethodPost, "/sessions/"+id+"/submit", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("double submit: expected 409, got %d", rec.Code)
	}
}

func TestHandlerPatchRejectsUnknownEnum(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := handler.Routes()
	_, resp := doJSON(t, router, http.MethodPost, "/sessions", nil)
	id := resp.Session.ID

	bad := "Whenever"
	rec, resp := doJSON(t, router, http.MethodPatch, "/sessions/"+id, UpdateRequest{Timeframe: &bad})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if resp.Errors["timeframe"] == "" {
		t.Fatalf("expected timeframe error, got %v", resp.Errors)
	}
}

func TestHandlerSubmitInvalidFormReturnsAllErrors(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := handler.Routes()
	_, resp := doJSON(t, router, http.MethodPost, "/sessions", nil)
	id := resp.Session.ID

	rec, resp := doJSON(t, router, http.MethodPost, "/sessions/"+id+"/submit", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	for _, field := range []string{"full_name", "organization", "email", "consent"} {
		if resp.Errors[field] == "" {
			t.Errorf("expected %s error, got %v", field, resp.Errors)
		}
	}
}

func TestHandlerUnknownSession(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := handler.Routes()

	rec, _ := doJSON(t, router, http.MethodGet, "/sessions/does-not-exist", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerAttachmentUpload(t *testing.T) {
	handler, _ := newTestHandler(t)
	router := handler.Routes()
	_, resp := doJSON(t, router, http.MethodPost, "/sessions", nil)
	id := resp.Session.ID

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "proposal.pdf")
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write([]byte("%PDF-1.7 fake"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/attachment", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var uploaded SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &uploaded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	att := uploaded.Session.Form.Attachment
	if att == nil || att.FileName != "proposal.pdf" || att.StorageKey == "" {
		t.Fatalf("attachment metadata wrong: %+v", att)
	}

	// Disallowed extension comes back as a validation failure.
	buf.Reset()
	mw = multipart.NewWriter(&buf)
	part, _ = mw.CreateFormFile("file", "malware.exe")
	part.Write([]byte("MZ"))
	mw.Close()

	req = httptest.NewRequest(http.MethodPost, "/sessions/"+id+"/attachment", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("exe upload: expected 422, got %d", rec.Code)
	}

	// Removing the attachment clears the metadata.
	recDel, respDel := doJSON(t, router, http.MethodDelete, "/sessions/"+id+"/attachment", nil)
	if recDel.Code != http.StatusOK {
		t.Fatalf("delete attachment: expected 200, got %d", recDel.Code)
	}
	if respDel.Session.Form.Attachment != nil {
		t.Fatalf("attachment not cleared")
	}
}
