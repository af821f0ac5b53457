package wizard

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/upeo/website-backend/pkg/logging"
)

// Handler exposes the wizard session lifecycle over HTTP.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new wizard handler.
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes mounts the wizard endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/sessions", h.StartSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Patch("/", h.UpdateForm)
		r.Post("/next", h.NextStep)
		r.Post("/prev", h.PrevStep)
		r.Post("/attachment", h.UploadAttachment)
		r.Delete("/attachment", h.DeleteAttachment)
		r.Post("/submit", h.Submit)
	})
	return r
}

// StartSessionRequest optionally seeds the new session with a service picked
// on the originating page.
type StartSessionRequest struct {
	Service string `json:"service"`
}

// StartSession handles POST /wizard/sessions requests.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	sess, err := h.service.Start(r.Context(), req.Service)
	if err != nil {
		h.logger.Error("failed to start wizard session", "error", err)
		http.Error(w, "failed to start session", http.StatusInternalServerError)
		return
	}

	writeSession(w, http.StatusCreated, sess, nil)
}

// GetSession handles GET /wizard/sessions/{sessionID} requests.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeSession(w, http.StatusOK, sess, nil)
}

// UpdateForm handles PATCH /wizard/sessions/{sessionID} requests.
func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sess, fieldErrs, err := h.service.Update(r.Context(), chi.URLParam(r, "sessionID"), &req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	status := http.StatusOK
	if len(fieldErrs) > 0 {
		status = http.StatusUnprocessableEntity
	}
	writeSession(w, status, sess, fieldErrs)
}

// NextStep handles POST /wizard/sessions/{sessionID}/next requests.
func (h *Handler) NextStep(w http.ResponseWriter, r *http.Request) {
	sess, fieldErrs, err := h.service.Next(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		if errors.Is(err, ErrStepNotValid) {
			writeSession(w, http.StatusUnprocessableEntity, sess, fieldErrs)
			return
		}
		h.respondError(w, err)
		return
	}
	writeSession(w, http.StatusOK, sess, nil)
}

// PrevStep handles POST /wizard/sessions/{sessionID}/prev requests.
func (h *Handler) PrevStep(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Prev(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeSession(w, http.StatusOK, sess, nil)
}

// UploadAttachment handles POST /wizard/sessions/{sessionID}/attachment
// multipart requests with a single "file" part.
func (h *Handler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxAttachmentSize+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid multipart body", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file part is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	sess, err := h.service.Attach(r.Context(),
		chi.URLParam(r, "sessionID"),
		header.Filename,
		header.Header.Get("Content-Type"),
		header.Size,
		file,
	)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeSession(w, http.StatusOK, sess, nil)
}

// DeleteAttachment handles DELETE /wizard/sessions/{sessionID}/attachment requests.
func (h *Handler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.RemoveAttachment(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeSession(w, http.StatusOK, sess, nil)
}

// Submit handles POST /wizard/sessions/{sessionID}/submit requests.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Submit(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		switch {
		case errors.Is(err, ErrFormNotValid):
			writeSession(w, http.StatusUnprocessableEntity, sess, sess.FormErrors())
		case errors.Is(err, ErrAlreadySubmitted):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrSubmitInFlight):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrSessionNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			// The remote insert failed; the session survives for a manual retry.
			h.logger.Error("wizard submission failed", "error", err)
			http.Error(w, "submission failed, please try again", http.StatusBadGateway)
		}
		return
	}
	writeSession(w, http.StatusOK, sess, nil)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrAlreadySubmitted):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrAttachmentEmpty),
		errors.Is(err, ErrAttachmentTooLarge),
		errors.Is(err, ErrAttachmentType):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		h.logger.Error("wizard request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// SessionResponse wraps a session with any inline field errors.
type SessionResponse struct {
	Session *Session    `json:"session"`
	Errors  FieldErrors `json:"errors,omitempty"`
}

func writeSession(w http.ResponseWriter, status int, sess *Session, fieldErrs FieldErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(SessionResponse{Session: sess, Errors: fieldErrs})
}
