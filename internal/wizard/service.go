package wizard

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/upeo/website-backend/internal/leads"
	"github.com/upeo/website-backend/internal/observability/metrics"
	"github.com/upeo/website-backend/pkg/logging"
)

// AttachmentStore persists a validated upload and returns the stored key.
type AttachmentStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// Service orchestrates wizard sessions: step navigation, field updates,
// attachment handling and the single terminal submission.
type Service struct {
	store       Store
	leads       leads.Repository
	notifier    leads.Notifier
	attachments AttachmentStore
	metrics     *metrics.IntakeMetrics
	countryCode string
	logger      *logging.Logger
	now         func() time.Time
}

// Config collects the service's collaborators. Notifier, Attachments and
// Metrics may be nil.
type Config struct {
	Store              Store
	Leads              leads.Repository
	Notifier           leads.Notifier
	Attachments        AttachmentStore
	Metrics            *metrics.IntakeMetrics
	DefaultCountryCode string
	Logger             *logging.Logger
}

// NewService creates a wizard service.
func NewService(cfg Config) *Service {
	if cfg.Store == nil {
		panic("wizard: session store required")
	}
	if cfg.Leads == nil {
		panic("wizard: leads repository required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	countryCode := cfg.DefaultCountryCode
	if countryCode == "" {
		countryCode = "+254"
	}
	return &Service{
		store:       cfg.Store,
		leads:       cfg.Leads,
		notifier:    cfg.Notifier,
		attachments: cfg.Attachments,
		metrics:     cfg.Metrics,
		countryCode: countryCode,
		logger:      logger,
		now:         time.Now,
	}
}

// Start creates a fresh session on the first step. A known preselected
// service (e.g. from a services-page link) seeds the services field; unknown
// values are ignored.
func (s *Service) Start(ctx context.Context, preselectedService string) (*Session, error) {
	now := s.now().UTC()
	sess := &Session{
		ID:          uuid.New().String(),
		CurrentStep: FirstStep,
		Form: FormData{
			CountryCode: s.countryCode,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if preselectedService != "" && IsServiceOption(preselectedService) {
		sess.Form.Services = []string{preselectedService}
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("wizard: start session: %w", err)
	}
	s.metrics.WizardSessionStarted()
	return sess, nil
}

// Get fetches a session by id.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// Update applies a partial form update. Rejected values surface as field
// errors alongside the (partially) updated session.
func (s *Service) Update(ctx context.Context, id string, req *UpdateRequest) (*Session, FieldErrors, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sess.Submitted {
		return nil, nil, ErrAlreadySubmitted
	}

	errs := req.Apply(&sess.Form)
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("wizard: save session: %w", err)
	}
	return sess, errs, nil
}

// Next advances the session if its active step is valid. On a validation
// failure the step's field errors are returned and the step stays put.
func (s *Service) Next(ctx context.Context, id string) (*Session, FieldErrors, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if sess.Submitted {
		return nil, nil, ErrAlreadySubmitted
	}

	if err := sess.Next(); err != nil {
		return sess, StepErrors(sess.Form, sess.CurrentStep), err
	}
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("wizard: save session: %w", err)
	}
	return sess, nil, nil
}

// Prev steps the session back. Going backward never validates.
func (s *Service) Prev(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Submitted {
		return nil, ErrAlreadySubmitted
	}

	sess.Prev()
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("wizard: save session: %w", err)
	}
	return sess, nil
}

// Attach validates and stores an upload, then records its metadata on the
// form. Only the metadata ever reaches the lead payload.
func (s *Service) Attach(ctx context.Context, id, fileName, contentType string, size int64, body io.Reader) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Submitted {
		return nil, ErrAlreadySubmitted
	}

	if err := ValidateAttachment(fileName, size, contentType); err != nil {
		return nil, err
	}

	att := &Attachment{
		FileName:    path.Base(fileName),
		Size:        size,
		ContentType: contentType,
	}
	if s.attachments != nil {
		key := fmt.Sprintf("wizard/%s/%s", sess.ID, att.FileName)
		storedKey, err := s.attachments.Put(ctx, key, contentType, body)
		if err != nil {
			return nil, fmt.Errorf("wizard: store attachment: %w", err)
		}
		att.StorageKey = storedKey
	}

	sess.Form.Attachment = att
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("wizard: save session: %w", err)
	}
	return sess, nil
}

// RemoveAttachment clears the attachment metadata.
func (s *Service) RemoveAttachment(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Submitted {
		return nil, ErrAlreadySubmitted
	}

	sess.Form.Attachment = nil
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("wizard: save session: %w", err)
	}
	return sess, nil
}

// Submit performs the single terminal insert. It is a no-op for an already
// submitted session, refuses an invalid form, and on a remote failure clears
// the submitting flag so the caller may retry manually. There is no automatic
// retry.
func (s *Service) Submit(ctx context.Context, id string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Submitted {
		return sess, ErrAlreadySubmitted
	}
	if sess.Submitting {
		return sess, ErrSubmitInFlight
	}
	if !sess.FormValid() {
		return sess, ErrFormNotValid
	}

	sess.Submitting = true
	if err := s.store.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("wizard: save session: %w", err)
	}

	lead, err := s.leads.Create(ctx, sess.LeadRequest())
	if err != nil {
		// Form state survives so the user can retry manually.
		sess.Submitting = false
		if saveErr := s.store.Put(ctx, sess); saveErr != nil {
			s.logger.Error("failed to clear submitting flag", "error", saveErr, "session_id", sess.ID)
		}
		s.metrics.WizardSubmission("error")
		return sess, fmt.Errorf("wizard: submit failed: %w", err)
	}

	sess.Submitting = false
	sess.Submitted = true
	sess.LeadID = lead.ID
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Put(ctx, sess); err != nil {
		s.logger.Error("failed to persist submitted marker", "error", err, "session_id", sess.ID)
	}

	s.logger.Info("wizard submission completed", "session_id", sess.ID, "lead_id", lead.ID)
	s.metrics.WizardSubmission("success")
	s.metrics.LeadCreated("wizard")

	if s.notifier != nil {
		if err := s.notifier.NotifyNewLead(ctx, lead); err != nil {
			s.logger.Error("lead notification failed", "error", err, "lead_id", lead.ID)
		}
	}

	return sess, nil
}
