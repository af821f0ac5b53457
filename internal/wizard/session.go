package wizard

import (
	"strings"
	"time"

	"github.com/upeo/website-backend/internal/leads"
)

// Session is one intake journey through the six-step wizard. Exactly one
// current step is active at all times; Next is guarded by the active step's
// validity while Prev never is.
type Session struct {
	ID          string    `json:"id"`
	CurrentStep int       `json:"current_step"`
	Form        FormData  `json:"form"`
	Submitting  bool      `json:"submitting"`
	Submitted   bool      `json:"submitted"`
	LeadID      string    `json:"lead_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Next advances to the following step. It refuses to move while the active
// step is incomplete and is a no-op on the final step.
func (s *Session) Next() error {
	if s.CurrentStep >= FinalStep {
		return nil
	}
	if !StepValid(s.Form, s.CurrentStep) {
		return ErrStepNotValid
	}
	s.CurrentStep++
	return nil
}

// Prev steps back without any validation. On the first step it is a no-op.
func (s *Session) Prev() {
	if s.CurrentStep > FirstStep {
		s.CurrentStep--
	}
}

// FormValid reports whether every step's required fields pass, i.e. the
// session may be submitted.
func (s *Session) FormValid() bool {
	for step := FirstStep; step <= FinalStep; step++ {
		if !StepValid(s.Form, step) {
			return false
		}
	}
	return true
}

// FormErrors aggregates the inline messages of every invalid field across all
// steps.
func (s *Session) FormErrors() FieldErrors {
	errs := FieldErrors{}
	for step := FirstStep; step <= FinalStep; step++ {
		for field, msg := range StepErrors(s.Form, step) {
			errs[field] = msg
		}
	}
	return errs
}

// LeadRequest assembles the normalized submission payload: services joined
// into a single delimited string, a chosen custom budget substituted for the
// Custom sentinel, and only the attachment's stored key or name (never its
// bytes) carried along.
func (s *Session) LeadRequest() *leads.CreateLeadRequest {
	f := s.Form

	budget := f.Budget
	if budget == BudgetCustom && strings.TrimSpace(f.CustomBudget) != "" {
		budget = f.CustomBudget
	}

	req := &leads.CreateLeadRequest{
		Name:         f.FullName,
		Email:        f.Email,
		Organization: f.Organization,
		Role:         f.Role,
		Phone:        f.Phone,
		CountryCode:  f.CountryCode,
		InterestedIn: strings.Join(f.Services, ", "),
		OtherService: f.OtherService,
		Message:      f.Description,
		Budget:       budget,
		Timeframe:    f.Timeframe,
		Consent:      f.Consent,
		Source:       "wizard",
	}
	if f.Attachment != nil {
		if f.Attachment.StorageKey != "" {
			req.FilePath = f.Attachment.StorageKey
		} else {
			req.FilePath = f.Attachment.FileName
		}
	}
	return req
}

// clone returns an independent copy so stored sessions cannot be mutated
// through aliased slices or the attachment pointer.
func (s *Session) clone() *Session {
	cp := *s
	if s.Form.Services != nil {
		cp.Form.Services = append([]string(nil), s.Form.Services...)
	}
	if s.Form.Attachment != nil {
		att := *s.Form.Attachment
		cp.Form.Attachment = &att
	}
	return &cp
}
