package leads

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Lead is one persisted intake submission, mirroring a row in the leads table.
type Lead struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Organization string    `json:"organization"`
	Role         string    `json:"role,omitempty"`
	Phone        string    `json:"phone"`
	CountryCode  string    `json:"country_code,omitempty"`
	InterestedIn string    `json:"interested_in"`
	OtherService string    `json:"other_service,omitempty"`
	Message      string    `json:"message"`
	Budget       string    `json:"budget,omitempty"`
	Timeframe    string    `json:"timeframe"`
	FilePath     string    `json:"file_path,omitempty"`
	Consent      bool      `json:"consent"`
	Source       string    `json:"source,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateLeadRequest represents the request body for creating a lead. It is
// produced either directly by the public contact form or assembled by the
// wizard engine on final submission.
type CreateLeadRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Organization string `json:"organization" validate:"required"`
	Role         string `json:"role"`
	Phone        string `json:"phone" validate:"required"`
	CountryCode  string `json:"country_code"`
	InterestedIn string `json:"interested_in" validate:"required"`
	OtherService string `json:"other_service"`
	Message      string `json:"message" validate:"required,max=600"`
	Budget       string `json:"budget"`
	Timeframe    string `json:"timeframe" validate:"required"`
	FilePath     string `json:"file_path"`
	Consent      bool   `json:"consent" validate:"required"`
	Source       string `json:"source"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the create lead request. Whitespace-only required fields are
// treated as empty, matching the trimmed checks the intake forms apply.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Organization) == "" {
		return ErrMissingOrganization
	}
	if strings.TrimSpace(r.Message) == "" {
		return ErrMissingMessage
	}
	if !r.Consent {
		return ErrConsentRequired
	}
	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0]
			switch field.Field() {
			case "Email":
				return ErrInvalidEmail
			case "Phone":
				return ErrMissingPhone
			case "InterestedIn":
				return ErrMissingServices
			case "Timeframe":
				return ErrMissingTimeframe
			case "Message":
				return ErrMessageTooLong
			}
			return fmt.Errorf("leads: field %s failed %q validation", field.Field(), field.Tag())
		}
		return fmt.Errorf("leads: validate: %w", err)
	}
	return nil
}
