package wizard

import (
	"fmt"
	"regexp"
	"strings"
)

// Steps of the intake wizard. Navigation is strictly sequential.
const (
	StepName         = 1
	StepOrganization = 2
	StepContact      = 3
	StepProject      = 4
	StepTimeframe    = 5
	StepReview       = 6

	FirstStep = StepName
	FinalStep = StepReview
)

// MaxDescriptionLen bounds the project description field.
const MaxDescriptionLen = 600

// ServiceOther unlocks the free-text otherService field when selected.
const ServiceOther = "Other"

// BudgetCustom unlocks the free-text customBudget field when selected.
const BudgetCustom = "Custom"

// ServiceOptions is the fixed set of services a prospect can pick from.
var ServiceOptions = []string{
	"Strategy & Advisory",
	"Research & Insights",
	"Monitoring & Evaluation",
	"Capacity Building",
	"Digital Transformation",
	ServiceOther,
}

// BudgetOptions is the fixed set of budget ranges, plus the Custom sentinel.
var BudgetOptions = []string{
	"Under $5,000",
	"$5,000 - $20,000",
	"$20,000 - $50,000",
	"Over $50,000",
	BudgetCustom,
}

// TimeframeOptions is the fixed set of delivery timeframes.
var TimeframeOptions = []string{
	"Urgent (within 1 month)",
	"1 - 3 months",
	"3 - 6 months",
	"6+ months",
	"Flexible",
}

// Same loose pattern the public site applies to the email field.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ValidEmail reports whether the email passes the intake form's loose check.
func ValidEmail(email string) bool {
	return email != "" && emailPattern.MatchString(email)
}

// IsServiceOption reports whether s is one of the enumerated services.
func IsServiceOption(s string) bool {
	return contains(ServiceOptions, s)
}

// IsBudgetOption reports whether s is one of the enumerated budget ranges.
func IsBudgetOption(s string) bool {
	return contains(BudgetOptions, s)
}

// IsTimeframeOption reports whether s is one of the enumerated timeframes.
func IsTimeframeOption(s string) bool {
	return contains(TimeframeOptions, s)
}

func contains(options []string, s string) bool {
	for _, opt := range options {
		if opt == s {
			return true
		}
	}
	return false
}

// FormData is the mutable intake record owned by one wizard session. It is
// built up field by field across the six steps and discarded (or frozen by the
// submitted marker) once the lead is persisted.
type FormData struct {
	FullName     string      `json:"full_name"`
	Organization string      `json:"organization"`
	Role         string      `json:"role,omitempty"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	CountryCode  string      `json:"country_code"`
	Services     []string    `json:"services"`
	OtherService string      `json:"other_service,omitempty"`
	Description  string      `json:"description"`
	Budget       string      `json:"budget,omitempty"`
	CustomBudget string      `json:"custom_budget,omitempty"`
	Timeframe    string      `json:"timeframe"`
	Attachment   *Attachment `json:"attachment,omitempty"`
	Consent      bool        `json:"consent"`
}

// StepValid is the pure per-step validation predicate. A step's required
// fields must all pass before Next advances beyond it.
//
// Note: step 4 does not require OtherService to be filled even when Services
// contains "Other". That matches the shipped intake form; tightening it is a
// product decision, not a bug fix to slip in here.
func StepValid(f FormData, step int) bool {
	switch step {
	case StepName:
		return strings.TrimSpace(f.FullName) != ""
	case StepOrganization:
		return strings.TrimSpace(f.Organization) != ""
	case StepContact:
		return ValidEmail(f.Email) && f.Phone != ""
	case StepProject:
		return len(f.Services) > 0 && strings.TrimSpace(f.Description) != ""
	case StepTimeframe:
		return f.Timeframe != ""
	case StepReview:
		return f.Consent
	default:
		return false
	}
}

// FieldErrors aggregates per-field validation messages, keyed by the form
// field's JSON name.
type FieldErrors map[string]string

// StepErrors returns inline messages for every invalid required field of the
// given step. An empty map means the step is valid.
func StepErrors(f FormData, step int) FieldErrors {
	errs := FieldErrors{}
	switch step {
	case StepName:
		if strings.TrimSpace(f.FullName) == "" {
			errs["full_name"] = "Full name is required"
		}
	case StepOrganization:
		if strings.TrimSpace(f.Organization) == "" {
			errs["organization"] = "Organization is required"
		}
	case StepContact:
		if !ValidEmail(f.Email) {
			errs["email"] = "A valid email is required"
		}
		if f.Phone == "" {
			errs["phone"] = "Phone number is required"
		}
	case StepProject:
		if len(f.Services) == 0 {
			errs["services"] = "Select at least one service"
		}
		if strings.TrimSpace(f.Description) == "" {
			errs["description"] = "Project description is required"
		}
	case StepTimeframe:
		if f.Timeframe == "" {
			errs["timeframe"] = "Select a timeframe"
		}
	case StepReview:
		if !f.Consent {
			errs["consent"] = "Consent is required before submitting"
		}
	}
	return errs
}

// UpdateRequest carries a partial form update. Nil fields are left untouched,
// so clearing a value requires sending it explicitly empty.
type UpdateRequest struct {
	FullName     *string   `json:"full_name,omitempty"`
	Organization *string   `json:"organization,omitempty"`
	Role         *string   `json:"role,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	CountryCode  *string   `json:"country_code,omitempty"`
	Services     *[]string `json:"services,omitempty"`
	OtherService *string   `json:"other_service,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Budget       *string   `json:"budget,omitempty"`
	CustomBudget *string   `json:"custom_budget,omitempty"`
	Timeframe    *string   `json:"timeframe,omitempty"`
	Consent      *bool     `json:"consent,omitempty"`
}

// Apply copies the set fields onto f. Values outside the enumerated sets or
// beyond the description bound are rejected with a field error and not
// applied; everything else is applied even if a later step would still
// consider it incomplete.
func (r *UpdateRequest) Apply(f *FormData) FieldErrors {
	errs := FieldErrors{}

	if r.FullName != nil {
		f.FullName = *r.FullName
	}
	if r.Organization != nil {
		f.Organization = *r.Organization
	}
	if r.Role != nil {
		f.Role = *r.Role
	}
	if r.Email != nil {
		f.Email = *r.Email
		if f.Email != "" && !ValidEmail(f.Email) {
			errs["email"] = "A valid email is required"
		}
	}
	if r.Phone != nil {
		f.Phone = *r.Phone
	}
	if r.CountryCode != nil {
		f.CountryCode = *r.CountryCode
	}
	if r.Services != nil {
		services := *r.Services
		valid := true
		for _, svc := range services {
			if !IsServiceOption(svc) {
				errs["services"] = fmt.Sprintf("Unknown service %q", svc)
				valid = false
				break
			}
		}
		if valid {
			f.Services = services
		}
	}
	if r.OtherService != nil {
		f.OtherService = *r.OtherService
	}
	if r.Description != nil {
		if len(*r.Description) > MaxDescriptionLen {
			errs["description"] = fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLen)
		} else {
			f.Description = *r.Description
		}
	}
	if r.Budget != nil {
		if *r.Budget != "" && !IsBudgetOption(*r.Budget) {
			errs["budget"] = fmt.Sprintf("Unknown budget %q", *r.Budget)
		} else {
			f.Budget = *r.Budget
		}
	}
	if r.CustomBudget != nil {
		f.CustomBudget = *r.CustomBudget
	}
	if r.Timeframe != nil {
		if *r.Timeframe != "" && !IsTimeframeOption(*r.Timeframe) {
			errs["timeframe"] = fmt.Sprintf("Unknown timeframe %q", *r.Timeframe)
		} else {
			f.Timeframe = *r.Timeframe
		}
	}
	if r.Consent != nil {
		f.Consent = *r.Consent
	}
	return errs
}
