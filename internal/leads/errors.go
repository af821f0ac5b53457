package leads

import "errors"

var (
	// ErrInvalidName is returned when the name is missing or blank
	ErrInvalidName = errors.New("name is required")

	// ErrMissingOrganization is returned when the organization is missing or blank
	ErrMissingOrganization = errors.New("organization is required")

	// ErrInvalidEmail is returned when the email is missing or malformed
	ErrInvalidEmail = errors.New("a valid email is required")

	// ErrMissingPhone is returned when the phone number is missing
	ErrMissingPhone = errors.New("phone is required")

	// ErrMissingServices is returned when no service interest was selected
	ErrMissingServices = errors.New("at least one service is required")

	// ErrMissingMessage is returned when the project description is missing
	ErrMissingMessage = errors.New("message is required")

	// ErrMessageTooLong is returned when the project description exceeds the limit
	ErrMessageTooLong = errors.New("message exceeds 600 characters")

	// ErrMissingTimeframe is returned when no timeframe was selected
	ErrMissingTimeframe = errors.New("timeframe is required")

	// ErrConsentRequired is returned when the privacy consent box is unchecked
	ErrConsentRequired = errors.New("consent is required")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
