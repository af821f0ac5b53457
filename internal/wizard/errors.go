package wizard

import "errors"

var (
	// ErrSessionNotFound is returned when the session is missing or expired
	ErrSessionNotFound = errors.New("wizard session not found")

	// ErrStepNotValid is returned when Next is invoked while the active step's
	// required fields are incomplete
	ErrStepNotValid = errors.New("current step is not valid")

	// ErrFormNotValid is returned when submission is attempted before every
	// step passes validation
	ErrFormNotValid = errors.New("form is not valid for submission")

	// ErrAlreadySubmitted is returned when a submitted session is mutated or
	// submitted again
	ErrAlreadySubmitted = errors.New("session already submitted")

	// ErrSubmitInFlight is returned when a submission is already running
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrAttachmentEmpty is returned for zero-length uploads
	ErrAttachmentEmpty = errors.New("attachment is empty")

	// ErrAttachmentTooLarge is returned when the upload exceeds 20MB
	ErrAttachmentTooLarge = errors.New("attachment exceeds 20MB limit")

	// ErrAttachmentType is returned for anything but pdf, doc or docx
	ErrAttachmentType = errors.New("attachment must be a pdf, doc or docx file")
)
