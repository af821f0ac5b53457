package resources

import "errors"

var (
	// ErrResourceNotFound is returned when a resource is not found
	ErrResourceNotFound = errors.New("resource not found")

	// ErrMissingTitle is returned when a resource has no title
	ErrMissingTitle = errors.New("title is required")

	// ErrInvalidType is returned for an unknown resource type
	ErrInvalidType = errors.New("invalid resource type")

	// ErrSlugTaken is returned when a slug already belongs to another resource
	ErrSlugTaken = errors.New("slug already in use")
)
