package wizard

import (
	"path/filepath"
	"strings"
)

// MaxAttachmentSize is the upper bound for wizard attachments (20MB).
const MaxAttachmentSize = 20 << 20

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

var allowedContentTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
}

// Attachment holds metadata about a validated wizard upload. Only the file
// name (or its stored key) ever reaches the lead payload, never the bytes.
type Attachment struct {
	FileName    string `json:"file_name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type,omitempty"`
	StorageKey  string `json:"storage_key,omitempty"`
}

// ValidateAttachment checks the size and type rules for a proposed upload.
// contentType may be empty when the client did not supply one; the extension
// check still applies.
func ValidateAttachment(fileName string, size int64, contentType string) error {
	if size <= 0 {
		return ErrAttachmentEmpty
	}
	if size > MaxAttachmentSize {
		return ErrAttachmentTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrAttachmentType
	}
	if contentType != "" {
		// Strip any media-type parameters before matching.
		if idx := strings.Index(contentType, ";"); idx >= 0 {
			contentType = contentType[:idx]
		}
		contentType = strings.TrimSpace(strings.ToLower(contentType))
		if _, ok := allowedContentTypes[contentType]; !ok && contentType != "application/octet-stream" {
			return ErrAttachmentType
		}
	}
	return nil
}
