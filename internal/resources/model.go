package resources

import (
	"strings"
	"time"
)

// Type classifies a catalog resource.
type Type string

const (
	TypeArticle   Type = "article"
	TypeCaseStudy Type = "case_study"
	TypeReport    Type = "report"
	TypeTool      Type = "tool"
	TypeDownload  Type = "download"
)

// Types is the full set of allowed resource types.
var Types = []Type{TypeArticle, TypeCaseStudy, TypeReport, TypeTool, TypeDownload}

// IsType reports whether s is an allowed resource type.
func IsType(s string) bool {
	for _, t := range Types {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Resource is one catalog entry. Instances handed to the filter pipeline are
// treated as immutable snapshots; filtering always produces a new slice.
type Resource struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary,omitempty"`
	Author       string    `json:"author,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Categories   []string  `json:"categories,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Type         Type      `json:"type"`
	PublishedAt  time.Time `json:"published_at"`
	Year         int       `json:"year,omitempty"`
	Featured     bool      `json:"featured"`
	Published    bool      `json:"published"`
}

// Validate checks the fields an admin must supply.
func (r *Resource) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingTitle
	}
	if !IsType(string(r.Type)) {
		return ErrInvalidType
	}
	return nil
}

// Slugify turns a display string into its URL slug: trimmed, lower-cased,
// spaces replaced with hyphens. Category filter matching uses the same
// normalization.
func Slugify(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}
