package resources

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sort orders for the catalog.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortTitleAZ = "a-z"
	SortTitleZA = "z-a"
)

// IsSortOrder reports whether s is a recognized sort order.
func IsSortOrder(s string) bool {
	switch s {
	case SortNewest, SortOldest, SortTitleAZ, SortTitleZA:
		return true
	}
	return false
}

// FilterParams is one input tuple for the catalog derivation. The zero value
// passes everything through sorted newest first.
type FilterParams struct {
	// Search is a free-text query matched case-insensitively against title,
	// summary, tags and author.
	Search string
	// Category is the single-select filter; empty means all.
	Category string
	// Categories is the multi-select filter, OR-combined among themselves and
	// AND-combined with the other stages.
	Categories []string
	// Type filters on the resource type; empty means all.
	Type string
	// Year filters on the publication year; zero means unset.
	Year int
	// Sort is one of the Sort* constants; empty falls back to newest.
	Sort string
}

// Apply runs the filter pipeline over resources and returns a newly derived,
// sorted slice. The input is never mutated and the derivation is
// deterministic for any given input tuple; an empty result is a valid state.
func (p FilterParams) Apply(in []Resource) []Resource {
	out := make([]Resource, 0, len(in))
	for _, r := range in {
		if !p.matchesSearch(r) {
			continue
		}
		if !p.matchesCategory(r) {
			continue
		}
		if !p.matchesCategories(r) {
			continue
		}
		if !p.matchesType(r) {
			continue
		}
		if !p.matchesYear(r) {
			continue
		}
		out = append(out, r)
	}
	p.sortResources(out)
	return out
}

func (p FilterParams) matchesSearch(r Resource) bool {
	query := strings.ToLower(strings.TrimSpace(p.Search))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), query) ||
		strings.Contains(strings.ToLower(r.Summary), query) ||
		strings.Contains(strings.ToLower(r.Author), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func (p FilterParams) matchesCategory(r Resource) bool {
	if p.Category == "" {
		return true
	}
	want := Slugify(p.Category)
	for _, cat := range r.Categories {
		if Slugify(cat) == want {
			return true
		}
	}
	return false
}

func (p FilterParams) matchesCategories(r Resource) bool {
	if len(p.Categories) == 0 {
		return true
	}
	for _, selected := range p.Categories {
		want := Slugify(selected)
		for _, cat := range r.Categories {
			if Slugify(cat) == want {
				return true
			}
		}
	}
	return false
}

func (p FilterParams) matchesType(r Resource) bool {
	return p.Type == "" || string(r.Type) == p.Type
}

func (p FilterParams) matchesYear(r Resource) bool {
	return p.Year == 0 || r.Year == p.Year
}

func (p FilterParams) sortResources(rs []Resource) {
	switch p.Sort {
	case SortOldest:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].PublishedAt.Before(rs[j].PublishedAt)
		})
	case SortTitleAZ:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(rs, func(i, j int) bool {
			return c.CompareString(rs[i].Title, rs[j].Title) < 0
		})
	case SortTitleZA:
		c := collate.New(language.English, collate.IgnoreCase)
		sort.SliceStable(rs, func(i, j int) bool {
			return c.CompareString(rs[i].Title, rs[j].Title) > 0
		})
	default: // SortNewest
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].PublishedAt.After(rs[j].PublishedAt)
		})
	}
}
