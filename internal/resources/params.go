package resources

import (
	"net/url"
	"strconv"
	"strings"
)

// Sentinel values the front end uses for "no filter". They are dropped at the
// parsing boundary so FilterParams only ever carries effective filters.
const (
	AllCategories = "All"
	AllTypes      = "all"
)

// ParseParams reads filter state from a URL query string. It is the inverse
// of Values: parsing an encoded FilterParams yields the identical filtered
// result set.
func ParseParams(q url.Values) FilterParams {
	p := FilterParams{Sort: SortNewest}

	p.Search = strings.TrimSpace(q.Get("search"))

	if c := strings.TrimSpace(q.Get("category")); c != "" && c != AllCategories {
		p.Category = c
	}

	if cs := q.Get("categories"); cs != "" {
		for _, part := range strings.Split(cs, ",") {
			if part = strings.TrimSpace(part); part != "" {
				p.Categories = append(p.Categories, part)
			}
		}
	}

	if t := strings.TrimSpace(q.Get("type")); t != "" && t != AllTypes {
		if IsType(t) {
			p.Type = t
		}
	}

	if y := q.Get("year"); y != "" {
		if year, err := strconv.Atoi(y); err == nil && year > 0 {
			p.Year = year
		}
	}

	if s := q.Get("sort"); IsSortOrder(s) {
		p.Sort = s
	}

	return p
}

// Values encodes the effective filters back into query parameters, suitable
// for shareable/bookmarkable links. Defaults are omitted.
func (p FilterParams) Values() url.Values {
	v := url.Values{}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.Category != "" {
		v.Set("category", p.Category)
	}
	if len(p.Categories) > 0 {
		v.Set("categories", strings.Join(p.Categories, ","))
	}
	if p.Type != "" {
		v.Set("type", p.Type)
	}
	if p.Year != 0 {
		v.Set("year", strconv.Itoa(p.Year))
	}
	if p.Sort != "" && p.Sort != SortNewest {
		v.Set("sort", p.Sort)
	}
	return v
}
