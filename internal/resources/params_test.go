package resources

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseParams(t *testing.T) {
	q := url.Values{}
	q.Set("search", "  nutrition ")
	q.Set("category", "Public Health")
	q.Set("categories", "Agriculture, Monitoring ,")
	q.Set("type", "report")
	q.Set("year", "2024")
	q.Set("sort", "a-z")

	p := ParseParams(q)
	want := FilterParams{
		Search:     "nutrition",
		Category:   "Public Health",
		Categories: []string{"Agriculture", "Monitoring"},
		Type:       "report",
		Year:       2024,
		Sort:       SortTitleAZ,
	}
	if !reflect.DeepEqual(p, want) {
		t.Fatalf("parsed %+v, want %+v", p, want)
	}
}

func TestParseParamsDropsSentinelsAndJunk(t *testing.T) {
	q := url.Values{}
	q.Set("category", AllCategories)
	q.Set("type", AllTypes)
	q.Set("year", "not-a-year")
	q.Set("sort", "shuffled")

	p := ParseParams(q)
	if p.Category != "" || p.Type != "" || p.Year != 0 {
		t.Fatalf("sentinels and junk should be dropped: %+v", p)
	}
	if p.Sort != SortNewest {
		t.Fatalf("unknown sort should fall back to newest, got %q", p.Sort)
	}

	q = url.Values{}
	q.Set("type", "podcast")
	q.Set("year", "-3")
	p = ParseParams(q)
	if p.Type != "" || p.Year != 0 {
		t.Fatalf("unknown type and negative year should be dropped: %+v", p)
	}
}

func TestParamsRoundTrip(t *testing.T) {
	cases := []FilterParams{
		{Sort: SortNewest},
		{Search: "maternal health", Sort: SortNewest},
		{Category: "Public Health", Sort: SortNewest},
		{Categories: []string{"Agriculture", "Monitoring"}, Sort: SortNewest},
		{Type: "case_study", Year: 2024, Sort: SortOldest},
		{Search: "toolkit", Category: "Monitoring", Type: "download", Year: 2022, Sort: SortTitleZA},
	}

	catalog := sampleCatalog()
	for _, p := range cases {
		parsed := ParseParams(p.Values())
		if !reflect.DeepEqual(parsed, p) {
			t.Errorf("round-trip changed params: %+v -> %+v", p, parsed)
			continue
		}
		// The shareable link reproduces the identical result set.
		before := ids(p.Apply(catalog))
		after := ids(parsed.Apply(catalog))
		if !reflect.DeepEqual(before, after) {
			t.Errorf("round-trip changed result set: %v -> %v", before, after)
		}
	}
}

func TestValuesOmitsDefaults(t *testing.T) {
	v := FilterParams{Sort: SortNewest}.Values()
	if len(v) != 0 {
		t.Fatalf("default params should encode empty, got %v", v)
	}
}
