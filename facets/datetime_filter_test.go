package facets_test

import (
	"testing"
	"time"

	"github.com/arthur-debert/facets/facets"
	"github.com/arthur-debert/facets/memstore"
	"github.com/arthur-debert/facets/types"
)

// dateStore builds a minimal store with one nullable date attribute
func dateStore(t *testing.T, dates []interface{}) *memstore.Store {
	t.Helper()
	model := types.NewModel("book", []types.Attribute{
		{Name: "published", Kind: types.Date, Nullable: true},
	})
	records := make([]memstore.Record, len(dates))
	for i, d := range dates {
		records[i] = memstore.Record{Attrs: map[string]interface{}{"published": d}}
	}
	store, err := memstore.New(model, records)
	if err != nil {
		t.Fatalf("building store: %v", err)
	}
	return store
}

func TestDateTimeFilterOffersYears(t *testing.T) {
	store := dateStore(t, []interface{}{
		"1847-10-16", "1847-12-19", "1847-12-19", "1848-06-27", "1849-10-28",
	})
	choices := fieldChoices(t, store, "", "published", facets.Options{})

	assertLabels(t, choices, []string{"1847", "1848", "1849"})
	assertCount(t, choices[0], 3)
	assertCount(t, choices[1], 1)
	assertCount(t, choices[2], 1)
	if got := choices[0].Query(); got != "published=1847" {
		t.Errorf("expected published=1847, got %q", got)
	}
}

func TestDateTimeFilterDrillsYearToMonths(t *testing.T) {
	store := dateStore(t, []interface{}{
		"1847-10-16", "1847-12-19", "1847-12-19", "1848-06-27", "1849-10-28",
	})
	choices := fieldChoices(t, store, "published=1847", "published", facets.Options{})

	removes := byLink(choices, facets.LinkRemove)
	adds := byLink(choices, facets.LinkAdd)
	assertLabels(t, removes, []string{"1847"})
	assertLabels(t, adds, []string{"October", "December"})
	assertCount(t, adds[0], 1)
	assertCount(t, adds[1], 2)
	if got := adds[1].Query(); got != "published=1847&published=1847-12" {
		t.Errorf("expected layered selection, got %q", got)
	}
}

func TestDateTimeFilterDrillsMonthToDays(t *testing.T) {
	store := dateStore(t, []interface{}{
		"1847-10-16", "1847-12-19", "1847-12-19", "1848-06-27",
	})
	choices := fieldChoices(t, store, "published=1847&published=1847-12", "published", facets.Options{})

	adds := byLink(choices, facets.LinkAdd)
	assertLabels(t, adds, []string{"19"})
	assertCount(t, adds[0], 2)
}

func TestDateTimeFilterCascadeRemoval(t *testing.T) {
	store := dateStore(t, []interface{}{
		"1847-10-16", "1847-12-19", "1847-12-19", "1848-06-27",
	})
	choices := fieldChoices(t, store, "published=1847&published=1847-12-19", "published", facets.Options{})

	removes := byLink(choices, facets.LinkRemove)
	if len(removes) != 2 {
		t.Fatalf("expected 2 remove links, got %v", labelsOf(removes))
	}

	// removing the year strips the finer day selection too
	if got := removes[0].Query(); got != "" {
		t.Errorf("removing the year should clear everything, got %q", got)
	}
	// removing the day keeps the year
	if got := removes[1].Query(); got != "published=1847" {
		t.Errorf("removing the day should keep the year, got %q", got)
	}
}

func TestDateTimeFilterBridgesGranularityGap(t *testing.T) {
	store := dateStore(t, []interface{}{
		"1847-10-16", "1847-12-19", "1847-12-19", "1848-06-27",
	})
	// the day was chosen without an intermediate month selection
	choices := fieldChoices(t, store, "published=1847&published=1847-12-19", "published", facets.Options{})

	displays := byLink(choices, facets.LinkDisplay)
	assertLabels(t, displays, []string{"December"})
	if displays[0].Params != nil {
		t.Error("bridge entries carry no link")
	}

	// the full breadcrumb reads year, month, day
	assertLabels(t, choices, []string{"1847", "December", "19"})
}

func TestDateTimeFilterInfersStartingLevel(t *testing.T) {
	t.Run("single year starts at months", func(t *testing.T) {
		store := dateStore(t, []interface{}{"1850-03-05", "1850-03-12", "1850-07-01"})
		choices := fieldChoices(t, store, "", "published", facets.Options{})
		adds := byLink(choices, facets.LinkAdd)
		assertLabels(t, adds, []string{"March", "July"})
	})

	t.Run("single month starts at days", func(t *testing.T) {
		store := dateStore(t, []interface{}{"1850-03-05", "1850-03-12"})
		choices := fieldChoices(t, store, "", "published", facets.Options{})
		adds := byLink(choices, facets.LinkAdd)
		assertLabels(t, adds, []string{"5", "12"})
	})
}

func TestDateTimeFilterCollapsesYears(t *testing.T) {
	var dates []interface{}
	for y := 1800; y <= 1812; y++ {
		dates = append(dates, time.Date(y, 6, 1, 0, 0, 0, 0, time.UTC))
	}
	store := dateStore(t, dates)
	choices := fieldChoices(t, store, "", "published", facets.Options{MaxLinks: 5})

	adds := byLink(choices, facets.LinkAdd)
	assertLabels(t, adds, []string{
		"1800-1803", "1803-1806", "1806-1809", "1809-1812", "1812-1812",
	})
	assertCount(t, adds[0], 3)
	assertCount(t, adds[3], 3)
	assertCount(t, adds[4], 1)
}

func TestDateTimeFilterGroupDrillsToSingles(t *testing.T) {
	store := dateStore(t, []interface{}{
		"1813-01-01", "1818-01-01", "1846-05-22", "1847-10-16", "1847-12-19", "1848-06-27",
	})
	choices := fieldChoices(t, store, "published=1846..1848", "published", facets.Options{})

	removes := byLink(choices, facets.LinkRemove)
	adds := byLink(choices, facets.LinkAdd)
	assertLabels(t, removes, []string{"1846-1848"})
	assertLabels(t, adds, []string{"1846", "1847", "1848"})
	assertCount(t, adds[1], 2)
}

func TestDateTimeFilterMaxDepth(t *testing.T) {
	store := dateStore(t, []interface{}{
		"1847-10-16", "1847-12-19", "1848-06-27",
	})
	choices := fieldChoices(t, store, "published=1847", "published", facets.Options{MaxDepth: "year"})

	// drill-down stops at the year
	if len(choices) != 1 || choices[0].Link != facets.LinkRemove {
		t.Fatalf("expected only the remove link, got %v", labelsOf(choices))
	}
}

func TestDateTimeFilterInvalidMaxDepth(t *testing.T) {
	model := types.NewModel("book", []types.Attribute{
		{Name: "published", Kind: types.Date},
	})
	_, err := facets.NewDateTimeFilter("published", model, facets.Params{}, facets.Options{MaxDepth: "week"})
	if err == nil {
		t.Error("expected error for invalid max depth")
	}
}

func TestDateTimeFilterNullSelection(t *testing.T) {
	store := dateStore(t, []interface{}{"1847-10-16", nil, nil})

	open := fieldChoices(t, store, "", "published", facets.Options{})
	nullAdds := byLink(open, facets.LinkAdd)
	if nullAdds[0].Label != "(null)" {
		t.Fatalf("expected null add choice first, got %v", labelsOf(nullAdds))
	}
	assertCount(t, nullAdds[0], 2)

	chosen := fieldChoices(t, store, "published--isnull=", "published", facets.Options{})
	if len(chosen) != 1 || chosen[0].Link != facets.LinkRemove {
		t.Fatalf("expected only the remove link, got %v", labelsOf(chosen))
	}
}

func TestDateTimeFilterMalformedTokenIgnored(t *testing.T) {
	store := dateStore(t, []interface{}{"1847-10-16", "1848-06-27"})
	choices := fieldChoices(t, store, "published=184x", "published", facets.Options{})

	// behaves as if the parameter were absent
	if len(byLink(choices, facets.LinkRemove)) != 0 {
		t.Error("malformed token produced a remove link")
	}
	adds := byLink(choices, facets.LinkAdd)
	assertLabels(t, adds, []string{"1847", "1848"})
}
