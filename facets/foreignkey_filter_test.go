package facets_test

import (
	"testing"

	"github.com/arthur-debert/facets/facets"
	"github.com/arthur-debert/facets/memstore"
	"github.com/arthur-debert/facets/testutil"
	"github.com/arthur-debert/facets/types"
)

func TestForeignKeyFilterOffersRelatedOrder(t *testing.T) {
	store, _ := testutil.LoadBooks(t)
	choices := fieldChoices(t, store, "", "genre", facets.Options{})

	// related-model declared order, not count order
	assertLabels(t, choices, []string{"Classics", "Fantasy", "Poetry", "Science Fiction"})
	assertCount(t, choices[0], 7)
	assertCount(t, choices[1], 3)
	assertCount(t, choices[2], 2)
	assertCount(t, choices[3], 4)
}

func TestForeignKeyFilterChosen(t *testing.T) {
	store, _ := testutil.LoadBooks(t)
	choices := fieldChoices(t, store, "genre=2", "genre", facets.Options{})

	if len(choices) != 1 {
		t.Fatalf("expected 1 choice, got %v", labelsOf(choices))
	}
	if choices[0].Link != facets.LinkRemove || choices[0].Label != "Fantasy" {
		t.Errorf("expected remove link labeled Fantasy, got %+v", choices[0])
	}
}

func TestForeignKeyFilterLinksEncodePK(t *testing.T) {
	store, _ := testutil.LoadBooks(t)
	choices := fieldChoices(t, store, "", "genre", facets.Options{})
	if got := choices[1].Query(); got != "genre=2" {
		t.Errorf("expected genre=2, got %q", got)
	}
}

func TestForeignKeyFilterDanglingReference(t *testing.T) {
	store, _ := testutil.LoadBooks(t)
	fs := newFilterSet(t, store, "genre=99", []facets.Field{{Name: "genre"}})

	// a stale key narrows to nothing instead of erroring
	count, err := fs.Collection().Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("expected empty result for dangling key, got %d records", count)
	}

	// and gets no remove link: there is nothing to label it with
	choices, err := fs.ChoicesFor("genre")
	if err != nil {
		t.Fatal(err)
	}
	if len(choices) != 0 {
		t.Errorf("expected no choices, got %v", labelsOf(choices))
	}
}

func TestForeignKeyFilterNullable(t *testing.T) {
	refs := memstore.NewRelatedSet("publisher", []types.Ref{
		{PK: "1", Label: "Smith, Elder & Co."},
	})
	model := types.NewModel("book", []types.Attribute{
		{Name: "publisher", Kind: types.SingleRef, Nullable: true, Related: refs},
	})
	store, err := memstore.New(model, []memstore.Record{
		{Attrs: map[string]interface{}{"publisher": "1"}},
		{Attrs: map[string]interface{}{"publisher": nil}},
	})
	if err != nil {
		t.Fatal(err)
	}

	choices := fieldChoices(t, store, "", "publisher", facets.Options{})
	assertLabels(t, choices, []string{"(null)", "Smith, Elder & Co."})
	assertCount(t, choices[0], 1)
	assertCount(t, choices[1], 1)
}

func TestForeignKeyFilterRequiresRelatedModel(t *testing.T) {
	model := types.NewModel("book", []types.Attribute{
		{Name: "genre", Kind: types.SingleRef},
	})
	_, err := facets.NewForeignKeyFilter("genre", model, facets.Params{}, facets.Options{})
	if err == nil {
		t.Error("expected error for missing related model")
	}
}
