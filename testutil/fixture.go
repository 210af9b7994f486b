// Package testutil provides a shared book-catalog fixture for tests:
// a model with every attribute kind plus a populated in-memory store.
package testutil

import (
	"testing"

	"github.com/arthur-debert/facets/memstore"
	"github.com/arthur-debert/facets/types"
)

// Universe provides typed access to the fixture data
type Universe struct {
	Model   *types.Model
	Genres  *memstore.RelatedSet
	Authors *memstore.RelatedSet

	// Books holds every record in declared order
	Books []memstore.Record
}

// book is one fixture row; an empty price or published string becomes a
// null value.
type book struct {
	title     string
	genre     string
	authors   []string
	binding   string
	price     string
	published string
}

var genres = []types.Ref{
	{PK: "1", Label: "Classics"},
	{PK: "2", Label: "Fantasy"},
	{PK: "3", Label: "Poetry"},
	{PK: "4", Label: "Science Fiction"},
}

var authors = []types.Ref{
	{PK: "1", Label: "Charlotte Brontë"},
	{PK: "2", Label: "Emily Brontë"},
	{PK: "3", Label: "Anne Brontë"},
	{PK: "4", Label: "Ursula K. Le Guin"},
	{PK: "5", Label: "Mary Shelley"},
	{PK: "6", Label: "Emily Dickinson"},
}

// the sisters wrote together early on, hence the shared author lists
var books = []book{
	{"Jane Eyre", "1", []string{"1"}, "hb", "3.50", "1847-10-16"},
	{"Shirley", "1", []string{"1"}, "pb", "5.00", "1849-10-28"},
	{"Villette", "1", []string{"1"}, "pb", "5.50", "1853-01-28"},
	{"The Professor", "1", []string{"1"}, "hb", "", "1857-06-01"},
	{"Wuthering Heights", "1", []string{"2"}, "pb", "4.50", "1847-12-19"},
	{"Agnes Grey", "1", []string{"3"}, "pb", "4.00", "1847-12-19"},
	{"The Tenant of Wildfell Hall", "1", []string{"3"}, "hb", "6.00", "1848-06-27"},
	{"Poems by Currer, Ellis and Acton Bell", "3", []string{"1", "2", "3"}, "pb", "2.00", "1846-05-22"},
	{"Frankenstein", "4", []string{"5"}, "hb", "3.00", "1818-01-01"},
	{"The Last Man", "4", []string{"5"}, "pb", "3.50", "1826-01-23"},
	{"A Wizard of Earthsea", "2", []string{"4"}, "pb", "7.99", "1968-11-01"},
	{"The Tombs of Atuan", "2", []string{"4"}, "pb", "7.99", "1971-06-01"},
	{"The Farthest Shore", "2", []string{"4"}, "hb", "12.99", "1972-09-01"},
	{"The Left Hand of Darkness", "4", []string{"4"}, "pb", "8.50", "1969-03-01"},
	{"The Dispossessed", "4", []string{"4"}, "hb", "11.00", "1974-05-01"},
	{"Complete Poems", "3", []string{"6"}, "hb", "9.25", ""},
}

// BookModel builds the fixture schema: a reference, a many-reference, an
// enumerated, a numeric and a date attribute.
func BookModel() (*types.Model, *memstore.RelatedSet, *memstore.RelatedSet) {
	genreSet := memstore.NewRelatedSet("genre", genres)
	authorSet := memstore.NewRelatedSet("author", authors)

	model := types.NewModel("book", []types.Attribute{
		{Name: "genre", Kind: types.SingleRef, Label: "Genre", Related: genreSet},
		{Name: "authors", Kind: types.ManyRef, Label: "Authors", Related: authorSet},
		{
			Name: "binding",
			Kind: types.Enumerated,
			Choices: []types.EnumChoice{
				{Value: "hb", Label: "Hardback"},
				{Value: "pb", Label: "Paperback"},
			},
		},
		{Name: "price", Kind: types.Numeric, Nullable: true},
		{Name: "date_published", Kind: types.Date, Nullable: true, Label: "Published"},
	})
	return model, genreSet, authorSet
}

// LoadBooks builds the book universe and a store over it
func LoadBooks(t *testing.T) (*memstore.Store, *Universe) {
	t.Helper()

	model, genreSet, authorSet := BookModel()

	records := make([]memstore.Record, len(books))
	for i, b := range books {
		attrs := map[string]interface{}{
			"genre":   b.genre,
			"authors": b.authors,
			"binding": b.binding,
		}
		if b.price != "" {
			attrs["price"] = b.price
		} else {
			attrs["price"] = nil
		}
		if b.published != "" {
			attrs["date_published"] = b.published
		} else {
			attrs["date_published"] = nil
		}
		records[i] = memstore.Record{Attrs: attrs}
	}

	store, err := memstore.New(model, records)
	if err != nil {
		t.Fatalf("building fixture store: %v", err)
	}

	return store, &Universe{
		Model:   model,
		Genres:  genreSet,
		Authors: authorSet,
		Books:   records,
	}
}
