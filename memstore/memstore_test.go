package memstore

import (
	"testing"
	"time"

	"github.com/arthur-debert/facets/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() *types.Model {
	genres := NewRelatedSet("genre", []types.Ref{
		{PK: "1", Label: "Classics"},
		{PK: "2", Label: "Fantasy"},
	})
	return types.NewModel("book", []types.Attribute{
		{Name: "title", Kind: types.Plain},
		{Name: "genre", Kind: types.SingleRef, Related: genres},
		{Name: "tags", Kind: types.ManyRef, Related: NewRelatedSet("tag", []types.Ref{
			{PK: "a", Label: "A"}, {PK: "b", Label: "B"},
		})},
		{Name: "price", Kind: types.Numeric, Nullable: true},
		{Name: "published", Kind: types.Date, Nullable: true},
	})
}

func TestNewCoercesValues(t *testing.T) {
	store, err := New(testModel(), []Record{
		{Attrs: map[string]interface{}{
			"title":     "Jane Eyre",
			"genre":     "1",
			"tags":      []interface{}{"a", "b"},
			"price":     "3.50",
			"published": "1847-10-16",
		}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())

	rec := store.records[0]
	assert.NotEmpty(t, rec.UUID, "missing UUIDs are assigned")
	assert.Equal(t, "Jane Eyre", rec.Attrs["title"])
	assert.Equal(t, []string{"a", "b"}, rec.Attrs["tags"])

	price, ok := rec.Attrs["price"].(decimal.Decimal)
	require.True(t, ok, "price should coerce to decimal")
	assert.True(t, price.Equal(decimal.RequireFromString("3.5")))

	published, ok := rec.Attrs["published"].(time.Time)
	require.True(t, ok, "published should coerce to time")
	assert.Equal(t, 1847, published.Year())
}

func TestNewKeepsExplicitUUID(t *testing.T) {
	store, err := New(testModel(), []Record{
		{UUID: "fixed", Attrs: map[string]interface{}{"title": "x", "genre": "1", "tags": []string{}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed", store.records[0].UUID)
}

func TestNewRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]interface{}
	}{
		{"unknown attribute", map[string]interface{}{"nope": "x"}},
		{"bad numeric", map[string]interface{}{"price": "abc"}},
		{"bad date", map[string]interface{}{"published": "yesterday"}},
		{"null on non-nullable", map[string]interface{}{"title": nil}},
		{"scalar for many-ref", map[string]interface{}{"tags": "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testModel(), []Record{{Attrs: tt.attrs}})
			assert.Error(t, err)
		})
	}
}

func TestNewValidatesModel(t *testing.T) {
	model := types.NewModel("bad", []types.Attribute{
		{Name: "genre", Kind: types.SingleRef}, // no related model
	})
	_, err := New(model, nil)
	assert.Error(t, err)
}

func TestRelatedSetLookup(t *testing.T) {
	rs := NewRelatedSet("genre", []types.Ref{
		{PK: "1", Label: "Classics"},
		{PK: "2", Label: "Fantasy"},
		{PK: "3", Label: "Poetry"},
	})

	assert.Equal(t, "genre", rs.Name())

	// declared order regardless of request order, unresolved keys omitted
	refs, err := rs.Lookup([]string{"3", "99", "1"})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Classics", refs[0].Label)
	assert.Equal(t, "Poetry", refs[1].Label)
}
