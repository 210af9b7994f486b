package memstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonDataset = `{
  "model": {
    "name": "book",
    "attributes": [
      {"name": "title", "kind": "plain"},
      {"name": "genre", "kind": "ref", "related": "genre"},
      {"name": "binding", "kind": "enumerated", "choices": [
        {"value": "hb", "label": "Hardback"},
        {"value": "pb", "label": "Paperback"}
      ]},
      {"name": "price", "kind": "numeric", "nullable": true}
    ]
  },
  "related": {
    "genre": [
      {"pk": "1", "label": "Classics"},
      {"pk": "2", "label": "Fantasy"}
    ]
  },
  "records": [
    {"title": "Jane Eyre", "genre": "1", "binding": "hb", "price": "3.50"},
    {"title": "A Wizard of Earthsea", "genre": "2", "binding": "pb", "price": 7.99},
    {"title": "Untitled", "genre": "2", "binding": "pb", "price": null}
  ]
}`

const yamlDataset = `model:
  name: book
  attributes:
    - name: title
      kind: plain
    - name: genre
      kind: ref
      related: genre
    - name: price
      kind: numeric
      nullable: true
related:
  genre:
    - {pk: "1", label: Classics}
records:
  - title: Jane Eyre
    genre: "1"
    price: "3.50"
  - title: Untitled
    genre: "1"
    price: null
`

func writeDataset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadJSON(t *testing.T) {
	store, err := Load(writeDataset(t, "books.json", jsonDataset))
	require.NoError(t, err)

	assert.Equal(t, 3, store.Len())
	assert.Equal(t, "book", store.Model().Name())

	attr, ok := store.Model().Attribute("binding")
	require.True(t, ok)
	require.Len(t, attr.Choices, 2)
	assert.Equal(t, "Hardback", attr.Choices[0].Label)

	genre, ok := store.Model().Attribute("genre")
	require.True(t, ok)
	require.NotNil(t, genre.Related)
	refs, err := genre.Related.Lookup([]string{"2"})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "Fantasy", refs[0].Label)

	// numbers coerce whether quoted or not
	price := store.records[1].Attrs["price"].(decimal.Decimal)
	assert.True(t, price.Equal(decimal.RequireFromString("7.99")))
	assert.Nil(t, store.records[2].Attrs["price"])
}

func TestLoadYAML(t *testing.T) {
	store, err := Load(writeDataset(t, "books.yaml", yamlDataset))
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
	price := store.records[0].Attrs["price"].(decimal.Decimal)
	assert.True(t, price.Equal(decimal.RequireFromString("3.5")))
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Load(writeDataset(t, "bad.json", "{"))
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Load(writeDataset(t, "bad.json", `{
  "model": {"name": "x", "attributes": [{"name": "a", "kind": "mystery"}]},
  "records": []
}`))
		assert.Error(t, err)
	})

	t.Run("unresolved related set", func(t *testing.T) {
		_, err := Load(writeDataset(t, "bad.json", `{
  "model": {"name": "x", "attributes": [{"name": "a", "kind": "ref", "related": "nope"}]},
  "records": []
}`))
		assert.Error(t, err)
	})
}

func TestSaveRoundtrip(t *testing.T) {
	for _, name := range []string{"books.json", "books.yaml"} {
		t.Run(name, func(t *testing.T) {
			orig, err := Load(writeDataset(t, "books.json", jsonDataset))
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, orig))

			again, err := Load(path)
			require.NoError(t, err)
			require.Equal(t, orig.Len(), again.Len())

			// UUIDs assigned at load time survive the roundtrip
			assert.Equal(t, orig.records[0].UUID, again.records[0].UUID)
			price := again.records[0].Attrs["price"].(decimal.Decimal)
			assert.True(t, price.Equal(decimal.RequireFromString("3.5")))
		})
	}
}
