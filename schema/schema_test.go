package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemModelLookup(t *testing.T) {
	m := NewMemModel([]*Table{
		{Name: "Users", Columns: []Column{
			{Name: "ID", Type: ColumnType{Base: Integer}, PrimaryKey: true},
		}},
		{Schema: "aux", Name: "events", Columns: []Column{
			{Name: "at", Type: ColumnType{Base: DateTime}},
		}},
	})
	// Names are case-insensitive and default to the main schema.
	require.NotNil(t, m.FindTable("", "users"))
	require.NotNil(t, m.FindTable("MAIN", "USERS"))
	require.Nil(t, m.FindTable("", "events"))
	require.NotNil(t, m.FindTable("aux", "Events"))

	col, ok := m.FindTable("", "users").Column("id")
	require.True(t, ok)
	assert.True(t, col.PrimaryKey)
}

func TestBuiltinLookup(t *testing.T) {
	m := NewMemModel(nil)
	require.NotNil(t, m.Function("COUNT"))
	require.NotNil(t, m.Function("coalesce"))
	assert.Nil(t, m.Function("frobnicate"))
	count := m.Function("count")
	assert.True(t, count.Wildcard)
	assert.True(t, count.Distinct)
	assert.True(t, count.Agg)
}

func TestBaseTypeOf(t *testing.T) {
	cases := map[string]BaseType{
		"INTEGER": Integer,
		"int":     Integer,
		"bigint":  Integer,
		"REAL":    Float,
		"text":    Text,
		"VARCHAR": Text,
		"blob":    Blob,
		"boolean": Boolean,
		"numeric": Number,
	}
	for name, want := range cases {
		got, ok := BaseTypeOf(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	_, ok := BaseTypeOf("banana")
	assert.False(t, ok)
}

func TestLoadCatalog(t *testing.T) {
	doc := `
tables:
  - name: users
    columns:
      - {name: id, type: integer, pk: true}
      - {name: name, type: text}
      - {name: email, type: text, nullable: true}
  - name: orders
    schema: shop
    columns:
      - {name: id, type: integer, pk: true}
      - {name: amount, type: real, nullable: true}
`
	m, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	users := m.FindTable("", "users")
	require.NotNil(t, users)
	require.Len(t, users.Columns, 3)
	assert.Equal(t, ColumnType{Base: Text, Nullable: true}, users.Columns[2].Type)
	assert.True(t, users.Columns[0].PrimaryKey)
	require.NotNil(t, m.FindTable("shop", "orders"))
	assert.Len(t, m.Tables(), 2)
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := Load(strings.NewReader("tables:\n  - name: t\n    columns:\n      - {name: c, type: banana}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")

	_, err = Load(strings.NewReader("tables:\n  - name: t\n"))
	require.Error(t, err)

	_, err = Load(strings.NewReader("not yaml: ["))
	require.Error(t, err)
}
