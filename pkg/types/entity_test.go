package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitiesFollowSchemaOrder(t *testing.T) {
	entities := []Named{
		&Location{ID: 3, Name: "Saint Petersburg", Slug: "spb"},
		&Category{ID: 4, Name: "Museums", Slug: "museums"},
	}
	for _, e := range entities {
		schema := e.Schema()
		values := e.Values()
		ptrs := e.Pointers()
		require.Len(t, values, len(schema.Fields))
		require.Len(t, ptrs, len(schema.Fields))

		name, slug := e.Label()
		assert.Equal(t, []any{values[0], name, slug}, values)

		e.Relabel("renamed", "new")
		name, slug = e.Label()
		assert.Equal(t, "renamed", name)
		assert.Equal(t, "new", slug)

		*(ptrs[0].(*int64)) = 10
		assert.Equal(t, int64(10), e.Values()[0])
	}
}

func TestEntityMetadataHelpers(t *testing.T) {
	md := EntityMetadata{
		TableName:       "places",
		IdentifierField: "id",
		Fields: []Field{
			{Name: "name", Type: FieldString},
			{Name: "id", Type: FieldInt64, Identifier: true},
			{Name: "score", Type: FieldFloat64},
		},
	}
	assert.Equal(t, 1, md.IdentifierIndex())
	assert.Equal(t, []Field{
		{Name: "name", Type: FieldString},
		{Name: "score", Type: FieldFloat64},
	}, md.DataFields())
	assert.Equal(t, -1, EntityMetadata{}.IdentifierIndex())
	assert.Equal(t, "float64", FieldFloat64.String())
	assert.Equal(t, "unknown", FieldType(0).String())
}

func TestRecordClone(t *testing.T) {
	r := Record{"name": "spb"}
	c := r.Clone()
	c["name"] = "tsk"
	assert.Equal(t, "spb", r["name"])
	assert.Nil(t, Record(nil).Clone())
}

func TestErrors(t *testing.T) {
	err := &StoreError{Op: "insert", Table: "places", Err: ErrTableNotFound}
	assert.Equal(t, "store: insert: table=places: table not found", err.Error())
	assert.True(t, errors.Is(err, ErrTableNotFound))

	md := &MetadataError{Kind: "places", Reason: "no identifier field"}
	assert.Equal(t, `metadata "places": no identifier field`, md.Error())
	assert.ErrorIs(t, md, ErrMetadata)

	conv := &ConversionError{Table: "places", Field: "name", Reason: "missing from record"}
	assert.Equal(t, "convert places.name: missing from record", conv.Error())
	assert.ErrorIs(t, conv, ErrConversion)
	assert.Equal(t, "convert places: bad shape", (&ConversionError{Table: "places", Reason: "bad shape"}).Error())
}
