package metadata

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/locations/pkg/types"
)

// fakeEntity lets tests declare arbitrary schemas.
type fakeEntity struct {
	schema types.Schema
}

func (f *fakeEntity) Schema() types.Schema { return f.schema }
func (f *fakeEntity) Values() []any        { return nil }
func (f *fakeEntity) Pointers() []any      { return nil }

func TestDescribe(t *testing.T) {
	tests := []struct {
		name       string
		schema     types.Schema
		wantErr    bool
		wantReason string
	}{
		{
			name: "single identifier",
			schema: types.Schema{Table: "things", Fields: []types.Field{
				{Name: "id", Type: types.FieldInt64, Identifier: true},
				{Name: "name", Type: types.FieldString},
			}},
		},
		{
			name: "no identifier",
			schema: types.Schema{Table: "things", Fields: []types.Field{
				{Name: "name", Type: types.FieldString},
			}},
			wantErr:    true,
			wantReason: "no identifier field",
		},
		{
			name: "two identifiers",
			schema: types.Schema{Table: "things", Fields: []types.Field{
				{Name: "id", Type: types.FieldInt64, Identifier: true},
				{Name: "other_id", Type: types.FieldInt64, Identifier: true},
			}},
			wantErr:    true,
			wantReason: "more than one identifier field",
		},
		{
			name: "string identifier",
			schema: types.Schema{Table: "things", Fields: []types.Field{
				{Name: "id", Type: types.FieldString, Identifier: true},
			}},
			wantErr:    true,
			wantReason: "identifier id must be int64, got string",
		},
		{
			name: "duplicate field",
			schema: types.Schema{Table: "things", Fields: []types.Field{
				{Name: "id", Type: types.FieldInt64, Identifier: true},
				{Name: "name", Type: types.FieldString},
				{Name: "name", Type: types.FieldString},
			}},
			wantErr:    true,
			wantReason: "duplicate field name",
		},
		{
			name:       "no fields",
			schema:     types.Schema{Table: "things"},
			wantErr:    true,
			wantReason: "no fields declared",
		},
		{
			name: "empty table",
			schema: types.Schema{Fields: []types.Field{
				{Name: "id", Type: types.FieldInt64, Identifier: true},
			}},
			wantErr:    true,
			wantReason: "empty table name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			md, err := r.Describe(&fakeEntity{schema: tt.schema})
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, types.ErrMetadata)
				var mdErr *types.MetadataError
				require.ErrorAs(t, err, &mdErr)
				assert.Equal(t, tt.wantReason, mdErr.Reason)
				assert.Empty(t, r.Kinds(), "failed descriptions must not be cached")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.schema.Table, md.TableName)
			assert.Equal(t, "id", md.IdentifierField)
			assert.Len(t, md.Fields, len(tt.schema.Fields))
		})
	}
}

func TestDescribeEntities(t *testing.T) {
	r := NewRegistry()

	loc, err := r.Describe(&types.Location{})
	require.NoError(t, err)
	assert.Equal(t, types.LocationsTable, loc.TableName)
	assert.Equal(t, "id", loc.IdentifierField)
	assert.Equal(t, []types.Field{
		{Name: "name", Type: types.FieldString},
		{Name: "slug", Type: types.FieldString},
	}, loc.DataFields())

	cat, err := r.Describe(&types.Category{})
	require.NoError(t, err)
	assert.Equal(t, types.CategoriesTable, cat.TableName)
	assert.Equal(t, 0, cat.IdentifierIndex())

	assert.Equal(t, []string{types.CategoriesTable, types.LocationsTable}, r.Kinds())
}

func TestDescribeIsCachedAndImmutable(t *testing.T) {
	r := NewRegistry()

	first, err := r.Describe(&types.Category{})
	require.NoError(t, err)
	first.Fields[1].Name = "mutated"

	second, err := r.Describe(&types.Category{})
	require.NoError(t, err)
	assert.Equal(t, "name", second.Fields[1].Name)

	_, err = r.Describe(&fakeEntity{schema: (&types.Category{}).Schema()})
	require.NoError(t, err, "an identical declaration shares the cached entry")
}

func TestDescribeRejectsConflictingDeclarations(t *testing.T) {
	tests := []struct {
		name   string
		schema types.Schema
	}{
		{
			name: "no identifier",
			schema: types.Schema{Table: types.LocationsTable, Fields: []types.Field{
				{Name: "name", Type: types.FieldString},
				{Name: "slug", Type: types.FieldString},
			}},
		},
		{
			name: "different field type",
			schema: types.Schema{Table: types.LocationsTable, Fields: []types.Field{
				{Name: "id", Type: types.FieldInt64, Identifier: true},
				{Name: "name", Type: types.FieldString},
				{Name: "slug", Type: types.FieldFloat64},
			}},
		},
		{
			name:   "no fields",
			schema: types.Schema{Table: types.LocationsTable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			want, err := r.Describe(&types.Location{})
			require.NoError(t, err)

			_, err = r.Describe(&fakeEntity{schema: tt.schema})
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrMetadata)
			var mdErr *types.MetadataError
			require.ErrorAs(t, err, &mdErr)
			assert.Equal(t, "table already described with a different schema", mdErr.Reason)

			got, err := r.Describe(&types.Location{})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestDescribeConcurrent(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := r.Describe(&types.Location{}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, []string{types.LocationsTable}, r.Kinds())
}
