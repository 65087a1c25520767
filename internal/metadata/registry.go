// Package metadata describes entity kinds from their static schema
// declarations and caches the result for the lifetime of the registry.
package metadata

import (
	"slices"
	"sort"

	"github.com/patrickmn/go-cache"

	"github.com/mesh-intelligence/locations/pkg/types"
)

// Registry validates entity schemas and caches the resulting metadata keyed
// by entity kind. A Registry is safe for concurrent use.
type Registry struct {
	cache *cache.Cache
}

// NewRegistry returns an empty registry. Entries never expire; they are pure
// derived data and live as long as the registry does.
func NewRegistry() *Registry {
	return &Registry{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// Describe returns the metadata of the entity's kind, deriving and caching
// it on first use. A later kind declaring the same table must declare the
// same fields. Returns a *types.MetadataError when the schema declares
// no identifier, several identifiers, a non-int64 identifier, no fields,
// duplicate field names or an empty table name.
func (r *Registry) Describe(entity types.Entity) (types.EntityMetadata, error) {
	schema := entity.Schema()

	if md, found := r.cached(schema.Table); found {
		return matching(md, schema)
	}

	md, err := derive(schema)
	if err != nil {
		return types.EntityMetadata{}, err
	}

	if err := r.cache.Add(schema.Table, md, cache.NoExpiration); err != nil {
		// Lost a race for the first description of this table.
		if winner, found := r.cached(schema.Table); found {
			return matching(winner, schema)
		}
	}
	return clone(md), nil
}

func (r *Registry) cached(table string) (types.EntityMetadata, bool) {
	v, found := r.cache.Get(table)
	if !found {
		return types.EntityMetadata{}, false
	}
	md, ok := v.(types.EntityMetadata)
	return md, ok
}

// matching returns a copy of md when schema declares exactly its fields. A
// kind declaring an already described table with other fields is rejected.
func matching(md types.EntityMetadata, schema types.Schema) (types.EntityMetadata, error) {
	if !slices.Equal(md.Fields, schema.Fields) {
		return types.EntityMetadata{}, &types.MetadataError{
			Kind:   schema.Table,
			Reason: "table already described with a different schema",
		}
	}
	return clone(md), nil
}

// clone copies the field slice so callers cannot mutate cached metadata.
func clone(md types.EntityMetadata) types.EntityMetadata {
	md.Fields = append([]types.Field(nil), md.Fields...)
	return md
}

// Kinds returns the described entity kinds in sorted order.
func (r *Registry) Kinds() []string {
	items := r.cache.Items()
	kinds := make([]string, 0, len(items))
	for k := range items {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func derive(schema types.Schema) (types.EntityMetadata, error) {
	if schema.Table == "" {
		return types.EntityMetadata{}, &types.MetadataError{Kind: schema.Table, Reason: "empty table name"}
	}
	if len(schema.Fields) == 0 {
		return types.EntityMetadata{}, &types.MetadataError{Kind: schema.Table, Reason: "no fields declared"}
	}

	md := types.EntityMetadata{
		TableName: schema.Table,
		Fields:    make([]types.Field, 0, len(schema.Fields)),
	}
	seen := make(map[string]bool, len(schema.Fields))
	identifiers := 0

	for _, f := range schema.Fields {
		if f.Name == "" {
			return types.EntityMetadata{}, &types.MetadataError{Kind: schema.Table, Reason: "field with empty name"}
		}
		if seen[f.Name] {
			return types.EntityMetadata{}, &types.MetadataError{Kind: schema.Table, Reason: "duplicate field " + f.Name}
		}
		seen[f.Name] = true

		if f.Identifier {
			identifiers++
			if f.Type != types.FieldInt64 {
				return types.EntityMetadata{}, &types.MetadataError{
					Kind:   schema.Table,
					Reason: "identifier " + f.Name + " must be int64, got " + f.Type.String(),
				}
			}
			md.IdentifierField = f.Name
		}
		md.Fields = append(md.Fields, f)
	}

	switch {
	case identifiers == 0:
		return types.EntityMetadata{}, &types.MetadataError{Kind: schema.Table, Reason: "no identifier field"}
	case identifiers > 1:
		return types.EntityMetadata{}, &types.MetadataError{Kind: schema.Table, Reason: "more than one identifier field"}
	}
	return md, nil
}
