// Package repository provides a typed view over one table of a table store.
// Entities are converted to and from records using the metadata the
// registry derived from their schema.
package repository

import (
	"fmt"

	"github.com/mesh-intelligence/locations/internal/metadata"
	"github.com/mesh-intelligence/locations/pkg/types"
)

// Entity constrains PT to a pointer to T implementing types.Entity, so
// repositories can hand out values while converting through pointers.
type Entity[T any] interface {
	*T
	types.Entity
}

// Repository stores entities of one kind in one store table.
// It is as safe for concurrent use as the store beneath it.
type Repository[T any, PT Entity[T]] struct {
	store types.TableStore
	md    types.EntityMetadata
	idx   int // Position of the identifier in md.Fields.
}

// New binds a repository to the kind of T. It resolves the metadata once
// and creates the backing table when it does not exist.
func New[T any, PT Entity[T]](store types.TableStore, registry *metadata.Registry) (*Repository[T, PT], error) {
	var zero T
	md, err := registry.Describe(PT(&zero))
	if err != nil {
		return nil, err
	}
	if err := store.CreateTable(md.TableName); err != nil {
		return nil, fmt.Errorf("creating table for %s: %w", md.TableName, err)
	}
	return &Repository[T, PT]{
		store: store,
		md:    md,
		idx:   md.IdentifierIndex(),
	}, nil
}

// Metadata returns the entity kind's metadata.
func (r *Repository[T, PT]) Metadata() types.EntityMetadata {
	md := r.md
	md.Fields = append([]types.Field(nil), r.md.Fields...)
	return md
}

// FindAll returns every stored entity in insertion order.
func (r *Repository[T, PT]) FindAll() ([]T, error) {
	rows, err := r.store.FindAll(r.md.TableName)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		e, err := r.fromRecord(row.ID, row.Record)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// FindByID returns the entity with the given identifier. found is false
// when no such entity exists.
func (r *Repository[T, PT]) FindByID(id int64) (T, bool, error) {
	var zero T
	rec, found, err := r.store.FindByID(r.md.TableName, id)
	if err != nil || !found {
		return zero, false, err
	}
	e, err := r.fromRecord(id, rec)
	if err != nil {
		return zero, false, err
	}
	return e, true, nil
}

// Save inserts the entity when its identifier is zero and returns it with
// the assigned identifier. Otherwise it replaces the stored entity and
// returns the argument; an identifier that is not stored fails with
// types.ErrRecordNotFound and the table is left untouched.
func (r *Repository[T, PT]) Save(entity T) (T, error) {
	var zero T
	id, rec, err := r.toRecord(PT(&entity))
	if err != nil {
		return zero, err
	}

	if id != 0 {
		if err := r.store.Replace(r.md.TableName, id, rec); err != nil {
			return zero, err
		}
		return entity, nil
	}

	newID, err := r.store.Insert(r.md.TableName, rec)
	if err != nil {
		return zero, err
	}
	if err := r.setIdentifier(PT(&entity), newID); err != nil {
		return zero, err
	}
	return entity, nil
}

// Delete removes the entity with the given identifier.
func (r *Repository[T, PT]) Delete(id int64) error {
	return r.store.Delete(r.md.TableName, id)
}

func (r *Repository[T, PT]) conversionError(field, format string, args ...any) error {
	return &types.ConversionError{Table: r.md.TableName, Field: field, Reason: fmt.Sprintf(format, args...)}
}

// toRecord splits an entity into its identifier and its stored record.
func (r *Repository[T, PT]) toRecord(e PT) (int64, types.Record, error) {
	values := e.Values()
	if len(values) != len(r.md.Fields) {
		return 0, nil, r.conversionError("", "entity has %d values, metadata declares %d fields", len(values), len(r.md.Fields))
	}

	var id int64
	rec := make(types.Record, len(values)-1)
	for i, f := range r.md.Fields {
		v := values[i]
		if i == r.idx {
			n, ok := v.(int64)
			if !ok {
				return 0, nil, r.conversionError(f.Name, "identifier is %T, want int64", v)
			}
			id = n
			continue
		}
		if !matches(f.Type, v) {
			return 0, nil, r.conversionError(f.Name, "value is %T, want %s", v, f.Type)
		}
		rec[f.Name] = v
	}
	return id, rec, nil
}

// fromRecord rebuilds an entity from its identifier and record. The record
// must hold exactly the data fields of the metadata.
func (r *Repository[T, PT]) fromRecord(id int64, rec types.Record) (T, error) {
	var e T
	ptrs := PT(&e).Pointers()
	if len(ptrs) != len(r.md.Fields) {
		return e, r.conversionError("", "entity has %d pointers, metadata declares %d fields", len(ptrs), len(r.md.Fields))
	}

	for i, f := range r.md.Fields {
		if i == r.idx {
			p, ok := ptrs[i].(*int64)
			if !ok {
				return e, r.conversionError(f.Name, "identifier target is %T, want *int64", ptrs[i])
			}
			*p = id
			continue
		}
		v, ok := rec[f.Name]
		if !ok {
			return e, r.conversionError(f.Name, "missing from record")
		}
		if err := assign(ptrs[i], v); err != nil {
			return e, r.conversionError(f.Name, "%v", err)
		}
	}

	if len(rec) != len(r.md.Fields)-1 {
		for k := range rec {
			if !r.declares(k) {
				return e, r.conversionError(k, "not declared by metadata")
			}
		}
	}
	return e, nil
}

func (r *Repository[T, PT]) setIdentifier(e PT, id int64) error {
	p, ok := e.Pointers()[r.idx].(*int64)
	if !ok {
		return r.conversionError(r.md.IdentifierField, "identifier target is not *int64")
	}
	*p = id
	return nil
}

func (r *Repository[T, PT]) declares(name string) bool {
	for _, f := range r.md.Fields {
		if f.Name == name && name != r.md.IdentifierField {
			return true
		}
	}
	return false
}

func matches(t types.FieldType, v any) bool {
	if v == nil {
		return true
	}
	switch t {
	case types.FieldInt64:
		_, ok := v.(int64)
		return ok
	case types.FieldFloat64:
		_, ok := v.(float64)
		return ok
	case types.FieldString:
		_, ok := v.(string)
		return ok
	}
	return false
}

// assign stores v through ptr. A nil value leaves the zero value in place.
// Integral values are accepted for float fields, since a JSON round trip
// cannot tell 2.0 from 2.
func assign(ptr, v any) error {
	if v == nil {
		return nil
	}
	switch p := ptr.(type) {
	case *string:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("value is %T, want string", v)
		}
		*p = s
	case *int64:
		n, ok := v.(int64)
		if !ok {
			return fmt.Errorf("value is %T, want int64", v)
		}
		*p = n
	case *float64:
		switch n := v.(type) {
		case float64:
			*p = n
		case int64:
			*p = float64(n)
		default:
			return fmt.Errorf("value is %T, want float64", v)
		}
	default:
		return fmt.Errorf("unsupported target %T", ptr)
	}
	return nil
}
