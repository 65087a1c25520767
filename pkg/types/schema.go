package types

// FieldType is the storage type of an entity field.
type FieldType int

// Supported field types.
const (
	FieldInt64 FieldType = iota + 1
	FieldFloat64
	FieldString
)

func (t FieldType) String() string {
	switch t {
	case FieldInt64:
		return "int64"
	case FieldFloat64:
		return "float64"
	case FieldString:
		return "string"
	default:
		return "unknown"
	}
}

// Field declares one entity field.
type Field struct {
	Name       string
	Type       FieldType
	Identifier bool // Designated identifier; exactly one per schema.
}

// Schema is the static declaration an entity kind makes about itself.
// Table doubles as the entity kind key.
type Schema struct {
	Table  string
	Fields []Field
}

// Entity is implemented by every stored domain object. Values and Pointers
// must follow the order of Schema().Fields.
type Entity interface {
	Schema() Schema
	Values() []any
	Pointers() []any
}

// Named is implemented by entities addressed by a display name and a slug.
type Named interface {
	Entity
	Label() (name, slug string)
	Relabel(name, slug string)
}

// EntityMetadata is the validated description of an entity kind.
// It is immutable once produced by a metadata registry.
type EntityMetadata struct {
	TableName       string
	IdentifierField string
	Fields          []Field // All fields in declaration order, identifier included.
}

// DataFields returns the fields stored in a record, that is every field but
// the identifier.
func (m EntityMetadata) DataFields() []Field {
	fields := make([]Field, 0, len(m.Fields))
	for _, f := range m.Fields {
		if f.Name != m.IdentifierField {
			fields = append(fields, f)
		}
	}
	return fields
}

// IdentifierIndex returns the position of the identifier in Fields.
func (m EntityMetadata) IdentifierIndex() int {
	for i, f := range m.Fields {
		if f.Name == m.IdentifierField {
			return i
		}
	}
	return -1
}
