package types

import (
	"errors"
	"fmt"
	"strings"
)

// Table store errors.
var (
	ErrTableNotFound    = errors.New("table not found")
	ErrRecordNotFound   = errors.New("record not found")
	ErrInvalidTableName = errors.New("invalid table name")
	ErrStoreClosed      = errors.New("store is closed")
)

// Metadata, conversion and entity errors.
var (
	ErrMetadata      = errors.New("invalid entity metadata")
	ErrConversion    = errors.New("record conversion failed")
	ErrInvalidEntity = errors.New("invalid entity")
)

// StoreError records the table store operation that failed.
// errors.Is matches the wrapped sentinel (ErrTableNotFound, ErrRecordNotFound, ...).
type StoreError struct {
	Op    string // Operation that failed: insert, find, replace, delete.
	Table string // Addressed table.
	ID    int64  // Addressed record, zero when not applicable.
	Err   error  // Underlying error.
}

func (e *StoreError) Error() string {
	parts := []string{"store: " + e.Op}
	if e.Table != "" {
		parts = append(parts, "table="+e.Table)
	}
	if e.ID != 0 {
		parts = append(parts, fmt.Sprintf("id=%d", e.ID))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// MetadataError reports an entity kind whose declared schema cannot be
// described: no identifier, several identifiers, duplicate fields and so on.
type MetadataError struct {
	Kind   string
	Reason string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("metadata %q: %s", e.Kind, e.Reason)
}

func (e *MetadataError) Unwrap() error {
	return ErrMetadata
}

// ConversionError reports a record whose shape does not match the entity
// metadata it is converted with.
type ConversionError struct {
	Table  string
	Field  string
	Reason string
}

func (e *ConversionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("convert %s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("convert %s.%s: %s", e.Table, e.Field, e.Reason)
}

func (e *ConversionError) Unwrap() error {
	return ErrConversion
}
