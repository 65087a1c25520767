// Package memory implements the in-process table store: named tables of
// records kept in insertion order, nothing written anywhere.
package memory

import (
	"regexp"
	"sync"

	"github.com/mesh-intelligence/locations/pkg/types"
)

var _ types.TableStore = (*Store)(nil)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Store implements types.TableStore over slices. The table map is guarded
// by mu; every table carries its own lock so writers to different tables
// never contend.
type Store struct {
	mu     sync.RWMutex
	closed bool
	tables map[string]*table
}

// table holds rows in insertion order. FindByID and the mutating lookups are
// linear scans; there is no secondary index.
type table struct {
	mu     sync.RWMutex
	name   string
	rows   []types.Row
	nextID int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		tables: make(map[string]*table),
	}
}

// CreateTable creates an empty table; an existing table is left untouched.
func (s *Store) CreateTable(name string) error {
	if !tableNamePattern.MatchString(name) {
		return &types.StoreError{Op: "create", Table: name, Err: types.ErrInvalidTableName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &types.StoreError{Op: "create", Table: name, Err: types.ErrStoreClosed}
	}
	if _, ok := s.tables[name]; ok {
		return nil
	}
	s.tables[name] = &table{name: name, nextID: 1}
	return nil
}

// Insert assigns the next identifier and stores a copy of record.
func (s *Store) Insert(name string, record types.Record) (int64, error) {
	t, err := s.table("insert", name)
	if err != nil {
		return 0, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.rows = append(t.rows, types.Row{ID: id, Record: record.Clone()})
	return id, nil
}

// FindAll returns copies of every row in insertion order.
func (s *Store) FindAll(name string) ([]types.Row, error) {
	t, err := s.table("find", name)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := make([]types.Row, len(t.rows))
	for i, r := range t.rows {
		rows[i] = types.Row{ID: r.ID, Record: r.Record.Clone()}
	}
	return rows, nil
}

// FindByID returns a copy of the record stored under id.
func (s *Store) FindByID(name string, id int64) (types.Record, bool, error) {
	t, err := s.table("find", name)
	if err != nil {
		return nil, false, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.indexOf(id)
	if i < 0 {
		return nil, false, nil
	}
	return t.rows[i].Record.Clone(), true, nil
}

// Replace overwrites the record stored under id, keeping its position.
func (s *Store) Replace(name string, id int64, record types.Record) error {
	t, err := s.table("replace", name)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return &types.StoreError{Op: "replace", Table: name, ID: id, Err: types.ErrRecordNotFound}
	}
	t.rows[i].Record = record.Clone()
	return nil
}

// Delete removes the record stored under id.
func (s *Store) Delete(name string, id int64) error {
	t, err := s.table("delete", name)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return &types.StoreError{Op: "delete", Table: name, ID: id, Err: types.ErrRecordNotFound}
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

// Close drops every table. Operations after Close return ErrStoreClosed.
// Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.tables = make(map[string]*table)
	return nil
}

// table looks up a table by name under the store read lock.
func (s *Store) table(op, name string) (*table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, &types.StoreError{Op: op, Table: name, Err: types.ErrStoreClosed}
	}
	t, ok := s.tables[name]
	if !ok {
		return nil, &types.StoreError{Op: op, Table: name, Err: types.ErrTableNotFound}
	}
	return t, nil
}

// indexOf returns the slice position of id, or -1. The caller holds t.mu.
func (t *table) indexOf(id int64) int {
	for i, r := range t.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}
