// Package sqlite implements the table store on an in-memory SQLite
// database. Each store table is one SQL table holding JSON-encoded records;
// nothing is written to disk and the data goes away with the process.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/locations/pkg/types"
)

var _ types.TableStore = (*Store)(nil)

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// memoryDSN opens a private in-memory database. It lives as long as its
// single connection does.
const memoryDSN = ":memory:"

// Store implements types.TableStore on SQLite. All statements go through
// one connection, which serialises writers; mu guards the table registry.
type Store struct {
	mu     sync.RWMutex
	db     *sqlx.DB
	tables map[string]bool
	closed bool
}

// Open creates a store backed by a fresh in-memory database.
func Open() (*Store, error) {
	db, err := sqlx.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return NewStore(db), nil
}

// NewStore wraps an open database. The pool is pinned to one connection
// that is never recycled, otherwise an in-memory database would be lost or
// split between connections.
func NewStore(db *sqlx.DB) *Store {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)
	return &Store{
		db:     db,
		tables: make(map[string]bool),
	}
}

// CreateTable creates the SQL table if it does not exist yet.
func (s *Store) CreateTable(name string) error {
	if !tableNamePattern.MatchString(name) {
		return &types.StoreError{Op: "create", Table: name, Err: types.ErrInvalidTableName}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return &types.StoreError{Op: "create", Table: name, Err: types.ErrStoreClosed}
	}
	if s.tables[name] {
		return nil
	}
	if _, err := s.db.Exec(createTableStatement(name)); err != nil {
		return &types.StoreError{Op: "create", Table: name, Err: err}
	}
	s.tables[name] = true
	return nil
}

// Insert stores the record and returns the id SQLite assigned.
func (s *Store) Insert(name string, record types.Record) (int64, error) {
	if err := s.check("insert", name); err != nil {
		return 0, err
	}

	data, err := encodeRecord(record)
	if err != nil {
		return 0, &types.StoreError{Op: "insert", Table: name, Err: err}
	}

	query, args, err := sq.Insert(quoteIdent(name)).Columns("record").Values(data).ToSql()
	if err != nil {
		return 0, &types.StoreError{Op: "insert", Table: name, Err: err}
	}
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return 0, &types.StoreError{Op: "insert", Table: name, Err: err}
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, &types.StoreError{Op: "insert", Table: name, Err: err}
	}
	return id, nil
}

// FindAll returns every row ordered by id, which is insertion order.
func (s *Store) FindAll(name string) ([]types.Row, error) {
	if err := s.check("find", name); err != nil {
		return nil, err
	}

	query, args, err := sq.Select("id", "record").From(quoteIdent(name)).OrderBy("id").ToSql()
	if err != nil {
		return nil, &types.StoreError{Op: "find", Table: name, Err: err}
	}

	var stored []storedRow
	if err := s.db.Select(&stored, query, args...); err != nil {
		return nil, &types.StoreError{Op: "find", Table: name, Err: err}
	}

	rows := make([]types.Row, 0, len(stored))
	for _, sr := range stored {
		record, err := decodeRecord(sr.Record)
		if err != nil {
			return nil, &types.StoreError{Op: "find", Table: name, ID: sr.ID, Err: err}
		}
		rows = append(rows, types.Row{ID: sr.ID, Record: record})
	}
	return rows, nil
}

// FindByID looks the record up through the primary key.
func (s *Store) FindByID(name string, id int64) (types.Record, bool, error) {
	if err := s.check("find", name); err != nil {
		return nil, false, err
	}

	query, args, err := sq.Select("record").From(quoteIdent(name)).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, false, &types.StoreError{Op: "find", Table: name, ID: id, Err: err}
	}

	var data string
	err = s.db.Get(&data, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &types.StoreError{Op: "find", Table: name, ID: id, Err: err}
	}

	record, err := decodeRecord(data)
	if err != nil {
		return nil, false, &types.StoreError{Op: "find", Table: name, ID: id, Err: err}
	}
	return record, true, nil
}

// Replace overwrites the record column of an existing row.
func (s *Store) Replace(name string, id int64, record types.Record) error {
	if err := s.check("replace", name); err != nil {
		return err
	}

	data, err := encodeRecord(record)
	if err != nil {
		return &types.StoreError{Op: "replace", Table: name, ID: id, Err: err}
	}

	query, args, err := sq.Update(quoteIdent(name)).Set("record", data).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return &types.StoreError{Op: "replace", Table: name, ID: id, Err: err}
	}
	return s.execAffectingOne("replace", name, id, query, args)
}

// Delete removes a row.
func (s *Store) Delete(name string, id int64) error {
	if err := s.check("delete", name); err != nil {
		return err
	}

	query, args, err := sq.Delete(quoteIdent(name)).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return &types.StoreError{Op: "delete", Table: name, ID: id, Err: err}
	}
	return s.execAffectingOne("delete", name, id, query, args)
}

// Close closes the database, discarding its contents. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.tables = make(map[string]bool)
	return s.db.Close()
}

// check verifies the store is open and the table was created.
func (s *Store) check(op, name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return &types.StoreError{Op: op, Table: name, Err: types.ErrStoreClosed}
	}
	if !s.tables[name] {
		return &types.StoreError{Op: op, Table: name, Err: types.ErrTableNotFound}
	}
	return nil
}

// execAffectingOne runs an UPDATE or DELETE by id and maps "no row touched"
// to ErrRecordNotFound.
func (s *Store) execAffectingOne(op, name string, id int64, query string, args []any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return &types.StoreError{Op: op, Table: name, ID: id, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &types.StoreError{Op: op, Table: name, ID: id, Err: err}
	}
	if n == 0 {
		return &types.StoreError{Op: op, Table: name, ID: id, Err: types.ErrRecordNotFound}
	}
	return nil
}
