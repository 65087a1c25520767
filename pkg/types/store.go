package types

// TableStore holds named tables of generic records.
// Implementations are safe for concurrent use; side effects of an operation
// are confined to the addressed table.
type TableStore interface {
	// CreateTable creates an empty table. Creating an existing table is a no-op.
	CreateTable(name string) error

	// Insert stores a copy of record and returns the identifier assigned to it.
	// Identifiers start at 1 and increase by one; deleted identifiers are
	// never reused. Returns ErrTableNotFound for an unknown table.
	Insert(table string, record Record) (int64, error)

	// FindAll returns a snapshot of every row in insertion order.
	FindAll(table string) ([]Row, error)

	// FindByID returns a copy of the record, or found=false when absent.
	FindByID(table string, id int64) (record Record, found bool, err error)

	// Replace overwrites the record stored under id.
	// Returns ErrRecordNotFound when no such record exists.
	Replace(table string, id int64, record Record) error

	// Delete removes the record stored under id permanently.
	// Returns ErrRecordNotFound when no such record exists.
	Delete(table string, id int64) error

	// Close releases backend resources.
	Close() error
}
