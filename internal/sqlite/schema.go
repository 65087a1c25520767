package sqlite

import "fmt"

// createTableDDL defines one store table. AUTOINCREMENT keeps identifiers
// strictly increasing and never reused after a delete.
const createTableDDL = `CREATE TABLE IF NOT EXISTS %s (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    record TEXT NOT NULL
);`

// quoteIdent quotes a table name that already matched tableNamePattern.
func quoteIdent(name string) string {
	return `"` + name + `"`
}

func createTableStatement(name string) string {
	return fmt.Sprintf(createTableDDL, quoteIdent(name))
}
