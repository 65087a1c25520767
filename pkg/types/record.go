package types

// Record is one stored row: field name to value. Values are string, int64,
// float64 or nil. The identifier is not part of the record; it is the row key.
type Record map[string]any

// Clone returns a shallow copy. Values are immutable scalars, so a shallow
// copy is enough to keep store-owned records out of callers' hands.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	c := make(Record, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// Row pairs a stored record with the identifier the store assigned to it.
type Row struct {
	ID     int64
	Record Record
}
