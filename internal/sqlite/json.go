package sqlite

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/locations/pkg/types"
)

// storedRow is the shape of one row as selected from a store table.
type storedRow struct {
	ID     int64  `db:"id"`
	Record string `db:"record"`
}

// encodeRecord serialises a record into the record column.
func encodeRecord(r types.Record) (string, error) {
	if r == nil {
		r = types.Record{}
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}
	return string(data), nil
}

// decodeRecord parses the record column. Integral numbers come back as
// int64 and the rest as float64, so stored identifiers and counters keep
// their type.
func decodeRecord(data string) (types.Record, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}

	r := make(types.Record, len(raw))
	for k, v := range raw {
		n, ok := v.(json.Number)
		if !ok {
			r[k] = v
			continue
		}
		if i, err := n.Int64(); err == nil {
			r[k] = i
			continue
		}
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("decoding record field %s: %w", k, err)
		}
		r[k] = f
	}
	return r, nil
}
