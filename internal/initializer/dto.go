package initializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// remoteID accepts the category id as either a JSON string or a number.
// It is only validated; stored categories get local identifiers.
type remoteID string

func (id *remoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = remoteID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("category id must be a string or a number, got %s", data)
	}
	*id = remoteID(n.String())
	return nil
}

// categoryDTO is one element of the place-categories response.
type categoryDTO struct {
	ID   *remoteID `json:"id"`
	Name *string   `json:"name"`
	Slug *string   `json:"slug"`
}

// parseCategories decodes the response body. The body must be a JSON array
// whose elements all carry id, name and slug.
func parseCategories(body []byte) ([]categoryDTO, error) {
	var dtos []categoryDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("decoding categories: %w", err)
	}
	if dtos == nil {
		return nil, errors.New("decoding categories: body is not an array")
	}
	for i, d := range dtos {
		switch {
		case d.ID == nil:
			return nil, fmt.Errorf("category %d: missing id", i)
		case d.Name == nil:
			return nil, fmt.Errorf("category %d: missing name", i)
		case d.Slug == nil:
			return nil, fmt.Errorf("category %d: missing slug", i)
		}
	}
	return dtos, nil
}
