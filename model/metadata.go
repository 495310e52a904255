package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/docrag/helper"
)

// Metadata is a free-form key/value payload carried by documents and
// chunks, persisted as a JSONB column
type Metadata map[string]interface{}

// Value implements driver.Valuer so Metadata can be passed directly as a
// query parameter
func (m Metadata) Value() (driver.Value, error) {
	return m.Marshal()
}

// Scan implements sql.Scanner so Metadata can be read back from a row
func (m *Metadata) Scan(value interface{}) error {
	return m.Unmarshal(value)
}

// Marshal renders the metadata as JSON bytes
func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal fills the metadata from JSON bytes, another Metadata value or
// a NULL column (which yields an empty map)
func (m *Metadata) Unmarshal(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	if s, ok := value.(Metadata); ok {
		*m = Metadata(s)
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, m)
}
