package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is a map of string key-value pairs attached to domain records
type Metadata map[string]string

// Value implements driver.Valuer so metadata persists as JSONB
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner for reading metadata back from JSONB
func (m *Metadata) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported metadata type %T", src)
	}
}

// Merge returns a new Metadata combining m with other; keys in other win
func (m Metadata) Merge(other Metadata) Metadata {
	merged := Metadata{}
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
