package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// IntSlice stores a list of integers as a JSON array in a VARCHAR2 column.
type IntSlice []int

// Value implements the driver.Valuer interface
func (s IntSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (s *IntSlice) Scan(value interface{}) error {
	data, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("IntSlice Scan: %w", err)
	}
	if len(data) == 0 || string(data) == "null" {
		*s = IntSlice{}
		return nil
	}
	return json.Unmarshal(data, s)
}

// JSONMap stores a JSON object in a VARCHAR2 column.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	data, err := scanBytes(value)
	if err != nil {
		return fmt.Errorf("JSONMap Scan: %w", err)
	}
	if len(data) == 0 || string(data) == "null" {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported type " + fmt.Sprintf("%T", value))
	}
}
