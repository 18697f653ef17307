package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONField persists any value as a jsonb column while keeping it typed in
// code.
type JSONField[T any] struct {
	Data T
}

func MakeJSONField[T any](data T) *JSONField[T] {
	return &JSONField[T]{Data: data}
}

func (j JSONField[T]) Value() (driver.Value, error) {
	out, err := json.Marshal(j.Data)
	if err != nil {
		return nil, err
	}
	return string(out), nil
}

func (j *JSONField[T]) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	default:
		return fmt.Errorf("unsupported type for JSONField: %T", src)
	}
}

func (j JSONField[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.Data)
}

func (j *JSONField[T]) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Data)
}

func (JSONField[T]) GormDataType() string {
	return "jsonb"
}
