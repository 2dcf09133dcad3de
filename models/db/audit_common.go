package dbmodels

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/pkg/errors"
)

type EntityChanges struct {
	Data []FieldChanges `json:"data"` // campos modificados
}

type FieldChanges struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

func (j EntityChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EntityChanges) Scan(value any) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	case nil:
		return nil
	}
	return errors.Errorf("tipo no soportado para EntityChanges: %T", value)
}

func (j *EntityChanges) Add(field string, oldValue, newValue any) {
	j.Data = append(j.Data, FieldChanges{Field: field, OldValue: oldValue, NewValue: newValue})
}

func (j *EntityChanges) IsEmpty() bool {
	return j == nil || len(j.Data) == 0
}
