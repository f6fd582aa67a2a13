package database

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// RecordID is a user id as it appears in the record files. Both JSON
// strings ("u-17") and numbers (17) are accepted and kept as text.
type RecordID string

func (id RecordID) String() string {
	return string(id)
}

func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}

// Scan implements sql.Scanner.
func (id *RecordID) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*id = ""
	case string:
		*id = RecordID(v)
	case []byte:
		*id = RecordID(v)
	case int64:
		*id = RecordID(strconv.FormatInt(v, 10))
	default:
		return fmt.Errorf("cannot scan %T into RecordID", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (id RecordID) Value() (driver.Value, error) {
	return string(id), nil
}

// GormDataType keeps ids in a text column whatever their JSON form.
func (RecordID) GormDataType() string {
	return "string"
}
