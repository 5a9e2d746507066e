package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// StringList stores an order-irrelevant set of free-text tags as a JSON array
// in a single TEXT column. Blank entries are dropped and surrounding
// whitespace is trimmed when normalizing caller input.
type StringList []string

// NormalizeTags trims each entry and drops blanks, preserving input order.
// Duplicate collapsing is left to the caller per the entity contract.
func NormalizeTags(in []string) StringList {
	if len(in) == 0 {
		return StringList{}
	}
	out := make(StringList, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Value serializes the list as a JSON array for storage.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan deserializes a JSON array from a TEXT or BLOB column. NULL scans to
// an empty list.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return errors.New("stringlist: unsupported column type")
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}
