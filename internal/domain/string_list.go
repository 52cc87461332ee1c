package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringList is an ordered list of strings persisted as a JSON array in a text column.
// Reads are strict: anything other than a JSON array of strings is an error. Legacy
// comma-separated values are rewritten once by NormalizeLegacyList.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("expected text for string list, got %T", value)
	}
	if strings.TrimSpace(raw) == "" {
		*l = StringList{}
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return fmt.Errorf("string list is not a JSON array: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	*l = items
	return nil
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Compact trims every entry and drops the blank ones, preserving order.
func (l StringList) Compact() StringList {
	out := make(StringList, 0, len(l))
	for _, item := range l {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// NormalizeLegacyList converts a stored list value of unknown shape into a
// StringList. It accepts JSON arrays (non-string members are stringified), a JSON
// string, and comma separated text. The boolean reports whether the raw value
// differs from the canonical encoding.
func NormalizeLegacyList(raw string) (StringList, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return StringList{}, raw != "[]"
	}

	var items []any
	if err := json.Unmarshal([]byte(trimmed), &items); err == nil {
		out := make(StringList, 0, len(items))
		for _, item := range items {
			switch v := item.(type) {
			case nil:
				continue
			case string:
				out = append(out, v)
			default:
				out = append(out, fmt.Sprint(v))
			}
		}
		out = out.Compact()
		return out, canonical(out) != raw
	}

	var single string
	if err := json.Unmarshal([]byte(trimmed), &single); err == nil {
		trimmed = single
	}

	out := StringList(strings.Split(trimmed, ",")).Compact()
	return out, true
}

func canonical(l StringList) string {
	data, _ := l.MarshalJSON()
	return string(data)
}
