package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Tags is a normalized set of free-text labels attached to a folder or file.
// The zero value is usable. Stored in PostgreSQL as a JSONB array.
type Tags []string

// NormalizeTags canonicalizes raw tag input: each tag is trimmed and
// lower-cased, blanks are dropped, and duplicates removed. Input order is
// preserved for the survivors. Idempotent.
func NormalizeTags(in []string) Tags {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	out := make(Tags, 0, len(in))
	for _, raw := range in {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Value implements driver.Valuer so Tags can be written as JSONB.
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB columns.
func (t *Tags) Scan(src any) error {
	if src == nil {
		*t = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("tags: cannot scan %T", src)
	}
	if len(b) == 0 {
		*t = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("tags: %w", err)
	}
	if len(out) == 0 {
		*t = nil
		return nil
	}
	*t = out
	return nil
}
