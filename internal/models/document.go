package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is an opaque JSON value (object or array) that the server
// stores verbatim. Deck contents, relic lists, floor events and node
// state all arrive in client-defined shapes; the server only needs to
// verify they are structured and, in a few narrow places, peek inside.
type Document []byte

// MarshalJSON returns the raw bytes unchanged, or null when empty.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// UnmarshalJSON stores a compacted copy of the raw value.
func (d *Document) UnmarshalJSON(data []byte) error {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return fmt.Errorf("document: %w", err)
	}
	*d = Document(buf.Bytes())
	return nil
}

// IsStructured reports whether the value is a JSON object or array.
// Scalars, null and absent values all fail this check.
func (d Document) IsStructured() bool {
	for _, c := range d {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		case '{', '[':
			return true
		default:
			return false
		}
	}
	return false
}

// IsEmpty reports whether the value is absent, null, an empty array or
// an empty object.
func (d Document) IsEmpty() bool {
	trimmed := bytes.TrimSpace(d)
	switch string(trimmed) {
	case "", "null", "[]", "{}":
		return true
	}
	return false
}

// BoolField looks up a top-level boolean field when the document is an
// object. The second return is false when the field is absent, and the
// error is non-nil when the field exists but is not a boolean.
func (d Document) BoolField(name string) (value, present bool, err error) {
	if !d.IsStructured() {
		return false, false, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(d, &obj); err != nil {
		// An array document has no named fields.
		return false, false, nil
	}
	raw, ok := obj[name]
	if !ok {
		return false, false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, true, fmt.Errorf("field %q is not a boolean", name)
	}
	return b, true, nil
}

// Items flattens the document into a sequence of elements. A plain
// array is returned as-is; an object is probed for the first of the
// given keys that holds an array. Returns nil when neither shape
// matches.
func (d Document) Items(keys ...string) []json.RawMessage {
	if len(d) == 0 {
		return nil
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(d, &arr); err == nil {
		return arr
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(d, &obj); err != nil {
		return nil
	}
	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &arr); err == nil {
			return arr
		}
	}
	return nil
}
