// internal/site/boxes.go
//
// Ordered content boxes and their untyped payload.
//
// Context
// -------
// Go maps do not keep insertion order, but slot population does: when two
// boxes target the same position the later one wins.  Boxes therefore walks
// the JSON object token by token and keeps entries in document order.  A
// repeated key replaces the earlier value in place, which is what a
// JavaScript object does when the same property is assigned twice.
//
// A box that is not an object (or whose type/position are not strings) is
// skipped rather than failing the whole config.
package site

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// ContentBox is one renderable unit.
type ContentBox struct {
	Key      string  `json:"-"`
	Type     string  `json:"type"`
	Position string  `json:"position"`
	Enabled  *bool   `json:"enabled,omitempty"`
	Content  Content `json:"content,omitempty"`
}

// Boxes is the ordered contentBoxes mapping.
type Boxes []ContentBox

// UnmarshalJSON decodes a JSON object while preserving key order.
func (b *Boxes) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*b = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("contentBoxes: expected object, got %v", tok)
	}

	var (
		out = make(Boxes, 0, 8)
		idx = make(map[string]int, 8)
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("contentBoxes[%q]: %w", key, err)
		}

		var box ContentBox
		if err := json.Unmarshal(raw, &box); err != nil {
			zap.S().Warnw("content box skipped", "key", key, "err", err)
			continue
		}
		box.Key = key

		if i, dup := idx[key]; dup {
			out[i] = box
			continue
		}
		idx[key] = len(out)
		out = append(out, box)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return err
	}

	*b = out
	return nil
}

// MarshalJSON writes the boxes back as an object in the same order.
func (b Boxes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, box := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(box.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(box)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

/*─────────────────────────────── Content ───────────────────────────────────*/

// Content is the type-dependent payload of a box.  It keeps the raw JSON
// and, when the payload is an object, a decoded field map for lookups.
type Content struct {
	raw    json.RawMessage
	fields map[string]any
}

// NewContent builds a Content from an already-decoded object.  Used by
// tests and the maintenance tooling.
func NewContent(fields map[string]any) Content {
	raw, _ := json.Marshal(fields)
	return Content{raw: raw, fields: fields}
}

func (c *Content) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	c.raw = append(c.raw[:0], data...)
	c.fields = nil
	if len(data) > 0 && data[0] == '{' {
		var m map[string]any
		if err := json.Unmarshal(data, &m); err != nil {
			return err
		}
		c.fields = m
	}
	return nil
}

func (c Content) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// IsEmpty is true for an absent, null, {}, [], "" or scalar payload.  Only
// a non-empty object, array, or string counts as content.
func (c Content) IsEmpty() bool {
	raw := bytes.TrimSpace(c.raw)
	if len(raw) == 0 || isNull(raw) {
		return true
	}
	switch raw[0] {
	case '{':
		return len(c.fields) == 0
	case '[':
		var arr []json.RawMessage
		if err := json.Unmarshal(raw, &arr); err != nil {
			return true
		}
		return len(arr) == 0
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return true
		}
		return s == ""
	default:
		return true
	}
}

// Text returns the payload itself when it is a bare JSON string.
func (c Content) Text() string {
	raw := bytes.TrimSpace(c.raw)
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

// Field returns the raw decoded value at key, or nil.
func (c Content) Field(key string) any { return c.fields[key] }

// Str returns fields[key] when it is a string.  Anything else yields "".
func (c Content) Str(key string) string {
	s, _ := c.fields[key].(string)
	return s
}

// Bool returns true only for a literal JSON true.
func (c Content) Bool(key string) bool {
	v, _ := c.fields[key].(bool)
	return v
}

// Num returns fields[key] when it is a number.
func (c Content) Num(key string) (float64, bool) {
	v, ok := c.fields[key].(float64)
	return v, ok
}

// Objects returns the object elements of the array at key, skipping any
// element that is not an object.
func (c Content) Objects(key string) []map[string]any {
	arr, _ := c.fields[key].([]any)
	out := make([]map[string]any, 0, len(arr))
	for _, v := range arr {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Strings returns the string elements of the array at key.
func (c Content) Strings(key string) []string {
	arr, _ := c.fields[key].([]any)
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func isNull(b []byte) bool { return bytes.Equal(bytes.TrimSpace(b), []byte("null")) }
