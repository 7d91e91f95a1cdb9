// internal/maintenance/doc.go
//
// Order-preserving JSON objects for config rewrites.
//
// Context
// -------
// Domain configs are hand-edited as often as they are generated, and a
// rewrite that reshuffles keys or drops fields the renderer does not know
// (editor notes, `aiPrompt` hints) makes every diff unreadable.  Object
// keeps the document's own key order and raw values; only the members a
// command touches are re-encoded.
//
// Notes
// -----
//   - Values are encoded with HTML escaping off so "&" and "<" survive a
//     round trip unchanged.
package maintenance

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object is a JSON object that remembers key order.
type Object struct {
	keys []string
	vals map[string]json.RawMessage
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: make(map[string]json.RawMessage)}
}

// ParseObject decodes raw, which must be a JSON object.  A repeated key
// keeps its first position and its last value.
func ParseObject(raw []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	o := NewObject()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%q: %w", key, err)
		}
		o.SetRaw(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return o, nil
}

// Keys returns the member names in document order.
func (o *Object) Keys() []string { return append([]string(nil), o.keys...) }

func (o *Object) Has(key string) bool {
	_, ok := o.vals[key]
	return ok
}

// Raw returns the encoded value at key, or nil.
func (o *Object) Raw(key string) json.RawMessage { return o.vals[key] }

// SetRaw stores an encoded value.  An existing key keeps its position.
func (o *Object) SetRaw(key string, v json.RawMessage) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = append(json.RawMessage(nil), v...)
}

// Set encodes v and stores it at key.
func (o *Object) Set(key string, v any) error {
	raw, err := encode(v)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	o.SetRaw(key, raw)
	return nil
}

// InsertAfter stores v at key directly after the member named after.  When
// after is absent the key is appended; when key exists it is moved.
func (o *Object) InsertAfter(after, key string, v any) error {
	o.Delete(key)
	if err := o.Set(key, v); err != nil {
		return err
	}
	idx := -1
	for i, k := range o.keys {
		if k == after {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(o.keys)-2 {
		return nil
	}
	last := o.keys[len(o.keys)-1]
	copy(o.keys[idx+2:], o.keys[idx+1:len(o.keys)-1])
	o.keys[idx+1] = last
	return nil
}

func (o *Object) Delete(key string) {
	if _, ok := o.vals[key]; !ok {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Child decodes the object at key.  ok is false when the member is absent
// or not an object; the returned Object is then empty and usable.
func (o *Object) Child(key string) (child *Object, ok bool) {
	raw := bytes.TrimSpace(o.vals[key])
	if len(raw) == 0 || raw[0] != '{' {
		return NewObject(), false
	}
	c, err := ParseObject(raw)
	if err != nil {
		return NewObject(), false
	}
	return c, true
}

// Get decodes the value at key into dst.  It reports false when the key is
// absent or the value does not fit dst.
func (o *Object) Get(key string, dst any) bool {
	raw, ok := o.vals[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// String returns the string at key, or "".
func (o *Object) String(key string) string {
	var s string
	o.Get(key, &s)
	return s
}

// Bool returns the boolean at key, or nil when absent or not a boolean.
func (o *Object) Bool(key string) *bool {
	var b bool
	if !o.Get(key, &b) {
		return nil
	}
	return &b
}

// Reorder moves the named keys to the front in the given order.  Names not
// present are ignored; the remaining keys keep their relative order.
func (o *Object) Reorder(first []string) {
	out := make([]string, 0, len(o.keys))
	seen := make(map[string]bool, len(first))
	for _, k := range first {
		if o.Has(k) && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	for _, k := range o.keys {
		if !seen[k] {
			out = append(out, k)
		}
	}
	o.keys = out
}

func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := encode(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(o.vals[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Pretty renders o with two-space indentation and a trailing newline, the
// layout every config file uses.
func (o *Object) Pretty() ([]byte, error) {
	compact, err := o.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encode(v any) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
