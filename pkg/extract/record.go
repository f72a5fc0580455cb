package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FieldName is the key every idea record must carry.
const FieldName = "name"

// IdeaRecord is an ordered set of free-text fields describing one idea.
// Keys keep their first insertion position; setting an existing key replaces its value.
type IdeaRecord struct {
	keys   []string
	values map[string]string
}

// NewIdeaRecord builds a record from alternating key/value pairs. A trailing key without
// a value is ignored.
func NewIdeaRecord(pairs ...string) IdeaRecord {
	var r IdeaRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Set stores value under key.
func (r *IdeaRecord) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r IdeaRecord) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Name returns the idea name, or "" when absent.
func (r IdeaRecord) Name() string {
	return r.values[FieldName]
}

// HasName reports whether the name field was set, even to an empty value.
func (r IdeaRecord) HasName() bool {
	_, ok := r.values[FieldName]
	return ok
}

// Keys returns the field names in insertion order.
func (r IdeaRecord) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r IdeaRecord) Len() int { return len(r.keys) }

// Map returns an unordered copy of the fields.
func (r IdeaRecord) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Pairs flattens the record into alternating key/value entries, the inverse of NewIdeaRecord.
func (r IdeaRecord) Pairs() []string {
	out := make([]string, 0, 2*len(r.keys))
	for _, k := range r.keys {
		out = append(out, k, r.values[k])
	}
	return out
}

// MarshalJSON encodes the record as a JSON object with keys in insertion order.
func (r IdeaRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order. String values are kept as-is,
// other scalars and nested values are stored as their compact JSON text, null becomes "".
func (r *IdeaRecord) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	rec, err := decodeRecord(dec)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func decodeRecord(dec *json.Decoder) (IdeaRecord, error) {
	var rec IdeaRecord
	tok, err := dec.Token()
	if err != nil {
		return rec, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return rec, fmt.Errorf("extract: expected object, got %v", tok)
	}
	rec.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return rec, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return rec, fmt.Errorf("extract: expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return rec, err
		}
		rec.Set(key, rawToText(raw))
	}
	if _, err := dec.Token(); err != nil {
		return rec, err
	}
	return rec, nil
}

func rawToText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}
	return compact.String()
}

var errNotRecordList = errors.New("extract: not a list of records")

// decodeRecordList parses a JSON array of objects. Anything else is rejected.
func decodeRecordList(text string) ([]IdeaRecord, error) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") {
		return nil, errNotRecordList
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, errNotRecordList
	}
	records := make([]IdeaRecord, 0)
	for dec.More() {
		rec, err := decodeRecord(dec)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errNotRecordList
	}
	// trailing garbage after the array
	if _, err := dec.Token(); err == nil {
		return nil, errNotRecordList
	}
	return records, nil
}
