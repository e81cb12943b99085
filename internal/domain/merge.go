package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrNotObject = errors.New("record is not a JSON object")

// Partial is a record as it arrives on the wire: top-level keys mapped to
// their undecoded values. Upserts and event payloads both carry partials.
type Partial map[string]json.RawMessage

// ParsePartial decodes a JSON object into a Partial.
func ParsePartial(data []byte) (Partial, error) {
	var p Partial
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotObject
	}
	return p, nil
}

// partialOf is ParsePartial for UnmarshalJSON methods: a JSON null decodes
// to an empty record.
func partialOf(data []byte) (Partial, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return Partial{}, nil
	}
	return ParsePartial(data)
}

// String returns the string stored under key, or "" when the key is absent
// or not a string.
func (p Partial) String(key string) string {
	raw, ok := p[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ID returns the partial's "id" field.
func (p Partial) ID() string {
	return p.String("id")
}

// fields is the merge schema of a record: each known top-level key maps to
// the decoder for that field. A decoder returns a commit that replaces the
// field wholesale. Nested entity shapes are promoted by declaring the field
// with its model type (e.g. *User), so promotion is a property of the schema
// and never of the incoming value.
type fields map[string]func(json.RawMessage) (func(), error)

func field[T any](dst *T) func(json.RawMessage) (func(), error) {
	return func(raw json.RawMessage) (func(), error) {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return func() { *dst = v }, nil
	}
}

// apply merges p onto the record described by f. Keys unknown to the schema
// are copied verbatim into extra. Every key is decoded before any is
// written, so a malformed partial leaves the record untouched.
func (f fields) apply(p Partial, extra *map[string]json.RawMessage) error {
	commits := make([]func(), 0, len(p))
	for _, key := range slices.Sorted(maps.Keys(p)) {
		dec, ok := f[key]
		if !ok {
			continue
		}
		commit, err := dec(p[key])
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		commits = append(commits, commit)
	}

	for _, commit := range commits {
		commit()
	}
	for key, raw := range p {
		if _, ok := f[key]; ok {
			continue
		}
		if *extra == nil {
			*extra = make(map[string]json.RawMessage)
		}
		(*extra)[key] = slices.Clone(raw)
	}
	return nil
}

// object accumulates the JSON form of a record: extras first, known fields
// on top.
type object map[string]any

func newObject(extra map[string]json.RawMessage) object {
	o := make(object, len(extra)+8)
	for k, v := range extra {
		o[k] = v
	}
	return o
}

func (o object) put(key string, v any) object {
	o[key] = v
	return o
}

// putIf sets key only when keep is true, so zero values the record never
// carried stay off the wire.
func (o object) putIf(keep bool, key string, v any) object {
	if keep {
		o[key] = v
	}
	return o
}

func (o object) marshal() ([]byte, error) {
	return json.Marshal(map[string]any(o))
}
