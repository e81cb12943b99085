package rtm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vedran77/pulse-mirror/internal/domain"
)

var (
	// ErrMalformedEvent marks events whose payload is missing a required
	// field or cannot be decoded.
	ErrMalformedEvent = errors.New("malformed event")

	// errTargetMissing is returned by handlers whose target entity is not in
	// the store. The dispatcher treats it as a no-op.
	errTargetMissing = errors.New("target not found")
)

// Event is one inbound frame of the event stream.
type Event struct {
	Type    EventType
	Tag     string
	Subtype string
	Payload domain.Partial

	raw []byte
}

// ParseEvent decodes a raw frame. The frame must be a JSON object; its
// "type" and "subtype" fields select the handler.
func ParseEvent(frame []byte) (*Event, error) {
	p, err := domain.ParsePartial(frame)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}
	tag := p.String("type")
	subtype := p.String("subtype")
	return &Event{
		Type:    ParseEventType(tag, subtype),
		Tag:     tag,
		Subtype: subtype,
		Payload: p,
		raw:     frame,
	}, nil
}

func (e *Event) malformed(format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", e.Type, ErrMalformedEvent, fmt.Sprintf(format, args...))
}

// decode unmarshals the whole event into v.
func (e *Event) decode(v any) error {
	if err := json.Unmarshal(e.raw, v); err != nil {
		return e.malformed("decoding payload: %v", err)
	}
	return nil
}

// object returns the nested object stored under key.
func (e *Event) object(key string) (domain.Partial, error) {
	raw, ok := e.Payload[key]
	if !ok {
		return nil, e.malformed("missing %q", key)
	}
	p, err := domain.ParsePartial(raw)
	if err != nil {
		return nil, e.malformed("%q: %v", key, err)
	}
	return p, nil
}

// stringField returns the string field key, failing when it is empty.
func (e *Event) stringField(key string) (string, error) {
	v := e.Payload.String(key)
	if v == "" {
		return "", e.malformed("missing %q", key)
	}
	return v, nil
}
