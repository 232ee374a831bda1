package protocol

import (
	"encoding/json"
	"fmt"
)

// Envelope wraps every record written to the game journal.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope creates an envelope with a JSON-encoded payload.
func NewEnvelope(typ string, payload interface{}) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: typ, Payload: data}, nil
}

// MustEnvelope is like NewEnvelope but panics on error.
func MustEnvelope(typ string, payload interface{}) Envelope {
	e, err := NewEnvelope(typ, payload)
	if err != nil {
		panic(err)
	}
	return e
}

// Decode unmarshals the payload into v after checking the record type.
func (e Envelope) Decode(typ string, v interface{}) error {
	if e.Type != typ {
		return fmt.Errorf("protocol: want %s record, got %s", typ, e.Type)
	}
	return json.Unmarshal(e.Payload, v)
}
