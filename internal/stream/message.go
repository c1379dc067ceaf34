// Package stream carries terminal output between producers and viewers:
// the JSON message envelope, the producer-side Tee and the viewer-side
// Session.
package stream

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// Message types.
const (
	TypeText = "text"
	TypeEOF  = "eof"
)

// Message is the JSON envelope sent to viewers.
type Message struct {
	Type string `json:"type" jsonschema:"required,description=Message discriminator: text or eof"`
	Data string `json:"data,omitempty" jsonschema:"description=Raw terminal output for text messages"`
}

// TextMessage wraps a chunk of terminal output.
func TextMessage(data string) Message { return Message{Type: TypeText, Data: data} }

// EOFMessage signals the end of the stream.
func EOFMessage() Message { return Message{Type: TypeEOF} }

// Decode parses one transport frame.
func Decode(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	return m, nil
}

// Encode renders m as a transport frame.
func Encode(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// MessageSchema returns the JSON Schema of the message envelope.
func MessageSchema() *jsonschema.Schema {
	r := jsonschema.Reflector{ExpandedStruct: true}
	sch := r.Reflect(&Message{})
	sch.Title = "webtee stream message"
	sch.Description = "Envelope delivered to viewers over /ws and /api/events."
	return sch
}

// MarshalSchema indents a schema to JSON bytes.
func MarshalSchema(sch *jsonschema.Schema) ([]byte, error) {
	return json.MarshalIndent(sch, "", "  ")
}
