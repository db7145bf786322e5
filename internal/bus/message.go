package bus

import (
	"encoding/json"
	"fmt"
	"maps"
)

// ResponseSuffix is appended to a message type to form its response type.
const ResponseSuffix = ".response"

// Message is a single OVOS bus message.
// On the wire it is a JSON object: {"type": ..., "data": {...}, "context": {...}}.
type Message struct {
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
	Context map[string]any `json:"context"`
}

// NewMessage creates a message with the given type and payload.
// A nil payload is replaced with an empty map.
func NewMessage(msgType string, data map[string]any) Message {
	if data == nil {
		data = make(map[string]any)
	}
	return Message{
		Type:    msgType,
		Data:    data,
		Context: make(map[string]any),
	}
}

// Response builds the reply to m: type "<m.Type>.response", the given payload
// and a copy of m's context with source and destination swapped.
func (m Message) Response(data map[string]any) Message {
	resp := NewMessage(m.Type+ResponseSuffix, data)
	maps.Copy(resp.Context, m.Context)

	src, hasSrc := m.Context["source"]
	dst, hasDst := m.Context["destination"]
	delete(resp.Context, "source")
	delete(resp.Context, "destination")
	if hasDst {
		resp.Context["source"] = dst
	}
	if hasSrc {
		resp.Context["destination"] = src
	}
	return resp
}

// String returns the string payload value for key.
// The second result is false when the key is absent or not a string.
func (m Message) String(key string) (string, bool) {
	v, ok := m.Data[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Marshal encodes the message in wire format.
func (m Message) Marshal() ([]byte, error) {
	if m.Data == nil {
		m.Data = make(map[string]any)
	}
	if m.Context == nil {
		m.Context = make(map[string]any)
	}
	return json.Marshal(m)
}

// ParseMessage decodes a wire-format message.
func ParseMessage(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, fmt.Errorf("failed to decode message: %w", err)
	}
	if m.Type == "" {
		return Message{}, fmt.Errorf("message has no type")
	}
	if m.Data == nil {
		m.Data = make(map[string]any)
	}
	if m.Context == nil {
		m.Context = make(map[string]any)
	}
	return m, nil
}
