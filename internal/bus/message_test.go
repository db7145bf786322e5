package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage_NilData(t *testing.T) {
	m := NewMessage("ovos.theme.get", nil)
	assert.Equal(t, "ovos.theme.get", m.Type)
	assert.NotNil(t, m.Data)
	assert.NotNil(t, m.Context)
}

func TestResponse(t *testing.T) {
	req := NewMessage("ovos.theme.get", nil)
	req.Context["source"] = "shell"
	req.Context["destination"] = "skills"
	req.Context["session"] = "abc"

	resp := req.Response(map[string]any{"name": "Dark"})

	assert.Equal(t, "ovos.theme.get.response", resp.Type)
	assert.Equal(t, "Dark", resp.Data["name"])
	assert.Equal(t, "skills", resp.Context["source"])
	assert.Equal(t, "shell", resp.Context["destination"])
	assert.Equal(t, "abc", resp.Context["session"])

	// Request context must be untouched
	assert.Equal(t, "shell", req.Context["source"])
}

func TestResponse_NoRouting(t *testing.T) {
	resp := NewMessage("ovos.theme.get", nil).Response(nil)
	assert.NotContains(t, resp.Context, "source")
	assert.NotContains(t, resp.Context, "destination")
}

func TestString(t *testing.T) {
	m := NewMessage("t", map[string]any{"s": "value", "n": 3})

	s, ok := m.String("s")
	assert.True(t, ok)
	assert.Equal(t, "value", s)

	_, ok = m.String("n")
	assert.False(t, ok, "non-string values are reported as absent")

	_, ok = m.String("missing")
	assert.False(t, ok)
}

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"full", `{"type":"a","data":{"k":"v"},"context":{}}`, false},
		{"null data", `{"type":"a","data":null}`, false},
		{"no type", `{"data":{}}`, true},
		{"not json", `hello`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMessage([]byte(tt.raw))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a", m.Type)
			assert.NotNil(t, m.Data)
			assert.NotNil(t, m.Context)
		})
	}
}

func TestMarshal_WireShape(t *testing.T) {
	raw, err := Message{Type: "x"}.Marshal()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"x","data":{},"context":{}}`, string(raw))
}
