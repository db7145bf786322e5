package dbus

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/colorschemed/internal/bus"
	"github.com/jmylchreest/colorschemed/internal/manager"
	"github.com/jmylchreest/colorschemed/internal/theme"
)

var dark = theme.Descriptor{Name: "Dark", PrimaryColor: "#111", SecondaryColor: "#222", TextColor: "#eee"}

func TestDescriptorFromFields(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		ok   bool
	}{
		{"complete", dark.Fields(), true},
		{"missing key", map[string]any{"name": "Dark"}, false},
		{"wrong type", map[string]any{"name": "Dark", "primaryColor": 1, "secondaryColor": "s", "textColor": "t"}, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := descriptorFromFields(tt.data)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, dark, d)
			}
		})
	}
}

func TestGetTheme(t *testing.T) {
	s := NewColorSchemeServer(bus.NewMemoryBus(nil), ThemeSourceFunc(func() (theme.Descriptor, error) {
		return dark, nil
	}), nil)

	name, primary, secondary, text, dErr := s.GetTheme()
	require.Nil(t, dErr)
	assert.Equal(t, "Dark", name)
	assert.Equal(t, "#111", primary)
	assert.Equal(t, "#222", secondary)
	assert.Equal(t, "#eee", text)
}

func TestGetTheme_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"not found", theme.ErrActiveThemeNotFound, ErrorNotFound},
		{"missing key", &theme.MissingKeyError{Key: "name", Path: "x"}, ErrorInvalid},
		{"wrapped not found", fmt.Errorf("read: %w", theme.ErrActiveThemeNotFound), ErrorNotFound},
		{"other", errors.New("permission denied"), ErrorFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewColorSchemeServer(bus.NewMemoryBus(nil), ThemeSourceFunc(func() (theme.Descriptor, error) {
				return theme.Descriptor{}, tt.err
			}), nil)

			_, _, _, _, dErr := s.GetTheme()
			require.NotNil(t, dErr)
			assert.Equal(t, tt.expected, dErr.Name)
		})
	}
}

func TestGenerate_PublishesOnBus(t *testing.T) {
	b := bus.NewMemoryBus(nil)
	dir := filepath.Join(t.TempDir(), "themes")
	manager.New(b, manager.Options{ThemesDir: dir}, nil)

	s := NewColorSchemeServer(b, ThemeSourceFunc(func() (theme.Descriptor, error) {
		return dark, nil
	}), nil)

	require.Nil(t, s.Generate("Midnight Blue", "#000033", "#111144", "#FFFFFF"))

	requests := b.EmittedOfType(manager.TopicGenerate)
	require.Len(t, requests, 1)
	assert.Equal(t, "dbus", requests[0].Context["source"])

	events := b.EmittedOfType(manager.TopicGenerated)
	require.Len(t, events, 1)
	assert.Equal(t, dir, events[0].Data[manager.FieldThemePath])
	assert.FileExists(t, filepath.Join(dir, "midnight_blue.json"))
}

func TestGenerate_BusFailure(t *testing.T) {
	s := NewColorSchemeServer(bus.NewWebsocketClient(bus.ClientConfig{}, nil), nil, nil)

	dErr := s.Generate("x", "a", "b", "c")
	require.NotNil(t, dErr)
	assert.Equal(t, ErrorFailed, dErr.Name)
}

func TestEmitSignals_NotConnected(t *testing.T) {
	s := NewColorSchemeServer(bus.NewMemoryBus(nil), nil, nil)

	assert.Error(t, s.EmitGenerated("x", "/tmp"))
	assert.Error(t, s.EmitThemeChanged(dark))
}

func TestAttach_HandlerErrorsDoNotBreakBus(t *testing.T) {
	b := bus.NewMemoryBus(nil)
	s := NewColorSchemeServer(b, nil, nil)
	s.Attach()

	// Without a connection the signal handlers fail; the bus only logs.
	require.NoError(t, b.Emit(bus.NewMessage(manager.TopicGenerated, map[string]any{
		manager.FieldThemeName: "x",
		manager.FieldThemePath: "/tmp",
	})))
	require.NoError(t, b.Emit(bus.NewMessage(manager.TopicThemeGetResponse, dark.Fields())))
}

func TestIntrospection(t *testing.T) {
	methods := colorSchemeMethods()
	require.Len(t, methods, 2)
	assert.Equal(t, "Generate", methods[0].Name)
	assert.Len(t, methods[0].Args, 4)
	assert.Equal(t, "GetTheme", methods[1].Name)

	signals := colorSchemeSignals()
	require.Len(t, signals, 2)
	assert.Equal(t, "Generated", signals[0].Name)
	assert.Equal(t, "ThemeChanged", signals[1].Name)
}
