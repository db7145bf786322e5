// Package dbus exposes the color scheme manager on the D-Bus session bus.
package dbus

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/colorschemed/internal/bus"
	"github.com/jmylchreest/colorschemed/internal/manager"
	"github.com/jmylchreest/colorschemed/internal/theme"
)

// ColorSchemeServer implements the org.ovos.ColorScheme D-Bus interface.
type ColorSchemeServer struct {
	conn   *dbus.Conn
	logger *slog.Logger

	bus    bus.Bus
	source ThemeSource

	mu      sync.RWMutex
	running bool
}

// NewColorSchemeServer creates a server that publishes generate requests on
// b and answers GetTheme from source.
func NewColorSchemeServer(b bus.Bus, source ThemeSource, logger *slog.Logger) *ColorSchemeServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ColorSchemeServer{
		logger: logger,
		bus:    b,
		source: source,
	}
}

// Start connects to the session bus, exports the service and starts
// mirroring bus events as signals.
func (s *ColorSchemeServer) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: colorSchemeMethods(),
				Signals: colorSchemeSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", DBusBusName)
	}

	s.mu.Lock()
	s.conn = conn
	s.running = true
	s.mu.Unlock()

	s.Attach()

	s.logger.Info("D-Bus color scheme server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name.
func (s *ColorSchemeServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		// Don't close the connection as it's shared (SessionBus)
	}

	s.logger.Info("D-Bus color scheme server stopped")
	return nil
}

// Generate publishes a generate request on the message bus.
// D-Bus method: Generate(ssss) -> nothing
func (s *ColorSchemeServer) Generate(themeName, primary, secondary, text string) *dbus.Error {
	s.logger.Debug("Generate called", "theme", themeName)

	msg := bus.NewMessage(manager.TopicGenerate, map[string]any{
		manager.FieldThemeName:  themeName,
		theme.KeyPrimaryColor:   primary,
		theme.KeySecondaryColor: secondary,
		theme.KeyTextColor:      text,
	})
	msg.Context["source"] = "dbus"
	if err := s.bus.Emit(msg); err != nil {
		return newError(ErrorFailed, err.Error())
	}
	return nil
}

// GetTheme returns the active theme.
// D-Bus method: GetTheme() -> (ssss)
func (s *ColorSchemeServer) GetTheme() (string, string, string, string, *dbus.Error) {
	s.logger.Debug("GetTheme called")

	d, err := s.source.ActiveTheme()
	if err != nil {
		name := ErrorFailed
		switch {
		case errors.Is(err, theme.ErrActiveThemeNotFound):
			name = ErrorNotFound
		case errors.Is(err, theme.ErrMissingKey):
			name = ErrorInvalid
		}
		return "", "", "", "", newError(name, err.Error())
	}
	return d.Name, d.PrimaryColor, d.SecondaryColor, d.TextColor, nil
}

// colorSchemeMethods returns the D-Bus method introspection data.
func colorSchemeMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Generate",
			Args: []introspect.Arg{
				{Name: "theme_name", Type: "s", Direction: "in"},
				{Name: "primary_color", Type: "s", Direction: "in"},
				{Name: "secondary_color", Type: "s", Direction: "in"},
				{Name: "text_color", Type: "s", Direction: "in"},
			},
		},
		{
			Name: "GetTheme",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "out"},
				{Name: "primary_color", Type: "s", Direction: "out"},
				{Name: "secondary_color", Type: "s", Direction: "out"},
				{Name: "text_color", Type: "s", Direction: "out"},
			},
		},
	}
}

// colorSchemeSignals returns the D-Bus signal introspection data.
func colorSchemeSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: "Generated",
			Args: []introspect.Arg{
				{Name: "theme_name", Type: "s"},
				{Name: "theme_path", Type: "s"},
			},
		},
		{
			Name: "ThemeChanged",
			Args: []introspect.Arg{
				{Name: "name", Type: "s"},
				{Name: "primary_color", Type: "s"},
				{Name: "secondary_color", Type: "s"},
				{Name: "text_color", Type: "s"},
			},
		},
	}
}
