package dbus

import (
	"fmt"

	"github.com/jmylchreest/colorschemed/internal/bus"
	"github.com/jmylchreest/colorschemed/internal/manager"
	"github.com/jmylchreest/colorschemed/internal/theme"
)

// Attach registers handlers on the message bus that mirror generated and
// active-theme events as D-Bus signals.
func (s *ColorSchemeServer) Attach() {
	s.bus.On(manager.TopicGenerated, func(msg bus.Message) error {
		name, ok := msg.String(manager.FieldThemeName)
		if !ok {
			return nil
		}
		path, _ := msg.String(manager.FieldThemePath)
		return s.EmitGenerated(name, path)
	})

	s.bus.On(manager.TopicThemeGetResponse, func(msg bus.Message) error {
		d, ok := descriptorFromFields(msg.Data)
		if !ok {
			return nil
		}
		return s.EmitThemeChanged(d)
	})
}

// EmitGenerated emits the Generated signal.
func (s *ColorSchemeServer) EmitGenerated(themeName, themePath string) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	if err := conn.Emit(DBusPath, DBusInterface+".Generated", themeName, themePath); err != nil {
		return fmt.Errorf("failed to emit Generated signal: %w", err)
	}

	s.logger.Debug("emitted Generated signal", "theme", themeName)
	return nil
}

// EmitThemeChanged emits the ThemeChanged signal.
func (s *ColorSchemeServer) EmitThemeChanged(d theme.Descriptor) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()
	if conn == nil {
		return fmt.Errorf("not connected to D-Bus")
	}

	err := conn.Emit(DBusPath, DBusInterface+".ThemeChanged",
		d.Name, d.PrimaryColor, d.SecondaryColor, d.TextColor)
	if err != nil {
		return fmt.Errorf("failed to emit ThemeChanged signal: %w", err)
	}

	s.logger.Debug("emitted ThemeChanged signal", "theme", d.Name)
	return nil
}
