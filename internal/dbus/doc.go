// Package dbus exposes colorschemed on the D-Bus session bus.
// It provides a server implementing org.ovos.ColorScheme with Generate and
// GetTheme methods, and mirrors the manager's bus events as the Generated
// and ThemeChanged signals, for desktop clients that do not speak the OVOS
// message bus.
package dbus
