package dbus

import (
	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/colorschemed/internal/theme"
)

const (
	// DBusInterface is the color scheme interface name.
	DBusInterface = "org.ovos.ColorScheme"
	// DBusPath is the color scheme object path.
	DBusPath = "/org/ovos/ColorScheme"
	// DBusBusName is the bus name to claim.
	DBusBusName = "org.ovos.ColorScheme"
)

// D-Bus error names returned by GetTheme.
const (
	ErrorNotFound = DBusInterface + ".Error.NotFound"
	ErrorInvalid  = DBusInterface + ".Error.Invalid"
	ErrorFailed   = DBusInterface + ".Error.Failed"
)

// ThemeSource reads the active theme.
type ThemeSource interface {
	ActiveTheme() (theme.Descriptor, error)
}

// ThemeSourceFunc adapts a function to ThemeSource.
type ThemeSourceFunc func() (theme.Descriptor, error)

// ActiveTheme calls f.
func (f ThemeSourceFunc) ActiveTheme() (theme.Descriptor, error) {
	return f()
}

// descriptorFromFields reads a descriptor from a bus payload.
// The second result is false if any field is missing or not a string.
func descriptorFromFields(data map[string]any) (theme.Descriptor, bool) {
	var d theme.Descriptor
	targets := map[string]*string{
		theme.KeyName:           &d.Name,
		theme.KeyPrimaryColor:   &d.PrimaryColor,
		theme.KeySecondaryColor: &d.SecondaryColor,
		theme.KeyTextColor:      &d.TextColor,
	}
	for key, dst := range targets {
		s, ok := data[key].(string)
		if !ok {
			return theme.Descriptor{}, false
		}
		*dst = s
	}
	return d, true
}

func newError(name, message string) *dbus.Error {
	return dbus.NewError(name, []any{message})
}
