package theme

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// ActiveThemeFileName is the name of the active theme file in an XDG
// config directory.
const ActiveThemeFileName = "OvosTheme"

// ErrActiveThemeNotFound is returned when neither the user nor the system
// OvosTheme file exists.
var ErrActiveThemeNotFound = errors.New("OvosTheme file not found")

// ErrMissingKey matches any *MissingKeyError.
var ErrMissingKey = errors.New("missing theme key")

// MissingKeyError reports a required key absent from the active theme file.
type MissingKeyError struct {
	Key  string
	Path string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: no %q entry in %s", ErrMissingKey, e.Key, e.Path)
}

// Is reports whether target is ErrMissingKey.
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// Locator finds the active theme file.
// Resolution order:
//  1. UserPath (~/.config/OvosTheme)
//  2. SystemPath (/etc/xdg/OvosTheme)
type Locator struct {
	UserPath   string
	SystemPath string
}

// Resolve returns the first candidate that is a regular file.
func (l Locator) Resolve() (string, error) {
	for _, path := range []string{l.UserPath, l.SystemPath} {
		if path == "" {
			continue
		}
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", ErrActiveThemeNotFound
}

// LoadActive reads and parses the active theme file. It returns the
// descriptor and the path it was read from.
//
// The file is read without locking. A concurrent writer that does not
// replace the file atomically can produce a torn read.
func (l Locator) LoadActive() (Descriptor, string, error) {
	path, err := l.Resolve()
	if err != nil {
		return Descriptor{}, "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, path, fmt.Errorf("failed to read %s: %w", path, err)
	}

	values, err := ParseKeyValue(bytes.NewReader(data))
	if err != nil {
		return Descriptor{}, path, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	d, err := DescriptorFromValues(values, path)
	if err != nil {
		return Descriptor{}, path, err
	}
	return d, path, nil
}

// DescriptorFromValues builds a descriptor from parsed key=value pairs.
// Keys are checked in RequiredKeys order and the first missing one is
// reported. source names the origin in the error.
func DescriptorFromValues(values map[string]string, source string) (Descriptor, error) {
	for _, key := range RequiredKeys {
		if _, ok := values[key]; !ok {
			return Descriptor{}, &MissingKeyError{Key: key, Path: source}
		}
	}
	return Descriptor{
		Name:           values[KeyName],
		PrimaryColor:   values[KeyPrimaryColor],
		SecondaryColor: values[KeySecondaryColor],
		TextColor:      values[KeyTextColor],
	}, nil
}
