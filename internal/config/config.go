// Package config handles XDG path resolution and configuration file loading.
package config

import (
	"os"
	"path/filepath"
)

// AppName is used for the config directory and file name.
const AppName = "colorschemed"

// SystemConfigDir is the system-wide XDG config directory.
const SystemConfigDir = "/etc/xdg"

// ConfigHome returns the per-user config directory.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigHome() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return configHome
}

// DataHome returns the per-user data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataHome() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return dataHome
}

// ThemesDir returns the directory generated color schemes are written to.
func ThemesDir() string {
	return filepath.Join(DataHome(), "OVOS", "ColorSchemes")
}

// UserThemeFile returns the per-user active theme file.
func UserThemeFile() string {
	return filepath.Join(ConfigHome(), "OvosTheme")
}

// SystemThemeFile returns the system-wide active theme file.
func SystemThemeFile() string {
	return filepath.Join(SystemConfigDir, "OvosTheme")
}

// ConfigPath returns the path to the daemon config file.
func ConfigPath() string {
	return filepath.Join(ConfigHome(), AppName, AppName+".toml")
}
