package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Duration is a time.Duration that can be unmarshaled from human-readable strings.
// Supports formats like "5s", "1m", "1h30m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '5s', '1m', '1h30m' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Transport selects the message bus implementation.
type Transport string

const (
	// TransportWebsocket connects to an OVOS message bus.
	TransportWebsocket Transport = "websocket"
	// TransportMemory runs an in-process bus, useful with the D-Bus bridge only.
	TransportMemory Transport = "memory"
)

// ValidTransports returns all valid transport values.
func ValidTransports() []Transport {
	return []Transport{TransportWebsocket, TransportMemory}
}

// DaemonConfig is the configuration for colorschemed.
// Loaded from ~/.config/colorschemed/colorschemed.toml
type DaemonConfig struct {
	Bus   BusConfig   `toml:"bus"`
	DBus  DBusConfig  `toml:"dbus"`
	Paths PathsConfig `toml:"paths"`
	Watch WatchConfig `toml:"watch"`
}

// BusConfig contains message bus connection settings.
type BusConfig struct {
	Transport      string   `toml:"transport"` // "websocket" or "memory"
	Host           string   `toml:"host"`
	Port           int      `toml:"port"`
	Route          string   `toml:"route"`
	SSL            bool     `toml:"ssl"`
	ReconnectDelay Duration `toml:"reconnect_delay"` // e.g. "5s"
}

// DBusConfig contains session bus bridge settings.
type DBusConfig struct {
	Enabled bool `toml:"enabled"`
}

// PathsConfig overrides the XDG-derived paths. Empty means default.
type PathsConfig struct {
	ThemesDir       string `toml:"themes_dir"`
	UserThemeFile   string `toml:"user_theme_file"`
	SystemThemeFile string `toml:"system_theme_file"`
}

// WatchConfig controls re-emitting the active theme when its file changes.
type WatchConfig struct {
	Enabled  bool     `toml:"enabled"`
	Debounce Duration `toml:"debounce"`
}

// DefaultDaemonConfig returns a new DaemonConfig with default values.
func DefaultDaemonConfig() *DaemonConfig {
	return &DaemonConfig{
		Bus: BusConfig{
			Transport:      string(TransportWebsocket),
			Host:           "127.0.0.1",
			Port:           8181,
			Route:          "/core",
			SSL:            false,
			ReconnectDelay: Duration(5 * time.Second),
		},
		DBus: DBusConfig{
			Enabled: false,
		},
		Watch: WatchConfig{
			Enabled:  false,
			Debounce: Duration(250 * time.Millisecond),
		},
	}
}

// LoadDaemonConfig loads the daemon configuration from path.
// If path is empty, uses ConfigPath. A missing file yields the defaults.
func LoadDaemonConfig(path string) (*DaemonConfig, error) {
	if path == "" {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultDaemonConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	config := DefaultDaemonConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *DaemonConfig) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration for invalid values.
func (c *DaemonConfig) Validate() error {
	validTransport := false
	for _, t := range ValidTransports() {
		if c.Bus.Transport == string(t) {
			validTransport = true
			break
		}
	}
	if !validTransport {
		return fmt.Errorf("invalid transport %q, must be one of: %v", c.Bus.Transport, ValidTransports())
	}

	if c.Bus.Transport == string(TransportWebsocket) {
		if c.Bus.Host == "" {
			return fmt.Errorf("bus host must not be empty")
		}
		if c.Bus.Port < 1 || c.Bus.Port > 65535 {
			return fmt.Errorf("bus port must be between 1 and 65535, got %d", c.Bus.Port)
		}
	}

	if c.Bus.ReconnectDelay < 0 {
		return fmt.Errorf("reconnect_delay must not be negative")
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch debounce must not be negative")
	}

	if c.Bus.Transport == string(TransportMemory) && !c.DBus.Enabled {
		return fmt.Errorf("memory transport has no clients unless dbus is enabled")
	}

	return nil
}

// ThemesDir returns the configured themes directory or the XDG default.
func (c *DaemonConfig) ThemesDir() string {
	if c.Paths.ThemesDir != "" {
		return expandPath(c.Paths.ThemesDir)
	}
	return ThemesDir()
}

// UserThemeFile returns the configured user active theme file or the XDG default.
func (c *DaemonConfig) UserThemeFile() string {
	if c.Paths.UserThemeFile != "" {
		return expandPath(c.Paths.UserThemeFile)
	}
	return UserThemeFile()
}

// SystemThemeFile returns the configured system active theme file or the default.
func (c *DaemonConfig) SystemThemeFile() string {
	if c.Paths.SystemThemeFile != "" {
		return expandPath(c.Paths.SystemThemeFile)
	}
	return SystemThemeFile()
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
