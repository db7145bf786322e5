package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXDGPaths_FromEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	assert.Equal(t, "/tmp/cfg", ConfigHome())
	assert.Equal(t, "/tmp/data", DataHome())
	assert.Equal(t, "/tmp/data/OVOS/ColorSchemes", ThemesDir())
	assert.Equal(t, "/tmp/cfg/OvosTheme", UserThemeFile())
	assert.Equal(t, "/etc/xdg/OvosTheme", SystemThemeFile())
	assert.Equal(t, "/tmp/cfg/colorschemed/colorschemed.toml", ConfigPath())
}

func TestXDGPaths_HomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	assert.Equal(t, filepath.Join(home, ".config"), ConfigHome())
	assert.Equal(t, filepath.Join(home, ".local", "share", "OVOS", "ColorSchemes"), ThemesDir())
}

func TestDefaultDaemonConfig(t *testing.T) {
	cfg := DefaultDaemonConfig()

	assert.Equal(t, "websocket", cfg.Bus.Transport)
	assert.Equal(t, "127.0.0.1", cfg.Bus.Host)
	assert.Equal(t, 8181, cfg.Bus.Port)
	assert.Equal(t, "/core", cfg.Bus.Route)
	assert.False(t, cfg.Bus.SSL)
	assert.Equal(t, 5*time.Second, cfg.Bus.ReconnectDelay.Duration())
	assert.False(t, cfg.DBus.Enabled)
	assert.False(t, cfg.Watch.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadDaemonConfig_DefaultsWhenNoFile(t *testing.T) {
	cfg, err := LoadDaemonConfig("/nonexistent/path/colorschemed.toml")
	require.NoError(t, err)
	assert.Equal(t, DefaultDaemonConfig(), cfg)
}

func TestLoadDaemonConfig_ParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "colorschemed.toml")

	content := `
[bus]
host = "192.168.1.20"
port = 8282
ssl = true
reconnect_delay = "1500"

[dbus]
enabled = true

[paths]
themes_dir = "/srv/themes"
user_theme_file = "/home/ovos/.config/OvosTheme"

[watch]
enabled = true
debounce = "1s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadDaemonConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "websocket", cfg.Bus.Transport, "unset keys keep defaults")
	assert.Equal(t, "192.168.1.20", cfg.Bus.Host)
	assert.Equal(t, 8282, cfg.Bus.Port)
	assert.Equal(t, "/core", cfg.Bus.Route)
	assert.True(t, cfg.Bus.SSL)
	assert.Equal(t, 1500*time.Millisecond, cfg.Bus.ReconnectDelay.Duration())
	assert.True(t, cfg.DBus.Enabled)
	assert.True(t, cfg.Watch.Enabled)
	assert.Equal(t, time.Second, cfg.Watch.Debounce.Duration())

	assert.Equal(t, "/srv/themes", cfg.ThemesDir())
	assert.Equal(t, "/home/ovos/.config/OvosTheme", cfg.UserThemeFile())
	assert.Equal(t, SystemThemeFile(), cfg.SystemThemeFile())
}

func TestLoadDaemonConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bus\nport = "), 0644))

	_, err := LoadDaemonConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadDaemonConfig_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bus]\nreconnect_delay = \"soon\"\n"), 0644))

	_, err := LoadDaemonConfig(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*DaemonConfig)
		wantErr string
	}{
		{"defaults", func(*DaemonConfig) {}, ""},
		{"bad transport", func(c *DaemonConfig) { c.Bus.Transport = "carrier-pigeon" }, "invalid transport"},
		{"empty host", func(c *DaemonConfig) { c.Bus.Host = "" }, "host"},
		{"port too high", func(c *DaemonConfig) { c.Bus.Port = 70000 }, "port"},
		{"negative delay", func(c *DaemonConfig) { c.Bus.ReconnectDelay = -1 }, "reconnect_delay"},
		{"memory without dbus", func(c *DaemonConfig) { c.Bus.Transport = "memory" }, "memory transport"},
		{"memory with dbus", func(c *DaemonConfig) {
			c.Bus.Transport = "memory"
			c.DBus.Enabled = true
			c.Bus.Port = 0
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultDaemonConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDaemonConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "colorschemed.toml")

	cfg := DefaultDaemonConfig()
	cfg.Bus.Port = 9000
	cfg.Watch.Enabled = true
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadDaemonConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "themes"), expandPath("~/themes"))
	assert.Equal(t, "/abs", expandPath("/abs"))
	assert.Equal(t, "~user/x", expandPath("~user/x"))
}
