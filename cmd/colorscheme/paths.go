package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colorschemed/internal/bus"
	"github.com/jmylchreest/colorschemed/internal/config"
	"github.com/jmylchreest/colorschemed/internal/theme"
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show resolved file locations",
	Long: `Show the themes directory, the active theme file candidates and which
one is in use, and the config file path.`,
	Args: cobra.NoArgs,
	RunE: runPaths,
}

var configInitCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write a default config file",
	Long:  `Write the default configuration to the config file path unless one already exists.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(configInitCmd)
}

func runPaths(cmd *cobra.Command, args []string) error {
	l := locator()
	active, err := l.Resolve()
	if errors.Is(err, theme.ErrActiveThemeNotFound) {
		active = "(none)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "config:        %s\n", configPath())
	fmt.Fprintf(out, "themes dir:    %s\n", cfg.ThemesDir())
	fmt.Fprintf(out, "user theme:    %s\n", l.UserPath)
	fmt.Fprintf(out, "system theme:  %s\n", l.SystemPath)
	fmt.Fprintf(out, "active theme:  %s\n", active)
	fmt.Fprintf(out, "message bus:   %s\n", busURL())
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := config.DefaultDaemonConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func configPath() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.ConfigPath()
}

func busURL() string {
	if config.Transport(cfg.Bus.Transport) == config.TransportMemory {
		return "(in-process)"
	}
	return bus.ClientConfig{
		Host:  cfg.Bus.Host,
		Port:  cfg.Bus.Port,
		Route: cfg.Bus.Route,
		SSL:   cfg.Bus.SSL,
	}.URL()
}
