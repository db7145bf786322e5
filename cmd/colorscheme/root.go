// Package main provides the CLI entrypoint for colorscheme.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colorschemed/internal/bus"
	"github.com/jmylchreest/colorschemed/internal/config"
	"github.com/jmylchreest/colorschemed/internal/theme"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// Global configuration and state
var (
	cfg        *config.DaemonConfig
	globalOpts struct {
		verbose    bool
		configPath string
		timeout    time.Duration
	}
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "colorscheme",
	Short: "Generate and query OVOS color schemes",
	Long: `colorscheme talks to colorschemed over the OVOS message bus.

It can request a new color scheme file, print the active theme, and list
the color schemes already generated in the themes directory.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger()

		var err error
		cfg, err = config.LoadDaemonConfig(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.verbose, "verbose", "v", false,
		"Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file (default: ~/.config/colorschemed/colorschemed.toml)")
	rootCmd.PersistentFlags().DurationVar(&globalOpts.timeout, "timeout", 5*time.Second,
		"How long to wait for a reply on the message bus")
}

// setupLogger configures the global slog logger.
func setupLogger() {
	level := slog.LevelWarn
	if globalOpts.verbose {
		level = slog.LevelDebug
	}

	// Log to stderr so stdout is clean for output
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// request connects to the message bus, emits msg and waits for a reply of
// replyType accepted by match.
func request(msg bus.Message, replyType string, match func(bus.Message) bool) (bus.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), globalOpts.timeout)
	defer cancel()

	client := bus.NewWebsocketClient(bus.ClientConfig{
		Host:  cfg.Bus.Host,
		Port:  cfg.Bus.Port,
		Route: cfg.Bus.Route,
		SSL:   cfg.Bus.SSL,
	}, logger)
	if err := client.Connect(ctx); err != nil {
		return bus.Message{}, err
	}
	defer func() {
		cancel()
		_ = client.Close()
	}()

	go func() { _ = client.Run(ctx) }()

	reply, err := bus.Await(ctx, client, msg, replyType, match)
	if err != nil {
		return bus.Message{}, fmt.Errorf("no %s reply from %s: %w", replyType, client.URL(), err)
	}
	return reply, nil
}

// locator returns the active theme locator for the loaded config.
func locator() theme.Locator {
	return theme.Locator{
		UserPath:   cfg.UserThemeFile(),
		SystemPath: cfg.SystemThemeFile(),
	}
}
