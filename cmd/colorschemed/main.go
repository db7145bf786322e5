// Package main is the entry point for the colorschemed daemon.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmylchreest/colorschemed/internal/bus"
	"github.com/jmylchreest/colorschemed/internal/config"
	"github.com/jmylchreest/colorschemed/internal/dbus"
	"github.com/jmylchreest/colorschemed/internal/manager"
	"github.com/jmylchreest/colorschemed/internal/theme"
)

var (
	// Build-time variables
	version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: ~/.config/colorschemed/colorschemed.toml)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		println("colorschemed version", version)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	cfg, err := config.LoadDaemonConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("colorschemed failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.DaemonConfig, logger *slog.Logger) error {
	logger.Info("starting colorschemed", "version", version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	// The bus must be connected before the manager starts, since the
	// manager emits the active theme from New.
	var (
		messageBus bus.Bus
		wsClient   *bus.WebsocketClient
	)
	switch config.Transport(cfg.Bus.Transport) {
	case config.TransportMemory:
		messageBus = bus.NewMemoryBus(logger)
	default:
		wsClient = bus.NewWebsocketClient(bus.ClientConfig{
			Host:           cfg.Bus.Host,
			Port:           cfg.Bus.Port,
			Route:          cfg.Bus.Route,
			SSL:            cfg.Bus.SSL,
			ReconnectDelay: cfg.Bus.ReconnectDelay.Duration(),
		}, logger)
		if err := connectWithRetry(ctx, wsClient, cfg.Bus.ReconnectDelay.Duration(), logger); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		messageBus = wsClient
	}

	locator := theme.Locator{
		UserPath:   cfg.UserThemeFile(),
		SystemPath: cfg.SystemThemeFile(),
	}
	mgr := manager.New(messageBus, manager.Options{
		ThemesDir: cfg.ThemesDir(),
		Locator:   locator,
	}, logger)
	logger.Info("color scheme manager ready",
		"themes_dir", mgr.ThemesDir(),
		"user_theme", locator.UserPath,
		"system_theme", locator.SystemPath,
	)

	var dbusServer *dbus.ColorSchemeServer
	if cfg.DBus.Enabled {
		dbusServer = dbus.NewColorSchemeServer(messageBus, mgr, logger)
		if err := dbusServer.Start(); err != nil {
			logger.Warn("failed to start D-Bus server", "error", err)
			dbusServer = nil
		}
	}

	var themeWatcher *theme.Watcher
	if cfg.Watch.Enabled {
		themeWatcher = theme.NewWatcher(locator, logger)
		themeWatcher.SetDebounce(cfg.Watch.Debounce.Duration())
		themeWatcher.SetChangeCallback(func() {
			if err := mgr.ProvideTheme(bus.NewMessage(manager.TopicThemeGet, nil)); err != nil {
				logger.Warn("failed to emit changed theme", "error", err)
			}
		})
		if err := themeWatcher.Start(ctx); err != nil {
			logger.Warn("failed to start theme watcher", "error", err)
			themeWatcher = nil
		}
	}

	if wsClient != nil {
		go func() {
			if err := wsClient.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("message bus client stopped", "error", err)
				cancel()
			}
		}()
	}

	<-ctx.Done()

	if themeWatcher != nil {
		themeWatcher.Stop()
	}
	if dbusServer != nil {
		_ = dbusServer.Stop()
	}
	if wsClient != nil {
		_ = wsClient.Close()
	}

	logger.Info("colorschemed stopped")
	return nil
}

// connectWithRetry dials the bus until it succeeds or ctx is done.
func connectWithRetry(ctx context.Context, c *bus.WebsocketClient, delay time.Duration, logger *slog.Logger) error {
	if delay <= 0 {
		delay = 5 * time.Second
	}
	for {
		err := c.Connect(ctx)
		if err == nil {
			return nil
		}
		logger.Warn("message bus unavailable, retrying", "url", c.URL(), "error", err, "delay", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
