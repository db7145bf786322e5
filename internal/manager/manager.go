package manager

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmylchreest/colorschemed/internal/bus"
	"github.com/jmylchreest/colorschemed/internal/theme"
)

// Bus message types.
const (
	// TopicGenerate requests a new color scheme file.
	TopicGenerate = "ovos.shell.gui.color.scheme.generate"
	// TopicGenerated announces a written color scheme file.
	TopicGenerated = "ovos.shell.gui.color.scheme.generated"
	// TopicThemeGet queries the active theme.
	TopicThemeGet = "ovos.theme.get"
	// TopicThemeGetResponse carries the active theme.
	TopicThemeGetResponse = TopicThemeGet + bus.ResponseSuffix
)

// Payload keys of a generate request and its completion event.
const (
	FieldThemeName = "theme_name"
	FieldThemePath = "theme_path"
)

// Options configures a Manager.
type Options struct {
	// ThemesDir receives generated theme files.
	ThemesDir string
	// Locator finds the active theme file.
	Locator theme.Locator
}

// Manager handles color scheme requests on a bus.
// Handlers hold no state between calls; the filesystem is the only state.
type Manager struct {
	bus     bus.Bus
	store   *theme.Store
	locator theme.Locator
	logger  *slog.Logger
}

// New creates a Manager, registers its handlers on b and emits the active
// theme once. A missing or unreadable active theme is logged, not returned.
func New(b bus.Bus, opts Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		bus:     b,
		store:   theme.NewStore(opts.ThemesDir, logger),
		locator: opts.Locator,
		logger:  logger,
	}

	b.On(TopicGenerate, m.GenerateTheme)
	b.On(TopicThemeGet, m.ProvideTheme)

	if err := m.ProvideTheme(bus.NewMessage(TopicThemeGet, nil)); err != nil {
		m.logger.Warn("failed to emit active theme on startup", "error", err)
	}

	return m
}

// ThemesDir returns the directory generated themes are written to.
func (m *Manager) ThemesDir() string {
	return m.store.Dir()
}

// GenerateTheme writes the color scheme described by msg and emits
// TopicGenerated. A request missing any of theme_name, primaryColor,
// secondaryColor or textColor is ignored. Filesystem errors are returned.
func (m *Manager) GenerateTheme(msg bus.Message) error {
	d, ok := descriptorFromRequest(msg)
	if !ok {
		return nil
	}

	m.logger.Info("creating color scheme", "theme", d.Name)

	path, err := m.store.Save(d)
	if err != nil {
		return fmt.Errorf("failed to generate color scheme %q: %w", d.Name, err)
	}
	m.logger.Debug("wrote color scheme", "theme", d.Name, "path", path)

	// theme_path is the directory, not the file
	return m.bus.Emit(bus.NewMessage(TopicGenerated, map[string]any{
		FieldThemeName: d.Name,
		FieldThemePath: m.store.Dir(),
	}))
}

// ProvideTheme replies to msg with the active theme. When the active theme
// cannot be read the error is logged and nothing is emitted.
func (m *Manager) ProvideTheme(msg bus.Message) error {
	d, err := m.ActiveTheme()
	if err != nil {
		var missing *theme.MissingKeyError
		switch {
		case errors.Is(err, theme.ErrActiveThemeNotFound):
			m.logger.Error("OvosTheme file not found",
				"user_path", m.locator.UserPath, "system_path", m.locator.SystemPath)
		case errors.As(err, &missing):
			m.logger.Error("failed to parse active theme", "key", missing.Key, "path", missing.Path, "error", err)
		default:
			m.logger.Error("failed to read active theme", "error", err)
		}
		return nil
	}

	return m.bus.Emit(msg.Response(d.Fields()))
}

// ActiveTheme reads the active theme file.
func (m *Manager) ActiveTheme() (theme.Descriptor, error) {
	d, _, err := m.locator.LoadActive()
	return d, err
}

func descriptorFromRequest(msg bus.Message) (theme.Descriptor, bool) {
	primary, ok := msg.String(theme.KeyPrimaryColor)
	if !ok {
		return theme.Descriptor{}, false
	}
	secondary, ok := msg.String(theme.KeySecondaryColor)
	if !ok {
		return theme.Descriptor{}, false
	}
	text, ok := msg.String(theme.KeyTextColor)
	if !ok {
		return theme.Descriptor{}, false
	}
	name, ok := msg.String(FieldThemeName)
	if !ok {
		return theme.Descriptor{}, false
	}
	return theme.Descriptor{
		Name:           name,
		PrimaryColor:   primary,
		SecondaryColor: secondary,
		TextColor:      text,
	}, true
}
