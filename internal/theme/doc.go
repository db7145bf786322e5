// Package theme handles color scheme descriptors for colorschemed.
// It writes generated schemes to the themes directory
// (~/.local/share/OVOS/ColorSchemes), reads the active OvosTheme file from
// the user or system XDG config directory, and can watch that file for
// changes.
package theme
