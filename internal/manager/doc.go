// Package manager implements the color scheme manager: it answers
// generate requests by writing theme files and theme queries by reading
// the active OvosTheme file, over an injected message bus.
package manager
