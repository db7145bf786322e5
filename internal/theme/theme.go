// Package theme provides color scheme storage and lookup for colorschemed.
package theme

import (
	"strings"
)

// Keys used in both the generated JSON files and the OvosTheme file.
const (
	KeyName           = "name"
	KeyPrimaryColor   = "primaryColor"
	KeySecondaryColor = "secondaryColor"
	KeyTextColor      = "textColor"
)

// RequiredKeys lists the descriptor keys in file order.
var RequiredKeys = []string{KeyName, KeyPrimaryColor, KeySecondaryColor, KeyTextColor}

// FileExt is the extension of generated theme files.
const FileExt = ".json"

// Descriptor is a named set of colors describing a UI color scheme.
// Color values are stored verbatim; no format is enforced.
type Descriptor struct {
	Name           string `json:"name"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	TextColor      string `json:"textColor"`
}

// Fields returns the descriptor as a bus payload.
func (d Descriptor) Fields() map[string]any {
	return map[string]any{
		KeyName:           d.Name,
		KeyPrimaryColor:   d.PrimaryColor,
		KeySecondaryColor: d.SecondaryColor,
		KeyTextColor:      d.TextColor,
	}
}

// FileName derives the generated file name for a theme name:
// spaces become underscores, the result is lowercased and ".json" appended.
// "Midnight Blue" -> "midnight_blue.json".
// Path separators are kept as-is; Store.Save rejects names containing them.
func FileName(themeName string) string {
	return strings.ToLower(strings.ReplaceAll(themeName, " ", "_")) + FileExt
}

// Encode renders d in the on-disk generated theme format. Values are
// substituted literally without escaping, so a value containing a double
// quote yields invalid JSON.
func Encode(d Descriptor) []byte {
	var b strings.Builder
	b.WriteString("{\n")
	b.WriteString(`"name":"` + d.Name + "\",\n")
	b.WriteString(`"primaryColor":"` + d.PrimaryColor + "\",\n")
	b.WriteString(`"secondaryColor":"` + d.SecondaryColor + "\",\n")
	b.WriteString(`"textColor":"` + d.TextColor + "\"\n")
	b.WriteString("}\n")
	return []byte(b.String())
}
