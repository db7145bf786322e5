package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colorschemed/internal/bus"
	"github.com/jmylchreest/colorschemed/internal/manager"
	"github.com/jmylchreest/colorschemed/internal/theme"
)

var generateOpts struct {
	name      string
	primary   string
	secondary string
	text      string
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Request a new color scheme file",
	Long: `Publish a color scheme generate request on the message bus and wait
for colorschemed to confirm the file was written.

The file is named after the theme: "Midnight Blue" is written to
midnight_blue.json in the themes directory, replacing any existing file.

Example:

  colorscheme generate --name "Midnight Blue" \
    --primary "#000033" --secondary "#111144" --text "#FFFFFF"`,
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&generateOpts.name, "name", "", "Theme name")
	generateCmd.Flags().StringVar(&generateOpts.primary, "primary", "", "Primary color")
	generateCmd.Flags().StringVar(&generateOpts.secondary, "secondary", "", "Secondary color")
	generateCmd.Flags().StringVar(&generateOpts.text, "text", "", "Text color")
	for _, flag := range []string{"name", "primary", "secondary", "text"} {
		_ = generateCmd.MarkFlagRequired(flag)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	msg := generateMessage(theme.Descriptor{
		Name:           generateOpts.name,
		PrimaryColor:   generateOpts.primary,
		SecondaryColor: generateOpts.secondary,
		TextColor:      generateOpts.text,
	})

	reply, err := request(msg, manager.TopicGenerated, func(m bus.Message) bool {
		name, _ := m.String(manager.FieldThemeName)
		return name == generateOpts.name
	})
	if err != nil {
		return err
	}

	dir, _ := reply.String(manager.FieldThemePath)
	fmt.Fprintf(cmd.OutOrStdout(), "Generated %s in %s\n", theme.FileName(generateOpts.name), dir)
	return nil
}

// generateMessage builds the generate request for d.
func generateMessage(d theme.Descriptor) bus.Message {
	msg := bus.NewMessage(manager.TopicGenerate, map[string]any{
		manager.FieldThemeName:  d.Name,
		theme.KeyPrimaryColor:   d.PrimaryColor,
		theme.KeySecondaryColor: d.SecondaryColor,
		theme.KeyTextColor:      d.TextColor,
	})
	msg.Context["source"] = "colorscheme"
	return msg
}
