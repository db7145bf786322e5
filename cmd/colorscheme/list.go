package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/colorschemed/internal/theme"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated color schemes",
	Long: `List the color scheme files in the themes directory
(~/.local/share/OVOS/ColorSchemes by default) with their colors and age.

Files that are not valid JSON are listed with "(unreadable)".`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	store := theme.NewStore(cfg.ThemesDir(), logger)
	entries, err := store.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No color schemes in %s\n", store.Dir())
		return nil
	}

	return formatEntries(cmd.OutOrStdout(), entries, time.Now())
}

// formatEntries writes one line per theme file.
func formatEntries(w io.Writer, entries []theme.Entry, now time.Time) error {
	for _, e := range entries {
		age := humanize.RelTime(e.ModTime, now, "ago", "from now")
		colors := "(unreadable)"
		if e.Descriptor != nil {
			colors = fmt.Sprintf("%s %s %s", e.Descriptor.PrimaryColor, e.Descriptor.SecondaryColor, e.Descriptor.TextColor)
		}
		if _, err := fmt.Fprintf(w, "%-30s %-26s %s\n", e.FileName, colors, age); err != nil {
			return err
		}
	}
	return nil
}
