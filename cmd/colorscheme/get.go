package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/colorschemed/internal/bus"
	"github.com/jmylchreest/colorschemed/internal/manager"
	"github.com/jmylchreest/colorschemed/internal/theme"
)

var getOpts struct {
	format string
	local  bool
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the active theme",
	Long: `Query the active theme over the message bus and print it.

With --local the OvosTheme file is read directly instead, using the same
lookup as colorschemed (user config directory, then /etc/xdg).

Output formats:
  json   JSON object with name, primaryColor, secondaryColor, textColor
  plain  key=value lines`,
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().StringVarP(&getOpts.format, "format", "f", "json", "Output format (json, plain)")
	getCmd.Flags().BoolVar(&getOpts.local, "local", false, "Read the OvosTheme file instead of asking the daemon")
}

func runGet(cmd *cobra.Command, args []string) error {
	var (
		d   theme.Descriptor
		err error
	)
	if getOpts.local {
		d, _, err = locator().LoadActive()
	} else {
		d, err = queryTheme()
	}
	if err != nil {
		return err
	}

	return writeTheme(cmd.OutOrStdout(), d, getOpts.format)
}

func queryTheme() (theme.Descriptor, error) {
	msg := bus.NewMessage(manager.TopicThemeGet, nil)
	msg.Context["source"] = "colorscheme"

	reply, err := request(msg, manager.TopicThemeGetResponse, nil)
	if err != nil {
		return theme.Descriptor{}, err
	}

	values := make(map[string]string, len(reply.Data))
	for k, v := range reply.Data {
		if s, ok := v.(string); ok {
			values[k] = s
		}
	}
	return theme.DescriptorFromValues(values, manager.TopicThemeGetResponse)
}

// writeTheme writes d to w in the given format.
func writeTheme(w io.Writer, d theme.Descriptor, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(d)
	case "plain":
		_, err := fmt.Fprintf(w, "%s=%s\n%s=%s\n%s=%s\n%s=%s\n",
			theme.KeyName, d.Name,
			theme.KeyPrimaryColor, d.PrimaryColor,
			theme.KeySecondaryColor, d.SecondaryColor,
			theme.KeyTextColor, d.TextColor)
		return err
	default:
		return fmt.Errorf("unknown format %q (use json or plain)", format)
	}
}
