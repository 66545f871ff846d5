package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/klarity-app/captis/internal/rdisplay"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type displayEntry struct {
	Index   int  `json:"index" yaml:"index"`
	Left    int  `json:"left" yaml:"left"`
	Top     int  `json:"top" yaml:"top"`
	Width   int  `json:"width" yaml:"width"`
	Height  int  `json:"height" yaml:"height"`
	Primary bool `json:"primary" yaml:"primary"`
}

var displaysCmd = &cobra.Command{
	Use:   "displays",
	Short: "List the displays of the current session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		capturer, err := newCapturer()
		if err != nil {
			return err
		}
		defer capturer.Close()

		return writeDisplays(os.Stdout, output, capturer.Displays(), primaryIndex(capturer))
	},
}

func init() {
	displaysCmd.Flags().StringP("output", "o", "table", "Output format (table, json, yaml)")
}

func writeDisplays(w io.Writer, output string, displays []rdisplay.Display, primary int) error {
	entries := make([]displayEntry, len(displays))
	for i, d := range displays {
		entries[i] = displayEntry{
			Index:   i,
			Left:    d.Left,
			Top:     d.Top,
			Width:   d.Width,
			Height:  d.Height,
			Primary: i == primary,
		}
	}

	switch output {
	case "table":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "INDEX\tLEFT\tTOP\tWIDTH\tHEIGHT\tPRIMARY")
		for _, e := range entries {
			primary := ""
			if e.Primary {
				primary = "*"
			}
			fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%s\n", e.Index, e.Left, e.Top, e.Width, e.Height, primary)
		}
		return tw.Flush()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output %q, want table, json or yaml", output)
	}
}
