package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/measure"
)

func init() {
	cmd := &cobra.Command{
		Use:   "measures",
		Short: "List available measures",
		Long:  "List every registered measure with its kind and how the current config reports it.",
		Args:  cobra.NoArgs,
		Run:   runMeasures,
	}

	RootCmd.AddCommand(cmd)
}

type measureInfo struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Header     string `json:"header"`
	Configured bool   `json:"configured"`
	Excluded   bool   `json:"excluded,omitempty"`
	Cutoff     *int   `json:"cutoff,omitempty"`
}

func runMeasures(cmd *cobra.Command, args []string) {
	var infos []measureInfo
	add := func(names []string, kind string, cols config.Columns) {
		for _, name := range names {
			info := measureInfo{Name: name, Kind: kind, Header: name}
			if c, ok := cols.Lookup(name); ok {
				info.Configured = true
				info.Header = c.Title()
				info.Excluded = c.Exclude
				info.Cutoff = c.Cutoff
			}
			infos = append(infos, info)
		}
	}
	add(measure.TrialMeasures(), "trial", cfg.TrialMeasures)
	add(measure.RegionMeasures(), "region", cfg.RegionMeasures)

	out := cmd.OutOrStdout()
	if !textFormat() {
		printJSON(out, infos)
		return
	}
	for _, m := range infos {
		state := ""
		switch {
		case !m.Configured:
			state = "not configured"
		case m.Excluded:
			state = "excluded"
		}
		fmt.Fprintf(out, "%-6s %-28s %-28s %s\n", m.Kind, m.Name, m.Header, state)
	}
}
