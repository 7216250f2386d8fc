package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	out := cmd.OutOrStdout()
	if !textFormat() {
		printJSON(out, stats)
		return
	}
	fmt.Fprintf(out, "db:      %s (%d bytes)\n", stats.DBPath, stats.DBSizeBytes)
	fmt.Fprintf(out, "runs:    %d (%d active)\n", stats.TotalRuns, stats.ActiveRuns)
	fmt.Fprintf(out, "results: %d\n", stats.TotalResults)
	for _, m := range stats.Measures {
		fmt.Fprintf(out, "  %-28s %8d values %4d runs %8d missing\n", m.Measure, m.Count, m.Runs, m.Missing)
	}
}
