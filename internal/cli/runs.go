package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		Run:   runRuns,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max runs")

	RootCmd.AddCommand(cmd)
}

func runRuns(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(cmd.Context(), limit)
	if err != nil {
		exitErr("runs", err)
	}

	out := cmd.OutOrStdout()
	if !textFormat() {
		printJSON(out, runs)
		return
	}
	for _, r := range runs {
		fmt.Fprintf(out, "%s  %s  %3d experiments %5d trials %7d results  %s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Experiments, r.Trials, r.Results, r.RegionFile)
	}
}
