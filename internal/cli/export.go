package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/sideeye/internal/model"
	"github.com/rcliao/sideeye/internal/output"
	"github.com/rcliao/sideeye/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export <run-id>...",
		Short: "Export stored runs",
		Long: "Export runs with all of their results as a JSON array, the format read by import.\n" +
			"With -o ending in .csv or .xlsx the results are written as a long table instead.",
		Args: cobra.MinimumNArgs(1),
		Run:  runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Write a .csv or .xlsx results table to this file")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	outPath, _ := cmd.Flags().GetString("output")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	exports := make([]store.RunExport, 0, len(args))
	for _, id := range args {
		e, err := s.ExportRun(cmd.Context(), id)
		if err != nil {
			exitErr("export", err)
		}
		exports = append(exports, *e)
	}

	if outPath == "" {
		printJSON(cmd.OutOrStdout(), exports)
		return
	}

	var results []model.Result
	for _, e := range exports {
		results = append(results, e.Results...)
	}
	if err := output.WriteFile(outPath, output.Results(results)); err != nil {
		exitErr("export", err)
	}
	logger.Info("exported runs", "runs", len(exports), "results", len(results), "file", outPath)
}
