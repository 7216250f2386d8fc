package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/sideeye/internal/model"
	"github.com/rcliao/sideeye/internal/output"
	"github.com/rcliao/sideeye/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a stored run and its results",
		Long:  "Show a run and its results. The id may be any unique prefix. Text format prints the results as CSV.",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	cmd.Flags().StringP("experiment", "e", "", "Only results of this experiment")
	cmd.Flags().StringP("measure", "m", "", "Only results of this measure")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	experiment, _ := cmd.Flags().GetString("experiment")
	measureName, _ := cmd.Flags().GetString("measure")
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	run, err := s.GetRun(cmd.Context(), args[0])
	if err != nil {
		exitErr("show", err)
	}
	results, err := s.Results(cmd.Context(), store.ResultParams{
		RunID:      run.ID,
		Experiment: experiment,
		Measure:    measureName,
		Limit:      limit,
	})
	if err != nil {
		exitErr("show", err)
	}

	out := cmd.OutOrStdout()
	if textFormat() {
		if err := output.WriteCSV(out, output.Results(results)); err != nil {
			exitErr("show", err)
		}
		return
	}
	if results == nil {
		results = []model.Result{}
	}
	printJSON(out, struct {
		Run     *model.Run     `json:"run"`
		Results []model.Result `json:"results"`
	}{run, results})
}
