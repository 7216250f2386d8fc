package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/sideeye/internal/output"
	"github.com/rcliao/sideeye/internal/parser"
)

func init() {
	cmd := &cobra.Command{
		Use:   "parse <region-file> <file|dir>...",
		Short: "Parse experiment files without calculating",
		Long:  "Parse DA1 and ASC files against a region file and summarize the trials found.",
		Args:  cobra.MinimumNArgs(2),
		Run:   runParse,
	}

	RootCmd.AddCommand(cmd)
}

type experimentSummary struct {
	Name      string `json:"name"`
	Filename  string `json:"filename"`
	Date      string `json:"date"`
	Trials    int    `json:"trials"`
	Fixations int    `json:"fixations"`
	Excluded  int    `json:"excluded"`
}

func runParse(cmd *cobra.Command, args []string) {
	files, err := expandFiles(args[1:])
	if err != nil {
		exitErr("read files", err)
	}

	exps, err := parser.New(cfg, logger).ParseFiles(cmd.Context(), files, args[0])
	if err != nil {
		exitErr("parse", err)
	}

	summaries := make([]experimentSummary, 0, len(exps))
	for _, e := range exps {
		s := experimentSummary{
			Name:     e.Name,
			Filename: e.Filename,
			Date:     output.FormatDate(e.Date),
			Trials:   e.Len(),
		}
		for _, t := range e.Trials() {
			for _, f := range t.Fixations {
				if f.Excluded {
					s.Excluded++
				} else {
					s.Fixations++
				}
			}
		}
		summaries = append(summaries, s)
	}

	out := cmd.OutOrStdout()
	if !textFormat() {
		printJSON(out, summaries)
		return
	}
	for _, s := range summaries {
		fmt.Fprintf(out, "%-20s %5d trials %7d fixations %5d excluded  %s\n",
			s.Name, s.Trials, s.Fixations, s.Excluded, s.Filename)
	}
}
