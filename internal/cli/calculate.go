package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/measure"
	"github.com/rcliao/sideeye/internal/model"
	"github.com/rcliao/sideeye/internal/output"
	"github.com/rcliao/sideeye/internal/parser"
	"github.com/rcliao/sideeye/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "calculate <region-file> <file|dir>...",
		Short: "Calculate reading measures",
		Long: "Parse DA1 and ASC files against a region file, calculate the configured measures and\n" +
			"write a report. Directories are expanded to the files they contain. Without -o the\n" +
			"report is written to stdout as CSV. Every calculation is stored as a run unless --no-save.",
		Args: cobra.MinimumNArgs(2),
		Run:  runCalculate,
	}

	cmd.Flags().StringP("output", "o", "", "Report file, .csv or .xlsx")
	cmd.Flags().StringSliceP("measures", "m", nil, "Measures to calculate (default: all configured)")
	cmd.Flags().IntP("workers", "w", runtime.NumCPU(), "Experiments calculated concurrently")
	cmd.Flags().Bool("no-save", false, "Do not store the run")

	RootCmd.AddCommand(cmd)
}

// calculateSummary is printed after a report has been written to a file.
type calculateSummary struct {
	RunID       string `json:"run_id,omitempty"`
	Output      string `json:"output"`
	Experiments int    `json:"experiments"`
	Trials      int    `json:"trials"`
	Rows        int    `json:"rows"`
}

func runCalculate(cmd *cobra.Command, args []string) {
	outPath, _ := cmd.Flags().GetString("output")
	names, _ := cmd.Flags().GetStringSlice("measures")
	workers, _ := cmd.Flags().GetInt("workers")
	noSave, _ := cmd.Flags().GetBool("no-save")
	ctx := cmd.Context()

	regionFile := args[0]
	files, err := expandFiles(args[1:])
	if err != nil {
		exitErr("read files", err)
	}
	reportCfg := cfg
	if len(names) == 0 {
		names = cfg.MeasureNames()
	} else if reportCfg, err = onlyMeasures(cfg, names); err != nil {
		exitErr("measures", err)
	}

	exps, err := parser.New(cfg, logger).ParseFiles(ctx, files, regionFile)
	if err != nil {
		exitErr("parse", err)
	}
	if len(exps) == 0 {
		exitErr("parse", errors.New("no .da1 or .asc files given"))
	}

	err = measure.CalculateAll(ctx, exps, names, measure.Options{Workers: workers, Logger: logger})
	if err != nil {
		exitErr("calculate", err)
	}

	table := output.Report(exps, reportCfg)
	if outPath == "" {
		err = output.WriteCSV(cmd.OutOrStdout(), table)
	} else {
		err = output.WriteFile(outPath, table)
	}
	if err != nil {
		exitErr("write report", err)
	}

	summary := calculateSummary{
		Output:      outPath,
		Experiments: len(exps),
		Trials:      countTrials(exps),
		Rows:        len(table.Rows),
	}

	if !noSave {
		run, err := saveRun(cmd, reportCfg, regionFile, files, names, exps)
		if err != nil {
			exitErr("save run", err)
		}
		summary.RunID = run.ID
	}

	logger.Info("calculated measures",
		"run", summary.RunID,
		"experiments", summary.Experiments,
		"trials", summary.Trials,
		"rows", summary.Rows)

	if outPath == "" {
		return
	}
	if textFormat() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d experiments, %d trials, %d rows (run %s)\n",
			outPath, summary.Experiments, summary.Trials, summary.Rows, summary.RunID)
		return
	}
	printJSON(cmd.OutOrStdout(), summary)
}

func saveRun(cmd *cobra.Command, cfg *config.Config, regionFile string, files, names []string, exps []*model.Experiment) (*model.Run, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return s.SaveRun(cmd.Context(), store.SaveRunParams{
		RegionFile:  regionFile,
		Files:       files,
		Measures:    names,
		Experiments: len(exps),
		Trials:      countTrials(exps),
		Config:      string(cfgJSON),
		Results:     measure.Collect(exps),
	})
}

// onlyMeasures returns a copy of base whose measure columns are exactly
// names, in the given order. Columns already configured keep their header
// and cutoff and are shown even if the config excludes them.
func onlyMeasures(base *config.Config, names []string) (*config.Config, error) {
	c := *base
	c.RegionMeasures, c.TrialMeasures = nil, nil
	for _, name := range names {
		m, err := measure.Lookup(name)
		if err != nil {
			return nil, err
		}
		configured := base.TrialMeasures
		if m.IsRegion() {
			configured = base.RegionMeasures
		}
		col, ok := configured.Lookup(name)
		if !ok {
			col = config.Column{Name: name}
		}
		col.Exclude = false
		if m.IsRegion() {
			c.RegionMeasures = append(c.RegionMeasures, col)
		} else {
			c.TrialMeasures = append(c.TrialMeasures, col)
		}
	}
	return &c, nil
}

func countTrials(exps []*model.Experiment) int {
	n := 0
	for _, e := range exps {
		n += e.Len()
	}
	return n
}

// expandFiles replaces each directory with the regular files directly
// inside it, sorted by name. Hidden files are left out.
func expandFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, err
		}
		var names []string
		for _, e := range entries {
			if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
				names = append(names, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(names)
		files = append(files, names...)
	}
	return files, nil
}
