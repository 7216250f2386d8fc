package output

import (
	"strconv"

	"github.com/rcliao/sideeye/internal/model"
)

// ResultHeader is the header of a stored results table.
var ResultHeader = []string{
	"run_id", "experiment_name", "trial_id", "item_id", "item_condition",
	"region_number", "region_label", "measure", "value",
}

// Results renders stored results in long form, one row per value. Trial
// measures have NA in the region columns.
func Results(results []model.Result) Table {
	t := Table{Header: ResultHeader, Rows: make([][]string, 0, len(results))}
	for _, r := range results {
		region, label := NA, NA
		if r.RegionNumber != nil {
			region = strconv.Itoa(*r.RegionNumber)
			label = r.RegionLabel
		}
		t.Rows = append(t.Rows, []string{
			r.RunID, r.Experiment, strconv.Itoa(r.TrialIndex), r.ItemNumber, r.ItemCondition,
			region, label, r.Measure, format(r.Value),
		})
	}
	return t
}
