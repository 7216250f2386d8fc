// Package output renders calculated measures as long or wide reports.
package output

import (
	"time"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/model"
)

// Placeholder cells.
const (
	NA     = "NA"
	None   = "None"
	Cutoff = "CUTOFF"
)

// Date layouts of the experiment date column, without and with
// microseconds.
const (
	DateLayout      = "2006-01-02 15:04:05"
	DateMicroLayout = "2006-01-02 15:04:05.000000"
)

// FormatDate prints t to the second, adding all six microsecond digits
// when the microseconds are not zero.
func FormatDate(t time.Time) string {
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateMicroLayout)
}

// Table is a rendered report. Every row has one cell per header column.
type Table struct {
	Header []string
	Rows   [][]string
}

// Report renders experiments in the format selected by cfg.WideFormat.
func Report(experiments []*model.Experiment, cfg *config.Config) Table {
	if cfg.WideFormat {
		return Wide(experiments, cfg)
	}
	return Long(experiments, cfg)
}

// Long renders one row per measure value: for each trial its trial
// measures, then the region measures of each region in turn.
func Long(experiments []*model.Experiment, cfg *config.Config) Table {
	cols := cfg.OutputColumns()
	for _, name := range []string{"measure", "value"} {
		if _, ok := cols.Lookup(name); !ok {
			cols = append(cols, config.Column{Name: name})
		}
	}
	trialMeasures := cfg.TrialMeasures.Included()
	regionMeasures := cfg.RegionMeasures.Included()

	table := Table{Header: titles(cols)}
	for _, e := range experiments {
		for _, t := range e.Trials() {
			for _, m := range trialMeasures {
				table.Rows = append(table.Rows, row(cols, cell{exp: e, trial: t, measure: m}))
			}
			for _, r := range t.Item.Regions {
				for _, m := range regionMeasures {
					table.Rows = append(table.Rows, row(cols, cell{exp: e, trial: t, region: r, measure: m}))
				}
			}
		}
	}
	return table
}

// Wide renders one row per region, with a column per measure after the
// output columns.
func Wide(experiments []*model.Experiment, cfg *config.Config) Table {
	cols := config.Merge(cfg.OutputColumns(), cfg.MeasureColumns())

	table := Table{Header: titles(cols)}
	for _, e := range experiments {
		for _, t := range e.Trials() {
			for _, r := range t.Item.Regions {
				out := make([]string, len(cols))
				for i, c := range cols {
					out[i] = cell{exp: e, trial: t, region: r, measure: c}.render(c.Name)
				}
				table.Rows = append(table.Rows, out)
			}
		}
	}
	return table
}

func titles(cols config.Columns) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Title()
	}
	return out
}

func row(cols config.Columns, c cell) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = c.render(col.Name)
	}
	return out
}

// cell is the context of one report cell. region is nil on trial measure
// rows.
type cell struct {
	exp     *model.Experiment
	trial   *model.Trial
	region  *model.Region
	measure config.Column
}

// render resolves a column against the cell context. Descriptive columns
// print their field; any other column prints the cached value of the
// cell's measure.
func (c cell) render(column string) string {
	switch column {
	case "experiment_name":
		return format(c.exp.Name)
	case "filename":
		return format(c.exp.Filename)
	case "date":
		return format(FormatDate(c.exp.Date))
	case "trial_id":
		return format(c.trial.Index)
	case "trial_total_time":
		if c.trial.Time == nil {
			return None
		}
		return format(*c.trial.Time)
	case "item_id":
		return format(c.trial.Item.Number)
	case "item_condition":
		return format(c.trial.Item.Condition)
	case "measure":
		return format(c.measure.Name)
	case "region_label", "region_number", "region_text", "region_start", "region_end":
		if c.region == nil {
			return NA
		}
		return format(regionField(c.region, column))
	}

	v, ok := c.value()
	if !ok {
		return NA
	}
	if limit, ok := c.measure.Limit(); ok {
		if n, isInt := v.(int); isInt && n > limit {
			return Cutoff
		}
	}
	return format(v)
}

func (c cell) value() (any, bool) {
	if c.region != nil {
		if res, ok := c.trial.RegionMeasure(c.region.Number, c.measure.Name); ok {
			return res.Value, true
		}
	}
	return c.trial.TrialMeasure(c.measure.Name)
}

func regionField(r *model.Region, column string) any {
	switch column {
	case "region_label":
		return r.Label
	case "region_number":
		return r.Number
	case "region_text":
		return r.Text
	case "region_start":
		return r.Start.String()
	}
	return r.End.String()
}
