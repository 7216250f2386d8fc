// Package config loads sideeye configuration from JSON or YAML files and
// environment overrides.
package config

// Config holds all user-facing configuration.
type Config struct {
	WideFormat     bool         `json:"wide_format" yaml:"wide_format"`
	DA1Fields      DA1Fields    `json:"da1_fields" yaml:"da1_fields"`
	RegionFields   RegionFields `json:"region_fields" yaml:"region_fields"`
	ASCParsing     ASCParsing   `json:"asc_parsing" yaml:"asc_parsing"`
	Cutoffs        Cutoffs      `json:"cutoffs" yaml:"cutoffs"`
	RegionMeasures Columns      `json:"region_measures" yaml:"region_measures" validate:"dive"`
	TrialMeasures  Columns      `json:"trial_measures" yaml:"trial_measures" validate:"dive"`
	RegionOutput   Columns      `json:"region_output" yaml:"region_output" validate:"dive"`
	TrialOutput    Columns      `json:"trial_output" yaml:"trial_output" validate:"dive"`
	TerminalOutput int          `json:"terminal_output" yaml:"terminal_output" validate:"gte=0"`
}

// DA1Fields locates trial fields in DA1 rows. Negative positions count
// from the end of the row.
type DA1Fields struct {
	Index         int `json:"index" yaml:"index"`
	Condition     int `json:"condition" yaml:"condition"`
	Number        int `json:"number" yaml:"number"`
	Time          int `json:"time" yaml:"time"`
	FixationStart int `json:"fixation_start" yaml:"fixation_start" validate:"gte=0"`
}

// RegionFields locates item fields in .cnt and .reg rows.
type RegionFields struct {
	Number          int  `json:"number" yaml:"number" validate:"gte=0"`
	Condition       int  `json:"condition" yaml:"condition" validate:"gte=0"`
	BoundariesStart int  `json:"boundaries_start" yaml:"boundaries_start" validate:"gte=0"`
	IncludesY       bool `json:"includes_y" yaml:"includes_y"`
}

// ASCParsing holds the trial and fixation filters applied to ASC files.
// Zero disables a filter.
type ASCParsing struct {
	FixationMinCutoff int `json:"fixation_min_cutoff" yaml:"fixation_min_cutoff" validate:"gte=0"`
	MaxSaccadeDur     int `json:"max_saccade_dur" yaml:"max_saccade_dur" validate:"gte=0"`
	BlinkMaxCount     int `json:"blink_max_count" yaml:"blink_max_count" validate:"gte=0"`
	BlinkMaxDur       int `json:"blink_max_dur" yaml:"blink_max_dur" validate:"gte=0"`
}

// Cutoffs holds fixation duration limits for DA1 files (-1 for none) and
// the saccade options used when building trials.
type Cutoffs struct {
	Min             int  `json:"min" yaml:"min" validate:"gte=-1"`
	Max             int  `json:"max" yaml:"max" validate:"gte=-1"`
	IncludeFixation bool `json:"include_fixation" yaml:"include_fixation"`
	IncludeSaccades bool `json:"include_saccades" yaml:"include_saccades"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		WideFormat: true,
		DA1Fields: DA1Fields{
			Index: 0, Condition: 1, Number: 2, Time: -1, FixationStart: 8,
		},
		RegionFields: RegionFields{
			Number: 0, Condition: 1, BoundariesStart: 3,
		},
		Cutoffs: Cutoffs{Min: -1, Max: -1},
		RegionMeasures: columns(
			"skip",
			"first_pass_regressions_out",
			"first_pass_regressions_in",
			"first_fixation_duration",
			"single_fixation_duration",
			"first_pass",
			"go_past",
			"total_time",
			"right_bounded_time",
			"reread_time",
			"second_pass",
			"spillover_time",
			"refixation_time",
			"landing_position",
			"launch_site",
			"first_pass_fixation_count",
			"go_back_time_region",
			"go_back_time_char",
		),
		TrialMeasures: columns(
			"location_first_regression",
			"latency_first_regression",
			"fixation_count",
			"percent_regressions",
			"trial_total_time",
			"average_forward_saccade",
			"average_backward_saccade",
		),
		RegionOutput: columns(
			"experiment_name",
			"filename",
			"date",
			"trial_id",
			"trial_total_time",
			"item_id",
			"item_condition",
			"region_label",
			"region_number",
			"region_text",
			"region_start",
			"region_end",
		).exclude("filename", "date", "region_label", "region_text", "region_start", "region_end"),
		TrialOutput: columns(
			"experiment_name",
			"filename",
			"date",
			"trial_id",
			"trial_total_time",
			"item_id",
			"item_condition",
		).exclude("filename", "date"),
	}
}

// MeasureNames returns every configured measure, trial measures first.
// Measures excluded from output are still calculated.
func (c *Config) MeasureNames() []string {
	return append(c.TrialMeasures.Names(), c.RegionMeasures.Names()...)
}

// OutputColumns returns the descriptive columns of a report: region output
// columns followed by any trial-only output columns.
func (c *Config) OutputColumns() Columns {
	return Merge(c.RegionOutput.Included(), c.TrialOutput.Included())
}

// MeasureColumns returns the measure columns of a wide report.
func (c *Config) MeasureColumns() Columns {
	return Merge(c.RegionMeasures.Included(), c.TrialMeasures.Included())
}
