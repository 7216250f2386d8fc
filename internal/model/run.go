package model

import "time"

// Run is a stored calculation over a set of experiment files.
type Run struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	RegionFile  string    `json:"region_file"`
	Files       []string  `json:"files"`
	Measures    []string  `json:"measures"`
	Experiments int       `json:"experiments"`
	Trials      int       `json:"trials"`
	Results     int       `json:"results"`
	Config      string    `json:"config,omitempty"`
}

// Result is one measure value of a stored run. RegionNumber is nil for
// trial measures.
type Result struct {
	RunID         string `json:"run_id,omitempty"`
	Experiment    string `json:"experiment"`
	TrialIndex    int    `json:"trial_index"`
	ItemNumber    string `json:"item_number"`
	ItemCondition string `json:"item_condition"`
	RegionNumber  *int   `json:"region_number,omitempty"`
	RegionLabel   string `json:"region_label,omitempty"`
	Measure       string `json:"measure"`
	Value         any    `json:"value"`
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}
