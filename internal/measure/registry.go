// Package measure computes region and trial reading measures over built
// trials and caches the results on each trial.
package measure

import (
	"errors"
	"fmt"

	"github.com/rcliao/sideeye/internal/model"
)

// ErrUnknownMeasure is returned for a measure name that is not registered.
var ErrUnknownMeasure = errors.New("unknown measure")

// RegionKind enumerates the region measures.
type RegionKind int

const (
	Skip RegionKind = iota
	FirstPassRegressionsOut
	FirstPassRegressionsIn
	FirstFixationDuration
	SingleFixationDuration
	FirstPass
	GoPast
	TotalTime
	RightBoundedTime
	RereadTime
	SecondPass
	SpilloverTime
	RefixationTime
	LandingPosition
	LaunchSite
	FirstPassFixationCount
	GoBackTimeRegion
	GoBackTimeChar
	numRegionKinds
)

// TrialKind enumerates the trial measures.
type TrialKind int

const (
	LocationFirstRegression TrialKind = iota
	LatencyFirstRegression
	FixationCount
	PercentRegressions
	TrialTotalTime
	AverageForwardSaccade
	AverageBackwardSaccade
	numTrialKinds
)

type regionFunc func(t *model.Trial, r *model.Region) (any, []*model.Fixation)

type trialFunc func(t *model.Trial) any

var regionNames = [numRegionKinds]string{
	Skip:                    "skip",
	FirstPassRegressionsOut: "first_pass_regressions_out",
	FirstPassRegressionsIn:  "first_pass_regressions_in",
	FirstFixationDuration:   "first_fixation_duration",
	SingleFixationDuration:  "single_fixation_duration",
	FirstPass:               "first_pass",
	GoPast:                  "go_past",
	TotalTime:               "total_time",
	RightBoundedTime:        "right_bounded_time",
	RereadTime:              "reread_time",
	SecondPass:              "second_pass",
	SpilloverTime:           "spillover_time",
	RefixationTime:          "refixation_time",
	LandingPosition:         "landing_position",
	LaunchSite:              "launch_site",
	FirstPassFixationCount:  "first_pass_fixation_count",
	GoBackTimeRegion:        "go_back_time_region",
	GoBackTimeChar:          "go_back_time_char",
}

var regionFuncs = [numRegionKinds]regionFunc{
	Skip:                    skip,
	FirstPassRegressionsOut: firstPassRegressionsOut,
	FirstPassRegressionsIn:  firstPassRegressionsIn,
	FirstFixationDuration:   firstFixationDuration,
	SingleFixationDuration:  singleFixationDuration,
	FirstPass:               firstPassTime,
	GoPast:                  goPast,
	TotalTime:               totalTime,
	RightBoundedTime:        rightBoundedTime,
	RereadTime:              rereadTime,
	SecondPass:              secondPass,
	SpilloverTime:           spilloverTime,
	RefixationTime:          refixationTime,
	LandingPosition:         landingPosition,
	LaunchSite:              launchSite,
	FirstPassFixationCount:  firstPassFixationCount,
	GoBackTimeRegion:        goBackTimeRegion,
	GoBackTimeChar:          goBackTimeChar,
}

var trialNames = [numTrialKinds]string{
	LocationFirstRegression: "location_first_regression",
	LatencyFirstRegression:  "latency_first_regression",
	FixationCount:           "fixation_count",
	PercentRegressions:      "percent_regressions",
	TrialTotalTime:          "trial_total_time",
	AverageForwardSaccade:   "average_forward_saccade",
	AverageBackwardSaccade:  "average_backward_saccade",
}

var trialFuncs = [numTrialKinds]trialFunc{
	LocationFirstRegression: locationFirstRegression,
	LatencyFirstRegression:  latencyFirstRegression,
	FixationCount:           fixationCount,
	PercentRegressions:      percentRegressions,
	TrialTotalTime:          trialTotalTime,
	AverageForwardSaccade:   averageForwardSaccade,
	AverageBackwardSaccade:  averageBackwardSaccade,
}

var byName = make(map[string]Measure, int(numRegionKinds)+int(numTrialKinds))

func init() {
	for k := range numRegionKinds {
		if regionNames[k] == "" || regionFuncs[k] == nil {
			panic(fmt.Sprintf("measure: region kind %d is not registered", k))
		}
		byName[regionNames[k]] = Measure{region: k, trial: -1}
	}
	for k := range numTrialKinds {
		if trialNames[k] == "" || trialFuncs[k] == nil {
			panic(fmt.Sprintf("measure: trial kind %d is not registered", k))
		}
		if _, dup := byName[trialNames[k]]; dup {
			panic(fmt.Sprintf("measure: %q registered twice", trialNames[k]))
		}
		byName[trialNames[k]] = Measure{region: -1, trial: k}
	}
}

func (k RegionKind) String() string {
	if k < 0 || k >= numRegionKinds {
		return fmt.Sprintf("RegionKind(%d)", int(k))
	}
	return regionNames[k]
}

func (k TrialKind) String() string {
	if k < 0 || k >= numTrialKinds {
		return fmt.Sprintf("TrialKind(%d)", int(k))
	}
	return trialNames[k]
}

// Measure is a resolved measure name: exactly one of its region or trial
// kinds is valid.
type Measure struct {
	region RegionKind
	trial  TrialKind
}

// Lookup resolves a measure name against the trial and region registries.
func Lookup(name string) (Measure, error) {
	m, ok := byName[name]
	if !ok {
		return Measure{}, fmt.Errorf("%w: %q", ErrUnknownMeasure, name)
	}
	return m, nil
}

// Name returns the registered name.
func (m Measure) Name() string {
	if m.IsRegion() {
		return m.region.String()
	}
	return m.trial.String()
}

// IsRegion reports whether the measure is computed per region.
func (m Measure) IsRegion() bool {
	return m.trial < 0
}

// Apply computes the measure on t, for every region of its item when it
// is a region measure.
func (m Measure) Apply(t *model.Trial) error {
	if !m.IsRegion() {
		ComputeTrial(t, m.trial)
		return nil
	}
	for _, r := range t.Item.Regions {
		if _, err := ComputeRegion(t, m.region, r.Number); err != nil {
			return err
		}
	}
	return nil
}

// RegionMeasures returns the region measure names in canonical order.
func RegionMeasures() []string {
	return append([]string(nil), regionNames[:]...)
}

// TrialMeasures returns the trial measure names in canonical order.
func TrialMeasures() []string {
	return append([]string(nil), trialNames[:]...)
}

// Names returns every registered name, trial measures first.
func Names() []string {
	return append(TrialMeasures(), RegionMeasures()...)
}

// ComputeRegion returns the cached result of a region measure, computing
// it on first use.
func ComputeRegion(t *model.Trial, kind RegionKind, region int) (*model.MeasureResult, error) {
	if kind < 0 || kind >= numRegionKinds {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMeasure, kind)
	}
	r, err := t.Item.Region(region)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", kind, err)
	}
	return t.CacheRegionMeasure(region, kind.String(), func() (any, []*model.Fixation) {
		return regionFuncs[kind](t, r)
	}), nil
}

// ComputeTrial returns the cached value of a trial measure, computing it
// on first use.
func ComputeTrial(t *model.Trial, kind TrialKind) any {
	if kind < 0 || kind >= numTrialKinds {
		return nil
	}
	return t.CacheTrialMeasure(kind.String(), func() any {
		return trialFuncs[kind](t)
	})
}
