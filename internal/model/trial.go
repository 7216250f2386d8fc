package model

import (
	"fmt"
	"sync"
)

// TrialOptions controls how excluded fixations contribute to saccade
// durations.
type TrialOptions struct {
	// IncludeFixation adds the duration of excluded fixations to the
	// saccade that spans them.
	IncludeFixation bool
	// IncludeSaccades adds the gaps before and after excluded fixations to
	// the saccade that spans them.
	IncludeSaccades bool
}

// MeasureResult is a cached region measure: its value (nil when the
// measure is undefined) and the fixations that produced it.
type MeasureResult struct {
	Value     any         `json:"value"`
	Fixations []*Fixation `json:"fixations,omitempty"`
}

// Trial is one reading of one Item.
type Trial struct {
	Index     int         `json:"index"`
	Time      *int        `json:"time,omitempty"`
	Item      *Item       `json:"item"`
	Fixations []*Fixation `json:"fixations"`
	Saccades  []*Saccade  `json:"saccades"`

	mu             sync.RWMutex
	regionMeasures map[int]map[string]*MeasureResult
	trialMeasures  map[string]any
}

// NewTrial assigns regions and indices to raw fixations and derives the
// trial's saccades. Either a complete trial or an error is returned.
func NewTrial(index int, time *int, item *Item, raw []*Fixation, opts TrialOptions) (*Trial, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: negative index %d", ErrInvalidTrial, index)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: trial %d has no item", ErrInvalidTrial, index)
	}
	if time != nil && *time < 0 {
		return nil, fmt.Errorf("%w: negative time %d", ErrInvalidTrial, *time)
	}

	fixations := make([]*Fixation, len(raw))
	for i, f := range raw {
		if f == nil {
			return nil, fmt.Errorf("%w: fixation %d is nil", ErrInvalidTrial, i)
		}
		fixations[i] = f
	}

	regions := make([]*Region, len(fixations))
	for i, f := range fixations {
		if f.OffText() {
			continue
		}
		r, err := item.FindRegion(f.Position)
		if err != nil {
			return nil, fmt.Errorf("trial %d fixation %d: %w", index, i, err)
		}
		regions[i] = r
	}

	saccades, err := deriveSaccades(fixations, opts)
	if err != nil {
		return nil, fmt.Errorf("trial %d: %w", index, err)
	}

	for i, f := range fixations {
		f.Index = i
		f.Region = regions[i]
	}

	return &Trial{
		Index:     index,
		Time:      time,
		Item:      item,
		Fixations: fixations,
		Saccades:  saccades,
	}, nil
}

func deriveSaccades(fixations []*Fixation, opts TrialOptions) ([]*Saccade, error) {
	var (
		saccades []*Saccade
		start    *Fixation
		duration int
	)
	for i, f := range fixations {
		switch {
		case start == nil:
			if !f.Excluded {
				start = f
			}
		case !f.Excluded:
			prev := fixations[i-1]
			if !prev.Excluded || opts.IncludeSaccades {
				duration += f.Start - prev.End
			}
			if duration > 0 {
				s, err := NewSaccade(duration, regression(start, f), start, f)
				if err != nil {
					return nil, err
				}
				saccades = append(saccades, s)
			}
			start = f
			duration = 0
		default:
			if opts.IncludeFixation {
				duration += f.Duration()
			}
			if opts.IncludeSaccades {
				duration += f.Start - fixations[i-1].End
			}
		}
	}
	return saccades, nil
}

func regression(start, end *Fixation) bool {
	switch {
	case end.OffText():
		return true
	case start.OffText():
		return false
	}
	return end.Position.Less(start.Position)
}

// Included returns the non-excluded fixations in order.
func (t *Trial) Included() []*Fixation {
	out := make([]*Fixation, 0, len(t.Fixations))
	for _, f := range t.Fixations {
		if !f.Excluded {
			out = append(out, f)
		}
	}
	return out
}

// FixationCount returns the number of non-excluded fixations.
func (t *Trial) FixationCount() int {
	n := 0
	for _, f := range t.Fixations {
		if !f.Excluded {
			n++
		}
	}
	return n
}

// TotalTime returns the recorded trial time, or the end of the last
// non-excluded fixation. ok is false when neither is available.
func (t *Trial) TotalTime() (ms int, ok bool) {
	if t.Time != nil {
		return *t.Time, true
	}
	for i := len(t.Fixations) - 1; i >= 0; i-- {
		if !t.Fixations[i].Excluded {
			return t.Fixations[i].End, true
		}
	}
	return 0, false
}

// RegionMeasure returns the cached result for a region measure.
func (t *Trial) RegionMeasure(region int, name string) (*MeasureResult, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	res, ok := t.regionMeasures[region][name]
	return res, ok
}

// CacheRegionMeasure returns the cached result for a region measure,
// calling compute and storing its result only on the first request.
func (t *Trial) CacheRegionMeasure(region int, name string, compute func() (any, []*Fixation)) *MeasureResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	if res, ok := t.regionMeasures[region][name]; ok {
		return res
	}
	value, fixations := compute()
	res := &MeasureResult{Value: value, Fixations: fixations}
	if t.regionMeasures == nil {
		t.regionMeasures = make(map[int]map[string]*MeasureResult)
	}
	if t.regionMeasures[region] == nil {
		t.regionMeasures[region] = make(map[string]*MeasureResult)
	}
	t.regionMeasures[region][name] = res
	return res
}

// TrialMeasure returns the cached value of a trial measure.
func (t *Trial) TrialMeasure(name string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.trialMeasures[name]
	return v, ok
}

// CacheTrialMeasure is the trial-level counterpart of CacheRegionMeasure.
func (t *Trial) CacheTrialMeasure(name string, compute func() any) any {
	t.mu.Lock()
	defer t.mu.Unlock()
	if v, ok := t.trialMeasures[name]; ok {
		return v
	}
	v := compute()
	if t.trialMeasures == nil {
		t.trialMeasures = make(map[string]any)
	}
	t.trialMeasures[name] = v
	return v
}

// ClearMeasures drops every cached measure.
func (t *Trial) ClearMeasures() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.regionMeasures = nil
	t.trialMeasures = nil
}
