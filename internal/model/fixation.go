package model

import "fmt"

// Fixation is one gaze dwell. Times are in milliseconds from trial start.
// Region is assigned during trial construction and shared with the Item.
type Fixation struct {
	Position Point   `json:"position"`
	Start    int     `json:"start"`
	End      int     `json:"end"`
	Index    int     `json:"index"`
	Region   *Region `json:"-"`
	Excluded bool    `json:"excluded"`
}

// NewFixation validates timing and returns a fixation. An off-text position
// is always excluded.
func NewFixation(pos Point, start, end int, excluded bool) (*Fixation, error) {
	if start < 0 || end < 0 {
		return nil, fmt.Errorf("%w: negative time %d-%d", ErrInvalidFixation, start, end)
	}
	if start > end {
		return nil, fmt.Errorf("%w: start %d after end %d", ErrInvalidFixation, start, end)
	}
	return &Fixation{
		Position: pos,
		Start:    start,
		End:      end,
		Excluded: excluded || pos.OffText(),
	}, nil
}

// Duration returns End - Start.
func (f *Fixation) Duration() int {
	return f.End - f.Start
}

// OffText reports whether the fixation landed outside the text.
func (f *Fixation) OffText() bool {
	return f.Position.OffText()
}

// InRegion reports whether the fixation has been assigned to region n.
func (f *Fixation) InRegion(n int) bool {
	return f.Region != nil && f.Region.Number == n
}

func (f *Fixation) String() string {
	excluded := ""
	if f.Excluded {
		excluded = " excluded"
	}
	return fmt.Sprintf("%s %d-%d%s", f.Position, f.Start, f.End, excluded)
}

// Saccade is the movement between two fixations. Start and End point at
// fixations owned by the trial.
type Saccade struct {
	Duration   int       `json:"duration"`
	Regression bool      `json:"regression"`
	Start      *Fixation `json:"start"`
	End        *Fixation `json:"end"`
}

// NewSaccade validates the duration and returns a saccade.
func NewSaccade(duration int, regression bool, start, end *Fixation) (*Saccade, error) {
	if duration < 0 {
		return nil, fmt.Errorf("%w: negative duration %d", ErrInvalidSaccade, duration)
	}
	if start == nil || end == nil {
		return nil, fmt.Errorf("%w: missing fixation", ErrInvalidSaccade)
	}
	return &Saccade{Duration: duration, Regression: regression, Start: start, End: end}, nil
}
