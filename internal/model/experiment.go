package model

import (
	"fmt"
	"time"
)

// TrialKey identifies a trial by its item.
type TrialKey struct {
	Number    string
	Condition string
}

// Experiment is one participant's session.
type Experiment struct {
	Name     string    `json:"name"`
	Filename string    `json:"filename"`
	Date     time.Time `json:"date"`

	trials  map[TrialKey]*Trial
	indices map[int]TrialKey
	order   []TrialKey
}

// NewExperiment indexes trials by item and by trial index. A later trial
// for the same item replaces the earlier one. A zero date means now.
func NewExperiment(name, filename string, date time.Time, trials []*Trial) *Experiment {
	if date.IsZero() {
		date = time.Now()
	}
	e := &Experiment{
		Name:     name,
		Filename: filename,
		Date:     date,
		trials:   make(map[TrialKey]*Trial, len(trials)),
		indices:  make(map[int]TrialKey, len(trials)),
	}
	for _, t := range trials {
		key := TrialKey{Number: t.Item.Number, Condition: t.Item.Condition}
		if _, ok := e.trials[key]; !ok {
			e.order = append(e.order, key)
		}
		e.trials[key] = t
		e.indices[t.Index] = key
	}
	return e
}

// Trial returns the trial for the given item.
func (e *Experiment) Trial(number, condition string) (*Trial, error) {
	t, ok := e.trials[TrialKey{Number: number, Condition: condition}]
	if !ok {
		return nil, fmt.Errorf("%w: item %s condition %s in %s", ErrTrialNotFound, number, condition, e.Name)
	}
	return t, nil
}

// TrialByIndex returns the trial recorded with the given index.
func (e *Experiment) TrialByIndex(index int) (*Trial, error) {
	key, ok := e.indices[index]
	if !ok {
		return nil, fmt.Errorf("%w: index %d in %s", ErrTrialNotFound, index, e.Name)
	}
	return e.trials[key], nil
}

// Trials returns the trials in the order their items were first seen.
func (e *Experiment) Trials() []*Trial {
	out := make([]*Trial, 0, len(e.order))
	for _, key := range e.order {
		out = append(out, e.trials[key])
	}
	return out
}

// Len returns the number of trials.
func (e *Experiment) Len() int {
	return len(e.order)
}
