// Package store persists calculation runs and their measure values.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/sideeye/internal/model"
)

var (
	ErrNotFound  = errors.New("run not found")
	ErrAmbiguous = errors.New("run id prefix is ambiguous")
)

// SaveRunParams holds parameters for storing a run.
type SaveRunParams struct {
	RegionFile  string
	Files       []string
	Measures    []string
	Experiments int
	Trials      int
	Config      string // JSON of the configuration used
	Results     []model.Result
}

// ResultParams filters the results of a run.
type ResultParams struct {
	RunID      string
	Experiment string
	Measure    string
	Limit      int // 0 means all
}

// RmParams holds parameters for deleting a run.
type RmParams struct {
	ID   string
	Hard bool
}

// Store defines the run storage interface.
type Store interface {
	// SaveRun stores a run and all of its results.
	SaveRun(ctx context.Context, p SaveRunParams) (*model.Run, error)

	// ListRuns returns the most recent runs first.
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)

	// GetRun returns a run by id or unique id prefix.
	GetRun(ctx context.Context, id string) (*model.Run, error)

	// Results returns the stored values of a run in calculation order.
	Results(ctx context.Context, p ResultParams) ([]model.Result, error)

	// RmRun soft-deletes (or hard-deletes) a run.
	RmRun(ctx context.Context, p RmParams) error

	// Close closes the store.
	Close() error
}
