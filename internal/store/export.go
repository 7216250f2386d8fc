package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rcliao/sideeye/internal/model"
)

// RunExport is a run together with all of its results.
type RunExport struct {
	Run     model.Run      `json:"run"`
	Results []model.Result `json:"results"`
}

// ExportRun returns a run and its results.
func (s *SQLiteStore) ExportRun(ctx context.Context, id string) (*RunExport, error) {
	run, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}
	results, err := s.Results(ctx, ResultParams{RunID: run.ID})
	if err != nil {
		return nil, err
	}
	return &RunExport{Run: *run, Results: results}, nil
}

// Import stores exported runs as new runs. The imported runs get fresh
// ids; their file lists, measures and results are kept.
func (s *SQLiteStore) Import(ctx context.Context, exports []RunExport) ([]model.Run, error) {
	var runs []model.Run
	for _, e := range exports {
		if len(e.Results) != e.Run.Results {
			return runs, fmt.Errorf("import run %s: expected %d results, got %d",
				e.Run.ID, e.Run.Results, len(e.Results))
		}
		run, err := s.SaveRun(ctx, SaveRunParams{
			RegionFile:  e.Run.RegionFile,
			Files:       e.Run.Files,
			Measures:    e.Run.Measures,
			Experiments: e.Run.Experiments,
			Trials:      e.Run.Trials,
			Config:      e.Run.Config,
			Results:     e.Results,
		})
		if err != nil {
			return runs, fmt.Errorf("import run %s: %w", e.Run.ID, err)
		}
		runs = append(runs, *run)
	}
	return runs, nil
}

// ReadExports decodes a JSON array of run exports, restoring whole
// numbers in result values as int.
func ReadExports(r io.Reader) ([]RunExport, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var exports []RunExport
	if err := dec.Decode(&exports); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	for i := range exports {
		for j := range exports[i].Results {
			v, err := numberValue(exports[i].Results[j].Value)
			if err != nil {
				return nil, fmt.Errorf("decode export: %w", err)
			}
			exports[i].Results[j].Value = v
		}
	}
	return exports, nil
}
