package measure

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/sideeye/internal/model"
)

// Calculate computes one named measure for every trial of every
// experiment, and for every region when it is a region measure.
func Calculate(experiments []*model.Experiment, name string) error {
	m, err := Lookup(name)
	if err != nil {
		return err
	}
	for _, e := range experiments {
		if err := apply(e, m); err != nil {
			return err
		}
	}
	return nil
}

func apply(e *model.Experiment, m Measure) error {
	for _, t := range e.Trials() {
		if err := m.Apply(t); err != nil {
			return fmt.Errorf("%s trial %d: %w", e.Name, t.Index, err)
		}
	}
	return nil
}

// Options controls CalculateAll.
type Options struct {
	// Workers bounds the number of experiments processed at once. Zero or
	// less means one.
	Workers int
	Logger  *slog.Logger
}

// CalculateAll computes every named measure over all experiments. Each
// experiment is handled by a single goroutine, so a trial's cache has one
// writer. All names are resolved before any work starts.
func CalculateAll(ctx context.Context, experiments []*model.Experiment, names []string, opts Options) error {
	measures := make([]Measure, 0, len(names))
	for _, name := range names {
		m, err := Lookup(name)
		if err != nil {
			return err
		}
		measures = append(measures, m)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "measure"))

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, e := range experiments {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			for _, m := range measures {
				if err := gctx.Err(); err != nil {
					return err
				}
				logger.Debug("calculating measure",
					slog.String("measure", m.Name()),
					slog.String("experiment", e.Name))
				if err := apply(e, m); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Collect flattens the cached measures of every trial into results, trial
// measures first and then region measures per region, in registry order.
func Collect(experiments []*model.Experiment) []model.Result {
	var out []model.Result
	for _, e := range experiments {
		for _, t := range e.Trials() {
			base := model.Result{
				Experiment:    e.Name,
				TrialIndex:    t.Index,
				ItemNumber:    t.Item.Number,
				ItemCondition: t.Item.Condition,
			}
			for _, name := range trialNames {
				v, ok := t.TrialMeasure(name)
				if !ok {
					continue
				}
				res := base
				res.Measure = name
				res.Value = v
				out = append(out, res)
			}
			for _, r := range t.Item.Regions {
				for _, name := range regionNames {
					cached, ok := t.RegionMeasure(r.Number, name)
					if !ok {
						continue
					}
					res := base
					res.RegionNumber = model.IntPtr(r.Number)
					res.RegionLabel = r.Label
					res.Measure = name
					res.Value = cached.Value
					out = append(out, res)
				}
			}
		}
	}
	return out
}
