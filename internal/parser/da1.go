package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/model"
)

// fixationFields is the number of columns per DA1 fixation: x, y, start
// and end.
const fixationFields = 4

// Column layouts of the two common DA1 variants.
var (
	TimdropFields = config.DA1Fields{Index: 0, Condition: 1, Number: 2, Time: -1, FixationStart: 8}
	RobodocFields = config.DA1Fields{Index: 0, Condition: 1, Number: 2, Time: 3, FixationStart: 8}
)

// Timdrop parses a timdrop DA1 file, whose last column is the trial time.
func Timdrop(path string, items Items, cutoffs config.Cutoffs, logger *slog.Logger) (*model.Experiment, error) {
	return parseDA1(path, items, TimdropFields, cutoffs, false, logger)
}

// Robodoc parses a robodoc DA1 file, whose fourth column is the trial
// time.
func Robodoc(path string, items Items, cutoffs config.Cutoffs, logger *slog.Logger) (*model.Experiment, error) {
	return parseDA1(path, items, RobodocFields, cutoffs, true, logger)
}

// DA1 parses a DA1 file with the given column layout. Rows for unknown
// items and rows that cannot form a trial are logged and skipped.
func DA1(path string, items Items, fields config.DA1Fields, cutoffs config.Cutoffs, logger *slog.Logger) (*model.Experiment, error) {
	return parseDA1(path, items, fields, cutoffs, false, logger)
}

func parseDA1(path string, items Items, fields config.DA1Fields, cutoffs config.Cutoffs, robodoc bool, logger *slog.Logger) (*model.Experiment, error) {
	if ext(path) != ".da1" {
		return nil, formatErr(path, 0, "not a DA1 file")
	}
	logger = orDiscard(logger).With(slog.String("file", path))
	opts := model.TrialOptions{
		IncludeFixation: cutoffs.IncludeFixation,
		IncludeSaccades: cutoffs.IncludeSaccades,
	}

	var trials []*model.Trial
	first := true
	err := eachLine(path, func(n int, line string) error {
		values, err := ints(strings.Fields(line))
		if err != nil {
			return formatErr(path, n, "%v", err)
		}
		if len(values) == 0 {
			return nil
		}
		if first {
			if err := validateDA1(values, fields, robodoc); err != nil {
				return formatErr(path, n, "%v", err)
			}
			first = false
		}

		row, err := readRow(values, fields)
		if err != nil {
			return formatErr(path, n, "%v", err)
		}
		item, ok := items.Lookup(row.number, row.condition)
		if !ok {
			logger.Warn("item does not exist, trial not added",
				slog.Int("line", n),
				slog.String("number", row.number),
				slog.String("condition", row.condition),
			)
			return nil
		}
		logger.Debug("parsing trial", slog.Int("index", row.index))

		tr, err := row.trial(item, cutoffs, opts)
		switch {
		case err == nil:
			trials = append(trials, tr)
		case isTrialErr(err):
			logger.Warn("skipping trial", slog.Int("line", n), slog.Int("index", row.index), slog.Any("error", err))
		default:
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newExperiment(path, trials)
}

func validateDA1(values []int, fields config.DA1Fields, robodoc bool) error {
	if fields.FixationStart > len(values) || (len(values)-fields.FixationStart)%fixationFields != 0 {
		return errors.New("fixation columns do not form groups of four")
	}
	if robodoc && values[3] < values[len(values)-1] {
		return errors.New("trial time is before the last fixation end, not a robodoc file")
	}
	return nil
}

type da1Row struct {
	index     int
	number    string
	condition string
	time      int
	raw       []int
}

func readRow(values []int, fields config.DA1Fields) (da1Row, error) {
	var row da1Row
	var err error
	get := func(name string, col int) int {
		v, ok := column(values, col)
		if !ok && err == nil {
			err = fmt.Errorf("%s column %d out of range for %d columns", name, col, len(values))
		}
		return v
	}
	row.index = get("index", fields.Index)
	row.number = strconv.Itoa(get("number", fields.Number))
	row.condition = strconv.Itoa(get("condition", fields.Condition))
	row.time = get("time", fields.Time)
	if err != nil {
		return row, err
	}
	if fields.FixationStart > len(values) || (len(values)-fields.FixationStart)%fixationFields != 0 {
		return row, fmt.Errorf("%d fixation columns do not form groups of four", len(values)-fields.FixationStart)
	}
	row.raw = values[fields.FixationStart:]
	return row, nil
}

func (r da1Row) trial(item *model.Item, cutoffs config.Cutoffs, opts model.TrialOptions) (*model.Trial, error) {
	raw, err := r.fixations(cutoffs)
	if err != nil {
		return nil, err
	}
	return model.NewTrial(r.index, model.IntPtr(r.time), item, raw, opts)
}

// fixations builds the row's fixations, excluding those whose duration is
// not strictly between the cutoffs.
func (r da1Row) fixations(cutoffs config.Cutoffs) ([]*model.Fixation, error) {
	out := make([]*model.Fixation, 0, len(r.raw)/fixationFields)
	for i := 0; i+fixationFields <= len(r.raw); i += fixationFields {
		x, y, start, end := r.raw[i], r.raw[i+1], r.raw[i+2], r.raw[i+3]
		dur := end - start
		keep := dur > cutoffs.Min && (cutoffs.Max < 0 || dur < cutoffs.Max)
		f, err := model.NewFixation(model.Point{X: x, Y: y}, start, end, !keep)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// column returns values[i], counting negative i from the end.
func column(values []int, i int) (int, bool) {
	if i < 0 {
		i += len(values)
	}
	if i < 0 || i >= len(values) {
		return 0, false
	}
	return values[i], true
}

// isTrialErr reports whether err rejects a single trial rather than the
// whole file.
func isTrialErr(err error) bool {
	for _, target := range []error{
		model.ErrInvalidFixation,
		model.ErrInvalidSaccade,
		model.ErrInvalidTrial,
		model.ErrOutOfRange,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
