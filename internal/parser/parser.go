// Package parser reads region files and eye-tracking data files (DA1 and
// ASC) into experiments.
package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/model"
)

// ErrInvalidFormat is returned for files that do not match the expected
// layout. Errors carry the file name and, where known, the line number.
var ErrInvalidFormat = errors.New("invalid format")

// Items maps item number to condition to item.
type Items map[string]map[string]*model.Item

// Lookup returns the item with the given number and condition.
func (it Items) Lookup(number, condition string) (*model.Item, bool) {
	item, ok := it[number][condition]
	return item, ok
}

// Len returns the number of items across all conditions.
func (it Items) Len() int {
	n := 0
	for _, conds := range it {
		n += len(conds)
	}
	return n
}

func (it Items) add(item *model.Item) {
	if it[item.Number] == nil {
		it[item.Number] = make(map[string]*model.Item)
	}
	it[item.Number][item.Condition] = item
}

// Parser dispatches files to the matching adapter using one configuration.
type Parser struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New returns a Parser. A nil cfg uses the defaults and a nil logger
// discards output.
func New(cfg *config.Config, logger *slog.Logger) *Parser {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Parser{cfg: cfg, logger: orDiscard(logger).With(slog.String("component", "parser"))}
}

// Items loads a region file: .txt files hold region strings, anything else
// is read as a .cnt or .reg boundary file.
func (p *Parser) Items(path string) (Items, error) {
	if ext(path) == ".txt" {
		return RegionTextFile(path, p.logger)
	}
	return RegionFile(path, p.cfg.RegionFields, p.logger)
}

// ParseFile parses one .da1 or .asc file. ok is false for any other
// extension.
func (p *Parser) ParseFile(path string, items Items) (exp *model.Experiment, ok bool, err error) {
	switch ext(path) {
	case ".da1":
		exp, err = DA1(path, items, p.cfg.DA1Fields, p.cfg.Cutoffs, p.logger)
	case ".asc":
		exp, err = ASC(path, items, p.cfg.ASCParsing, p.cfg.Cutoffs, p.logger)
	default:
		return nil, false, nil
	}
	return exp, true, err
}

// ParseFiles loads the region file and parses every data file into an
// Experiment, keeping the order of files. Files that are neither DA1 nor
// ASC are logged and skipped.
func (p *Parser) ParseFiles(ctx context.Context, files []string, regionFile string) ([]*model.Experiment, error) {
	items, err := p.Items(regionFile)
	if err != nil {
		return nil, err
	}
	p.logger.Info("loaded items", slog.String("file", regionFile), slog.Int("items", items.Len()))

	parsed := make([]*model.Experiment, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			exp, ok, err := p.ParseFile(file, items)
			if err != nil {
				return err
			}
			if !ok {
				p.logger.Warn("skipping file: not a DA1 or ASC file", slog.String("file", file))
				return nil
			}
			p.logger.Info("parsed experiment",
				slog.String("file", file),
				slog.Int("trials", exp.Len()),
			)
			parsed[i] = exp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	experiments := make([]*model.Experiment, 0, len(parsed))
	for _, exp := range parsed {
		if exp != nil {
			experiments = append(experiments, exp)
		}
	}
	return experiments, nil
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// experimentName is the base file name without its extension. Any dots
// left in the stem are dropped, so "session.1.asc" names "session1".
func experimentName(path string) string {
	base := filepath.Base(path)
	return strings.ReplaceAll(strings.TrimSuffix(base, filepath.Ext(base)), ".", "")
}

func newExperiment(path string, trials []*model.Trial) (*model.Experiment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return model.NewExperiment(experimentName(path), path, info.ModTime(), trials), nil
}

func formatErr(path string, line int, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if line > 0 {
		return fmt.Errorf("%w: %s:%d: %s", ErrInvalidFormat, path, line, msg)
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidFormat, path, msg)
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
