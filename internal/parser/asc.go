package parser

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/model"
)

var ascLineTypes = map[string]bool{"MSG": true, "EFIX": true, "EBLINK": true, "SYNCTIME": true}

var (
	ascSyncRe    = regexp.MustCompile(`(\d+)\s+SYNCTIME`)
	ascTrialIDRe = regexp.MustCompile(`TRIALID\s+E(\S+)I(\S+)D(\S+)`)
	ascCharRe    = regexp.MustCompile(`REGION\s+CHAR\s+\d+\s+\d+\s(.)\s+(\d+)\s+(\d+)\s+(\d+)\s+(\d+)\s*$`)
	ascFixRe     = regexp.MustCompile(`EFIX\s+\w+\s+(\d+)\s+(\d+)\s+(\S+)\s+([\d.]+)\s+([\d.]+)`)
	ascEndRe     = regexp.MustCompile(`(\d+)\s+TRIAL_RESULT`)
)

// charBox is a character's bounding box on screen in pixels, with its
// character and line position once clustered.
type charBox struct {
	glyph          string
	x1, y1, x2, y2 int
	char, line     int
}

// ASC parses an EyeLink .asc file. Fixations are mapped to characters
// through the REGION CHAR messages of their trial; trials are filtered by
// the blink and saccade rules in opts.
func ASC(path string, items Items, opts config.ASCParsing, cutoffs config.Cutoffs, logger *slog.Logger) (*model.Experiment, error) {
	if ext(path) != ".asc" {
		return nil, formatErr(path, 0, "not an ASC file")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	trials, err := ascTrials(f, items, opts, cutoffs, orDiscard(logger).With(slog.String("file", path)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return newExperiment(path, trials)
}

// ascState is the state of the trial being read.
type ascState struct {
	synced    bool
	start     int
	item      *model.Item
	boxes     []charBox
	clustered []charBox
	fixations []*model.Fixation
	offset    int
	hasOffset bool
	blinks    int
	exclude   bool
}

func ascTrials(r io.Reader, items Items, opts config.ASCParsing, cutoffs config.Cutoffs, logger *slog.Logger) ([]*model.Trial, error) {
	logger = orDiscard(logger)
	trialOpts := model.TrialOptions{
		IncludeFixation: cutoffs.IncludeFixation,
		IncludeSaccades: cutoffs.IncludeSaccades,
	}
	var (
		trials []*model.Trial
		st     ascState
	)
	err := scanLines(r, func(n int, line string) error {
		fields := strings.Fields(line)
		if len(fields) == 0 || !ascLineTypes[fields[0]] {
			return nil
		}

		if m := ascSyncRe.FindStringSubmatch(line); m != nil {
			st.start, _ = strconv.Atoi(m[1])
			st.synced = true
		}
		if m := ascTrialIDRe.FindStringSubmatch(line); m != nil {
			st.item = nil
			if m[3] == "0" {
				st.item, _ = items.Lookup(m[2], m[1])
			}
		}
		if m := ascCharRe.FindStringSubmatch(line); m != nil {
			st.addBox(m)
		}
		if m := ascFixRe.FindStringSubmatch(line); m != nil && st.synced && st.item != nil {
			if err := st.addFixation(m, opts.FixationMinCutoff); err != nil {
				logger.Warn("dropping fixation", slog.Int("line", n), slog.Any("error", err))
			}
		}
		if k := len(st.fixations); opts.MaxSaccadeDur > 0 && k > 1 &&
			st.fixations[k-1].Start-st.fixations[k-2].End > opts.MaxSaccadeDur {
			st.exclude = true
		}
		if fields[0] == "EBLINK" && len(fields) >= 4 {
			if dur, err := strconv.Atoi(fields[len(fields)-1]); err == nil && dur > 0 {
				st.blinks++
				if opts.BlinkMaxDur > 0 && dur > opts.BlinkMaxDur {
					st.exclude = true
				}
				if opts.BlinkMaxCount > 0 && st.blinks > opts.BlinkMaxCount {
					st.exclude = true
				}
			}
		}

		if m := ascEndRe.FindStringSubmatch(line); m != nil {
			end, _ := strconv.Atoi(m[1])
			switch {
			case st.item == nil:
			case st.exclude:
				logger.Debug("excluding trial", slog.Int("line", n), slog.String("item", st.item.String()))
			default:
				tr, err := model.NewTrial(len(trials), model.IntPtr(end-st.start), st.item, st.fixations, trialOpts)
				if err != nil {
					logger.Warn("skipping trial", slog.Int("line", n), slog.Any("error", err))
					break
				}
				trials = append(trials, tr)
			}
			st = ascState{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return trials, nil
}

func (st *ascState) addBox(m []string) {
	b := charBox{glyph: m[1]}
	b.x1, _ = strconv.Atoi(m[2])
	b.y1, _ = strconv.Atoi(m[3])
	b.x2, _ = strconv.Atoi(m[4])
	b.y2, _ = strconv.Atoi(m[5])
	st.boxes = append(st.boxes, b)
	st.clustered = nil
}

// addFixation maps an EFIX event onto the character under it. Events
// outside every character box are ignored.
func (st *ascState) addFixation(m []string, minCutoff int) error {
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	x, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return err
	}
	y, err := strconv.ParseFloat(m[5], 64)
	if err != nil {
		return err
	}

	if st.clustered == nil {
		st.clustered = clusterLines(st.boxes)
	}
	for _, b := range st.clustered {
		if float64(b.x1) < x && x < float64(b.x2) && float64(b.y1) < y && y < float64(b.y2) {
			if !st.hasOffset {
				st.offset = start
				st.hasOffset = true
			}
			f, err := model.NewFixation(model.Point{X: b.char, Y: b.line}, start-st.offset, end-st.offset, false)
			if err != nil {
				return err
			}
			return st.appendFixation(f, minCutoff)
		}
	}
	return nil
}

// appendFixation adds f, merging it into the previous fixation when either
// of the two is shorter than minCutoff.
func (st *ascState) appendFixation(f *model.Fixation, minCutoff int) error {
	k := len(st.fixations)
	if k == 0 || minCutoff <= 0 {
		st.fixations = append(st.fixations, f)
		return nil
	}
	last := st.fixations[k-1]
	var pos model.Point
	switch {
	case f.Duration() < minCutoff:
		pos = last.Position
	case last.Duration() < minCutoff:
		pos = f.Position
	default:
		st.fixations = append(st.fixations, f)
		return nil
	}
	merged, err := model.NewFixation(pos, last.Start, f.End, false)
	if err != nil {
		return err
	}
	st.fixations[k-1] = merged
	return nil
}

// clusterLines groups character boxes into lines of text by their
// vertical extent and numbers them left to right within each line.
func clusterLines(boxes []charBox) []charBox {
	sorted := make([]charBox, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].y1 < sorted[j].y1 })

	var (
		lines [][]charBox
		maxY2 int
	)
	for _, b := range sorted {
		if len(lines) == 0 || b.y1 > maxY2 {
			lines = append(lines, nil)
		}
		maxY2 = max(maxY2, b.y2)
		lines[len(lines)-1] = append(lines[len(lines)-1], b)
	}

	out := make([]charBox, 0, len(boxes))
	for lineNo, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].x1 < line[j].x1 })
		for charNo, b := range line {
			b.char = charNo
			b.line = lineNo
			out = append(out, b)
		}
	}
	return out
}
