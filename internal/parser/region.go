package parser

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/model"
)

// maxLineSize bounds a single line of an input file.
const maxLineSize = 1 << 20

// RegionString parses a region string. Regions are separated by "/" and a
// literal `\n` starts a new line of text; newlines do not count toward a
// region's length.
func RegionString(s string) ([]*model.Region, error) {
	s = strings.TrimRight(s, "\n")
	var (
		regions []*model.Region
		char    int
		line    int
	)
	for _, segment := range strings.Split(s, "/") {
		start := model.Point{X: char, Y: line}
		segment = strings.ReplaceAll(segment, `\n`, "\n")
		if strings.Contains(segment, "\n") {
			line++
			char = 0
		}
		char += utf8.RuneCountInString(segment[strings.LastIndex(segment, "\n")+1:])
		end := model.Point{X: char, Y: line}

		length := utf8.RuneCountInString(segment) - strings.Count(segment, "\n")
		r, err := model.NewTextRegion(start, end, length, strings.Trim(segment, "\n"))
		if err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return regions, nil
}

// RegionTextFile parses a .txt region file. Each line holds an item
// number, a condition and a region string separated by whitespace.
func RegionTextFile(path string, logger *slog.Logger) (Items, error) {
	if ext(path) != ".txt" {
		return nil, formatErr(path, 0, "not a region text file")
	}
	logger = orDiscard(logger)

	items := make(Items)
	err := eachLine(path, func(n int, line string) error {
		if strings.TrimSpace(line) == "" {
			return nil
		}
		number, rest := nextField(line)
		condition, rest := nextField(rest)
		if number == "" || condition == "" || rest == "" {
			return formatErr(path, n, "want number, condition and region string")
		}
		num, err := normalizeInt(number)
		if err != nil {
			return formatErr(path, n, "item number %q", number)
		}
		cond, err := normalizeInt(condition)
		if err != nil {
			return formatErr(path, n, "item condition %q", condition)
		}

		regions, err := RegionString(rest)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
		item, err := model.NewItem(num, cond, regions, nil)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
		logger.Debug("parsed item", slog.String("number", num), slog.String("condition", cond))
		items.add(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// RegionFile parses a .cnt or .reg file of integer columns. Boundaries
// are x positions on line 0, or (x, y) pairs when fields.IncludesY is set.
func RegionFile(path string, fields config.RegionFields, logger *slog.Logger) (Items, error) {
	if e := ext(path); e != ".cnt" && e != ".reg" {
		return nil, formatErr(path, 0, "not a region file")
	}
	logger = orDiscard(logger)

	items := make(Items)
	err := eachLine(path, func(n int, line string) error {
		values, err := ints(strings.Fields(line))
		if err != nil {
			return formatErr(path, n, "%v", err)
		}
		if len(values) == 0 {
			return nil
		}
		if fields.Number >= len(values) || fields.Condition >= len(values) || fields.BoundariesStart > len(values) {
			return formatErr(path, n, "%d columns", len(values))
		}
		num := strconv.Itoa(values[fields.Number])
		cond := strconv.Itoa(values[fields.Condition])

		regions, err := boundaryRegions(values[fields.BoundariesStart:], fields.IncludesY)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
		item, err := model.NewItem(num, cond, regions, nil)
		if err != nil {
			return fmt.Errorf("%s:%d: %w", path, n, err)
		}
		logger.Debug("parsed item", slog.String("number", num), slog.String("condition", cond))
		items.add(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func boundaryRegions(b []int, includesY bool) ([]*model.Region, error) {
	var regions []*model.Region
	add := func(start, end model.Point) error {
		r, err := model.NewRegion(start, end)
		if err != nil {
			return err
		}
		regions = append(regions, r)
		return nil
	}
	if includesY {
		for i := 0; i < len(b)-3; i += 2 {
			if err := add(model.Point{X: b[i], Y: b[i+1]}, model.Point{X: b[i+2], Y: b[i+3]}); err != nil {
				return nil, err
			}
		}
		return regions, nil
	}
	for i := 0; i < len(b)-1; i++ {
		if err := add(model.Point{X: b[i]}, model.Point{X: b[i+1]}); err != nil {
			return nil, err
		}
	}
	return regions, nil
}

// eachLine calls fn with every line of the file and its 1-based number.
func eachLine(path string, fn func(n int, line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return scanLines(f, fn)
}

func scanLines(r io.Reader, fn func(n int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	n := 0
	for sc.Scan() {
		n++
		if err := fn(n, sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// nextField splits off the first whitespace-separated field. rest keeps
// its trailing whitespace.
func nextField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}

func normalizeInt(s string) (string, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(v), nil
}

func ints(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("field %d: %q is not an integer", i, f)
		}
		out[i] = v
	}
	return out, nil
}
