package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/model"
)

const ascChars = `
	MSG 1001 REGION CHAR 1 1 T 10 100 20 110
	MSG 1002 REGION CHAR 1 1 e 20 100 30 110
	MSG 1003 REGION CHAR 1 1 s 30 100 40 110
	MSG 1004 REGION CHAR 1 1 t 40 100 50 110
	MSG 1005 REGION CHAR 1 1   50 100 60 110
	MSG 1006 REGION CHAR 1 1 i 60 100 70 110
	MSG 1007 REGION CHAR 1 1 t 70 100 80 110
	MSG 1008 REGION CHAR 1 1 e 80 100 90 110
	MSG 1009 REGION CHAR 1 1 m 90 100 100 110
`

const (
	ascHeader = `
	MSG 1 SYNCTIME
	MSG 1000 TRIALID E1I1D0
` + ascChars
	ascEnd = `
	MSG 10001 TRIAL_RESULT 7
	MSG 10002 TRIAL OK
`
)

func ascItems(t *testing.T) Items {
	t.Helper()
	regions, err := RegionString("Test/ item")
	require.NoError(t, err)
	item, err := model.NewItem("1", "1", regions, nil)
	require.NoError(t, err)
	items := make(Items)
	items.add(item)
	return items
}

type ascFix struct {
	x, y, start, end, region int
}

func ascFixations(tr *model.Trial) []ascFix {
	out := make([]ascFix, len(tr.Fixations))
	for i, f := range tr.Fixations {
		out[i] = ascFix{f.Position.X, f.Position.Y, f.Start, f.End, f.Region.Number}
	}
	return out
}

func parseASC(t *testing.T, text string, opts config.ASCParsing) []*model.Trial {
	t.Helper()
	trials, err := ascTrials(strings.NewReader(text), ascItems(t), opts, config.Cutoffs{}, nil)
	require.NoError(t, err)
	return trials
}

func TestASCTrials(t *testing.T) {
	tests := []struct {
		name      string
		fixations string
		opts      config.ASCParsing
		want      []ascFix
	}{
		{
			name:      "one fixation",
			fixations: "EFIX R 2000 2010 10 12 105 0",
			want:      []ascFix{{0, 0, 0, 10, 0}},
		},
		{
			name:      "two fixations",
			fixations: "EFIX R 2000 2010 10 12 105 0\nEFIX R 2010 2030 20 72 105 0",
			want:      []ascFix{{0, 0, 0, 10, 0}, {6, 0, 10, 30, 1}},
		},
		{
			name:      "short blink kept",
			fixations: "EFIX R 2000 2010 10 12 105 0\nEBLINK R 2010 2015 5",
			opts:      config.ASCParsing{BlinkMaxDur: 20},
			want:      []ascFix{{0, 0, 0, 10, 0}},
		},
		{
			name:      "short fixation merges into previous",
			fixations: "EFIX R 2000 2020 20 12 105 0\nEFIX R 2020 2025 5 33 105 0",
			opts:      config.ASCParsing{FixationMinCutoff: 10},
			want:      []ascFix{{0, 0, 0, 25, 0}},
		},
		{
			name:      "short previous fixation merges into next",
			fixations: "EFIX R 2000 2005 5 12 105 0\nEFIX R 2005 2020 15 33 105 0",
			opts:      config.ASCParsing{FixationMinCutoff: 10},
			want:      []ascFix{{2, 0, 0, 20, 0}},
		},
		{
			name:      "off screen text ignored",
			fixations: "EFIX R 2000 2010 10 12 105 0\nEFIX R 2010 2030 20 500 105 0\nEFIX R 2030 2040 10 52 300 0",
			want:      []ascFix{{0, 0, 0, 10, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trials := parseASC(t, ascHeader+tt.fixations+ascEnd, tt.opts)
			require.Len(t, trials, 1)
			tr := trials[0]
			assert.Equal(t, 0, tr.Index)
			require.NotNil(t, tr.Time)
			assert.Equal(t, 10000, *tr.Time)
			assert.Equal(t, tt.want, ascFixations(tr))
		})
	}
}

func TestASCExcludedTrials(t *testing.T) {
	tests := []struct {
		name      string
		fixations string
		opts      config.ASCParsing
	}{
		{"long blink", "EFIX R 2000 2010 10 12 105 0\nEBLINK R 2010 2050 40", config.ASCParsing{BlinkMaxDur: 20}},
		{"too many blinks", "EFIX R 2000 2010 10 12 105 0\nEBLINK R 2010 2020 10\nEBLINK R 2020 2030 10", config.ASCParsing{BlinkMaxCount: 1}},
		{"long saccade", "EFIX R 2000 2005 5 12 105 0\nEFIX R 2025 2030 5 33 105 0", config.ASCParsing{MaxSaccadeDur: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, parseASC(t, ascHeader+tt.fixations+ascEnd, tt.opts))
		})
	}
}

func TestASCFixationBeforeSynctime(t *testing.T) {
	text := "MSG 1000 TRIALID E1I1D0\n" + ascChars + `
	EFIX R 2000 2005 5 12 105 0
	MSG 2001 SYNCTIME
	EFIX R 2005 2020 15 33 105 0
` + ascEnd
	trials := parseASC(t, text, config.ASCParsing{FixationMinCutoff: 10})
	require.Len(t, trials, 1)
	assert.Equal(t, 8000, *trials[0].Time)
	assert.Equal(t, []ascFix{{2, 0, 0, 15, 0}}, ascFixations(trials[0]))
}

func TestASCMultipleTrials(t *testing.T) {
	second := strings.NewReplacer("MSG 10", "MSG 200").Replace(ascChars)
	text := ascHeader + "EFIX R 2000 2010 10 12 105 0" + ascEnd + `
	MSG 20000 SYNCTIME
	MSG 20000 TRIALID E1I1D0
` + second + `
	EFIX R 30000 30010 10 12 105 0
	MSG 40000 TRIAL_RESULT 7
	MSG 20000 SYNCTIME
	MSG 20000 TRIALID E1I1D1
` + second + `
	EFIX R 30000 30010 10 12 105 0
	MSG 40000 TRIAL_RESULT 7
`
	trials := parseASC(t, text, config.ASCParsing{})
	require.Len(t, trials, 2)
	assert.Equal(t, 1, trials[1].Index)
	assert.Equal(t, 20000, *trials[1].Time)
	assert.Equal(t, []ascFix{{0, 0, 0, 10, 0}}, ascFixations(trials[1]))
}

func TestASCUnknownItem(t *testing.T) {
	text := strings.Replace(ascHeader, "E1I1D0", "E1I7D0", 1) + "EFIX R 2000 2010 10 12 105 0" + ascEnd
	assert.Empty(t, parseASC(t, text, config.ASCParsing{}))
}

func TestASCFile(t *testing.T) {
	path := writeFile(t, "test.asc", ascHeader+"EFIX R 2000 2010 10 12 105 0"+ascEnd)
	exp, err := ASC(path, ascItems(t), config.ASCParsing{}, config.Cutoffs{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "test", exp.Name)
	assert.Equal(t, path, exp.Filename)
	assert.Equal(t, 1, exp.Len())

	_, err = ASC(writeFile(t, "test.da1", ""), ascItems(t), config.ASCParsing{}, config.Cutoffs{}, nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestClusterLines(t *testing.T) {
	boxes := []charBox{
		{glyph: "a", x1: 0, x2: 10, y1: 10, y2: 20},
		{glyph: "b", x1: 10, x2: 20, y1: 9, y2: 20},
		{glyph: "c", x1: 20, x2: 30, y1: 11, y2: 23},
		{glyph: "d", x1: 0, x2: 10, y1: 30, y2: 40},
		{glyph: "e", x1: 10, x2: 20, y1: 29, y2: 41},
		{glyph: "f", x1: 0, x2: 10, y1: 50, y2: 60},
		{glyph: "g", x1: 10, x2: 20, y1: 54, y2: 63},
	}
	type pos struct {
		glyph      string
		char, line int
	}
	var got []pos
	for _, b := range clusterLines(boxes) {
		got = append(got, pos{b.glyph, b.char, b.line})
	}
	assert.Equal(t, []pos{
		{"a", 0, 0}, {"b", 1, 0}, {"c", 2, 0},
		{"d", 0, 1}, {"e", 1, 1},
		{"f", 0, 2}, {"g", 1, 2},
	}, got)

	assert.Equal(t, []pos{{"z", 0, 0}}, func() []pos {
		var out []pos
		for _, b := range clusterLines([]charBox{{glyph: "z", x2: 5, y2: 5}}) {
			out = append(out, pos{b.glyph, b.char, b.line})
		}
		return out
	}())
}
