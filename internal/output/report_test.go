package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/measure"
	"github.com/rcliao/sideeye/internal/model"
)

func testExperiment(t *testing.T) *model.Experiment {
	t.Helper()
	texts := []struct {
		x1, x2 int
		text   string
	}{{0, 4, "Test"}, {4, 9, " item"}, {9, 14, " here"}}
	regions := make([]*model.Region, len(texts))
	for i, r := range texts {
		reg, err := model.NewTextRegion(model.Point{X: r.x1}, model.Point{X: r.x2}, r.x2-r.x1, r.text)
		require.NoError(t, err)
		regions[i] = reg
	}
	item, err := model.NewItem("1", "1", regions, nil)
	require.NoError(t, err)

	var raw []*model.Fixation
	for _, f := range [][3]int{{1, 0, 100}, {6, 120, 300}, {2, 320, 400}} {
		fx, err := model.NewFixation(model.Point{X: f[0]}, f[1], f[2], false)
		require.NoError(t, err)
		raw = append(raw, fx)
	}
	tr, err := model.NewTrial(0, model.IntPtr(500), item, raw, model.TrialOptions{})
	require.NoError(t, err)

	exp := model.NewExperiment("p01", "data/p01.da1", time.Date(2019, 5, 1, 9, 30, 0, 0, time.UTC), []*model.Trial{tr})
	require.NoError(t, measure.CalculateAll(context.Background(), []*model.Experiment{exp}, measure.Names(), measure.Options{}))
	return exp
}

func colIndex(t *testing.T, header []string, name string) int {
	t.Helper()
	for i, h := range header {
		if h == name {
			return i
		}
	}
	t.Fatalf("column %q not in header %v", name, header)
	return -1
}

func TestWideHeader(t *testing.T) {
	table := Wide(nil, config.Default())
	assert.Equal(t, "experiment_name,trial_id,trial_total_time,item_id,item_condition,region_number,"+
		"skip,first_pass_regressions_out,first_pass_regressions_in,first_fixation_duration,"+
		"single_fixation_duration,first_pass,go_past,total_time,right_bounded_time,reread_time,"+
		"second_pass,spillover_time,refixation_time,landing_position,launch_site,"+
		"first_pass_fixation_count,go_back_time_region,go_back_time_char,location_first_regression,"+
		"latency_first_regression,fixation_count,percent_regressions,average_forward_saccade,"+
		"average_backward_saccade", strings.Join(table.Header, ","))
	assert.Empty(t, table.Rows)
}

func TestWide(t *testing.T) {
	exp := testExperiment(t)
	cfg := config.Default()
	table := Report([]*model.Experiment{exp}, cfg)
	require.Len(t, table.Rows, 3)

	get := func(row int, col string) string {
		return table.Rows[row][colIndex(t, table.Header, col)]
	}
	assert.Equal(t, "p01", get(0, "experiment_name"))
	assert.Equal(t, "500", get(0, "trial_total_time"))
	assert.Equal(t, "0", get(0, "region_number"))
	assert.Equal(t, "2", get(2, "region_number"))

	assert.Equal(t, "False", get(0, "skip"))
	assert.Equal(t, "100", get(0, "first_fixation_duration"))
	assert.Equal(t, "180", get(0, "total_time"))
	assert.Equal(t, "180", get(1, "first_pass"))
	assert.Equal(t, "True", get(2, "skip"))
	assert.Equal(t, "None", get(2, "first_fixation_duration"))
	assert.Equal(t, "0", get(2, "total_time"))

	for row := range table.Rows {
		assert.Equal(t, "3", get(row, "fixation_count"))
		assert.Equal(t, "0.5", get(row, "percent_regressions"))
		assert.Equal(t, "20.0", get(row, "average_forward_saccade"))
		assert.Equal(t, "(6, 0)", get(row, "location_first_regression"))
		assert.Equal(t, "300", get(row, "latency_first_regression"))
	}
}

func TestWideCutoffAndHeaders(t *testing.T) {
	exp := testExperiment(t)
	cfg := config.Default()
	limit := 150
	for i := range cfg.RegionMeasures {
		if cfg.RegionMeasures[i].Name == "total_time" {
			cfg.RegionMeasures[i].Cutoff = &limit
			cfg.RegionMeasures[i].Header = "TT"
		}
		if cfg.RegionMeasures[i].Name == "go_past" {
			cfg.RegionMeasures[i].Exclude = true
		}
	}
	cfg.RegionOutput = append(cfg.RegionOutput, config.Column{Name: "region_text"})

	table := Wide([]*model.Experiment{exp}, cfg)
	assert.NotContains(t, table.Header, "go_past")
	tt := colIndex(t, table.Header, "TT")
	assert.Equal(t, Cutoff, table.Rows[0][tt])
	assert.Equal(t, Cutoff, table.Rows[1][tt])
	assert.Equal(t, "0", table.Rows[2][tt])
	assert.Equal(t, " item", table.Rows[1][colIndex(t, table.Header, "region_text")])
}

func TestLong(t *testing.T) {
	exp := testExperiment(t)
	cfg := config.Default()
	cfg.WideFormat = false
	cfg.RegionOutput = cfg.RegionOutput.Included()
	cfg.RegionOutput = append(cfg.RegionOutput, config.Column{Name: "region_start"}, config.Column{Name: "date"})

	table := Report([]*model.Experiment{exp}, cfg)
	assert.Equal(t, []string{
		"experiment_name", "trial_id", "trial_total_time", "item_id", "item_condition", "region_number",
		"region_start", "date", "measure", "value",
	}, table.Header)
	require.Len(t, table.Rows, 7+3*18)

	first := table.Rows[0]
	assert.Equal(t, []string{"p01", "0", "500", "1", "1", NA, NA, "2019-05-01 09:30:00", "location_first_regression", "(6, 0)"}, first)

	skip := table.Rows[7]
	assert.Equal(t, []string{"p01", "0", "500", "1", "1", "0", "(0, 0)", "2019-05-01 09:30:00", "skip", "False"}, skip)

	last := table.Rows[len(table.Rows)-1]
	assert.Equal(t, "2", last[5])
	assert.Equal(t, "go_back_time_char", last[8])
}

func TestSaccadeAveragesWithoutSaccades(t *testing.T) {
	reg, err := model.NewTextRegion(model.Point{}, model.Point{X: 4}, 4, "Test")
	require.NoError(t, err)
	item, err := model.NewItem("1", "1", []*model.Region{reg}, nil)
	require.NoError(t, err)
	fx, err := model.NewFixation(model.Point{X: 1}, 0, 100, false)
	require.NoError(t, err)
	tr, err := model.NewTrial(0, nil, item, []*model.Fixation{fx}, model.TrialOptions{})
	require.NoError(t, err)
	exp := model.NewExperiment("p", "p.da1", time.Time{}, []*model.Trial{tr})
	require.NoError(t, measure.CalculateAll(context.Background(), []*model.Experiment{exp}, measure.Names(), measure.Options{}))

	table := Wide([]*model.Experiment{exp}, config.Default())
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "0", table.Rows[0][colIndex(t, table.Header, "average_forward_saccade")])
	assert.Equal(t, "0", table.Rows[0][colIndex(t, table.Header, "average_backward_saccade")])
	assert.Equal(t, None, table.Rows[0][colIndex(t, table.Header, "percent_regressions")])
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2019-05-01 09:30:00", FormatDate(time.Date(2019, 5, 1, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2019-05-01 09:30:00.120000", FormatDate(time.Date(2019, 5, 1, 9, 30, 0, 120_000_000, time.UTC)))
	assert.Equal(t, "2019-05-01 09:30:00.000005", FormatDate(time.Date(2019, 5, 1, 9, 30, 0, 5_900, time.UTC)))
	assert.Equal(t, "2019-05-01 09:30:00", FormatDate(time.Date(2019, 5, 1, 9, 30, 0, 999, time.UTC)))
}

func TestUncalculatedMeasures(t *testing.T) {
	regions := []*model.Region{{Start: model.Point{}, End: model.Point{X: 5}}}
	item, err := model.NewItem("1", "1", regions, nil)
	require.NoError(t, err)
	tr, err := model.NewTrial(0, nil, item, nil, model.TrialOptions{})
	require.NoError(t, err)
	exp := model.NewExperiment("p", "p.da1", time.Time{}, []*model.Trial{tr})

	table := Wide([]*model.Experiment{exp}, config.Default())
	require.Len(t, table.Rows, 1)
	assert.Equal(t, None, table.Rows[0][colIndex(t, table.Header, "trial_total_time")])
	assert.Equal(t, NA, table.Rows[0][colIndex(t, table.Header, "skip")])
	assert.Equal(t, NA, table.Rows[0][colIndex(t, table.Header, "fixation_count")])
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "None"},
		{true, "True"},
		{false, "False"},
		{42, "42"},
		{0.25, "0.25"},
		{0.0, "0.0"},
		{12.0, "12.0"},
		{"line one\nline two", `line one\nline two`},
		{model.Point{X: 1, Y: 2}, "(1, 2)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, format(tt.in), "%v", tt.in)
	}
}

func TestWriteCSV(t *testing.T) {
	table := Table{
		Header: []string{"measure", "value"},
		Rows:   [][]string{{"location_first_regression", "(6, 0)"}, {"skip", "True"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, table))
	assert.Equal(t, "measure,value\nlocation_first_regression,\"(6, 0)\"\nskip,True\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	table := Report([]*model.Experiment{testExperiment(t)}, config.Default())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, table))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1+len(table.Rows))
	assert.Equal(t, table.Header, rows[0])
	assert.Equal(t, "p01", rows[1][0])

	v, err := f.GetCellValue(SheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "500", v)
	v, err = f.GetCellValue(SheetName, "G4")
	require.NoError(t, err)
	assert.Equal(t, "True", v)
}
