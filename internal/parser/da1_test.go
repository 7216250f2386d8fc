package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/sideeye/internal/config"
	"github.com/rcliao/sideeye/internal/model"
)

func testItems(t *testing.T) Items {
	t.Helper()
	items, err := RegionTextFile(writeFile(t, "items.txt", "1 1 Test/ item\n1 2 An/other item\n"), nil)
	require.NoError(t, err)
	return items
}

var noCutoffs = config.Cutoffs{Min: -1, Max: -1}

func TestTimdrop(t *testing.T) {
	path := writeFile(t, "p01.da1",
		"0 1 1 0 0 0 0 0 0 0 0 100 5 0 100 300\n"+
			"1 2 1 0 0 0 0 0 1 0 0 50 3 0 60 80\n"+
			"2 1 9 0 0 0 0 0 0 0 0 100\n")
	exp, err := Timdrop(path, testItems(t), noCutoffs, nil)
	require.NoError(t, err)

	assert.Equal(t, "p01", exp.Name)
	assert.Equal(t, path, exp.Filename)
	assert.False(t, exp.Date.IsZero())
	require.Equal(t, 2, exp.Len())

	tr, err := exp.Trial("1", "1")
	require.NoError(t, err)
	assert.Equal(t, 0, tr.Index)
	require.NotNil(t, tr.Time)
	assert.Equal(t, 300, *tr.Time)
	require.Len(t, tr.Fixations, 2)
	assert.Equal(t, model.Point{X: 5, Y: 0}, tr.Fixations[1].Position)
	assert.Equal(t, 1, tr.Fixations[1].Region.Number)
	require.Len(t, tr.Saccades, 0)

	tr, err = exp.TrialByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, "2", tr.Item.Condition)
	assert.Equal(t, 80, *tr.Time)
	assert.Len(t, tr.Saccades, 1)
}

func TestRobodoc(t *testing.T) {
	items := testItems(t)

	exp, err := Robodoc(writeFile(t, "p02.da1", "0 1 1 500 0 0 0 0 0 0 0 100 5 0 100 300\n"), items, noCutoffs, nil)
	require.NoError(t, err)
	tr, err := exp.Trial("1", "1")
	require.NoError(t, err)
	assert.Equal(t, 500, *tr.Time)

	_, err = Robodoc(writeFile(t, "p03.da1", "0 1 1 100 0 0 0 0 0 0 0 100 5 0 100 300\n"), items, noCutoffs, nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorContains(t, err, "robodoc")
}

func TestDA1Cutoffs(t *testing.T) {
	path := writeFile(t, "p04.da1", "0 1 1 0 0 0 0 0 0 0 0 100 1 0 100 300 2 0 300 330 6 0 340 400\n")
	cutoffs := config.Cutoffs{Min: 50, Max: 150}
	exp, err := DA1(path, testItems(t), config.Default().DA1Fields, cutoffs, nil)
	require.NoError(t, err)
	tr, err := exp.Trial("1", "1")
	require.NoError(t, err)

	excluded := make([]bool, len(tr.Fixations))
	for i, f := range tr.Fixations {
		excluded[i] = f.Excluded
	}
	assert.Equal(t, []bool{false, true, true, false}, excluded)
	assert.Equal(t, 2, tr.FixationCount())
}

func TestDA1SkipsBadTrials(t *testing.T) {
	path := writeFile(t, "p05.da1",
		"0 1 1 0 0 0 0 0 0 0 200 100\n"+
			"1 1 1 0 0 0 0 0 0 0 0 100\n")
	exp, err := Timdrop(path, testItems(t), noCutoffs, nil)
	require.NoError(t, err)
	require.Equal(t, 1, exp.Len())
	tr, err := exp.Trial("1", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Index)
}

func TestDA1Errors(t *testing.T) {
	items := testItems(t)

	_, err := Timdrop(writeFile(t, "p.txt", "0 1 1 0 0 0 0 0 0 0 0 100\n"), items, noCutoffs, nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Timdrop(writeFile(t, "p.da1", "0 1 1 0 0 0 0 0 0 0 0\n"), items, noCutoffs, nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Timdrop(writeFile(t, "p.da1", "0 1 1 0 0 0 0 0 0 0 0 100\n0 1 1 0 0 0 0 0 a 0 0 100\n"), items, noCutoffs, nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.ErrorContains(t, err, "p.da1:2")

	_, err = Timdrop(writeFile(t, "p.da1", "0 1 1 0 0 0 0 0 0 0 0 100\n0 1 1 0 0 0 0 0 0 0 0\n"), items, noCutoffs, nil)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestColumn(t *testing.T) {
	values := []int{1, 2, 3}
	v, ok := column(values, -1)
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	v, ok = column(values, 0)
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = column(values, 3)
	assert.False(t, ok)
	_, ok = column(values, -4)
	assert.False(t, ok)
}
