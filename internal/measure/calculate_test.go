package measure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/sideeye/internal/model"
)

func TestRegistry(t *testing.T) {
	assert.Len(t, RegionMeasures(), int(numRegionKinds))
	assert.Len(t, TrialMeasures(), int(numTrialKinds))
	assert.Equal(t, "location_first_regression", Names()[0])
	assert.Equal(t, "go_back_time_char", Names()[len(Names())-1])

	for _, name := range Names() {
		m, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, m.Name())
	}

	m, err := Lookup("go_past")
	require.NoError(t, err)
	assert.True(t, m.IsRegion())

	m, err = Lookup("fixation_count")
	require.NoError(t, err)
	assert.False(t, m.IsRegion())

	_, err = Lookup("reading_speed")
	assert.ErrorIs(t, err, ErrUnknownMeasure)
	assert.Equal(t, "RegionKind(99)", RegionKind(99).String())
}

func experiment(name string, trials ...*model.Trial) *model.Experiment {
	return model.NewExperiment(name, name+".da1", time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC), trials)
}

func TestCalculate(t *testing.T) {
	tr := trialX(t)
	exps := []*model.Experiment{experiment("p01", tr)}

	require.NoError(t, Calculate(exps, "total_time"))
	for n, want := range []int{350, 100, 150, 0} {
		res, ok := tr.RegionMeasure(n, "total_time")
		require.True(t, ok, "region %d", n)
		assert.Equal(t, want, res.Value, "region %d", n)
	}

	require.NoError(t, Calculate(exps, "fixation_count"))
	v, ok := tr.TrialMeasure("fixation_count")
	require.True(t, ok)
	assert.Equal(t, 6, v)

	err := Calculate(exps, "nope")
	assert.ErrorIs(t, err, ErrUnknownMeasure)
}

func TestCalculateKeepsCachedResults(t *testing.T) {
	tr := trialX(t)
	first, err := ComputeRegion(tr, GoPast, 0)
	require.NoError(t, err)

	require.NoError(t, Calculate([]*model.Experiment{experiment("p01", tr)}, "go_past"))
	again, ok := tr.RegionMeasure(0, "go_past")
	require.True(t, ok)
	assert.Same(t, first, again)
}

func TestCalculateAll(t *testing.T) {
	a, b := trialX(t), trialY(t)
	exps := []*model.Experiment{experiment("p01", a), experiment("p02", b)}

	err := CalculateAll(context.Background(), exps, Names(), Options{Workers: 2})
	require.NoError(t, err)

	res, ok := a.RegionMeasure(2, "go_past")
	require.True(t, ok)
	assert.Equal(t, 400, res.Value)
	res, ok = b.RegionMeasure(3, "refixation_time")
	require.True(t, ok)
	assert.Equal(t, 200, res.Value)

	results := Collect(exps)
	perTrial := int(numTrialKinds) + 4*int(numRegionKinds)
	assert.Len(t, results, 2*perTrial)
	assert.Equal(t, "p01", results[0].Experiment)
	assert.Equal(t, "location_first_regression", results[0].Measure)
	assert.Nil(t, results[0].RegionNumber)

	r := results[int(numTrialKinds)]
	require.NotNil(t, r.RegionNumber)
	assert.Equal(t, 0, *r.RegionNumber)
	assert.Equal(t, "skip", r.Measure)
	assert.Equal(t, false, r.Value)
}

func TestCalculateAllUnknownMeasure(t *testing.T) {
	tr := trialX(t)
	err := CalculateAll(context.Background(), []*model.Experiment{experiment("p01", tr)}, []string{"skip", "bogus"}, Options{})
	assert.ErrorIs(t, err, ErrUnknownMeasure)
	_, ok := tr.RegionMeasure(0, "skip")
	assert.False(t, ok)
}

func TestCalculateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tr := trialX(t)
	err := CalculateAll(ctx, []*model.Experiment{experiment("p01", tr)}, Names(), Options{Workers: 4})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, Collect([]*model.Experiment{experiment("p01", tr)}))
}
