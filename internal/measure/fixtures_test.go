package measure

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rcliao/sideeye/internal/model"
)

type fix struct {
	x, y, start, end int
	excluded         bool
}

func newItem(t *testing.T, bounds [][4]int) *model.Item {
	t.Helper()
	regions := make([]*model.Region, len(bounds))
	for i, b := range bounds {
		r, err := model.NewRegion(model.Point{X: b[0], Y: b[1]}, model.Point{X: b[2], Y: b[3]})
		require.NoError(t, err)
		regions[i] = r
	}
	item, err := model.NewItem("1", "1", regions, nil)
	require.NoError(t, err)
	return item
}

// regionsX is a single line of four ten-character regions.
func regionsX(t *testing.T) *model.Item {
	return newItem(t, [][4]int{{0, 0, 10, 0}, {10, 0, 20, 0}, {20, 0, 30, 0}, {30, 0, 40, 0}})
}

// regionsY wraps region 1 onto the second line.
func regionsY(t *testing.T) *model.Item {
	return newItem(t, [][4]int{{0, 0, 10, 0}, {10, 0, 0, 1}, {0, 1, 10, 1}, {10, 1, 20, 1}})
}

func newTrial(t *testing.T, item *model.Item, time *int, fixes ...fix) *model.Trial {
	t.Helper()
	raw := make([]*model.Fixation, len(fixes))
	for i, f := range fixes {
		fx, err := model.NewFixation(model.Point{X: f.x, Y: f.y}, f.start, f.end, f.excluded)
		require.NoError(t, err)
		raw[i] = fx
	}
	tr, err := model.NewTrial(0, time, item, raw, model.TrialOptions{})
	require.NoError(t, err)
	return tr
}

func trialX(t *testing.T) *model.Trial {
	return newTrial(t, regionsX(t), nil,
		fix{0, 0, 0, 150, false},
		fix{3, 0, 150, 200, false},
		fix{22, 0, 200, 350, false},
		fix{24, 0, 350, 350, true},
		fix{12, 0, 350, 400, false},
		fix{3, 0, 400, 550, false},
		fix{11, 0, 550, 600, false},
	)
}

func trialX2(t *testing.T) *model.Trial {
	return newTrial(t, regionsX(t), nil,
		fix{0, 0, 0, 150, false},
		fix{3, 0, 150, 200, false},
		fix{22, 0, 200, 370, false},
		fix{24, 0, 370, 380, true},
		fix{21, 0, 380, 400, false},
		fix{3, 0, 400, 550, false},
	)
}

func trialY(t *testing.T) *model.Trial {
	return newTrial(t, regionsY(t), model.IntPtr(400),
		fix{12, 0, 0, 100, false},
		fix{12, 1, 100, 150, false},
		fix{15, 1, 150, 350, false},
		fix{8, 0, 350, 400, false},
		fix{15, 1, 400, 600, false},
		fix{17, 1, 600, 700, false},
	)
}

func trialRightBounded(t *testing.T) *model.Trial {
	return newTrial(t, regionsX(t), nil,
		fix{0, 0, 0, 150, false},
		fix{3, 0, 150, 200, false},
		fix{14, 0, 200, 350, false},
		fix{12, 0, 350, 400, false},
		fix{3, 0, 400, 550, false},
		fix{11, 0, 550, 600, false},
		fix{21, 0, 650, 700, false},
		fix{11, 0, 750, 800, false},
	)
}

func trialExcluded(t *testing.T) *model.Trial {
	return newTrial(t, regionsX(t), nil,
		fix{1, 0, 0, 50, true},
		fix{2, 0, 50, 100, false},
		fix{22, 0, 110, 150, true},
		fix{13, 0, 200, 250, false},
		fix{1, 0, 300, 350, true},
	)
}

func region(t *testing.T, tr *model.Trial, kind RegionKind, n int) any {
	t.Helper()
	res, err := ComputeRegion(tr, kind, n)
	require.NoError(t, err)
	return res.Value
}
