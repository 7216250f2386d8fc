package measure

import "github.com/rcliao/sideeye/internal/model"

// regressed reports whether the move from prev to cur goes back in the
// text.
type regressed func(prev, cur *model.Fixation) bool

func charRegression(prev, cur *model.Fixation) bool {
	return cur.Position.Less(prev.Position)
}

func regionRegression(prev, cur *model.Fixation) bool {
	return cur.Region.Number < prev.Region.Number
}

func goBackTimeChar(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	return goBackTime(t, r.Number, charRegression)
}

func goBackTimeRegion(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	return goBackTime(t, r.Number, regionRegression)
}

// goBackTime measures from the start of reading region n until the end of
// the fixation preceding the first regression. A skipped region is timed
// from the end of the last fixation on an earlier region.
func goBackTime(t *model.Trial, n int, back regressed) (any, []*model.Fixation) {
	fixes := included(t)
	anchor, start := -1, 0

	if fp := firstPassFixations(t, n); len(fp) > 0 {
		for i, f := range fixes {
			if f == fp[0] {
				anchor = i
				break
			}
		}
		start = fp[0].Start
	} else {
		for i, f := range fixes {
			if f.Region.Number >= n {
				break
			}
			anchor = i
		}
		if anchor < 0 {
			return nil, nil
		}
		start = fixes[anchor].End
	}
	if anchor < 0 {
		return nil, nil
	}

	for i := anchor + 1; i < len(fixes); i++ {
		if back(fixes[i-1], fixes[i]) {
			return fixes[i-1].End - start, fixes[anchor:i]
		}
	}
	return nil, nil
}
