package measure

import "github.com/rcliao/sideeye/internal/model"

// firstPassFixations returns the non-excluded fixations on region n made
// before the reader first moves past it. Fixations on earlier regions are
// skipped until the run starts; the run ends at the first fixation
// elsewhere. Off-text fixations count as region 0 here, so they end a run
// on any later region.
func firstPassFixations(t *model.Trial, n int) []*model.Fixation {
	var fp []*model.Fixation
	for _, f := range t.Fixations {
		region := 0
		if f.Region != nil {
			region = f.Region.Number
		}
		if region > n {
			break
		}
		if len(fp) > 0 && region != n {
			break
		}
		if region == n && f.Region != nil && !f.Excluded {
			fp = append(fp, f)
		}
	}
	return fp
}

// included returns the non-excluded fixations that have a region.
func included(t *model.Trial) []*model.Fixation {
	out := make([]*model.Fixation, 0, len(t.Fixations))
	for _, f := range t.Fixations {
		if !f.Excluded && f.Region != nil {
			out = append(out, f)
		}
	}
	return out
}

func sum(fixations []*model.Fixation) int {
	total := 0
	for _, f := range fixations {
		total += f.Duration()
	}
	return total
}

func skip(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	return len(firstPassFixations(t, r.Number)) == 0, nil
}

func firstPassRegressionsOut(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	fp := firstPassFixations(t, r.Number)
	if len(fp) == 0 {
		return nil, nil
	}
	last := fp[len(fp)-1]
	for _, f := range t.Fixations[last.Index+1:] {
		if f.Excluded || f.Region == nil {
			continue
		}
		return f.Region.Number < r.Number, nil
	}
	return false, nil
}

func firstPassRegressionsIn(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	fixes := included(t)
	fixated := false
	for i, f := range fixes {
		if f.Region.Number != r.Number {
			continue
		}
		fixated = true
		if i > 0 && fixes[i-1].Region.Number > r.Number {
			return true, nil
		}
	}
	if !fixated {
		return nil, nil
	}
	return false, nil
}

func firstFixationDuration(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	fp := firstPassFixations(t, r.Number)
	if len(fp) == 0 {
		return nil, nil
	}
	return fp[0].Duration(), fp[:1]
}

func singleFixationDuration(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	fp := firstPassFixations(t, r.Number)
	if len(fp) != 1 {
		return nil, nil
	}
	return fp[0].Duration(), fp
}

func firstPassTime(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	fp := firstPassFixations(t, r.Number)
	if len(fp) == 0 {
		return nil, nil
	}
	return sum(fp), fp
}

// goPast is the regression path duration: everything from entering the
// region until the reader first moves past it.
func goPast(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	if len(firstPassFixations(t, r.Number)) == 0 {
		return nil, nil
	}
	var path []*model.Fixation
	total := 0
	for _, f := range included(t) {
		if f.Region.Number > r.Number {
			break
		}
		if total != 0 || f.Region.Number == r.Number {
			path = append(path, f)
			total += f.Duration()
		}
	}
	return total, path
}

func totalTime(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	var on []*model.Fixation
	for _, f := range included(t) {
		if f.Region.Number == r.Number {
			on = append(on, f)
		}
	}
	return sum(on), on
}

func rightBoundedTime(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	if len(firstPassFixations(t, r.Number)) == 0 {
		return nil, nil
	}
	var on []*model.Fixation
	for _, f := range included(t) {
		if f.Region.Number > r.Number {
			break
		}
		if f.Region.Number == r.Number {
			on = append(on, f)
		}
	}
	return sum(on), on
}

func rereadTime(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	var on []*model.Fixation
	passed := false
	for _, f := range included(t) {
		if f.Region.Number > r.Number {
			passed = true
		}
		if passed && f.Region.Number == r.Number {
			on = append(on, f)
		}
	}
	return sum(on), on
}

func secondPass(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	var on []*model.Fixation
	entered, exited := false, false
	for _, f := range included(t) {
		if f.Region.Number == r.Number {
			entered = true
		}
		if entered && f.Region.Number != r.Number {
			exited = true
		}
		if entered && exited && f.Region.Number == r.Number {
			on = append(on, f)
		}
	}
	return sum(on), on
}

func spilloverTime(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	var next []*model.Fixation
	visited := false
	for _, f := range included(t) {
		if visited && f.Region.Number != r.Number+1 {
			visited = false
		}
		if f.Region.Number == r.Number {
			visited = true
		}
		if visited && f.Region.Number == r.Number+1 {
			next = append(next, f)
		}
	}
	total := sum(next)
	if total == 0 {
		return nil, nil
	}
	return total, next
}

func refixationTime(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	fp := firstPassFixations(t, r.Number)
	if len(fp) < 2 {
		return nil, nil
	}
	return sum(fp[1:]), fp[1:]
}

func landingPosition(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	fp := firstPassFixations(t, r.Number)
	if len(fp) == 0 {
		return nil, nil
	}
	return fp[0].Position.Sub(r.Start).String(), fp[:1]
}

func launchSite(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	fixes := included(t)
	for i, f := range fixes {
		if f.Region.Number > r.Number {
			break
		}
		if f.Region.Number != r.Number {
			continue
		}
		if i == 0 {
			break
		}
		prev := fixes[i-1]
		return prev.Position.Sub(r.Start).String(), []*model.Fixation{prev}
	}
	return nil, nil
}

func firstPassFixationCount(t *model.Trial, r *model.Region) (any, []*model.Fixation) {
	fp := firstPassFixations(t, r.Number)
	if len(fp) == 0 {
		return nil, nil
	}
	return len(fp), fp
}
