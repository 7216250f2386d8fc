package measure

import "github.com/rcliao/sideeye/internal/model"

func firstRegression(t *model.Trial) *model.Saccade {
	for _, s := range t.Saccades {
		if s.Regression {
			return s
		}
	}
	return nil
}

func locationFirstRegression(t *model.Trial) any {
	if s := firstRegression(t); s != nil {
		return s.Start.Position.String()
	}
	return nil
}

func latencyFirstRegression(t *model.Trial) any {
	if s := firstRegression(t); s != nil {
		return s.Start.End
	}
	return nil
}

func fixationCount(t *model.Trial) any {
	return t.FixationCount()
}

// percentRegressions is undefined without saccades, unlike the saccade
// averages which fall back to zero.
func percentRegressions(t *model.Trial) any {
	if len(t.Saccades) == 0 {
		return nil
	}
	n := 0
	for _, s := range t.Saccades {
		if s.Regression {
			n++
		}
	}
	return float64(n) / float64(len(t.Saccades))
}

func trialTotalTime(t *model.Trial) any {
	if ms, ok := t.TotalTime(); ok {
		return ms
	}
	return nil
}

func averageForwardSaccade(t *model.Trial) any {
	return averageSaccade(t, false)
}

func averageBackwardSaccade(t *model.Trial) any {
	return averageSaccade(t, true)
}

// averageSaccade is the mean duration of forward or backward saccades, or
// the integer 0 when there are none.
func averageSaccade(t *model.Trial, regression bool) any {
	total, n := 0, 0
	for _, s := range t.Saccades {
		if s.Regression == regression {
			total += s.Duration
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}
