package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Rolling and exponentially weighted primitives over NaN-aware series.
// A rolling window at row i covers rows [i-w+1, i]; undefined values inside
// the window do not count toward the minimum number of observations.

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// shift moves x forward by k rows: out[i] = x[i-k], NaN for i < k.
func shift(x []float64, k int) []float64 {
	out := nanSeries(len(x))
	for i := k; i < len(x); i++ {
		out[i] = x[i-k]
	}
	return out
}

// diff returns x[i] - x[i-1], NaN at row 0.
func diff(x []float64) []float64 {
	out := nanSeries(len(x))
	for i := 1; i < len(x); i++ {
		out[i] = x[i] - x[i-1]
	}
	return out
}

// pctChange returns x[i]/x[i-1] - 1, NaN at row 0.
func pctChange(x []float64) []float64 {
	out := nanSeries(len(x))
	for i := 1; i < len(x); i++ {
		out[i] = x[i]/x[i-1] - 1
	}
	return out
}

// rollingApply evaluates fn over the defined values of each trailing window of
// length w, producing NaN when fewer than minPeriods values are defined.
func rollingApply(x []float64, w, minPeriods int, fn func(window []float64) float64) []float64 {
	out := nanSeries(len(x))
	buf := make([]float64, 0, w)
	for i := range x {
		start := i - w + 1
		if start < 0 {
			start = 0
		}
		buf = buf[:0]
		for _, v := range x[start : i+1] {
			if !math.IsNaN(v) {
				buf = append(buf, v)
			}
		}
		if len(buf) < minPeriods || len(buf) == 0 {
			continue
		}
		out[i] = fn(buf)
	}
	return out
}

func rollingMean(x []float64, w int) []float64 {
	return rollingApply(x, w, w, func(win []float64) float64 {
		return stat.Mean(win, nil)
	})
}

func rollingSum(x []float64, w int) []float64 {
	return rollingApply(x, w, w, floats.Sum)
}

// rollingStd is the sample (n-1) standard deviation.
func rollingStd(x []float64, w int) []float64 {
	return rollingApply(x, w, w, func(win []float64) float64 {
		if len(win) < 2 {
			return math.NaN()
		}
		return stat.StdDev(win, nil)
	})
}

// rollingQuantile uses linear interpolation between the closest ranks,
// position q*(n-1) in the sorted window.
func rollingQuantile(x []float64, w, minPeriods int, q float64) []float64 {
	sorted := make([]float64, 0, w)
	return rollingApply(x, w, minPeriods, func(win []float64) float64 {
		sorted = append(sorted[:0], win...)
		sort.Float64s(sorted)
		pos := q * float64(len(sorted)-1)
		lo := int(math.Floor(pos))
		hi := int(math.Ceil(pos))
		if lo == hi {
			return sorted[lo]
		}
		frac := pos - float64(lo)
		return sorted[lo] + (sorted[hi]-sorted[lo])*frac
	})
}

// rollingCorr is the Pearson correlation of x and y over trailing windows of
// length w, using only rows where both are defined. Windows with zero
// variance in either series are undefined.
func rollingCorr(x, y []float64, w int) []float64 {
	out := nanSeries(len(x))
	xs := make([]float64, 0, w)
	ys := make([]float64, 0, w)
	for i := range x {
		start := i - w + 1
		if start < 0 {
			continue
		}
		xs, ys = xs[:0], ys[:0]
		for j := start; j <= i; j++ {
			if math.IsNaN(x[j]) || math.IsNaN(y[j]) {
				continue
			}
			xs = append(xs, x[j])
			ys = append(ys, y[j])
		}
		if len(xs) < w || len(xs) < 2 {
			continue
		}
		if stat.Variance(xs, nil) <= 0 || stat.Variance(ys, nil) <= 0 {
			continue
		}
		out[i] = stat.Correlation(xs, ys, nil)
	}
	return out
}

// ewmAlpha converts a span into the smoothing factor 2/(span+1).
func ewmAlpha(span int) float64 {
	return 2 / (float64(span) + 1)
}

// ewmMean is the bias-adjusted exponentially weighted mean with weights
// (1-alpha)^k on the observation k rows back. Undefined values keep their
// position in the decay but contribute no weight.
func ewmMean(x []float64, span int) []float64 {
	out := nanSeries(len(x))
	decay := 1 - ewmAlpha(span)

	weighted := math.NaN()
	oldWt := 1.0
	for i, cur := range x {
		isObs := !math.IsNaN(cur)
		if !math.IsNaN(weighted) {
			oldWt *= decay
			if isObs {
				if weighted != cur {
					weighted = (oldWt*weighted + cur) / (oldWt + 1)
				}
				oldWt++
			}
		} else if isObs {
			weighted = cur
		}
		out[i] = weighted
	}
	return out
}

// ewmStd is the bias-corrected exponentially weighted standard deviation,
// undefined until minPeriods observations have been seen.
func ewmStd(x []float64, span, minPeriods int) []float64 {
	out := nanSeries(len(x))
	if minPeriods < 1 {
		minPeriods = 1
	}
	decay := 1 - ewmAlpha(span)

	mean := math.NaN()
	cov := 0.0
	sumWt, sumWt2, oldWt := 1.0, 1.0, 1.0
	nobs := 0
	for i, cur := range x {
		isObs := !math.IsNaN(cur)
		if isObs {
			nobs++
		}
		if !math.IsNaN(mean) {
			sumWt *= decay
			sumWt2 *= decay * decay
			oldWt *= decay
			if isObs {
				oldMean := mean
				if mean != cur {
					mean = (oldWt*oldMean + cur) / (oldWt + 1)
				}
				d := oldMean - mean
				cov = (oldWt*(cov+d*d) + (cur-mean)*(cur-mean)) / (oldWt + 1)
				sumWt++
				sumWt2++
				oldWt++
			}
		} else if isObs {
			mean = cur
		}

		if nobs < minPeriods {
			continue
		}
		num := sumWt * sumWt
		den := num - sumWt2
		if den <= 0 {
			continue
		}
		v := num / den * cov
		if v < 0 {
			v = 0
		}
		out[i] = math.Sqrt(v)
	}
	return out
}

// flag converts a predicate over row i into a 0/1 series. Undefined inputs
// make the predicate false.
func flag(n int, pred func(i int) bool) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if pred(i) {
			out[i] = 1
		}
	}
	return out
}
