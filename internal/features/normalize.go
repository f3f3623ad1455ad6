package features

import (
	"sort"

	"price-feature-lab/internal/domain"
)

// Names normalizes a "one or many" column argument into a non-empty list.
// arg names the argument in error messages.
func Names(arg string, names ...string) ([]string, error) {
	if len(names) == 0 {
		return nil, configErrorf("%s must not be an empty list", arg)
	}
	out := make([]string, len(names))
	for i, n := range names {
		if n == "" {
			return nil, configErrorf("%s must not contain an empty name", arg)
		}
		out[i] = n
	}
	return out, nil
}

// Windows validates a window set: non-empty, every length positive.
func Windows(windows []int) ([]int, error) {
	return positiveInts("windows", windows)
}

// LagSet validates a lag set: non-empty, every offset positive.
func LagSet(lags []int) ([]int, error) {
	return positiveInts("lags", lags)
}

func positiveInts(arg string, values []int) ([]int, error) {
	if len(values) == 0 {
		return nil, configErrorf("%s must not be an empty list", arg)
	}
	out := make([]int, len(values))
	for i, v := range values {
		if v <= 0 {
			return nil, configErrorf("%s must be positive, got %d", arg, v)
		}
		out[i] = v
	}
	return out, nil
}

// ShortLong returns the minimum and maximum of a window set and fails when it
// holds fewer than two distinct lengths.
func ShortLong(windows []int) (short, long int, err error) {
	if len(windows) == 0 {
		return 0, 0, configErrorf("windows must not be an empty list")
	}
	short, long = windows[0], windows[0]
	for _, w := range windows[1:] {
		if w < short {
			short = w
		}
		if w > long {
			long = w
		}
	}
	if short == long {
		return 0, 0, configErrorf("short/long comparison needs at least 2 distinct windows, got %v", windows)
	}
	return short, long, nil
}

// MaxInt returns the largest value of a non-empty slice.
func MaxInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func distinctCount(values []int) int {
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// requireColumns fails with ErrInvalidConfig listing every absent column.
func requireColumns(t *domain.Table, names ...string) error {
	var missing []string
	for _, n := range names {
		if !t.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return configErrorf("columns not found: %v", missing)
	}
	return nil
}
