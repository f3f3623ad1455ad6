package features

import "price-feature-lab/internal/domain"

// CorrelationFeatures appends rolling Pearson correlations, for every window:
// between primary and each feature (CorrName(primary, f, w)), and between
// every unordered pair of features in list order (CorrName(a, b, w)).
func CorrelationFeatures(t *domain.Table, primary string, features []string, windows []int) (*domain.Table, error) {
	if primary == "" {
		return nil, configErrorf("primary series must not be empty")
	}
	feats, err := Names("correlation features", features...)
	if err != nil {
		return nil, err
	}
	ws, err := Windows(windows)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(t, append([]string{primary}, feats...)...); err != nil {
		return nil, err
	}

	out := t.Clone()
	p, _ := t.Column(primary)
	for _, f := range feats {
		x, _ := t.Column(f)
		for _, w := range ws {
			out.Set(CorrName(primary, f, w), rollingCorr(p, x, w))
		}
	}

	for i := 0; i < len(feats); i++ {
		a, _ := t.Column(feats[i])
		for j := i + 1; j < len(feats); j++ {
			b, _ := t.Column(feats[j])
			for _, w := range ws {
				out.Set(CorrName(feats[i], feats[j], w), rollingCorr(a, b, w))
			}
		}
	}
	return out, nil
}
