package storage

import (
	"math"
	"time"

	"price-feature-lab/internal/domain"
)

// ObservationKey identifies an observation.
type ObservationKey struct {
	SeriesID string
	Date     time.Time
}

// FeatureValueKey identifies a feature value.
type FeatureValueKey struct {
	RunID  string
	Date   time.Time
	Column string
}

// ValidateObservations checks a batch for missing fields, undefined values
// and intra-batch duplicates. Returns ErrInvalidInput or ErrDuplicateKey.
func ValidateObservations(observations []*domain.Observation) error {
	seen := make(map[ObservationKey]struct{}, len(observations))
	for _, o := range observations {
		if o == nil || o.SeriesID == "" || o.Date.IsZero() || math.IsNaN(o.Value) {
			return ErrInvalidInput
		}
		k := ObservationKey{o.SeriesID, o.Date.UTC()}
		if _, dup := seen[k]; dup {
			return ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}
	return nil
}

// ValidateFeatureValues checks a batch for missing fields, undefined values
// and intra-batch duplicates. Returns ErrInvalidInput or ErrDuplicateKey.
func ValidateFeatureValues(values []*domain.FeatureValue) error {
	seen := make(map[FeatureValueKey]struct{}, len(values))
	for _, v := range values {
		if v == nil || v.RunID == "" || v.Column == "" || v.Date.IsZero() || math.IsNaN(v.Value) {
			return ErrInvalidInput
		}
		k := FeatureValueKey{v.RunID, v.Date.UTC(), v.Column}
		if _, dup := seen[k]; dup {
			return ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}
	return nil
}

// RunIDs returns the distinct run ids of a batch in first-seen order.
func RunIDs(values []*domain.FeatureValue) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		if _, ok := seen[v.RunID]; !ok {
			seen[v.RunID] = struct{}{}
			out = append(out, v.RunID)
		}
	}
	return out
}
