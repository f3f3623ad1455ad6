package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"

	"price-feature-lab/internal/domain"
)

// CanonicalJSON encodes v as compact JSON. Map keys are sorted by
// encoding/json, so equal values encode to equal bytes.
func CanonicalJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode canonical json: %w", err)
	}
	return string(data), nil
}

// ComputeDataVersion computes a deterministic data version using SHA256.
// Formula: SHA256(config | columns | date|column|value for every cell)
// Cells are visited in date order then column order; undefined values hash as NaN.
// Returns hex-encoded hash (64 characters).
func ComputeDataVersion(canonicalConfig string, t *domain.Table) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n", canonicalConfig)

	columns := t.Columns()
	for _, c := range columns {
		fmt.Fprintf(h, "%s|", c)
	}
	h.Write([]byte{'\n'})

	for i := 0; i < t.Len(); i++ {
		date := t.Date(i).Format(domain.DateLayout)
		for _, c := range columns {
			fmt.Fprintf(h, "%s|%s|%s\n", date, c, strconv.FormatFloat(t.Value(c, i), 'g', -1, 64))
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}
