package consensus

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights reports a weight table rejected at construction.
var ErrInvalidWeights = errors.New("invalid weight configuration")

// ErrNoQuotes reports that an outcome has zero usable sources left.
var ErrNoQuotes = errors.New("no quotes available")

// WeightTable holds the configured weight of every known odds source.
// Weights are validated once here, never re-checked during aggregation.
type WeightTable struct {
	weights map[string]float64
}

// NewWeightTable validates and freezes a source weight configuration.
// Every weight must be non-negative and the table must sum to 1.
func NewWeightTable(weights map[string]float64) (WeightTable, error) {
	sum := 0.0
	for source, w := range weights {
		if w < 0 || math.IsNaN(w) {
			return WeightTable{}, fmt.Errorf("%w: source %s has weight %g", ErrInvalidWeights, source, w)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		return WeightTable{}, fmt.Errorf("%w: weights sum to %g, want 1", ErrInvalidWeights, sum)
	}
	copied := make(map[string]float64, len(weights))
	for source, w := range weights {
		copied[source] = w
	}
	return WeightTable{weights: copied}, nil
}

// Weight returns the configured weight of a source, zero when unknown.
func (t WeightTable) Weight(source string) float64 {
	return t.weights[source]
}

// Resolve distributes the full unit of weight across the sources actually
// present. Weight configured for absent sources is redistributed to the
// present ones in proportion to their own configured weights, so a present
// source ends up with configured/sum(configured over present). A lone
// present source takes the whole unit; present sources carrying no
// configured weight split evenly when nothing else does.
// The result always sums to 1 within 1e-9.
func (t WeightTable) Resolve(present []string) (map[string]float64, error) {
	uniq := make([]string, 0, len(present))
	seen := make(map[string]bool, len(present))
	for _, source := range present {
		if seen[source] {
			continue
		}
		seen[source] = true
		uniq = append(uniq, source)
	}
	if len(uniq) == 0 {
		return nil, fmt.Errorf("%w: no sources present", ErrNoQuotes)
	}
	if len(uniq) == 1 {
		return map[string]float64{uniq[0]: 1}, nil
	}
	total := 0.0
	for _, source := range uniq {
		total += t.weights[source]
	}
	eff := make(map[string]float64, len(uniq))
	if total <= 0 {
		share := 1 / float64(len(uniq))
		for _, source := range uniq {
			eff[source] = share
		}
		return eff, nil
	}
	for _, source := range uniq {
		eff[source] = t.weights[source] / total
	}
	return eff, nil
}
