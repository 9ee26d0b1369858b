package consensus

import (
	"fmt"
	"sort"

	"moneyline/internal/odds"
)

// SourceProb is one source's contribution to an outcome.
type SourceProb struct {
	Source string  `json:"source"`
	Prob   float64 `json:"prob"`
	Weight float64 `json:"weight"`
}

// Exclusion records a source dropped during filtering and why.
type Exclusion struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// OutcomeQuotes carries every raw quote collected for one outcome label.
type OutcomeQuotes struct {
	Label  string
	Quotes []odds.Quote
}

// OutcomeConsensus is the aggregated view of a single outcome. Raw is the
// weighted probability before the vig is removed, Prob after.
type OutcomeConsensus struct {
	Label    string       `json:"label"`
	Prob     float64      `json:"prob"`
	Raw      float64      `json:"raw"`
	Sources  []SourceProb `json:"sources"`
	Excluded []Exclusion  `json:"excluded,omitempty"`
}

// Result pairs the two outcome consensuses of one event.
// Prob of A and B always sums to 1; RawSum records the aggregate margin
// that was stripped to get there.
type Result struct {
	A      OutcomeConsensus `json:"a"`
	B      OutcomeConsensus `json:"b"`
	RawSum float64          `json:"raw_sum"`
}

// Filter normalizes every quote for one outcome and drops the ones that
// fail, keeping at most one quote per source (the first seen). Dropped
// sources come back as exclusions with the reason attached; the kept
// collection may be empty and is checked once by the caller.
func Filter(quotes []odds.Quote) ([]SourceProb, []Exclusion) {
	kept := make([]SourceProb, 0, len(quotes))
	var excluded []Exclusion
	seen := make(map[string]bool, len(quotes))
	for _, q := range quotes {
		if seen[q.Source] {
			excluded = append(excluded, Exclusion{Source: q.Source, Reason: "duplicate source"})
			continue
		}
		seen[q.Source] = true
		p, err := odds.Normalize(q)
		if err != nil {
			excluded = append(excluded, Exclusion{Source: q.Source, Reason: err.Error()})
			continue
		}
		kept = append(kept, SourceProb{Source: q.Source, Prob: p})
	}
	return kept, excluded
}

// Combine resolves effective weights over the present sources and folds
// their probabilities into one weighted figure. Summation runs in
// source-name order so the result does not depend on caller ordering.
func Combine(probs []SourceProb, table WeightTable) (float64, []SourceProb, error) {
	if len(probs) == 0 {
		return 0, nil, ErrNoQuotes
	}
	out := make([]SourceProb, len(probs))
	copy(out, probs)
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	present := make([]string, 0, len(out))
	for _, sp := range out {
		present = append(present, sp.Source)
	}
	eff, err := table.Resolve(present)
	if err != nil {
		return 0, nil, err
	}
	weighted := 0.0
	for i := range out {
		out[i].Weight = eff[out[i].Source]
		weighted += out[i].Weight * out[i].Prob
	}
	return weighted, out, nil
}

// Aggregate runs the full consensus pipeline for a two-outcome event:
// filter and normalize the raw quotes, resolve weights per outcome,
// combine, then strip the aggregate vig so the two probabilities sum to
// exactly 1. Weights resolve per outcome independently because a source
// rejected on one side may still quote the other. Fails with ErrNoQuotes
// when an outcome loses every source.
func Aggregate(a, b OutcomeQuotes, table WeightTable) (Result, error) {
	keptA, exclA := Filter(a.Quotes)
	keptB, exclB := Filter(b.Quotes)
	rawA, srcA, err := Combine(keptA, table)
	if err != nil {
		return Result{}, fmt.Errorf("outcome %s: %w", a.Label, err)
	}
	rawB, srcB, err := Combine(keptB, table)
	if err != nil {
		return Result{}, fmt.Errorf("outcome %s: %w", b.Label, err)
	}
	rawSum := rawA + rawB
	return Result{
		A: OutcomeConsensus{
			Label:    a.Label,
			Prob:     rawA / rawSum,
			Raw:      rawA,
			Sources:  srcA,
			Excluded: exclA,
		},
		B: OutcomeConsensus{
			Label:    b.Label,
			Prob:     rawB / rawSum,
			Raw:      rawB,
			Sources:  srcB,
			Excluded: exclB,
		},
		RawSum: rawSum,
	}, nil
}
