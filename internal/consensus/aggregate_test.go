package consensus

import (
	"errors"
	"math"
	"strings"
	"testing"

	"moneyline/internal/odds"
)

func american(source string, price float64) odds.Quote {
	return odds.Quote{Source: source, Format: odds.FormatAmerican, Price: price}
}

func dec(source string, price float64) odds.Quote {
	return odds.Quote{Source: source, Format: odds.FormatDecimal, Price: price}
}

func TestAggregateSingleSource(t *testing.T) {
	table := mkTable(t, map[string]float64{"pinnacle": 1})
	res, err := Aggregate(
		OutcomeQuotes{Label: "Lakers", Quotes: []odds.Quote{american("pinnacle", -150)}},
		OutcomeQuotes{Label: "Celtics", Quotes: []odds.Quote{american("pinnacle", 130)}},
		table,
	)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	pa := 0.6
	pb := 100.0 / 230.0
	if math.Abs(res.RawSum-(pa+pb)) > 1e-9 {
		t.Fatalf("raw_sum=%v want=%v", res.RawSum, pa+pb)
	}
	if math.Abs(res.A.Prob-pa/(pa+pb)) > 1e-9 {
		t.Fatalf("prob_a=%v want=%v", res.A.Prob, pa/(pa+pb))
	}
	if math.Abs(res.B.Prob-pb/(pa+pb)) > 1e-9 {
		t.Fatalf("prob_b=%v want=%v", res.B.Prob, pb/(pa+pb))
	}
	// Known figures for the -150/+130 line.
	if math.Abs(res.A.Prob-0.5798) > 1e-3 || math.Abs(res.B.Prob-0.4202) > 1e-3 {
		t.Fatalf("probs=%v/%v want about 0.5798/0.4202", res.A.Prob, res.B.Prob)
	}
	if math.Abs(res.A.Prob+res.B.Prob-1) > 1e-9 {
		t.Fatalf("probs sum to %v", res.A.Prob+res.B.Prob)
	}
	if len(res.A.Sources) != 1 || res.A.Sources[0].Weight != 1 {
		t.Fatalf("sources=%+v want single full-weight source", res.A.Sources)
	}
}

func TestAggregateWeightedPair(t *testing.T) {
	table := mkTable(t, map[string]float64{"alpha": 0.5, "beta": 0.5})
	quotesA := []odds.Quote{dec("alpha", 1/0.60), dec("beta", 1.5625)}
	quotesB := []odds.Quote{dec("alpha", 1/0.40), dec("beta", 1/0.36)}

	res, err := Aggregate(
		OutcomeQuotes{Label: "A", Quotes: quotesA},
		OutcomeQuotes{Label: "B", Quotes: quotesB},
		table,
	)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if math.Abs(res.A.Raw-0.62) > 1e-9 {
		t.Fatalf("weighted raw=%v want=0.62", res.A.Raw)
	}

	// Reversing quote order must not move any figure.
	rev, err := Aggregate(
		OutcomeQuotes{Label: "A", Quotes: []odds.Quote{quotesA[1], quotesA[0]}},
		OutcomeQuotes{Label: "B", Quotes: []odds.Quote{quotesB[1], quotesB[0]}},
		table,
	)
	if err != nil {
		t.Fatalf("aggregate reversed: %v", err)
	}
	if rev.A.Prob != res.A.Prob || rev.B.Prob != res.B.Prob || rev.RawSum != res.RawSum {
		t.Fatalf("order changed result: %v vs %v", rev, res)
	}
}

func TestAggregateDropsBadSourcePerOutcome(t *testing.T) {
	table := mkTable(t, map[string]float64{"pinnacle": 0.5, "draftkings": 0.5})
	res, err := Aggregate(
		OutcomeQuotes{Label: "A", Quotes: []odds.Quote{american("pinnacle", -150), american("draftkings", 0)}},
		OutcomeQuotes{Label: "B", Quotes: []odds.Quote{american("pinnacle", 130), american("draftkings", 120)}},
		table,
	)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(res.A.Sources) != 1 || res.A.Sources[0].Source != "pinnacle" {
		t.Fatalf("sources A=%+v want pinnacle only", res.A.Sources)
	}
	if res.A.Sources[0].Weight != 1 {
		t.Fatalf("pinnacle weight=%v want=1 after renormalization", res.A.Sources[0].Weight)
	}
	if len(res.A.Excluded) != 1 || res.A.Excluded[0].Source != "draftkings" {
		t.Fatalf("excluded A=%+v want draftkings", res.A.Excluded)
	}
	if !strings.Contains(res.A.Excluded[0].Reason, "invalid price") {
		t.Fatalf("exclusion reason=%q", res.A.Excluded[0].Reason)
	}
	// The source dropped on A still counts on B with its half weight.
	if len(res.B.Sources) != 2 {
		t.Fatalf("sources B=%+v want two", res.B.Sources)
	}
	for _, sp := range res.B.Sources {
		if sp.Weight != 0.5 {
			t.Fatalf("source %s weight=%v want=0.5", sp.Source, sp.Weight)
		}
	}
	if math.Abs(res.A.Prob+res.B.Prob-1) > 1e-9 {
		t.Fatalf("probs sum to %v", res.A.Prob+res.B.Prob)
	}
}

func TestAggregateNoQuotes(t *testing.T) {
	table := mkTable(t, map[string]float64{"pinnacle": 1})
	_, err := Aggregate(
		OutcomeQuotes{Label: "A", Quotes: []odds.Quote{american("pinnacle", -150)}},
		OutcomeQuotes{Label: "B", Quotes: []odds.Quote{american("pinnacle", 0)}},
		table,
	)
	if !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("err=%v want ErrNoQuotes", err)
	}
	if err == nil || !strings.Contains(err.Error(), "outcome B") {
		t.Fatalf("err=%v want outcome label in message", err)
	}

	_, err = Aggregate(
		OutcomeQuotes{Label: "A"},
		OutcomeQuotes{Label: "B", Quotes: []odds.Quote{american("pinnacle", 130)}},
		table,
	)
	if !errors.Is(err, ErrNoQuotes) {
		t.Fatalf("empty side: err=%v want ErrNoQuotes", err)
	}
}

func TestAggregateDuplicateSourceKeepsFirst(t *testing.T) {
	table := mkTable(t, map[string]float64{"pinnacle": 1})
	res, err := Aggregate(
		OutcomeQuotes{Label: "A", Quotes: []odds.Quote{dec("pinnacle", 2), dec("pinnacle", 4)}},
		OutcomeQuotes{Label: "B", Quotes: []odds.Quote{dec("pinnacle", 2)}},
		table,
	)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if len(res.A.Sources) != 1 || res.A.Sources[0].Prob != 0.5 {
		t.Fatalf("sources=%+v want first quote kept", res.A.Sources)
	}
	if len(res.A.Excluded) != 1 || res.A.Excluded[0].Reason != "duplicate source" {
		t.Fatalf("excluded=%+v want duplicate exclusion", res.A.Excluded)
	}
}

func TestAggregateAlwaysSumsToOne(t *testing.T) {
	table := mkTable(t, map[string]float64{"pinnacle": 0.5, "draftkings": 0.3, "fanduel": 0.2})
	cases := []struct {
		a, b []odds.Quote
	}{
		// Near-zero margin two-sided line.
		{[]odds.Quote{dec("pinnacle", 2.0)}, []odds.Quote{dec("pinnacle", 2.0)}},
		// Heavy margin on both sides.
		{[]odds.Quote{american("pinnacle", -200)}, []odds.Quote{american("pinnacle", 110)}},
		// Mixed formats, differing availability per outcome.
		{
			[]odds.Quote{american("pinnacle", -150), dec("draftkings", 1.6)},
			[]odds.Quote{dec("fanduel", 2.4)},
		},
		{
			[]odds.Quote{american("pinnacle", -500), american("draftkings", -480), american("fanduel", -510)},
			[]odds.Quote{american("pinnacle", 400), american("draftkings", 390)},
		},
	}
	for i, tc := range cases {
		res, err := Aggregate(OutcomeQuotes{Label: "A", Quotes: tc.a}, OutcomeQuotes{Label: "B", Quotes: tc.b}, table)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if math.Abs(res.A.Prob+res.B.Prob-1) > 1e-9 {
			t.Fatalf("case %d: probs sum to %v", i, res.A.Prob+res.B.Prob)
		}
		if !(res.A.Prob > 0 && res.A.Prob < 1) || !(res.B.Prob > 0 && res.B.Prob < 1) {
			t.Fatalf("case %d: probs %v/%v outside (0,1)", i, res.A.Prob, res.B.Prob)
		}
	}
}
