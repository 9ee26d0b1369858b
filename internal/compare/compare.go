package compare

import (
	"fmt"
	"sort"

	"moneyline/internal/book"
	"moneyline/internal/consensus"
	"moneyline/internal/resolve"
)

// Row places the sportsbook consensus for one outcome next to the
// prediction market's implied probability for the same outcome. Edge is
// consensus minus market; positive means the market sells the outcome
// below what the books collectively believe it is worth.
type Row struct {
	Outcome   string  `json:"outcome"`
	Consensus float64 `json:"consensus"`
	Market    float64 `json:"market"`
	Edge      float64 `json:"edge"`
}

// Comparison is the display-ready pairing for a two-outcome event. It
// carries the inputs side by side; no probability is recomputed here.
type Comparison struct {
	Rows [2]Row `json:"rows"`
}

// Pair merges a consensus result with the market's implied probabilities
// for the two outcomes, in the same A/B order. Purely positional; the
// edge column is the raw difference, value screening lives in
// FindValueBets.
func Pair(res consensus.Result, marketA, marketB float64) Comparison {
	return Comparison{Rows: [2]Row{
		newRow(res.A.Label, res.A.Prob, marketA),
		newRow(res.B.Label, res.B.Prob, marketB),
	}}
}

func newRow(outcome string, cons, market float64) Row {
	return Row{
		Outcome:   outcome,
		Consensus: cons,
		Market:    market,
		Edge:      cons - market,
	}
}

// Offer is one purchasable outcome: a token's best ask and the team it
// pays out on.
type Offer struct {
	Team      string
	TokenID   string
	BestAsk   float64
	AskVolume float64
}

// ValueBet is an offer priced below the sportsbook consensus by at least
// the caller's edge threshold.
type ValueBet struct {
	Team      string  `json:"team"`
	TokenID   string  `json:"token_id"`
	Consensus float64 `json:"consensus"`
	BestAsk   float64 `json:"best_ask"`
	Edge      float64 `json:"edge"`
}

// FindValueBets screens each offer against the consensus probability of
// the side it pays out on. The edge compares against the ask, not the
// midpoint; the ask is the price actually paid. Offers without a live ask
// or without a matching side are skipped. Results are sorted best edge
// first.
func FindValueBets(res consensus.Result, offers []Offer, minEdge float64) []ValueBet {
	bets := make([]ValueBet, 0, len(offers))
	for _, o := range offers {
		if o.BestAsk <= 0 || o.AskVolume <= 0 {
			continue
		}
		cons, ok := consensusFor(res, o.Team)
		if !ok {
			continue
		}
		edge := cons - o.BestAsk
		if edge < minEdge {
			continue
		}
		bets = append(bets, ValueBet{
			Team:      o.Team,
			TokenID:   o.TokenID,
			Consensus: cons,
			BestAsk:   o.BestAsk,
			Edge:      edge,
		})
	}
	sort.Slice(bets, func(i, j int) bool { return bets[i].Edge > bets[j].Edge })
	return bets
}

func consensusFor(res consensus.Result, team string) (float64, bool) {
	if team == "" {
		return 0, false
	}
	switch {
	case sameTeam(team, res.A.Label):
		return res.A.Prob, true
	case sameTeam(team, res.B.Label):
		return res.B.Prob, true
	default:
		return 0, false
	}
}

// sameTeam matches in both directions so a bare nickname on either side
// still pairs with the full name on the other.
func sameTeam(a, b string) bool {
	return resolve.TeamMatches(a, b) || resolve.TeamMatches(b, a)
}

// FormatConsensus renders the one-line away-at-home summary with both
// probabilities at six decimals.
func FormatConsensus(res consensus.Result) string {
	return fmt.Sprintf("%s @ %s | %s: %.6f to win $1 | %s: %.6f to win $1",
		res.A.Label, res.B.Label, res.A.Label, res.A.Prob, res.B.Label, res.B.Prob)
}

// StatsRow is one outcome token's orderbook summary, labeled for display.
type StatsRow struct {
	Market    string  `json:"market"`
	BestBid   float64 `json:"best_bid"`
	BidVolume float64 `json:"bid_volume"`
	BestAsk   float64 `json:"best_ask"`
	AskVolume float64 `json:"ask_volume"`
	Spread    float64 `json:"spread"`
}

// NewStatsRow labels an analyzed book with its market question and outcome.
func NewStatsRow(question, outcome string, s book.Stats) StatsRow {
	return StatsRow{
		Market:    MarketLabel(question, outcome),
		BestBid:   s.BestBid,
		BidVolume: s.BidVolume,
		BestAsk:   s.BestAsk,
		AskVolume: s.AskVolume,
		Spread:    s.Spread,
	}
}

// ImpliedProb reads a market probability off a book summary: the midpoint
// when both sides are quoted, the lone quoted side otherwise, zero for an
// empty book. CLOB prices are already probabilities.
func ImpliedProb(s book.Stats) float64 {
	switch {
	case s.BidVolume > 0 && s.AskVolume > 0:
		return (s.BestBid + s.BestAsk) / 2
	case s.AskVolume > 0:
		return s.BestAsk
	case s.BidVolume > 0:
		return s.BestBid
	default:
		return 0
	}
}

// MarketLabel trims the market question to 50 runes and appends the
// outcome name.
func MarketLabel(question, outcome string) string {
	r := []rune(question)
	if len(r) > 50 {
		r = r[:50]
	}
	return fmt.Sprintf("%s (%s)", string(r), outcome)
}
