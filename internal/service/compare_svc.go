package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"moneyline/internal/compare"
	"moneyline/internal/consensus"
	"moneyline/internal/resolve"
)

// CompareService lines the sportsbook consensus up against the prediction
// market's own prices for the same game. It recomputes both sides so the
// comparison never mixes a fresh consensus with a stale book.
type CompareService struct {
	Consensus *ConsensusService
	Market    *MarketService
	Logger    *zap.Logger
	MinEdge   float64
}

// CompareOutput carries both inputs plus the merged rows and the asks
// that passed the value screen.
type CompareOutput struct {
	GameID     string             `json:"game_id"`
	AwayTeam   string             `json:"away_team"`
	HomeTeam   string             `json:"home_team"`
	Summary    string             `json:"summary"`
	Consensus  consensus.Result   `json:"consensus"`
	Books      []BookStats        `json:"books"`
	Comparison compare.Comparison `json:"comparison"`
	ValueBets  []compare.ValueBet `json:"value_bets"`
	ComputedAt time.Time          `json:"computed_at"`
}

// Compare computes consensus and market stats for the queried game at the
// configured edge threshold.
func (s *CompareService) Compare(ctx context.Context, q GameQuery) (*CompareOutput, error) {
	return s.CompareWithMinEdge(ctx, q, s.MinEdge)
}

// CompareWithMinEdge pairs the two sides per outcome and screens the asks
// for value at the given threshold. Outcomes the book does not quote
// compare against a zero market price and can never screen as value.
func (s *CompareService) CompareWithMinEdge(ctx context.Context, q GameQuery, minEdge float64) (*CompareOutput, error) {
	cons, err := s.Consensus.Compute(ctx, q)
	if err != nil {
		return nil, err
	}
	stats, err := s.Market.Stats(ctx, q)
	if err != nil {
		return nil, err
	}

	marketAway, marketHome := marketProbs(stats.Books, cons.AwayTeam, cons.HomeTeam)
	bets := compare.FindValueBets(cons.Result, offersFromBooks(stats.Books), minEdge)
	out := &CompareOutput{
		GameID:     cons.GameID,
		AwayTeam:   cons.AwayTeam,
		HomeTeam:   cons.HomeTeam,
		Summary:    cons.Summary,
		Consensus:  cons.Result,
		Books:      stats.Books,
		Comparison: compare.Pair(cons.Result, marketAway, marketHome),
		ValueBets:  bets,
		ComputedAt: cons.ComputedAt,
	}
	if s.Logger != nil {
		s.Logger.Info("comparison built",
			zap.String("game_id", out.GameID),
			zap.Float64("away_edge", out.Comparison.Rows[0].Edge),
			zap.Float64("home_edge", out.Comparison.Rows[1].Edge),
			zap.Int("value_bets", len(bets)))
	}
	return out, nil
}

// offersFromBooks flattens analyzed books into screenable asks. Tokens the
// resolver could not pin to a team fall back to their outcome label.
func offersFromBooks(books []BookStats) []compare.Offer {
	offers := make([]compare.Offer, 0, len(books))
	for _, bs := range books {
		team := bs.Team
		if team == "" {
			team = bs.Outcome
		}
		offers = append(offers, compare.Offer{
			Team:      team,
			TokenID:   bs.TokenID,
			BestAsk:   bs.Stats.BestAsk,
			AskVolume: bs.Stats.AskVolume,
		})
	}
	return offers
}

// marketProbs maps analyzed books onto the away and home sides by team.
// Tokens that matched neither team contribute nothing.
func marketProbs(books []BookStats, away, home string) (float64, float64) {
	var probAway, probHome float64
	for _, bs := range books {
		if bs.Team == "" {
			continue
		}
		switch {
		case resolve.TeamMatches(bs.Team, away):
			probAway = compare.ImpliedProb(bs.Stats)
		case resolve.TeamMatches(bs.Team, home):
			probHome = compare.ImpliedProb(bs.Stats)
		}
	}
	return probAway, probHome
}
