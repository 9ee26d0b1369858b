package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"moneyline/internal/client/oddsapi"
	"moneyline/internal/compare"
	"moneyline/internal/consensus"
	"moneyline/internal/models"
	"moneyline/internal/odds"
	"moneyline/internal/repository"
	"moneyline/internal/resolve"
)

// ConsensusService pulls sportsbook prices for one game and reduces them
// to a de-vigged consensus probability per side. Results are returned and
// written to consensus_latest in the same call.
type ConsensusService struct {
	Store    repository.Repository
	Resolver *ResolverService
	OddsAPI  *oddsapi.Client
	Weights  consensus.WeightTable
	Logger   *zap.Logger
	Opts     ConsensusOptions
}

type ConsensusOptions struct {
	Sports     []string
	Regions    string
	Markets    string
	OddsFormat string
}

// ConsensusOutput is one computed consensus, ready for rendering.
type ConsensusOutput struct {
	GameID     string           `json:"game_id"`
	Sport      string           `json:"sport"`
	AwayTeam   string           `json:"away_team"`
	HomeTeam   string           `json:"home_team"`
	Summary    string           `json:"summary"`
	Result     consensus.Result `json:"result"`
	ComputedAt time.Time        `json:"computed_at"`
}

// Compute fetches fresh odds for the queried game and aggregates them.
// When the game is already stored, only its own sport is queried.
func (s *ConsensusService) Compute(ctx context.Context, q GameQuery) (*ConsensusOutput, error) {
	if s.OddsAPI == nil {
		return nil, fmt.Errorf("odds api client is nil")
	}
	stored, err := s.Resolver.FindStored(ctx, q)
	if err != nil {
		return nil, err
	}
	sports := s.Opts.Sports
	if stored != nil && stored.Sport != "" {
		sports = []string{stored.Sport}
	}

	ev, sport, err := s.findOddsEvent(ctx, sports, q)
	if err != nil {
		return nil, err
	}
	out, err := s.computeFromEvent(ctx, ev, sport, q.Date.Location())
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConsensusService) findOddsEvent(ctx context.Context, sports []string, q GameQuery) (*oddsapi.Event, string, error) {
	params := oddsapi.ListOddsParams{
		Regions:    s.Opts.Regions,
		Markets:    s.Opts.Markets,
		OddsFormat: s.Opts.OddsFormat,
	}
	for _, sport := range sports {
		events, err := s.OddsAPI.ListOdds(ctx, sport, params)
		if err != nil {
			return nil, "", err
		}
		ev, err := resolve.FindOddsEvent(events, q.Away, q.Home, q.Date)
		if errors.Is(err, resolve.ErrEventNotFound) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return ev, sport, nil
	}
	return nil, "", fmt.Errorf("%w: %s @ %s on %s", resolve.ErrEventNotFound, q.Away, q.Home, q.dateString())
}

// computeFromEvent aggregates one already-fetched event and persists the
// result. The scan path calls it directly to avoid refetching.
func (s *ConsensusService) computeFromEvent(ctx context.Context, ev *oddsapi.Event, sport string, loc *time.Location) (*ConsensusOutput, error) {
	format, err := odds.ParseFormat(s.Opts.OddsFormat)
	if err != nil {
		format = odds.FormatDecimal
	}
	awayQuotes, homeQuotes := quotesFromEvent(ev, format)
	res, err := consensus.Aggregate(
		consensus.OutcomeQuotes{Label: ev.AwayTeam, Quotes: awayQuotes},
		consensus.OutcomeQuotes{Label: ev.HomeTeam, Quotes: homeQuotes},
		s.Weights,
	)
	if err != nil {
		return nil, fmt.Errorf("%s @ %s: %w", ev.AwayTeam, ev.HomeTeam, err)
	}

	now := time.Now().UTC()
	out := &ConsensusOutput{
		GameID:     ev.ID,
		Sport:      sport,
		AwayTeam:   ev.AwayTeam,
		HomeTeam:   ev.HomeTeam,
		Summary:    compare.FormatConsensus(res),
		Result:     res,
		ComputedAt: now,
	}
	if err := s.persist(ctx, ev, sport, loc, out); err != nil {
		return nil, err
	}
	return out, nil
}

// persist refreshes the game row and rewrites its consensus row. Gamma
// link fields on an existing game are kept as-is.
func (s *ConsensusService) persist(ctx context.Context, ev *oddsapi.Event, sport string, loc *time.Location, out *ConsensusOutput) error {
	game, err := s.Store.GetGame(ctx, ev.ID)
	if err != nil {
		return err
	}
	fresh := gameFromOddsEvent(ev, sport, loc)
	if game == nil {
		game = fresh
	} else {
		game.Sport = fresh.Sport
		game.AwayTeam = fresh.AwayTeam
		game.HomeTeam = fresh.HomeTeam
		game.GameDate = fresh.GameDate
		game.CommenceTime = fresh.CommenceTime
		game.LastSeenAt = fresh.LastSeenAt
		game.UpdatedAt = fresh.UpdatedAt
	}
	if err := s.Store.UpsertGame(ctx, game); err != nil {
		return err
	}

	detail, err := json.Marshal(out.Result)
	if err != nil {
		return err
	}
	row := &models.ConsensusLatest{
		GameID:     game.ID,
		AwayTeam:   game.AwayTeam,
		HomeTeam:   game.HomeTeam,
		AwayProb:   out.Result.A.Prob,
		HomeProb:   out.Result.B.Prob,
		RawSum:     out.Result.RawSum,
		Sources:    len(out.Result.A.Sources),
		Summary:    out.Summary,
		DetailJSON: datatypes.JSON(detail),
		ComputedAt: out.ComputedAt,
		UpdatedAt:  out.ComputedAt,
	}
	if err := s.Store.UpsertConsensusLatest(ctx, row); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("consensus computed",
			zap.String("game_id", game.ID),
			zap.String("summary", out.Summary),
			zap.Int("sources", row.Sources))
	}
	return nil
}

// Latest returns the stored consensus for a game without recomputing.
func (s *ConsensusService) Latest(ctx context.Context, gameID string) (*models.ConsensusLatest, error) {
	return s.Store.GetConsensusLatest(ctx, gameID)
}

// quotesFromEvent flattens an event's head-to-head prices into per-outcome
// quote lists, one quote per bookmaker.
func quotesFromEvent(ev *oddsapi.Event, format odds.Format) (away, home []odds.Quote) {
	for _, bm := range ev.Bookmakers {
		market, ok := bm.Market(oddsapi.MarketH2H)
		if !ok {
			continue
		}
		if o, ok := market.Outcome(ev.AwayTeam); ok {
			away = append(away, odds.Quote{Source: bm.Key, Outcome: ev.AwayTeam, Format: format, Price: o.Price})
		}
		if o, ok := market.Outcome(ev.HomeTeam); ok {
			home = append(home, odds.Quote{Source: bm.Key, Outcome: ev.HomeTeam, Format: format, Price: o.Price})
		}
	}
	return away, home
}
