package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"moneyline/internal/client/oddsapi"
	polymarketgamma "moneyline/internal/client/polymarket/gamma"
	"moneyline/internal/compare"
	"moneyline/internal/models"
	"moneyline/internal/repository"
	"moneyline/internal/resolve"
)

// ScanService sweeps the configured sports, stores every upcoming game,
// links the Polymarket side where one exists, recomputes consensus for
// each game, and screens the linked books for value. Runs on a cron
// schedule and on demand through the API.
type ScanService struct {
	Store     repository.Repository
	OddsAPI   *oddsapi.Client
	Gamma     *polymarketgamma.Client
	Consensus *ConsensusService
	Market    *MarketService
	Logger    *zap.Logger
	Opts      ScanOptions
}

type ScanOptions struct {
	Sports     []string
	Regions    string
	Markets    string
	OddsFormat string
	TagID      int
	PageLimit  int
	MaxPages   int
	MinEdge    float64
	Location   *time.Location
}

// ScanResult counts what one sweep touched. Partial failures show up in
// Errors; the sweep itself keeps going.
type ScanResult struct {
	Sports    int       `json:"sports"`
	Games     int       `json:"games"`
	Linked    int       `json:"linked"`
	Tokens    int       `json:"tokens"`
	Consensus int       `json:"consensus"`
	ValueBets int       `json:"value_bets"`
	Errors    int       `json:"errors"`
	StartedAt time.Time `json:"started_at"`
	ElapsedMS int64     `json:"elapsed_ms"`
}

func (s *ScanService) Scan(ctx context.Context) (ScanResult, error) {
	start := time.Now()
	loc := s.Opts.Location
	if loc == nil {
		loc = time.UTC
	}
	result := ScanResult{StartedAt: start.UTC()}

	gammaEvents, err := s.fetchGammaEvents(ctx)
	if err != nil {
		// Games and consensus still update without the gamma side.
		result.Errors++
		if s.Logger != nil {
			s.Logger.Warn("scan gamma fetch failed", zap.Error(err))
		}
	}

	params := oddsapi.ListOddsParams{
		Regions:    s.Opts.Regions,
		Markets:    s.Opts.Markets,
		OddsFormat: s.Opts.OddsFormat,
	}
	for _, sport := range s.Opts.Sports {
		events, err := s.OddsAPI.ListOdds(ctx, sport, params)
		if err != nil {
			result.Errors++
			if s.Logger != nil {
				s.Logger.Warn("scan odds fetch failed", zap.String("sport", sport), zap.Error(err))
			}
			continue
		}
		result.Sports++

		games := make([]models.Game, 0, len(events))
		var tokens []models.OutcomeToken
		gameByID := make(map[string]*models.Game, len(events))
		linkedByGame := make(map[string][]models.OutcomeToken)
		for i := range events {
			game := gameFromOddsEvent(&events[i], sport, loc)
			linked, err := s.linkFromPrefetched(ctx, game, gammaEvents, loc)
			if err != nil {
				result.Errors++
			}
			if len(linked) > 0 {
				result.Linked++
				tokens = append(tokens, linked...)
				linkedByGame[game.ID] = linked
			}
			games = append(games, *game)
			gameByID[game.ID] = game
		}
		if err := s.persistScan(ctx, games, tokens); err != nil {
			result.Errors++
			if s.Logger != nil {
				s.Logger.Warn("scan persist failed", zap.String("sport", sport), zap.Error(err))
			}
			continue
		}
		result.Games += len(games)
		result.Tokens += len(tokens)

		if s.Consensus == nil {
			continue
		}
		for i := range events {
			out, err := s.Consensus.computeFromEvent(ctx, &events[i], sport, loc)
			if err != nil {
				result.Errors++
				if s.Logger != nil {
					s.Logger.Warn("scan consensus failed",
						zap.String("event_id", events[i].ID), zap.Error(err))
				}
				continue
			}
			result.Consensus++

			bets, err := s.screenValueBets(ctx, out, gameByID[events[i].ID], linkedByGame[events[i].ID])
			if err != nil {
				result.Errors++
				if s.Logger != nil {
					s.Logger.Warn("scan book snapshot failed",
						zap.String("event_id", events[i].ID), zap.Error(err))
				}
				continue
			}
			result.ValueBets += bets
		}
	}

	result.ElapsedMS = time.Since(start).Milliseconds()
	if s.Logger != nil {
		s.Logger.Info("scan finished",
			zap.Int("sports", result.Sports),
			zap.Int("games", result.Games),
			zap.Int("linked", result.Linked),
			zap.Int("consensus", result.Consensus),
			zap.Int("value_bets", result.ValueBets),
			zap.Int("errors", result.Errors),
			zap.Int64("elapsed_ms", result.ElapsedMS))
	}
	return result, nil
}

// fetchGammaEvents pages the game-bets tag once so every game in the sweep
// matches against the same snapshot.
func (s *ScanService) fetchGammaEvents(ctx context.Context) ([]polymarketgamma.Event, error) {
	if s.Gamma == nil {
		return nil, nil
	}
	limit := s.Opts.PageLimit
	if limit <= 0 {
		limit = 200
	}
	maxPages := s.Opts.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}
	var out []polymarketgamma.Event
	offset := 0
	for page := 0; page < maxPages; page++ {
		events, err := s.Gamma.ListEvents(ctx, polymarketgamma.ListEventsParams{
			Limit:     limit,
			Offset:    offset,
			Active:    boolPtr(true),
			Closed:    boolPtr(false),
			TagID:     s.Opts.TagID,
			Order:     "startDate",
			Ascending: boolPtr(true),
		})
		if err != nil {
			return out, err
		}
		if len(events) == 0 {
			break
		}
		out = append(out, events...)
		offset += len(events)
		if len(events) < limit {
			break
		}
	}
	return out, nil
}

// linkFromPrefetched matches the game against the fetched gamma events and
// writes the link onto it. When nothing matches, a link recorded by an
// earlier sweep is carried forward so the upsert does not erase it.
func (s *ScanService) linkFromPrefetched(ctx context.Context, game *models.Game, gammaEvents []polymarketgamma.Event, loc *time.Location) ([]models.OutcomeToken, error) {
	if len(gammaEvents) > 0 && game.CommenceTime != nil {
		date := game.CommenceTime.In(loc)
		gev, err := resolve.FindGammaEvent(gammaEvents, game.AwayTeam, game.HomeTeam, date)
		if err == nil {
			if tokens, ok := applyGammaLink(game, gev, s.Logger); ok {
				return tokens, nil
			}
		}
	}
	existing, err := s.Store.GetGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		game.GammaEventID = existing.GammaEventID
		game.GammaSlug = existing.GammaSlug
		game.MarketID = existing.MarketID
		game.Question = existing.Question
	}
	return nil, nil
}

// screenValueBets snapshots the linked books for one game and logs every
// ask priced below consensus by at least the configured edge. Unlinked
// games screen nothing.
func (s *ScanService) screenValueBets(ctx context.Context, cons *ConsensusOutput, game *models.Game, tokens []models.OutcomeToken) (int, error) {
	if s.Market == nil || game == nil || len(tokens) == 0 {
		return 0, nil
	}
	snap, err := s.Market.Snapshot(ctx, game, tokens)
	if err != nil {
		return 0, err
	}
	bets := compare.FindValueBets(cons.Result, offersFromBooks(snap.Books), s.Opts.MinEdge)
	if s.Logger != nil {
		for _, bet := range bets {
			s.Logger.Info("value bet",
				zap.String("game_id", game.ID),
				zap.String("team", bet.Team),
				zap.String("token_id", bet.TokenID),
				zap.Float64("consensus", bet.Consensus),
				zap.Float64("best_ask", bet.BestAsk),
				zap.Float64("edge", bet.Edge))
		}
	}
	return len(bets), nil
}

func (s *ScanService) persistScan(ctx context.Context, games []models.Game, tokens []models.OutcomeToken) error {
	return s.Store.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Store.UpsertGamesTx(ctx, tx, games); err != nil {
			return err
		}
		return s.Store.UpsertOutcomeTokensTx(ctx, tx, tokens)
	})
}
