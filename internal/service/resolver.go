package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"moneyline/internal/client/oddsapi"
	polymarketgamma "moneyline/internal/client/polymarket/gamma"
	"moneyline/internal/models"
	"moneyline/internal/repository"
	"moneyline/internal/resolve"
)

// ResolverService turns a team-pair query into a stored game. Games are
// discovered through the sportsbook feed and linked to their Polymarket
// event on first sight; later lookups come straight from the database.
type ResolverService struct {
	Store   repository.Repository
	OddsAPI *oddsapi.Client
	Gamma   *polymarketgamma.Client
	Logger  *zap.Logger
	Opts    ResolverOptions
}

type ResolverOptions struct {
	Sports    []string
	Regions   string
	TagID     int
	PageLimit int
	MaxPages  int
}

// GameQuery names the two sides of a moneyline and the local date the game
// is played on. Team names may be nicknames; Date carries the timezone the
// date is read in.
type GameQuery struct {
	Away string
	Home string
	Date time.Time
}

func (q GameQuery) dateString() string {
	return q.Date.Format("2006-01-02")
}

// FindStored looks the game up in the database only. A nil game without an
// error means nothing matched.
func (s *ResolverService) FindStored(ctx context.Context, q GameQuery) (*models.Game, error) {
	games, err := s.Store.ListGamesByDate(ctx, q.dateString())
	if err != nil {
		return nil, err
	}
	for i := range games {
		g := &games[i]
		if resolve.TeamMatches(g.AwayTeam, q.Away) && resolve.TeamMatches(g.HomeTeam, q.Home) {
			return g, nil
		}
	}
	return nil, nil
}

// ResolveGame returns the stored game for the query, discovering and
// persisting it when missing. The returned tokens are empty when no
// prediction market is linked yet; that alone is not an error.
func (s *ResolverService) ResolveGame(ctx context.Context, q GameQuery) (*models.Game, []models.OutcomeToken, error) {
	game, err := s.FindStored(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	dirty := false
	if game == nil {
		game, err = s.discoverGame(ctx, q)
		if err != nil {
			return nil, nil, err
		}
		dirty = true
	}

	var tokens []models.OutcomeToken
	if game.GammaEventID != nil {
		tokens, err = s.Store.ListOutcomeTokensByGame(ctx, game.ID)
		if err != nil {
			return nil, nil, err
		}
	}
	if len(tokens) == 0 {
		tokens, err = s.linkGamma(ctx, game, q.Date)
		if err != nil {
			return nil, nil, err
		}
		if len(tokens) > 0 {
			dirty = true
		}
	}

	if dirty {
		if err := s.persist(ctx, game, tokens); err != nil {
			return nil, nil, err
		}
	}
	return game, tokens, nil
}

func (s *ResolverService) discoverGame(ctx context.Context, q GameQuery) (*models.Game, error) {
	if s.OddsAPI == nil {
		return nil, fmt.Errorf("odds api client is nil")
	}
	params := oddsapi.ListOddsParams{Regions: s.Opts.Regions}
	for _, sport := range s.Opts.Sports {
		events, err := s.OddsAPI.ListOdds(ctx, sport, params)
		if err != nil {
			return nil, err
		}
		ev, err := resolve.FindOddsEvent(events, q.Away, q.Home, q.Date)
		if errors.Is(err, resolve.ErrEventNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return gameFromOddsEvent(ev, sport, q.Date.Location()), nil
	}
	return nil, fmt.Errorf("%w: %s @ %s on %s", resolve.ErrEventNotFound, q.Away, q.Home, q.dateString())
}

// linkGamma finds the Polymarket event for the game and extracts its
// moneyline outcome tokens. A lookup miss returns no tokens and no error;
// consensus still works without the prediction-market side.
func (s *ResolverService) linkGamma(ctx context.Context, game *models.Game, date time.Time) ([]models.OutcomeToken, error) {
	if s.Gamma == nil {
		return nil, nil
	}
	gev, err := s.findGammaEvent(ctx, game, date)
	if err != nil {
		return nil, err
	}
	if gev == nil {
		if s.Logger != nil {
			s.Logger.Debug("no gamma event for game",
				zap.String("game_id", game.ID),
				zap.String("away", game.AwayTeam),
				zap.String("home", game.HomeTeam))
		}
		return nil, nil
	}
	tokens, ok := applyGammaLink(game, gev, s.Logger)
	if !ok {
		return nil, nil
	}
	return tokens, nil
}

// applyGammaLink writes the gamma link fields onto the game and builds its
// outcome token rows. Returns false when the event carries no usable
// moneyline market.
func applyGammaLink(game *models.Game, gev *polymarketgamma.Event, logger *zap.Logger) ([]models.OutcomeToken, bool) {
	market, err := resolve.MoneylineMarket(gev)
	if err != nil {
		if logger != nil {
			logger.Warn("gamma event has no moneyline market",
				zap.String("gamma_slug", gev.Slug), zap.Error(err))
		}
		return nil, false
	}
	pairs, err := resolve.OutcomeTokens(market)
	if err != nil {
		if logger != nil {
			logger.Warn("gamma market has unusable tokens",
				zap.String("market_slug", market.Slug), zap.Error(err))
		}
		return nil, false
	}

	now := time.Now().UTC()
	game.GammaEventID = strPtr(gev.ID)
	game.GammaSlug = strPtr(gev.Slug)
	game.MarketID = strPtr(market.ID)
	game.Question = strPtr(market.Question)
	game.UpdatedAt = now

	awayTok, awayOK := resolve.MatchOutcome(pairs, game.AwayTeam)
	homeTok, homeOK := resolve.MatchOutcome(pairs, game.HomeTeam)
	tokens := make([]models.OutcomeToken, 0, len(pairs))
	for _, p := range pairs {
		team := ""
		switch {
		case awayOK && p.TokenID == awayTok.TokenID:
			team = game.AwayTeam
		case homeOK && p.TokenID == homeTok.TokenID:
			team = game.HomeTeam
		}
		tokens = append(tokens, models.OutcomeToken{
			TokenID:   p.TokenID,
			GameID:    game.ID,
			MarketID:  market.ID,
			Question:  market.Question,
			Outcome:   p.Outcome,
			Team:      team,
			Active:    market.Active && !market.Closed,
			UpdatedAt: now,
		})
	}
	return tokens, true
}

func (s *ResolverService) findGammaEvent(ctx context.Context, game *models.Game, date time.Time) (*polymarketgamma.Event, error) {
	limit := s.Opts.PageLimit
	if limit <= 0 {
		limit = 200
	}
	maxPages := s.Opts.MaxPages
	if maxPages <= 0 {
		maxPages = 5
	}
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
			return nil, err
		}
		if len(events) == 0 {
			break
		}
		ev, err := resolve.FindGammaEvent(events, game.AwayTeam, game.HomeTeam, date)
		if err == nil {
			return ev, nil
		}
		if !errors.Is(err, resolve.ErrEventNotFound) {
			return nil, err
		}
		offset += len(events)
		if len(events) < limit {
			break
		}
	}
	return nil, nil
}

func (s *ResolverService) persist(ctx context.Context, game *models.Game, tokens []models.OutcomeToken) error {
	return s.Store.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Store.UpsertGamesTx(ctx, tx, []models.Game{*game}); err != nil {
			return err
		}
		return s.Store.UpsertOutcomeTokensTx(ctx, tx, tokens)
	})
}

// gameFromOddsEvent builds the stored row for a sportsbook event. The game
// date is bucketed in loc so late tip-offs stay on their scheduled day.
func gameFromOddsEvent(ev *oddsapi.Event, sport string, loc *time.Location) *models.Game {
	now := time.Now().UTC()
	commence := ev.CommenceTime
	if key := ev.SportKey; key != "" {
		sport = key
	}
	return &models.Game{
		ID:           ev.ID,
		Sport:        sport,
		AwayTeam:     ev.AwayTeam,
		HomeTeam:     ev.HomeTeam,
		GameDate:     commence.In(loc).Format("2006-01-02"),
		CommenceTime: &commence,
		LastSeenAt:   now,
		UpdatedAt:    now,
	}
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(v bool) *bool {
	return &v
}
