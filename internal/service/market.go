package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"moneyline/internal/book"
	"moneyline/internal/client/polymarket/clob"
	"moneyline/internal/compare"
	"moneyline/internal/models"
	"moneyline/internal/repository"
	"moneyline/internal/resolve"
)

// MarketService snapshots the CLOB order books behind a game's moneyline
// and reduces each to its top-of-book stats. Snapshots land in
// market_stats_latest tagged source=rest.
type MarketService struct {
	Store    repository.Repository
	Resolver *ResolverService
	Clob     *clob.Client
	Logger   *zap.Logger
}

// BookStats is one outcome token's analyzed book.
type BookStats struct {
	TokenID string     `json:"token_id"`
	Outcome string     `json:"outcome"`
	Team    string     `json:"team,omitempty"`
	Market  string     `json:"market"`
	Stats   book.Stats `json:"stats"`
	Crossed bool       `json:"crossed"`
}

// MarketStatsOutput is a full snapshot of one game's moneyline books.
type MarketStatsOutput struct {
	GameID    string      `json:"game_id"`
	AwayTeam  string      `json:"away_team"`
	HomeTeam  string      `json:"home_team"`
	Question  string      `json:"question"`
	Books     []BookStats `json:"books"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// Stats resolves the game, fetches the live book for each outcome token,
// and persists the analyzed top of book.
func (s *MarketService) Stats(ctx context.Context, q GameQuery) (*MarketStatsOutput, error) {
	game, tokens, err := s.Resolver.ResolveGame(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.Snapshot(ctx, game, tokens)
}

// Snapshot fetches and analyzes the live book behind each token and
// persists the result. Callers that already hold the resolved game come
// here directly.
func (s *MarketService) Snapshot(ctx context.Context, game *models.Game, tokens []models.OutcomeToken) (*MarketStatsOutput, error) {
	if s.Clob == nil {
		return nil, fmt.Errorf("clob client is nil")
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: no prediction market linked for %s @ %s",
			resolve.ErrMarketNotFound, game.AwayTeam, game.HomeTeam)
	}

	now := time.Now().UTC()
	out := &MarketStatsOutput{
		GameID:    game.ID,
		AwayTeam:  game.AwayTeam,
		HomeTeam:  game.HomeTeam,
		FetchedAt: now,
	}
	if game.Question != nil {
		out.Question = *game.Question
	}

	rows := make([]models.MarketStatsLatest, 0, len(tokens))
	for _, tok := range tokens {
		ob, raw, err := s.getBookWithRetry(ctx, tok.TokenID)
		if err != nil {
			return nil, fmt.Errorf("fetch book for token %s: %w", tok.TokenID, err)
		}
		stats := book.Analyze(bookFromOrders(ob))
		out.Books = append(out.Books, BookStats{
			TokenID: tok.TokenID,
			Outcome: tok.Outcome,
			Team:    tok.Team,
			Market:  compare.MarketLabel(tok.Question, tok.Outcome),
			Stats:   stats,
			Crossed: stats.Crossed(),
		})
		rows = append(rows, models.MarketStatsLatest{
			TokenID:   tok.TokenID,
			GameID:    game.ID,
			Market:    compare.MarketLabel(tok.Question, tok.Outcome),
			Outcome:   tok.Outcome,
			BestBid:   stats.BestBid,
			BidVolume: stats.BidVolume,
			BestAsk:   stats.BestAsk,
			AskVolume: stats.AskVolume,
			Spread:    stats.Spread,
			Crossed:   stats.Crossed(),
			Source:    "rest",
			BookJSON:  datatypes.JSON(raw),
			UpdatedAt: now,
		})
	}
	if err := s.Store.UpsertMarketStatsLatest(ctx, rows); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("market books snapshotted",
			zap.String("game_id", game.ID),
			zap.Int("tokens", len(rows)))
	}
	return out, nil
}

// Stored returns the persisted stats rows for a game without refetching.
func (s *MarketService) Stored(ctx context.Context, gameID string) ([]models.MarketStatsLatest, error) {
	return s.Store.ListMarketStatsByGame(ctx, gameID)
}

const bookFetchRetries = 2

// getBookWithRetry refetches transient book failures with a linear
// backoff. A 404 is terminal; the token simply has no book.
func (s *MarketService) getBookWithRetry(ctx context.Context, tokenID string) (*clob.OrderBook, []byte, error) {
	var lastErr error
	for attempt := 0; attempt <= bookFetchRetries; attempt++ {
		ob, raw, err := s.Clob.GetBookRaw(ctx, tokenID)
		if err == nil {
			return ob, raw, nil
		}
		lastErr = err
		var apiErr *clob.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil, err
		}
		if ctx.Err() != nil {
			return nil, nil, err
		}
		backoff := time.Duration(400+attempt*400) * time.Millisecond
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
	return nil, nil, lastErr
}

// bookFromOrders converts a wire-format book into analyzer levels.
// Negative or unparseable levels are dropped rather than poisoning the
// stats; an absent book analyzes as empty.
func bookFromOrders(ob *clob.OrderBook) book.Book {
	if ob == nil {
		return book.Book{}
	}
	var b book.Book
	for _, o := range ob.Bids {
		if lvl, err := book.NewLevel(o.Price.InexactFloat64(), o.Size.InexactFloat64()); err == nil {
			b.Bids = append(b.Bids, lvl)
		}
	}
	for _, o := range ob.Asks {
		if lvl, err := book.NewLevel(o.Price.InexactFloat64(), o.Size.InexactFloat64()); err == nil {
			b.Asks = append(b.Asks, lvl)
		}
	}
	return b
}
