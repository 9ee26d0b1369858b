package service

import (
	"context"

	"gorm.io/gorm"

	"moneyline/internal/models"
	"moneyline/internal/repository"
)

// stubStore is an in-memory Repository for service tests.
type stubStore struct {
	games     map[string]models.Game
	tokens    map[string]models.OutcomeToken
	consensus map[string]models.ConsensusLatest
	stats     map[string]models.MarketStatsLatest
}

func newStubStore() *stubStore {
	return &stubStore{
		games:     map[string]models.Game{},
		tokens:    map[string]models.OutcomeToken{},
		consensus: map[string]models.ConsensusLatest{},
		stats:     map[string]models.MarketStatsLatest{},
	}
}

func (s *stubStore) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (s *stubStore) UpsertGame(ctx context.Context, item *models.Game) error {
	s.games[item.ID] = *item
	return nil
}

func (s *stubStore) UpsertGamesTx(ctx context.Context, tx *gorm.DB, items []models.Game) error {
	for _, item := range items {
		s.games[item.ID] = item
	}
	return nil
}

func (s *stubStore) GetGame(ctx context.Context, id string) (*models.Game, error) {
	if g, ok := s.games[id]; ok {
		return &g, nil
	}
	return nil, nil
}

func (s *stubStore) ListGamesByDate(ctx context.Context, gameDate string) ([]models.Game, error) {
	var out []models.Game
	for _, g := range s.games {
		if g.GameDate == gameDate {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *stubStore) ListGames(ctx context.Context, params repository.ListGamesParams) ([]models.Game, error) {
	var out []models.Game
	for _, g := range s.games {
		if params.Sport != "" && g.Sport != params.Sport {
			continue
		}
		if params.GameDate != "" && g.GameDate != params.GameDate {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *stubStore) CountGames(ctx context.Context, params repository.ListGamesParams) (int64, error) {
	items, _ := s.ListGames(ctx, params)
	return int64(len(items)), nil
}

func (s *stubStore) UpsertOutcomeTokensTx(ctx context.Context, tx *gorm.DB, items []models.OutcomeToken) error {
	for _, item := range items {
		s.tokens[item.TokenID] = item
	}
	return nil
}

func (s *stubStore) GetOutcomeToken(ctx context.Context, tokenID string) (*models.OutcomeToken, error) {
	if tok, ok := s.tokens[tokenID]; ok {
		return &tok, nil
	}
	return nil, nil
}

func (s *stubStore) ListOutcomeTokensByGame(ctx context.Context, gameID string) ([]models.OutcomeToken, error) {
	var out []models.OutcomeToken
	for _, tok := range s.tokens {
		if tok.GameID == gameID {
			out = append(out, tok)
		}
	}
	return out, nil
}

func (s *stubStore) ListActiveTokenIDs(ctx context.Context, limit int) ([]string, error) {
	var out []string
	for id, tok := range s.tokens {
		if tok.Active {
			out = append(out, id)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *stubStore) UpsertConsensusLatest(ctx context.Context, item *models.ConsensusLatest) error {
	s.consensus[item.GameID] = *item
	return nil
}

func (s *stubStore) GetConsensusLatest(ctx context.Context, gameID string) (*models.ConsensusLatest, error) {
	if row, ok := s.consensus[gameID]; ok {
		return &row, nil
	}
	return nil, nil
}

func (s *stubStore) UpsertMarketStatsLatest(ctx context.Context, items []models.MarketStatsLatest) error {
	for _, item := range items {
		s.stats[item.TokenID] = item
	}
	return nil
}

func (s *stubStore) GetMarketStats(ctx context.Context, tokenID string) (*models.MarketStatsLatest, error) {
	if row, ok := s.stats[tokenID]; ok {
		return &row, nil
	}
	return nil, nil
}

func (s *stubStore) ListMarketStatsByGame(ctx context.Context, gameID string) ([]models.MarketStatsLatest, error) {
	var out []models.MarketStatsLatest
	for _, row := range s.stats {
		if row.GameID == gameID {
			out = append(out, row)
		}
	}
	return out, nil
}
