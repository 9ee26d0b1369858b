package repository

import (
	"context"

	"gorm.io/gorm"

	"moneyline/internal/models"
)

// Repository is the persistence surface for games, outcome tokens, and the
// latest-state consensus and orderbook tables. All tables hold current
// state only; every write is an upsert keyed on the row's natural id.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	UpsertGame(ctx context.Context, item *models.Game) error
	UpsertGamesTx(ctx context.Context, tx *gorm.DB, items []models.Game) error
	GetGame(ctx context.Context, id string) (*models.Game, error)
	ListGamesByDate(ctx context.Context, gameDate string) ([]models.Game, error)
	ListGames(ctx context.Context, params ListGamesParams) ([]models.Game, error)
	CountGames(ctx context.Context, params ListGamesParams) (int64, error)

	UpsertOutcomeTokensTx(ctx context.Context, tx *gorm.DB, items []models.OutcomeToken) error
	GetOutcomeToken(ctx context.Context, tokenID string) (*models.OutcomeToken, error)
	ListOutcomeTokensByGame(ctx context.Context, gameID string) ([]models.OutcomeToken, error)
	ListActiveTokenIDs(ctx context.Context, limit int) ([]string, error)

	UpsertConsensusLatest(ctx context.Context, item *models.ConsensusLatest) error
	GetConsensusLatest(ctx context.Context, gameID string) (*models.ConsensusLatest, error)

	UpsertMarketStatsLatest(ctx context.Context, items []models.MarketStatsLatest) error
	GetMarketStats(ctx context.Context, tokenID string) (*models.MarketStatsLatest, error)
	ListMarketStatsByGame(ctx context.Context, gameID string) ([]models.MarketStatsLatest, error)
}

type ListGamesParams struct {
	Sport    string
	GameDate string
	OrderBy  string
	Asc      *bool
	Limit    int
	Offset   int
}
