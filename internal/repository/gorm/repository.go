package gormrepository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"moneyline/internal/models"
	"moneyline/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- games ------------------------------------------------------------------

var gameUpdateColumns = []string{
	"sport",
	"away_team",
	"home_team",
	"game_date",
	"commence_time",
	"gamma_event_id",
	"gamma_slug",
	"market_id",
	"question",
	"last_seen_at",
	"updated_at",
}

func (s *Store) UpsertGame(ctx context.Context, item *models.Game) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ID) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(gameUpdateColumns),
	}).Create(item).Error
}

func (s *Store) UpsertGamesTx(ctx context.Context, tx *gorm.DB, items []models.Game) error {
	if s == nil || tx == nil || len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(gameUpdateColumns),
	}), items, 200)
}

func (s *Store) GetGame(ctx context.Context, id string) (*models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var item models.Game
	err := s.db.WithContext(ctx).Model(&models.Game{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListGamesByDate(ctx context.Context, gameDate string) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	gameDate = strings.TrimSpace(gameDate)
	if gameDate == "" {
		return nil, nil
	}
	var items []models.Game
	if err := s.db.WithContext(ctx).
		Model(&models.Game{}).
		Where("game_date = ?", gameDate).
		Order("commence_time asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListGames(ctx context.Context, params repository.ListGamesParams) ([]models.Game, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyGameFilters(s.db.WithContext(ctx).Model(&models.Game{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "commence_time")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Game
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountGames(ctx context.Context, params repository.ListGamesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	query := applyGameFilters(s.db.WithContext(ctx).Model(&models.Game{}), params)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func applyGameFilters(query *gorm.DB, params repository.ListGamesParams) *gorm.DB {
	if sport := strings.TrimSpace(params.Sport); sport != "" {
		query = query.Where("sport = ?", sport)
	}
	if date := strings.TrimSpace(params.GameDate); date != "" {
		query = query.Where("game_date = ?", date)
	}
	return query
}

// --- outcome tokens ---------------------------------------------------------

func (s *Store) UpsertOutcomeTokensTx(ctx context.Context, tx *gorm.DB, items []models.OutcomeToken) error {
	if s == nil || tx == nil || len(items) == 0 {
		return nil
	}
	return createInBatches(tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"game_id",
			"market_id",
			"question",
			"outcome",
			"team",
			"active",
			"updated_at",
		}),
	}), items, 200)
}

func (s *Store) GetOutcomeToken(ctx context.Context, tokenID string) (*models.OutcomeToken, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, nil
	}
	var item models.OutcomeToken
	err := s.db.WithContext(ctx).Model(&models.OutcomeToken{}).Where("token_id = ?", tokenID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListOutcomeTokensByGame(ctx context.Context, gameID string) ([]models.OutcomeToken, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, nil
	}
	var items []models.OutcomeToken
	if err := s.db.WithContext(ctx).
		Model(&models.OutcomeToken{}).
		Where("game_id = ?", gameID).
		Order("outcome asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListActiveTokenIDs(ctx context.Context, limit int) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 200)
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.OutcomeToken{}).
		Where("active = ?", true).
		Order("updated_at desc").
		Limit(limit).
		Pluck("token_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// --- consensus --------------------------------------------------------------

func (s *Store) UpsertConsensusLatest(ctx context.Context, item *models.ConsensusLatest) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.GameID) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"away_team",
			"home_team",
			"away_prob",
			"home_prob",
			"raw_sum",
			"sources",
			"summary",
			"detail_json",
			"computed_at",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetConsensusLatest(ctx context.Context, gameID string) (*models.ConsensusLatest, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, nil
	}
	var item models.ConsensusLatest
	err := s.db.WithContext(ctx).Model(&models.ConsensusLatest{}).Where("game_id = ?", gameID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- market stats -----------------------------------------------------------

func (s *Store) UpsertMarketStatsLatest(ctx context.Context, items []models.MarketStatsLatest) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return createInBatches(s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "token_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"game_id",
			"market",
			"outcome",
			"best_bid",
			"bid_volume",
			"best_ask",
			"ask_volume",
			"spread",
			"crossed",
			"source",
			"book_json",
			"updated_at",
		}),
	}), items, 200)
}

func (s *Store) GetMarketStats(ctx context.Context, tokenID string) (*models.MarketStatsLatest, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return nil, nil
	}
	var item models.MarketStatsLatest
	err := s.db.WithContext(ctx).Model(&models.MarketStatsLatest{}).Where("token_id = ?", tokenID).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListMarketStatsByGame(ctx context.Context, gameID string) ([]models.MarketStatsLatest, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	gameID = strings.TrimSpace(gameID)
	if gameID == "" {
		return nil, nil
	}
	var items []models.MarketStatsLatest
	if err := s.db.WithContext(ctx).
		Model(&models.MarketStatsLatest{}).
		Where("game_id = ?", gameID).
		Order("outcome asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func createInBatches[T any](db *gorm.DB, items []T, batchSize int) error {
	if len(items) == 0 {
		return nil
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	for i := 0; i < len(items); i += batchSize {
		end := i + batchSize
		if end > len(items) {
			end = len(items)
		}
		if err := db.CreateInBatches(items[i:end], batchSize).Error; err != nil {
			return err
		}
	}
	return nil
}
