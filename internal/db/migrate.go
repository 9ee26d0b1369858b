package db

import (
	"moneyline/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Game{},
		&models.OutcomeToken{},
		&models.ConsensusLatest{},
		&models.MarketStatsLatest{},
	)
}
