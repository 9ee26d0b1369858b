package models

import (
	"time"

	"gorm.io/datatypes"
)

// MarketStatsLatest is the most recent orderbook reduction for one outcome
// token. One row per token, rewritten by REST snapshots and the WS stream
// alike.
type MarketStatsLatest struct {
	TokenID   string         `gorm:"primaryKey;type:text;comment:CLOB token id"`
	GameID    string         `gorm:"type:text;index;comment:owning game id"`
	Market    string         `gorm:"type:text;not null;comment:display label"`
	Outcome   string         `gorm:"type:text;comment:outcome label"`
	BestBid   float64        `gorm:"not null;comment:highest bid price"`
	BidVolume float64        `gorm:"not null;comment:size resting at the best bid"`
	BestAsk   float64        `gorm:"not null;comment:lowest ask price"`
	AskVolume float64        `gorm:"not null;comment:size resting at the best ask"`
	Spread    float64        `gorm:"not null;comment:best ask minus best bid"`
	Crossed   bool           `gorm:"not null;default:false;comment:best bid above best ask"`
	Source    string         `gorm:"type:text;not null;comment:rest or ws"`
	BookJSON  datatypes.JSON `gorm:"type:jsonb;comment:raw upstream book payload"`
	UpdatedAt time.Time      `gorm:"type:timestamptz;not null"`
}

func (MarketStatsLatest) TableName() string {
	return "market_stats_latest"
}
