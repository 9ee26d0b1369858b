package models

import (
	"time"
)

// Game is one resolved two-outcome event: a sportsbook event, optionally
// linked to its Polymarket counterpart. Latest state only; rows are
// rewritten in place on every scan.
type Game struct {
	ID           string     `gorm:"primaryKey;type:text;comment:sportsbook event id"`
	Sport        string     `gorm:"type:text;index;not null;comment:sport key"`
	AwayTeam     string     `gorm:"type:text;not null;comment:away team full name"`
	HomeTeam     string     `gorm:"type:text;not null;comment:home team full name"`
	GameDate     string     `gorm:"type:text;index;not null;comment:local game date YYYY-MM-DD"`
	CommenceTime *time.Time `gorm:"type:timestamptz;comment:scheduled start"`
	GammaEventID *string    `gorm:"type:text;index;comment:linked gamma event id"`
	GammaSlug    *string    `gorm:"type:text;comment:linked gamma event slug"`
	MarketID     *string    `gorm:"type:text;comment:gamma moneyline market id"`
	Question     *string    `gorm:"type:text;comment:moneyline market question"`
	LastSeenAt   time.Time  `gorm:"type:timestamptz;not null;comment:last scan touch"`
	UpdatedAt    time.Time  `gorm:"type:timestamptz;not null"`
}

func (Game) TableName() string {
	return "games"
}
