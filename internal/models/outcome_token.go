package models

import (
	"time"
)

// OutcomeToken maps one side of a game's moneyline market to its CLOB token.
type OutcomeToken struct {
	TokenID   string    `gorm:"primaryKey;type:text;comment:CLOB token id"`
	GameID    string    `gorm:"type:text;index;not null;comment:owning game id"`
	MarketID  string    `gorm:"type:text;index;comment:gamma market id"`
	Question  string    `gorm:"type:text;comment:market question"`
	Outcome   string    `gorm:"type:text;not null;comment:outcome label"`
	Team      string    `gorm:"type:text;comment:matched team name"`
	Active    bool      `gorm:"not null;default:true;comment:still tradable"`
	UpdatedAt time.Time `gorm:"type:timestamptz;not null"`
}

func (OutcomeToken) TableName() string {
	return "outcome_tokens"
}
