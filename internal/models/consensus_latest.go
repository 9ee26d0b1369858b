package models

import (
	"time"

	"gorm.io/datatypes"
)

// ConsensusLatest is the most recent de-vigged consensus for a game.
// One row per game, rewritten in place; no history is kept.
type ConsensusLatest struct {
	GameID     string         `gorm:"primaryKey;type:text;comment:game id"`
	AwayTeam   string         `gorm:"type:text;not null"`
	HomeTeam   string         `gorm:"type:text;not null"`
	AwayProb   float64        `gorm:"not null;comment:de-vigged away win probability"`
	HomeProb   float64        `gorm:"not null;comment:de-vigged home win probability"`
	RawSum     float64        `gorm:"not null;comment:probability mass before de-vigging"`
	Sources    int            `gorm:"not null;comment:books contributing to the away outcome"`
	Summary    string         `gorm:"type:text;not null;comment:rendered one-line consensus"`
	DetailJSON datatypes.JSON `gorm:"type:jsonb;comment:per-source probabilities and exclusions"`
	ComputedAt time.Time      `gorm:"type:timestamptz;not null"`
	UpdatedAt  time.Time      `gorm:"type:timestamptz;not null"`
}

func (ConsensusLatest) TableName() string {
	return "consensus_latest"
}
