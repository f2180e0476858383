package models

import (
	"time"

	"gorm.io/datatypes"
)

// Game status values. Settlement only fires on StatusFinal.
const (
	GameStatusScheduled  = "scheduled"
	GameStatusInProgress = "in_progress"
	GameStatusFinal      = "final"
)

// Game is a normalized game/score record synced from the scores provider.
type Game struct {
	ID         uint64  `gorm:"primaryKey;autoIncrement"`
	ExternalID string  `gorm:"type:varchar(100);uniqueIndex;not null"`
	Sport      string  `gorm:"type:varchar(50);index;not null"`
	HomeTeam   string  `gorm:"type:varchar(120);not null"`
	AwayTeam   string  `gorm:"type:varchar(120);not null"`
	HomeScore  *int    `gorm:"default:null"`
	AwayScore  *int    `gorm:"default:null"`
	Status     string  `gorm:"type:varchar(20);index;not null;default:'scheduled'"`
	VenueCity  *string `gorm:"type:varchar(100)"`

	CommenceAt   time.Time      `gorm:"type:timestamptz;index;not null"`
	LastSyncedAt time.Time      `gorm:"type:timestamptz;not null"`
	RawJSON      datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Game) TableName() string {
	return "games"
}
