package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BetOutcomePending = "pending"
	BetOutcomeWin     = "win"
	BetOutcomeLoss    = "loss"
	BetOutcomePush    = "push"
)

// Bet is a user's bet against one game market. Money-like values are stored
// as numeric to avoid float drift; odds stay in the American integer format
// they were quoted in.
type Bet struct {
	ID             uint64 `gorm:"primaryKey;autoIncrement"`
	UserID         string `gorm:"type:varchar(100);index;not null"`
	GameExternalID string `gorm:"type:varchar(100);index;not null"`
	Sport          string `gorm:"type:varchar(50);index;not null"`
	Description    string `gorm:"type:text"`

	MarketKey string           `gorm:"type:varchar(20);not null"` // h2h | spreads | totals
	Selection string           `gorm:"type:varchar(120);not null"`
	Line      *decimal.Decimal `gorm:"type:numeric(10,2)"`
	Odds      int              `gorm:"not null"`
	// OpeningLine preserves the line at placement for CLV comparability even
	// if the stored quote later moves.
	OpeningLine *decimal.Decimal `gorm:"type:numeric(10,2)"`

	Amount          decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	PotentialReturn decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	WinProbability  *float64        `gorm:"default:null"`

	Outcome      string           `gorm:"type:varchar(10);index;not null;default:'pending'"`
	ActualReturn *decimal.Decimal `gorm:"type:numeric(20,4)"`
	ClosingOdds  *int             `gorm:"default:null"`
	CLVPercent   *float64         `gorm:"column:clv_percent;default:null"`

	PlacedAt  time.Time  `gorm:"type:timestamptz;index;not null"`
	SettledAt *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Bet) TableName() string {
	return "bets"
}
