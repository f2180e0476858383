package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OddsQuote is one bookmaker price for one outcome of one market, normalized
// from the odds provider. The newest quote before a game's commence time is
// treated as the closing line.
type OddsQuote struct {
	ID             uint64           `gorm:"primaryKey;autoIncrement"`
	GameExternalID string           `gorm:"type:varchar(100);uniqueIndex:uq_quote,priority:1;not null"`
	Bookmaker      string           `gorm:"type:varchar(60);uniqueIndex:uq_quote,priority:2;not null"`
	MarketKey      string           `gorm:"type:varchar(20);uniqueIndex:uq_quote,priority:3;not null"`
	OutcomeName    string           `gorm:"type:varchar(120);uniqueIndex:uq_quote,priority:4;not null"`
	Price          int              `gorm:"not null"`
	Point          *decimal.Decimal `gorm:"type:numeric(10,2)"`
	LastUpdated    time.Time        `gorm:"type:timestamptz;index;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (OddsQuote) TableName() string {
	return "odds_quotes"
}
