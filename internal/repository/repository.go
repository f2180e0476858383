package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"edgebook/internal/models"
)

// Repository is the persistence surface shared by the services and handlers.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Games
	UpsertGames(ctx context.Context, items []models.Game) error
	UpsertGameSchedules(ctx context.Context, items []models.Game) error
	GetGameByExternalID(ctx context.Context, externalID string) (*models.Game, error)
	ListGames(ctx context.Context, params ListGamesParams) ([]models.Game, error)
	CountGames(ctx context.Context, params ListGamesParams) (int64, error)
	ListFinalGamesByExternalIDs(ctx context.Context, externalIDs []string) ([]models.Game, error)

	// Bets
	InsertBet(ctx context.Context, item *models.Bet) error
	GetBetByID(ctx context.Context, id uint64) (*models.Bet, error)
	ListBets(ctx context.Context, params ListBetsParams) ([]models.Bet, error)
	CountBets(ctx context.Context, params ListBetsParams) (int64, error)
	ListPendingBetsForUpdateTx(ctx context.Context, tx *gorm.DB, limit int) ([]models.Bet, error)
	SettleBetTx(ctx context.Context, tx *gorm.DB, id uint64, outcome string, update SettleUpdate) error

	// Odds quotes
	UpsertOddsQuotes(ctx context.Context, items []models.OddsQuote) error
	ListOddsQuotes(ctx context.Context, params ListOddsQuotesParams) ([]models.OddsQuote, error)
	LatestQuoteBefore(ctx context.Context, gameExternalID, marketKey, outcomeName string, before time.Time) (*models.OddsQuote, error)

	// Weather
	InsertWeatherObservation(ctx context.Context, item *models.WeatherObservation) error
	ListLatestWeather(ctx context.Context) ([]models.WeatherObservation, error)

	// Notifications
	InsertNotification(ctx context.Context, item *models.Notification) error
	ListNotifications(ctx context.Context, params ListNotificationsParams) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id uint64) error

	// Analytics
	BetSummary(ctx context.Context, userID string) (BetSummary, error)
}

type ListGamesParams struct {
	Sport  *string
	Status *string
	Limit  int
	Offset int
}

type ListBetsParams struct {
	UserID  *string
	Outcome *string
	Limit   int
	Offset  int
}

type ListOddsQuotesParams struct {
	GameExternalID *string
	MarketKey      *string
	Bookmaker      *string
	Limit          int
	Offset         int
}

type ListNotificationsParams struct {
	UserID     *string
	UnreadOnly bool
	Limit      int
	Offset     int
}

// SettleUpdate carries the column updates applied when a bet is graded.
type SettleUpdate struct {
	ActualReturn decimal.Decimal
	ClosingOdds  *int
	CLVPercent   *float64
	SettledAt    time.Time
}

// MarketBreakdown is one row of the per-market analytics split.
type MarketBreakdown struct {
	MarketKey string          `json:"market_key"`
	Wins      int64           `json:"wins"`
	Losses    int64           `json:"losses"`
	Pushes    int64           `json:"pushes"`
	NetUnits  decimal.Decimal `json:"net_units"`
}

type BetSummary struct {
	Wins        int64             `json:"wins"`
	Losses      int64             `json:"losses"`
	Pushes      int64             `json:"pushes"`
	Pending     int64             `json:"pending"`
	TotalStaked decimal.Decimal   `json:"total_staked"`
	NetUnits    decimal.Decimal   `json:"net_units"`
	AvgCLV      *float64          `json:"avg_clv,omitempty"`
	ByMarket    []MarketBreakdown `json:"by_market"`
}
