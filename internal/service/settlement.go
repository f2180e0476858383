package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"edgebook/internal/betting"
	"edgebook/internal/models"
	"edgebook/internal/repository"
)

// SettlementService grades pending bets against final games. Rows are locked
// for the duration of the pass so overlapping runs (cron plus the manual
// endpoint) settle each bet at most once. Bets whose selection cannot be
// matched to a team stay pending and are surfaced in the error log for
// operator review.
type SettlementService struct {
	Store     repository.Repository
	Resolver  *betting.Resolver
	Logger    *zap.Logger
	Notify    bool
	BatchSize int
}

type SettlementResult struct {
	Examined   int `json:"examined"`
	Settled    int `json:"settled"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Pushes     int `json:"pushes"`
	Unresolved int `json:"unresolved"`
	Errors     int `json:"errors"`
}

func (s *SettlementService) Run(ctx context.Context) (SettlementResult, error) {
	var result SettlementResult
	var pendingNotes []models.Notification

	err := s.Store.InTx(ctx, func(tx *gorm.DB) error {
		bets, err := s.Store.ListPendingBetsForUpdateTx(ctx, tx, s.BatchSize)
		if err != nil {
			return fmt.Errorf("load pending bets: %w", err)
		}
		result.Examined = len(bets)
		if len(bets) == 0 {
			return nil
		}

		ids := make([]string, 0, len(bets))
		for _, bet := range bets {
			ids = append(ids, bet.GameExternalID)
		}
		finals, err := s.Store.ListFinalGamesByExternalIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load final games: %w", err)
		}
		byID := make(map[string]models.Game, len(finals))
		for _, g := range finals {
			byID[g.ExternalID] = g
		}

		for _, bet := range bets {
			game, ok := byID[bet.GameExternalID]
			if !ok {
				continue
			}
			note, err := s.settleOne(ctx, tx, bet, game, &result)
			if err != nil {
				result.Errors++
				s.Logger.Error("bet settlement failed",
					zap.Uint64("bet_id", bet.ID),
					zap.String("game", bet.GameExternalID),
					zap.Error(err))
				continue
			}
			if note != nil {
				pendingNotes = append(pendingNotes, *note)
			}
		}
		return nil
	})
	if err != nil {
		return result, err
	}

	if s.Notify {
		for i := range pendingNotes {
			if err := s.Store.InsertNotification(ctx, &pendingNotes[i]); err != nil {
				s.Logger.Error("notification insert failed", zap.Error(err))
			}
		}
	}

	s.Logger.Info("settlement pass finished",
		zap.Int("examined", result.Examined),
		zap.Int("settled", result.Settled),
		zap.Int("unresolved", result.Unresolved),
		zap.Int("errors", result.Errors))
	return result, nil
}

func (s *SettlementService) settleOne(ctx context.Context, tx *gorm.DB, bet models.Bet, game models.Game, result *SettlementResult) (*models.Notification, error) {
	if game.HomeScore == nil || game.AwayScore == nil {
		return nil, fmt.Errorf("final game %s has no scores", game.ExternalID)
	}

	ticket := betting.Ticket{
		MarketKey:       bet.MarketKey,
		Selection:       bet.Selection,
		Line:            decimalToFloatPtr(bet.Line),
		Amount:          bet.Amount.InexactFloat64(),
		PotentialReturn: bet.PotentialReturn.InexactFloat64(),
	}
	gameResult := betting.GameResult{
		HomeTeam:  game.HomeTeam,
		AwayTeam:  game.AwayTeam,
		HomeScore: *game.HomeScore,
		AwayScore: *game.AwayScore,
		Final:     true,
	}

	settlement, err := s.Resolver.Resolve(ticket, &gameResult)
	if errors.Is(err, betting.ErrUnresolvableSelection) {
		result.Unresolved++
		s.Logger.Error("bet selection unresolvable, left pending",
			zap.Uint64("bet_id", bet.ID),
			zap.String("selection", bet.Selection),
			zap.String("home", game.HomeTeam),
			zap.String("away", game.AwayTeam))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if settlement.Outcome == betting.OutcomePending {
		return nil, nil
	}

	update := repository.SettleUpdate{
		ActualReturn: decimal.NewFromFloat(settlement.ActualReturn),
		SettledAt:    time.Now().UTC(),
	}
	if closingOdds, clv, ok := s.closingLineValue(ctx, bet, game); ok {
		update.ClosingOdds = &closingOdds
		update.CLVPercent = &clv
	}
	if err := s.Store.SettleBetTx(ctx, tx, bet.ID, string(settlement.Outcome), update); err != nil {
		return nil, fmt.Errorf("persist settlement: %w", err)
	}

	result.Settled++
	switch settlement.Outcome {
	case betting.OutcomeWin:
		result.Wins++
	case betting.OutcomeLoss:
		result.Losses++
	case betting.OutcomePush:
		result.Pushes++
	}

	note := &models.Notification{
		UserID: bet.UserID,
		Kind:   models.NotificationKindSettlement,
		Title:  fmt.Sprintf("Bet %s: %s", settlement.Outcome, bet.Selection),
		Body: fmt.Sprintf("%s vs %s finished %d-%d; your %s bet settled %s.",
			game.AwayTeam, game.HomeTeam, *game.AwayScore, *game.HomeScore,
			bet.MarketKey, settlement.Outcome),
	}
	return note, nil
}

// closingLineValue looks up the newest pre-commence quote for the bet's
// outcome and compares it to the placed price. A missing or incomparable
// closing quote is not an error; the bet just settles without CLV.
func (s *SettlementService) closingLineValue(ctx context.Context, bet models.Bet, game models.Game) (int, float64, bool) {
	quote, err := s.Store.LatestQuoteBefore(ctx, bet.GameExternalID, bet.MarketKey, bet.Selection, game.CommenceAt)
	if err != nil {
		s.Logger.Warn("closing quote lookup failed",
			zap.Uint64("bet_id", bet.ID),
			zap.Error(err))
		return 0, 0, false
	}
	if quote == nil {
		return 0, 0, false
	}

	clv, err := betting.ClosingLineValue(
		betting.QuoteRef{
			MarketKey: bet.MarketKey,
			Selection: bet.Selection,
			Odds:      bet.Odds,
			Point:     decimalToFloatPtr(bet.Line),
		},
		betting.QuoteRef{
			MarketKey: quote.MarketKey,
			Selection: quote.OutcomeName,
			Odds:      quote.Price,
			Point:     decimalToFloatPtr(quote.Point),
		},
	)
	if err != nil {
		s.Logger.Debug("closing quote not comparable",
			zap.Uint64("bet_id", bet.ID),
			zap.Error(err))
		return 0, 0, false
	}
	return quote.Price, clv, true
}

func decimalToFloatPtr(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}
