package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"edgebook/internal/client/oddsapi"
	"edgebook/internal/config"
	"edgebook/internal/models"
	"edgebook/internal/repository"
)

// OddsSyncService pulls current bookmaker odds per configured sport and
// upserts normalized quotes plus the games they price.
type OddsSyncService struct {
	Store   repository.Repository
	Odds    *oddsapi.Client
	Logger  *zap.Logger
	Regions string
	Config  config.OddsSyncConfig
}

type OddsSyncResult struct {
	Sports int `json:"sports"`
	Events int `json:"events"`
	Quotes int `json:"quotes"`
	Errors int `json:"errors"`
}

func (s *OddsSyncService) Sync(ctx context.Context) (OddsSyncResult, error) {
	var result OddsSyncResult
	now := time.Now().UTC()

	allowed := bookmakerSet(s.Config.Bookmakers)

	for _, sport := range s.Config.Sports {
		events, err := s.Odds.GetOdds(ctx, sport, s.Regions, s.Config.Markets)
		if err != nil {
			result.Errors++
			s.Logger.Error("odds fetch failed",
				zap.String("sport", sport),
				zap.Error(err))
			continue
		}
		result.Sports++

		games := make([]models.Game, 0, len(events))
		var quotes []models.OddsQuote
		for _, ev := range events {
			raw, _ := json.Marshal(ev)
			games = append(games, models.Game{
				ExternalID:   ev.ID,
				Sport:        ev.SportKey,
				HomeTeam:     ev.HomeTeam,
				AwayTeam:     ev.AwayTeam,
				Status:       models.GameStatusScheduled,
				CommenceAt:   ev.CommenceTime,
				LastSyncedAt: now,
				RawJSON:      datatypes.JSON(raw),
			})
			for _, bm := range ev.Bookmakers {
				if len(allowed) > 0 {
					if _, ok := allowed[strings.ToLower(bm.Key)]; !ok {
						continue
					}
				}
				for _, market := range bm.Markets {
					for _, outcome := range market.Outcomes {
						quote := models.OddsQuote{
							GameExternalID: ev.ID,
							Bookmaker:      bm.Key,
							MarketKey:      market.Key,
							OutcomeName:    outcome.Name,
							Price:          outcome.Price,
							LastUpdated:    market.LastUpdate,
						}
						if outcome.Point != nil {
							point := decimal.NewFromFloat(*outcome.Point)
							quote.Point = &point
						}
						quotes = append(quotes, quote)
					}
				}
			}
		}

		// Schedule-only upsert: score sync owns status and scores.
		if err := s.Store.UpsertGameSchedules(ctx, games); err != nil {
			result.Errors++
			s.Logger.Error("game upsert failed", zap.String("sport", sport), zap.Error(err))
			continue
		}
		if err := s.Store.UpsertOddsQuotes(ctx, quotes); err != nil {
			result.Errors++
			s.Logger.Error("quote upsert failed", zap.String("sport", sport), zap.Error(err))
			continue
		}
		result.Events += len(games)
		result.Quotes += len(quotes)
	}

	s.Logger.Info("odds sync finished",
		zap.Int("sports", result.Sports),
		zap.Int("events", result.Events),
		zap.Int("quotes", result.Quotes),
		zap.Int("errors", result.Errors))
	return result, nil
}

func bookmakerSet(keys []string) map[string]struct{} {
	if len(keys) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
