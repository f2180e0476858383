package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"edgebook/internal/client/oddsapi"
	"edgebook/internal/config"
	"edgebook/internal/models"
	"edgebook/internal/repository"
)

// ScoreSyncService pulls recent scores per configured sport and upserts game
// rows, flagging completed games final so the settlement pass can grade them.
type ScoreSyncService struct {
	Store  repository.Repository
	Odds   *oddsapi.Client
	Logger *zap.Logger
	Config config.OddsSyncConfig
}

type ScoreSyncResult struct {
	Sports int `json:"sports"`
	Games  int `json:"games"`
	Final  int `json:"final"`
	Errors int `json:"errors"`
}

func (s *ScoreSyncService) Sync(ctx context.Context) (ScoreSyncResult, error) {
	var result ScoreSyncResult
	now := time.Now().UTC()

	for _, sport := range s.Config.Sports {
		scores, err := s.Odds.GetScores(ctx, sport, s.Config.DaysFrom)
		if err != nil {
			result.Errors++
			s.Logger.Error("score fetch failed",
				zap.String("sport", sport),
				zap.Error(err))
			continue
		}
		result.Sports++

		games := make([]models.Game, 0, len(scores))
		for _, ev := range scores {
			raw, _ := json.Marshal(ev)
			game := models.Game{
				ExternalID:   ev.ID,
				Sport:        ev.SportKey,
				HomeTeam:     ev.HomeTeam,
				AwayTeam:     ev.AwayTeam,
				Status:       models.GameStatusScheduled,
				CommenceAt:   ev.CommenceTime,
				LastSyncedAt: now,
				RawJSON:      datatypes.JSON(raw),
			}
			homeScore, awayScore, scored := extractScores(ev)
			if scored {
				game.HomeScore = &homeScore
				game.AwayScore = &awayScore
				game.Status = models.GameStatusInProgress
			}
			if ev.Completed {
				game.Status = models.GameStatusFinal
				result.Final++
			}
			games = append(games, game)
		}

		if err := s.Store.UpsertGames(ctx, games); err != nil {
			result.Errors++
			s.Logger.Error("game upsert failed", zap.String("sport", sport), zap.Error(err))
			continue
		}
		result.Games += len(games)
	}

	s.Logger.Info("score sync finished",
		zap.Int("sports", result.Sports),
		zap.Int("games", result.Games),
		zap.Int("final", result.Final),
		zap.Int("errors", result.Errors))
	return result, nil
}

// extractScores matches the provider's team score rows back to the home and
// away names; scores arrive as strings.
func extractScores(ev oddsapi.EventScore) (home, away int, ok bool) {
	if len(ev.Scores) == 0 {
		return 0, 0, false
	}
	found := 0
	for _, ts := range ev.Scores {
		val, err := strconv.Atoi(strings.TrimSpace(ts.Score))
		if err != nil {
			continue
		}
		switch {
		case strings.EqualFold(ts.Name, ev.HomeTeam):
			home = val
			found++
		case strings.EqualFold(ts.Name, ev.AwayTeam):
			away = val
			found++
		}
	}
	return home, away, found == 2
}
