package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"edgebook/internal/cache"
	"edgebook/internal/client/nbastats"
)

// ErrNotBasketballQuery is returned by HandleQuery for text that does not
// reference the NBA at all.
var ErrNotBasketballQuery = errors.New("query does not appear to reference the NBA")

const (
	defaultPerMode   = "PerGame"
	defaultPropLimit = 5
)

// StatsService answers scoreboard, team, player, career and prop lookups from
// the NBA stats provider, with an optional redis TTL cache in front of each
// remote call.
type StatsService struct {
	Stats  *nbastats.Client
	Cache  *cache.Cache
	Logger *zap.Logger
	Season string
}

type ScoreboardPayload struct {
	Games []nbastats.ScoreboardGame `json:"games"`
}

type TeamStatsPayload struct {
	TeamID      int                  `json:"teamId"`
	Season      string               `json:"season"`
	PerMode     string               `json:"perMode"`
	GamesPlayed int                  `json:"gamesPlayed"`
	Averages    *nbastats.TeamSeason `json:"averages"`
}

type PlayerStatsPayload struct {
	PlayerID    int                    `json:"playerId"`
	Season      string                 `json:"season"`
	PerMode     string                 `json:"perMode"`
	GamesPlayed int                    `json:"gamesPlayed"`
	Averages    *nbastats.PlayerSeason `json:"averages"`
}

type CareerAverages struct {
	PPG float64 `json:"ppg"`
	APG float64 `json:"apg"`
	RPG float64 `json:"rpg"`
}

type CareerPayload struct {
	PlayerID       int            `json:"playerId"`
	CareerAverages CareerAverages `json:"careerAverages"`
}

// PropPlayer ranks a player for prop exploration by blending the core
// counting stats: points plus three quarters of rebounds and assists.
type PropPlayer struct {
	PlayerID   int     `json:"playerId"`
	PlayerName string  `json:"playerName"`
	TeamID     int     `json:"teamId"`
	Team       string  `json:"team"`
	Points     float64 `json:"points"`
	Rebounds   float64 `json:"rebounds"`
	Assists    float64 `json:"assists"`
	UsagePct   float64 `json:"usagePct"`
	PropScore  float64 `json:"propScore"`
}

type PropsPayload struct {
	Season  string       `json:"season"`
	PerMode string       `json:"perMode"`
	Players []PropPlayer `json:"players"`
}

// QueryFallback wraps prop recommendations returned when a targeted lookup
// lacked the ID it needed.
type QueryFallback struct {
	Message         string       `json:"message"`
	Recommendations PropsPayload `json:"recommendations"`
}

func (s *StatsService) LiveScores(ctx context.Context) (ScoreboardPayload, error) {
	var payload ScoreboardPayload
	key := "stats:scoreboard"
	if err := s.Cache.Get(ctx, key, &payload); err == nil {
		return payload, nil
	}
	games, err := s.Stats.Scoreboard(ctx)
	if err != nil {
		return payload, fmt.Errorf("fetch live scores: %w", err)
	}
	payload.Games = games
	s.cacheSet(ctx, key, payload, s.Cache.LiveTTL())
	return payload, nil
}

func (s *StatsService) TeamStatistics(ctx context.Context, teamID int, season, perMode string) (TeamStatsPayload, error) {
	season, perMode = s.normalize(season, perMode)
	payload := TeamStatsPayload{TeamID: teamID, Season: season, PerMode: perMode}
	key := fmt.Sprintf("stats:team:%d:%s:%s", teamID, season, perMode)
	if err := s.Cache.Get(ctx, key, &payload); err == nil {
		return payload, nil
	}
	row, err := s.Stats.TeamDashboard(ctx, teamID, season, perMode)
	if err != nil {
		return payload, fmt.Errorf("fetch team statistics: %w", err)
	}
	if row != nil {
		payload.GamesPlayed = row.GamesPlayed
		payload.Averages = row
	}
	s.cacheSet(ctx, key, payload, s.Cache.StatsTTL())
	return payload, nil
}

func (s *StatsService) PlayerStatistics(ctx context.Context, playerID int, season, perMode string) (PlayerStatsPayload, error) {
	season, perMode = s.normalize(season, perMode)
	payload := PlayerStatsPayload{PlayerID: playerID, Season: season, PerMode: perMode}
	key := fmt.Sprintf("stats:player:%d:%s:%s", playerID, season, perMode)
	if err := s.Cache.Get(ctx, key, &payload); err == nil {
		return payload, nil
	}
	row, err := s.Stats.PlayerDashboard(ctx, playerID, season, perMode)
	if err != nil {
		return payload, fmt.Errorf("fetch player statistics: %w", err)
	}
	if row != nil {
		payload.GamesPlayed = row.GamesPlayed
		payload.Averages = row
	}
	s.cacheSet(ctx, key, payload, s.Cache.StatsTTL())
	return payload, nil
}

func (s *StatsService) PlayerCareer(ctx context.Context, playerID int) (CareerPayload, error) {
	payload := CareerPayload{PlayerID: playerID}
	key := fmt.Sprintf("stats:career:%d", playerID)
	if err := s.Cache.Get(ctx, key, &payload); err == nil {
		return payload, nil
	}
	totals, err := s.Stats.CareerTotals(ctx, playerID)
	if err != nil {
		return payload, fmt.Errorf("fetch career stats: %w", err)
	}
	if totals != nil && totals.GamesPlayed > 0 {
		payload.CareerAverages = CareerAverages{
			PPG: totals.Points / totals.GamesPlayed,
			APG: totals.Assists / totals.GamesPlayed,
			RPG: totals.Rebounds / totals.GamesPlayed,
		}
	}
	s.cacheSet(ctx, key, payload, s.Cache.StatsTTL())
	return payload, nil
}

func (s *StatsService) PropRecommendations(ctx context.Context, season, perMode string, limit int) (PropsPayload, error) {
	season, perMode = s.normalize(season, perMode)
	if limit <= 0 {
		limit = defaultPropLimit
	}
	payload := PropsPayload{Season: season, PerMode: perMode}
	key := fmt.Sprintf("stats:props:%s:%s:%d", season, perMode, limit)
	if err := s.Cache.Get(ctx, key, &payload); err == nil {
		return payload, nil
	}
	players, err := s.Stats.LeaguePlayerStats(ctx, season, perMode)
	if err != nil {
		return payload, fmt.Errorf("fetch prop recommendations: %w", err)
	}

	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Points != players[j].Points {
			return players[i].Points > players[j].Points
		}
		if players[i].Rebounds != players[j].Rebounds {
			return players[i].Rebounds > players[j].Rebounds
		}
		return players[i].Assists > players[j].Assists
	})
	if len(players) > limit {
		players = players[:limit]
	}
	for _, p := range players {
		score := p.Points + p.Rebounds*0.75 + p.Assists*0.75
		payload.Players = append(payload.Players, PropPlayer{
			PlayerID:   p.PlayerID,
			PlayerName: p.PlayerName,
			TeamID:     p.TeamID,
			Team:       p.Team,
			Points:     p.Points,
			Rebounds:   p.Rebounds,
			Assists:    p.Assists,
			UsagePct:   p.UsagePct,
			PropScore:  math.Round(score*100) / 100,
		})
	}
	s.cacheSet(ctx, key, payload, s.Cache.StatsTTL())
	return payload, nil
}

var firstInteger = regexp.MustCompile(`(\d+)`)

// HandleQuery routes a free-text question to the matching lookup. Targeted
// requests that lack an ID fall back to prop recommendations rather than
// failing.
func (s *StatsService) HandleQuery(ctx context.Context, query string) (any, error) {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	if !strings.Contains(normalized, "nba") {
		return nil, ErrNotBasketballQuery
	}

	fallback := func(message string) (any, error) {
		props, err := s.PropRecommendations(ctx, "", "", 0)
		if err != nil {
			return nil, err
		}
		if message == "" {
			return props, nil
		}
		return QueryFallback{Message: message, Recommendations: props}, nil
	}

	switch {
	case strings.Contains(normalized, "live") && strings.Contains(normalized, "score"):
		return s.LiveScores(ctx)

	case strings.Contains(normalized, "team") && strings.Contains(normalized, "stat"):
		id, ok := extractFirstInteger(normalized)
		if !ok {
			return fallback("Team stats requested without an explicit ID.")
		}
		return s.TeamStatistics(ctx, id, "", "")

	case strings.Contains(normalized, "player") && strings.Contains(normalized, "career"):
		id, ok := extractFirstInteger(normalized)
		if !ok {
			return fallback("Player career stats requested without an ID.")
		}
		return s.PlayerCareer(ctx, id)

	case strings.Contains(normalized, "player") && strings.Contains(normalized, "stat"):
		id, ok := extractFirstInteger(normalized)
		if !ok {
			return fallback("Player stats requested without an ID.")
		}
		return s.PlayerStatistics(ctx, id, "", "")

	default:
		return fallback("")
	}
}

func (s *StatsService) normalize(season, perMode string) (string, string) {
	if season == "" {
		season = s.Season
	}
	if season == "" {
		season = currentSeason(time.Now())
	}
	if perMode == "" {
		perMode = defaultPerMode
	}
	return season, perMode
}

func (s *StatsService) cacheSet(ctx context.Context, key string, val any, ttl time.Duration) {
	if err := s.Cache.Set(ctx, key, val, ttl); err != nil {
		s.Logger.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func extractFirstInteger(text string) (int, bool) {
	match := firstInteger.FindString(text)
	if match == "" {
		return 0, false
	}
	id, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return id, true
}

// currentSeason derives the NBA season label (e.g. "2025-26"); seasons roll
// over in October.
func currentSeason(now time.Time) string {
	start := now.Year()
	if now.Month() < time.October {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}
