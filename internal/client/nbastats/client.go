// Package nbastats wraps the NBA stats endpoints used for scoreboard, team
// and player dashboards, league-wide player stats and career totals.
package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const liveScoreboardURL = "https://cdn.nba.com/static/json/liveData/scoreboard/todaysScoreboard_00.json"

type Client struct {
	host       string
	httpClient *http.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stats API error (%d): %s", e.Status, e.Body)
}

func NewClient(httpClient *http.Client, host string) *Client {
	if host == "" {
		host = "https://stats.nba.com/stats"
	}
	host = strings.TrimRight(host, "/")
	return &Client{
		host:       host,
		httpClient: httpClient,
	}
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// stats.nba.com rejects requests without browser-ish headers.
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", "https://www.nba.com/")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

func (c *Client) doStats(ctx context.Context, endpoint string, query url.Values) (*resultSetResponse, error) {
	body, err := c.doRequest(ctx, c.host+"/"+endpoint+"?"+query.Encode())
	if err != nil {
		return nil, err
	}
	var rs resultSetResponse
	if err := json.Unmarshal(body, &rs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", endpoint, err)
	}
	return &rs, nil
}

// Scoreboard returns today's games from the live scoreboard feed.
func (c *Client) Scoreboard(ctx context.Context) ([]ScoreboardGame, error) {
	body, err := c.doRequest(ctx, liveScoreboardURL)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Scoreboard struct {
			Games []struct {
				GameID         string `json:"gameId"`
				GameStatusText string `json:"gameStatusText"`
				HomeTeam       struct {
					TeamTricode string `json:"teamTricode"`
					Score       int    `json:"score"`
				} `json:"homeTeam"`
				AwayTeam struct {
					TeamTricode string `json:"teamTricode"`
					Score       int    `json:"score"`
				} `json:"awayTeam"`
			} `json:"games"`
		} `json:"scoreboard"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard: %w", err)
	}
	games := make([]ScoreboardGame, 0, len(payload.Scoreboard.Games))
	for _, g := range payload.Scoreboard.Games {
		games = append(games, ScoreboardGame{
			GameID:    g.GameID,
			HomeTeam:  g.HomeTeam.TeamTricode,
			AwayTeam:  g.AwayTeam.TeamTricode,
			HomeScore: g.HomeTeam.Score,
			AwayScore: g.AwayTeam.Score,
			Status:    g.GameStatusText,
		})
	}
	return games, nil
}

// TeamDashboard returns a team's season aggregates. A nil row means the
// dashboard was empty for the season.
func (c *Client) TeamDashboard(ctx context.Context, teamID int, season, perMode string) (*TeamSeason, error) {
	query := dashboardQuery(season, perMode)
	query.Set("TeamID", strconv.Itoa(teamID))
	rs, err := c.doStats(ctx, "teamdashboardbygeneralsplits", query)
	if err != nil {
		return nil, err
	}
	row := rs.firstRow("OverallTeamDashboard")
	if row == nil {
		return nil, nil
	}
	return &TeamSeason{
		GamesPlayed: row.getInt("GP"),
		Wins:        row.getInt("W"),
		Losses:      row.getInt("L"),
		WinPct:      row.getFloat("W_PCT"),
		Points:      row.getFloat("PTS"),
		Rebounds:    row.getFloat("REB"),
		Assists:     row.getFloat("AST"),
		Steals:      row.getFloat("STL"),
		Blocks:      row.getFloat("BLK"),
		Turnovers:   row.getFloat("TOV"),
		PlusMinus:   row.getFloat("PLUS_MINUS"),
	}, nil
}

// PlayerDashboard returns a player's season aggregates. A nil row means the
// dashboard was empty for the season.
func (c *Client) PlayerDashboard(ctx context.Context, playerID int, season, perMode string) (*PlayerSeason, error) {
	query := dashboardQuery(season, perMode)
	query.Set("PlayerID", strconv.Itoa(playerID))
	rs, err := c.doStats(ctx, "playerdashboardbygeneralsplits", query)
	if err != nil {
		return nil, err
	}
	row := rs.firstRow("OverallPlayerDashboard")
	if row == nil {
		return nil, nil
	}
	return &PlayerSeason{
		GamesPlayed:   row.getInt("GP"),
		Points:        row.getFloat("PTS"),
		Rebounds:      row.getFloat("REB"),
		Assists:       row.getFloat("AST"),
		Steals:        row.getFloat("STL"),
		Blocks:        row.getFloat("BLK"),
		Turnovers:     row.getFloat("TOV"),
		FieldGoalPct:  row.getFloat("FG_PCT"),
		ThreePointPct: row.getFloat("FG3_PCT"),
		FreeThrowPct:  row.getFloat("FT_PCT"),
		PlusMinus:     row.getFloat("PLUS_MINUS"),
	}, nil
}

// LeaguePlayerStats returns league-wide per-player aggregates for the season.
func (c *Client) LeaguePlayerStats(ctx context.Context, season, perMode string) ([]LeaguePlayer, error) {
	query := dashboardQuery(season, perMode)
	query.Set("SeasonType", "Regular Season")
	rs, err := c.doStats(ctx, "leaguedashplayerstats", query)
	if err != nil {
		return nil, err
	}
	rows := rs.rows("LeagueDashPlayerStats")
	players := make([]LeaguePlayer, 0, len(rows))
	for _, row := range rows {
		players = append(players, LeaguePlayer{
			PlayerID:   row.getInt("PLAYER_ID"),
			PlayerName: row.getString("PLAYER_NAME"),
			TeamID:     row.getInt("TEAM_ID"),
			Team:       row.getString("TEAM_ABBREVIATION"),
			Points:     row.getFloat("PTS"),
			Rebounds:   row.getFloat("REB"),
			Assists:    row.getFloat("AST"),
			UsagePct:   row.getFloat("USG_PCT"),
		})
	}
	return players, nil
}

// CareerTotals returns a player's career totals row. Falls back to the most
// recent season when no explicit career row exists; nil when there is no data.
func (c *Client) CareerTotals(ctx context.Context, playerID int) (*CareerTotals, error) {
	query := url.Values{}
	query.Set("PlayerID", strconv.Itoa(playerID))
	query.Set("PerMode", "Totals")
	rs, err := c.doStats(ctx, "playercareerstats", query)
	if err != nil {
		return nil, err
	}
	rows := rs.rows("SeasonTotalsRegularSeason")
	careerRows := rs.rows("CareerTotalsRegularSeason")

	var row *statRow
	if len(careerRows) > 0 {
		row = &careerRows[0]
	} else if len(rows) > 0 {
		row = &rows[len(rows)-1]
	}
	if row == nil {
		return nil, nil
	}
	return &CareerTotals{
		GamesPlayed: row.getFloat("GP"),
		Points:      row.getFloat("PTS"),
		Rebounds:    row.getFloat("REB"),
		Assists:     row.getFloat("AST"),
	}, nil
}

func dashboardQuery(season, perMode string) url.Values {
	query := url.Values{}
	query.Set("Season", season)
	query.Set("PerMode", perMode)
	return query
}
