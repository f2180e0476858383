package nbastats

import "encoding/json"

type ScoreboardGame struct {
	GameID    string `json:"gameId"`
	HomeTeam  string `json:"homeTeam"`
	AwayTeam  string `json:"awayTeam"`
	HomeScore int    `json:"homeScore"`
	AwayScore int    `json:"awayScore"`
	Status    string `json:"status"`
}

type TeamSeason struct {
	GamesPlayed int     `json:"gamesPlayed"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinPct      float64 `json:"winPct"`
	Points      float64 `json:"points"`
	Rebounds    float64 `json:"rebounds"`
	Assists     float64 `json:"assists"`
	Steals      float64 `json:"steals"`
	Blocks      float64 `json:"blocks"`
	Turnovers   float64 `json:"turnovers"`
	PlusMinus   float64 `json:"plusMinus"`
}

type PlayerSeason struct {
	GamesPlayed   int     `json:"gamesPlayed"`
	Points        float64 `json:"points"`
	Rebounds      float64 `json:"rebounds"`
	Assists       float64 `json:"assists"`
	Steals        float64 `json:"steals"`
	Blocks        float64 `json:"blocks"`
	Turnovers     float64 `json:"turnovers"`
	FieldGoalPct  float64 `json:"fieldGoalPct"`
	ThreePointPct float64 `json:"threePointPct"`
	FreeThrowPct  float64 `json:"freeThrowPct"`
	PlusMinus     float64 `json:"plusMinus"`
}

type LeaguePlayer struct {
	PlayerID   int     `json:"playerId"`
	PlayerName string  `json:"playerName"`
	TeamID     int     `json:"teamId"`
	Team       string  `json:"team"`
	Points     float64 `json:"points"`
	Rebounds   float64 `json:"rebounds"`
	Assists    float64 `json:"assists"`
	UsagePct   float64 `json:"usagePct"`
}

type CareerTotals struct {
	GamesPlayed float64 `json:"gamesPlayed"`
	Points      float64 `json:"points"`
	Rebounds    float64 `json:"rebounds"`
	Assists     float64 `json:"assists"`
}

// resultSetResponse is the headers/rowSet envelope common to the stats
// endpoints.
type resultSetResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string              `json:"name"`
	Headers []string            `json:"headers"`
	RowSet  [][]json.RawMessage `json:"rowSet"`
}

// statRow pairs one rowSet entry with its header index.
type statRow struct {
	index map[string]int
	row   []json.RawMessage
}

func (rs *resultSetResponse) rows(name string) []statRow {
	for _, set := range rs.ResultSets {
		if set.Name != name {
			continue
		}
		index := make(map[string]int, len(set.Headers))
		for i, h := range set.Headers {
			index[h] = i
		}
		out := make([]statRow, 0, len(set.RowSet))
		for _, row := range set.RowSet {
			out = append(out, statRow{index: index, row: row})
		}
		return out
	}
	return nil
}

func (rs *resultSetResponse) firstRow(name string) *statRow {
	rows := rs.rows(name)
	if len(rows) == 0 {
		return nil
	}
	return &rows[0]
}

func (r *statRow) getFloat(header string) float64 {
	i, ok := r.index[header]
	if !ok || i >= len(r.row) {
		return 0
	}
	var f float64
	if err := json.Unmarshal(r.row[i], &f); err != nil {
		return 0
	}
	return f
}

func (r *statRow) getInt(header string) int {
	return int(r.getFloat(header))
}

func (r *statRow) getString(header string) string {
	i, ok := r.index[header]
	if !ok || i >= len(r.row) {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.row[i], &s); err != nil {
		return ""
	}
	return s
}
