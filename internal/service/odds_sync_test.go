package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"edgebook/internal/client/oddsapi"
	"edgebook/internal/config"
)

const oddsFixture = `[
  {
    "id": "evt-1",
    "sport_key": "basketball_nba",
    "commence_time": "2026-01-10T00:00:00Z",
    "home_team": "Boston Celtics",
    "away_team": "Miami Heat",
    "bookmakers": [
      {
        "key": "draftkings",
        "markets": [
          {
            "key": "h2h",
            "last_update": "2026-01-09T23:00:00Z",
            "outcomes": [
              {"name": "Boston Celtics", "price": -130},
              {"name": "Miami Heat", "price": 110}
            ]
          },
          {
            "key": "spreads",
            "last_update": "2026-01-09T23:00:00Z",
            "outcomes": [
              {"name": "Boston Celtics", "price": -110, "point": -2.5},
              {"name": "Miami Heat", "price": -110, "point": 2.5}
            ]
          }
        ]
      },
      {
        "key": "fanduel",
        "markets": [
          {
            "key": "h2h",
            "last_update": "2026-01-09T23:00:00Z",
            "outcomes": [
              {"name": "Boston Celtics", "price": -125},
              {"name": "Miami Heat", "price": 105}
            ]
          }
        ]
      }
    ]
  }
]`

func newOddsSyncService(t *testing.T, repo *stubRepo, cfg config.OddsSyncConfig) *OddsSyncService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(oddsFixture))
	}))
	t.Cleanup(server.Close)
	return &OddsSyncService{
		Store:   repo,
		Odds:    oddsapi.NewClient(server.Client(), server.URL, "test-key"),
		Logger:  zap.NewNop(),
		Regions: "us",
		Config:  cfg,
	}
}

func TestOddsSync_UpsertsSchedulesAndQuotes(t *testing.T) {
	repo := newStubRepo()
	svc := newOddsSyncService(t, repo, config.OddsSyncConfig{
		Sports:  []string{"basketball_nba"},
		Markets: []string{"h2h", "spreads"},
	})

	result, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Events != 1 || result.Quotes != 6 || result.Errors != 0 {
		t.Fatalf("result=%+v want 1 event, 6 quotes", result)
	}

	if len(repo.schedUpserts) != 1 {
		t.Fatalf("schedule upserts=%d want 1", len(repo.schedUpserts))
	}
	game := repo.schedUpserts[0]
	if game.ExternalID != "evt-1" || game.HomeTeam != "Boston Celtics" {
		t.Fatalf("game=%+v", game)
	}

	var spread bool
	for _, q := range repo.upsertedQuotes {
		if q.MarketKey == "spreads" && q.OutcomeName == "Miami Heat" {
			spread = true
			if q.Point == nil || !q.Point.Equal(decimal.NewFromFloat(2.5)) {
				t.Fatalf("spread point=%v want 2.5", q.Point)
			}
		}
	}
	if !spread {
		t.Fatalf("spread quote missing from %d upserts", len(repo.upsertedQuotes))
	}
}

// The odds feed keeps returning live and just-finished games. Syncing them
// must never touch status or scores, or a game the score sync already marked
// final would flip back to scheduled and strand its pending bets.
func TestOddsSync_NeverWritesStatusColumns(t *testing.T) {
	repo := newStubRepo()
	svc := newOddsSyncService(t, repo, config.OddsSyncConfig{
		Sports:  []string{"basketball_nba"},
		Markets: []string{"h2h"},
	})

	if _, err := svc.Sync(context.Background()); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if len(repo.fullUpserts) != 0 {
		t.Fatalf("odds sync used the full game upsert (%d rows); it owns schedule columns only", len(repo.fullUpserts))
	}
	if len(repo.schedUpserts) == 0 {
		t.Fatalf("no schedule upserts recorded")
	}
}

func TestOddsSync_BookmakerFilter(t *testing.T) {
	repo := newStubRepo()
	svc := newOddsSyncService(t, repo, config.OddsSyncConfig{
		Sports:     []string{"basketball_nba"},
		Markets:    []string{"h2h", "spreads"},
		Bookmakers: []string{"FanDuel"},
	})

	result, err := svc.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if result.Quotes != 2 {
		t.Fatalf("quotes=%d want 2 (fanduel h2h only)", result.Quotes)
	}
	for _, q := range repo.upsertedQuotes {
		if q.Bookmaker != "fanduel" {
			t.Fatalf("quote from %q leaked past the bookmaker filter", q.Bookmaker)
		}
	}
}
