package betting

import "testing"

func leg(market, eventID, sport string, odds int, prob float64) Leg {
	return Leg{
		MarketKey:      market,
		Selection:      "x",
		Odds:           odds,
		WinProbability: prob,
		EventID:        eventID,
		Sport:          sport,
	}
}

func TestEstimateCorrelation(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		a, b Leg
		want float64
	}{
		{
			"different sports are independent",
			leg(MarketMoneyline, "g1", "basketball_nba", -110, 0.5),
			leg(MarketMoneyline, "g2", "icehockey_nhl", -110, 0.5),
			0,
		},
		{
			"same sport, different games",
			leg(MarketMoneyline, "g1", "basketball_nba", -110, 0.5),
			leg(MarketSpread, "g2", "basketball_nba", -110, 0.5),
			cfg.SameSport,
		},
		{
			"same game, moneyline and spread",
			leg(MarketMoneyline, "g1", "basketball_nba", -110, 0.5),
			leg(MarketSpread, "g1", "basketball_nba", -110, 0.5),
			0.85,
		},
		{
			"same game, spread and total",
			leg(MarketSpread, "g1", "basketball_nba", -110, 0.5),
			leg(MarketTotal, "g1", "basketball_nba", -110, 0.5),
			0.35,
		},
		{
			"same game, unlisted pair falls back to the default",
			leg(MarketTotal, "g1", "basketball_nba", -110, 0.5),
			leg(MarketTotal, "g1", "basketball_nba", -110, 0.5),
			cfg.SameGameDefault,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.EstimateCorrelation(tt.a, tt.b); got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
			// Order of arguments must not matter.
			if got := cfg.EstimateCorrelation(tt.b, tt.a); got != tt.want {
				t.Fatalf("reversed: got %v want %v", got, tt.want)
			}
		})
	}
}

func TestEstimateCorrelation_SportSpecificOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SameGamePairs[PairKey("americanfootball_nfl", MarketSpread, MarketTotal)] = 0.6
	a := leg(MarketSpread, "g1", "americanfootball_nfl", -110, 0.5)
	b := leg(MarketTotal, "g1", "americanfootball_nfl", -110, 0.5)
	if got := cfg.EstimateCorrelation(a, b); got != 0.6 {
		t.Fatalf("got %v want sport-specific 0.6", got)
	}
}

func TestCorrelationMatrix(t *testing.T) {
	cfg := DefaultConfig()
	legs := []Leg{
		leg(MarketMoneyline, "g1", "basketball_nba", -110, 0.55),
		leg(MarketSpread, "g1", "basketball_nba", -110, 0.52),
		leg(MarketMoneyline, "g2", "icehockey_nhl", 130, 0.42),
	}
	m := cfg.CorrelationMatrix(legs)
	if len(m) != 3 {
		t.Fatalf("rows=%d want=3", len(m))
	}
	for i := range m {
		if m[i][i] != 0 {
			t.Fatalf("diagonal [%d][%d]=%v want 0", i, i, m[i][i])
		}
		for j := range m {
			if m[i][j] != m[j][i] {
				t.Fatalf("matrix not symmetric at [%d][%d]", i, j)
			}
		}
	}
	if m[0][1] != 0.85 {
		t.Fatalf("m[0][1]=%v want 0.85", m[0][1])
	}
	if m[0][2] != 0 {
		t.Fatalf("m[0][2]=%v want 0 (cross sport)", m[0][2])
	}
}
