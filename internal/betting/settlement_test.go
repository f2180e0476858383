package betting

import (
	"errors"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func finalGame(home, away string, homeScore, awayScore int) *GameResult {
	return &GameResult{
		HomeTeam:  home,
		AwayTeam:  away,
		HomeScore: homeScore,
		AwayScore: awayScore,
		Final:     true,
	}
}

func TestResolve_PendingStates(t *testing.T) {
	r := &Resolver{}
	ticket := Ticket{MarketKey: MarketMoneyline, Selection: "Lakers", Amount: 50, PotentialReturn: 95}

	// Missing game record: deferred, not an error.
	s, err := r.Resolve(ticket, nil)
	if err != nil {
		t.Fatalf("nil game: err=%v", err)
	}
	if s.Outcome != OutcomePending || s.ActualReturn != 0 {
		t.Fatalf("nil game: got %+v want pending", s)
	}

	// Game exists but is not final.
	g := finalGame("Los Angeles Lakers", "Boston Celtics", 55, 48)
	g.Final = false
	s, err = r.Resolve(ticket, g)
	if err != nil {
		t.Fatalf("in-progress game: err=%v", err)
	}
	if s.Outcome != OutcomePending {
		t.Fatalf("in-progress game: outcome=%q want pending", s.Outcome)
	}
}

func TestResolve_Moneyline(t *testing.T) {
	r := &Resolver{}
	tests := []struct {
		name       string
		selection  string
		home, away int
		want       Outcome
		wantReturn float64
	}{
		{"home wins, bet home", "Lakers", 100, 90, OutcomeWin, 95},
		{"home wins, bet away", "Celtics", 100, 90, OutcomeLoss, 0},
		{"tie pushes", "Lakers", 90, 90, OutcomePush, 50},
		{"full name variant matches", "Los Angeles Lakers", 100, 90, OutcomeWin, 95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := Ticket{
				MarketKey:       MarketMoneyline,
				Selection:       tt.selection,
				Amount:          50,
				PotentialReturn: 95,
			}
			g := finalGame("Los Angeles Lakers", "Boston Celtics", tt.home, tt.away)
			s, err := r.Resolve(ticket, g)
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if s.Outcome != tt.want {
				t.Fatalf("outcome=%q want %q", s.Outcome, tt.want)
			}
			if s.ActualReturn != tt.wantReturn {
				t.Fatalf("actual return=%v want %v", s.ActualReturn, tt.wantReturn)
			}
		})
	}
}

func TestResolve_Moneyline_Unresolvable(t *testing.T) {
	r := &Resolver{}
	g := finalGame("Los Angeles Lakers", "Boston Celtics", 100, 90)

	// Neither team matches.
	_, err := r.Resolve(Ticket{MarketKey: MarketMoneyline, Selection: "Miami Heat", Amount: 10}, g)
	if !errors.Is(err, ErrUnresolvableSelection) {
		t.Fatalf("no match: err=%v want ErrUnresolvableSelection", err)
	}

	// Substring of both team names matches both ways: also ambiguous.
	gg := finalGame("New York Knicks", "New York Liberty", 100, 90)
	_, err = r.Resolve(Ticket{MarketKey: MarketMoneyline, Selection: "New York", Amount: 10}, gg)
	if !errors.Is(err, ErrUnresolvableSelection) {
		t.Fatalf("double match: err=%v want ErrUnresolvableSelection", err)
	}
}

func TestResolve_Spread(t *testing.T) {
	r := &Resolver{}
	tests := []struct {
		name       string
		selection  string
		line       float64
		home, away int
		want       Outcome
	}{
		{"favorite covers", "Chiefs", -7, 30, 20, OutcomeWin},
		{"favorite wins but misses the number", "Chiefs", -7, 24, 20, OutcomeLoss},
		{"wins by exactly the line pushes", "Chiefs", -7, 27, 20, OutcomePush},
		{"underdog covers by losing small", "Broncos", 7, 24, 20, OutcomeWin},
		{"underdog blown out", "Broncos", 7, 34, 20, OutcomeLoss},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := Ticket{
				MarketKey:       MarketSpread,
				Selection:       tt.selection,
				Line:            floatPtr(tt.line),
				Amount:          110,
				PotentialReturn: 210,
			}
			g := finalGame("Kansas City Chiefs", "Denver Broncos", tt.home, tt.away)
			s, err := r.Resolve(ticket, g)
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if s.Outcome != tt.want {
				t.Fatalf("outcome=%q want %q", s.Outcome, tt.want)
			}
		})
	}
}

func TestResolve_Spread_MissingLine(t *testing.T) {
	r := &Resolver{}
	g := finalGame("Kansas City Chiefs", "Denver Broncos", 27, 20)
	_, err := r.Resolve(Ticket{MarketKey: MarketSpread, Selection: "Chiefs", Amount: 10}, g)
	if !errors.Is(err, ErrUnresolvableSelection) {
		t.Fatalf("err=%v want ErrUnresolvableSelection", err)
	}
}

func TestResolve_Totals(t *testing.T) {
	r := &Resolver{}
	tests := []struct {
		name       string
		selection  string
		line       float64
		home, away int
		want       Outcome
	}{
		{"over hits", "over", 45.5, 26, 20, OutcomeWin},
		{"over misses", "over", 45.5, 25, 20, OutcomeLoss},
		{"under hits", "Under 45.5", 45.5, 25, 20, OutcomeWin},
		{"lands on the number", "over", 46, 26, 20, OutcomePush},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticket := Ticket{
				MarketKey:       MarketTotal,
				Selection:       tt.selection,
				Line:            floatPtr(tt.line),
				Amount:          100,
				PotentialReturn: 190,
			}
			g := finalGame("Kansas City Chiefs", "Denver Broncos", tt.home, tt.away)
			s, err := r.Resolve(ticket, g)
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if s.Outcome != tt.want {
				t.Fatalf("outcome=%q want %q", s.Outcome, tt.want)
			}
		})
	}
}

func TestResolve_Totals_AmbiguousDirection(t *testing.T) {
	r := &Resolver{}
	g := finalGame("Kansas City Chiefs", "Denver Broncos", 26, 20)
	ticket := Ticket{MarketKey: MarketTotal, Selection: "46 points", Line: floatPtr(45.5), Amount: 10}
	if _, err := r.Resolve(ticket, g); !errors.Is(err, ErrUnresolvableSelection) {
		t.Fatalf("err=%v want ErrUnresolvableSelection", err)
	}
}

func TestResolve_UnknownMarketFallsBackToMoneyline(t *testing.T) {
	r := &Resolver{}
	g := finalGame("Los Angeles Lakers", "Boston Celtics", 100, 90)
	ticket := Ticket{
		MarketKey:       "player_points",
		Selection:       "Lakers",
		Amount:          50,
		PotentialReturn: 95,
	}
	s, err := r.Resolve(ticket, g)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if s.Outcome != OutcomeWin {
		t.Fatalf("outcome=%q want win via moneyline fallback", s.Outcome)
	}
}
