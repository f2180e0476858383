package betting

// Leg is one selection inside a bet or parlay. Legs are built from user input
// or stored odds records at evaluation time and never mutated afterwards.
type Leg struct {
	MarketKey string // h2h | spreads | totals
	Selection string // team name, or "over"/"under"
	Odds      int    // American, never zero
	// Line is the point spread or total threshold. Required for spreads and
	// totals, nil for moneyline.
	Line *float64
	// WinProbability is the model- or market-derived estimate of the leg's
	// true win probability, in (0,1).
	WinProbability float64
	// EventID identifies the underlying game; legs sharing an EventID are
	// treated as correlated (same-game parlay).
	EventID string
	// Sport is the coarse category ("basketball_nba", ...) used by the
	// cross-game correlation heuristic.
	Sport string
}

// Parlay is an ordered collection of at least two legs plus a stake.
type Parlay struct {
	Stake float64
	Legs  []Leg
}
