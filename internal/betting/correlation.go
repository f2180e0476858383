package betting

// Config carries the correlation-model policy knobs. The model is a
// heuristic, not a fitted copula; the constants below are tunable and can be
// overridden through the service configuration.
type Config struct {
	// SameGameDefault is the correlation assumed for two legs in the same
	// game when SameGamePairs has no specific entry for their market pair.
	SameGameDefault float64
	// SameGamePairs overrides SameGameDefault per sport and market pair.
	// Keys are built by PairKey.
	SameGamePairs map[string]float64
	// SameSport is the weak positive correlation assumed for legs in
	// different games of the same sport (shared variance sources such as
	// weather and referee pools).
	SameSport float64
	// DampingFactor limits how much the average correlation can suppress the
	// independent probability in EvaluateParlay.
	DampingFactor float64
	// SGPWarningThreshold is the correlation penalty (independent minus true
	// probability) above which a same-game parlay warning is attached.
	SGPWarningThreshold float64
}

// DefaultConfig returns the nominal constants from the correlation model.
func DefaultConfig() Config {
	return Config{
		SameGameDefault: 0.5,
		SameGamePairs: map[string]float64{
			// A moneyline and a spread on the same game move almost in
			// lockstep; a side and the total are only loosely linked.
			PairKey("", MarketMoneyline, MarketSpread): 0.85,
			PairKey("", MarketMoneyline, MarketTotal):  0.20,
			PairKey("", MarketSpread, MarketTotal):     0.35,
		},
		SameSport:           0.1,
		DampingFactor:       0.3,
		SGPWarningThreshold: 0.05,
	}
}

// PairKey builds the lookup key for SameGamePairs. Market order does not
// matter. An empty sport matches any sport (sport-specific entries take
// precedence over the sportless ones).
func PairKey(sport, marketA, marketB string) string {
	if marketB < marketA {
		marketA, marketB = marketB, marketA
	}
	return sport + ":" + marketA + "+" + marketB
}

// EstimateCorrelation returns the estimated correlation coefficient between
// two legs:
//
//   - same game: sport+market-pair table lookup, falling back to
//     SameGameDefault (legs in one event are never independent);
//   - different games, same sport: SameSport;
//   - different sports: 0, fully independent.
func (cfg Config) EstimateCorrelation(a, b Leg) float64 {
	if a.EventID != "" && a.EventID == b.EventID {
		if v, ok := cfg.SameGamePairs[PairKey(a.Sport, a.MarketKey, b.MarketKey)]; ok {
			return v
		}
		if v, ok := cfg.SameGamePairs[PairKey("", a.MarketKey, b.MarketKey)]; ok {
			return v
		}
		return cfg.SameGameDefault
	}
	if a.Sport != "" && a.Sport == b.Sport {
		return cfg.SameSport
	}
	return 0
}

// CorrelationMatrix builds the symmetric N x N matrix of pairwise estimates.
// The diagonal is left at zero; it is never read.
func (cfg Config) CorrelationMatrix(legs []Leg) [][]float64 {
	n := len(legs)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := cfg.EstimateCorrelation(legs[i], legs[j])
			m[i][j] = c
			m[j][i] = c
		}
	}
	return m
}

// averageAbsCorrelation averages |coefficient| across all off-diagonal pairs.
func averageAbsCorrelation(m [][]float64) float64 {
	n := len(m)
	if n < 2 {
		return 0
	}
	var sum float64
	var pairs int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := m[i][j]
			if v < 0 {
				v = -v
			}
			sum += v
			pairs++
		}
	}
	return sum / float64(pairs)
}
