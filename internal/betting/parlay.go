package betting

import "fmt"

// Parlay recommendations.
const (
	RecommendProceed = "PROCEED"
	RecommendAvoid   = "AVOID"
)

// SGPWarning is attached to evaluations of same-game parlays whose
// correlation penalty exceeds the configured threshold.
const SGPWarning = "same-game parlay: legs share one event and the correlation penalty is significant"

// ParlayEvaluation is the full output of EvaluateParlay.
type ParlayEvaluation struct {
	CombinedDecimal  float64     `json:"combined_decimal"`
	CombinedAmerican int         `json:"combined_american"`
	IndependentProb  float64     `json:"independent_probability"`
	Correlations     [][]float64 `json:"correlation_matrix"`
	AvgCorrelation   float64     `json:"avg_correlation"`
	// TrueProb is the independent probability damped by the average pairwise
	// correlation. This stands in for a full copula model; it is a documented
	// simplification, not a rigorous joint distribution.
	TrueProb          float64 `json:"true_probability"`
	MarketImpliedProb float64 `json:"market_implied_probability"`
	// EdgePercent is (true - market implied) expressed in percentage points.
	EdgePercent     float64 `json:"edge_percent"`
	ExpectedValue   float64 `json:"expected_value"`
	PotentialReturn float64 `json:"potential_return"`
	Recommendation  string  `json:"recommendation"`
	SameGameParlay  bool    `json:"same_game_parlay"`
	Warning         string  `json:"warning,omitempty"`
}

// EvaluateParlay combines the legs' prices into one line, estimates the joint
// win probability under the correlation model, and compares it to the
// market-implied probability of the combined price.
func (cfg Config) EvaluateParlay(p Parlay) (ParlayEvaluation, error) {
	if len(p.Legs) < 2 {
		return ParlayEvaluation{}, fmt.Errorf("%d leg(s): %w", len(p.Legs), ErrInsufficientLegs)
	}
	if p.Stake <= 0 {
		return ParlayEvaluation{}, fmt.Errorf("stake %v: %w", p.Stake, ErrInvalidStake)
	}

	combined := 1.0
	independent := 1.0
	for i, leg := range p.Legs {
		dec, err := AmericanToDecimal(leg.Odds)
		if err != nil {
			return ParlayEvaluation{}, fmt.Errorf("leg %d: %w", i, err)
		}
		if leg.WinProbability <= 0 || leg.WinProbability >= 1 {
			return ParlayEvaluation{}, fmt.Errorf("leg %d: win probability %v outside (0,1): %w", i, leg.WinProbability, ErrInvalidOdds)
		}
		combined *= dec
		independent *= leg.WinProbability
	}

	american, err := DecimalToAmerican(combined)
	if err != nil {
		return ParlayEvaluation{}, err
	}
	marketProb, err := DecimalToImpliedProbability(combined)
	if err != nil {
		return ParlayEvaluation{}, err
	}

	matrix := cfg.CorrelationMatrix(p.Legs)
	avgCorr := averageAbsCorrelation(matrix)

	// Correlation can only reduce the estimated joint probability in this
	// model, never raise it.
	trueProb := independent * (1.0 - avgCorr*cfg.DampingFactor)
	if trueProb < 0 {
		trueProb = 0
	}

	profit := p.Stake * (combined - 1.0)
	ev := trueProb*profit - (1.0-trueProb)*p.Stake

	eval := ParlayEvaluation{
		CombinedDecimal:   combined,
		CombinedAmerican:  american,
		IndependentProb:   independent,
		Correlations:      matrix,
		AvgCorrelation:    avgCorr,
		TrueProb:          trueProb,
		MarketImpliedProb: marketProb,
		EdgePercent:       (trueProb - marketProb) * 100.0,
		ExpectedValue:     ev,
		PotentialReturn:   p.Stake * combined,
		Recommendation:    RecommendAvoid,
		SameGameParlay:    sameGame(p.Legs),
	}
	if eval.EdgePercent > 0 {
		eval.Recommendation = RecommendProceed
	}
	if eval.SameGameParlay && independent-trueProb > cfg.SGPWarningThreshold {
		eval.Warning = SGPWarning
	}
	return eval, nil
}

func sameGame(legs []Leg) bool {
	if len(legs) == 0 {
		return false
	}
	first := legs[0].EventID
	if first == "" {
		return false
	}
	for _, leg := range legs[1:] {
		if leg.EventID != first {
			return false
		}
	}
	return true
}
