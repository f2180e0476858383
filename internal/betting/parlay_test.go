package betting

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluateParlay_IndependentLegs(t *testing.T) {
	cfg := DefaultConfig()
	p := Parlay{
		Stake: 100,
		Legs: []Leg{
			leg(MarketMoneyline, "g1", "basketball_nba", 100, 0.5),
			leg(MarketMoneyline, "g2", "icehockey_nhl", 100, 0.5),
		},
	}
	eval, err := cfg.EvaluateParlay(p)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if math.Abs(eval.CombinedDecimal-4.0) > 0.0001 {
		t.Fatalf("combined decimal=%v want 4.0", eval.CombinedDecimal)
	}
	if eval.CombinedAmerican != 300 {
		t.Fatalf("combined american=%d want +300", eval.CombinedAmerican)
	}
	if eval.AvgCorrelation != 0 {
		t.Fatalf("avg correlation=%v want 0 for cross-sport legs", eval.AvgCorrelation)
	}
	// With an all-zero correlation matrix the damped probability is exactly
	// the independent product.
	if eval.TrueProb != eval.IndependentProb {
		t.Fatalf("true=%v independent=%v want equal", eval.TrueProb, eval.IndependentProb)
	}
	if eval.IndependentProb != 0.25 {
		t.Fatalf("independent=%v want 0.25", eval.IndependentProb)
	}
	if eval.SameGameParlay {
		t.Fatalf("cross-game parlay flagged as same-game")
	}
}

func TestEvaluateParlay_SameGameReducesProbability(t *testing.T) {
	cfg := DefaultConfig()
	p := Parlay{
		Stake: 50,
		Legs: []Leg{
			leg(MarketMoneyline, "g1", "basketball_nba", -120, 0.55),
			leg(MarketSpread, "g1", "basketball_nba", -110, 0.52),
			leg(MarketTotal, "g1", "basketball_nba", -110, 0.51),
		},
	}
	eval, err := cfg.EvaluateParlay(p)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	// Correlation must always reduce, never increase, the estimate.
	if eval.TrueProb >= eval.IndependentProb {
		t.Fatalf("true=%v independent=%v want strictly less", eval.TrueProb, eval.IndependentProb)
	}
	if !eval.SameGameParlay {
		t.Fatalf("all legs share g1, want same_game_parlay=true")
	}
}

func TestEvaluateParlay_SGPWarning(t *testing.T) {
	cfg := DefaultConfig()
	p := Parlay{
		Stake: 10,
		Legs: []Leg{
			leg(MarketMoneyline, "g1", "basketball_nba", -150, 0.65),
			leg(MarketSpread, "g1", "basketball_nba", -110, 0.6),
		},
	}
	eval, err := cfg.EvaluateParlay(p)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	penalty := eval.IndependentProb - eval.TrueProb
	if penalty <= cfg.SGPWarningThreshold {
		t.Fatalf("test fixture too weak: penalty=%v threshold=%v", penalty, cfg.SGPWarningThreshold)
	}
	if eval.Warning == "" {
		t.Fatalf("want same-game parlay warning, got none")
	}
}

func TestEvaluateParlay_EdgeAndRecommendation(t *testing.T) {
	cfg := DefaultConfig()
	// Two even-money cross-sport legs priced fair by the market (implied
	// 0.25) but with a model probability of 0.6 each: clear positive edge.
	p := Parlay{
		Stake: 100,
		Legs: []Leg{
			leg(MarketMoneyline, "g1", "basketball_nba", 100, 0.6),
			leg(MarketMoneyline, "g2", "icehockey_nhl", 100, 0.6),
		},
	}
	eval, err := cfg.EvaluateParlay(p)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	wantEdge := (0.36 - 0.25) * 100
	if math.Abs(eval.EdgePercent-wantEdge) > 0.0001 {
		t.Fatalf("edge=%v want %v", eval.EdgePercent, wantEdge)
	}
	if eval.Recommendation != RecommendProceed {
		t.Fatalf("recommendation=%q want %q", eval.Recommendation, RecommendProceed)
	}
	// EV = p*profit - (1-p)*stake = 0.36*300 - 0.64*100.
	if math.Abs(eval.ExpectedValue-44.0) > 0.0001 {
		t.Fatalf("ev=%v want 44.0", eval.ExpectedValue)
	}

	// Flip the model probabilities below the implied line: negative edge.
	p.Legs[0].WinProbability = 0.4
	p.Legs[1].WinProbability = 0.4
	eval, err = cfg.EvaluateParlay(p)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if eval.EdgePercent >= 0 {
		t.Fatalf("edge=%v want negative", eval.EdgePercent)
	}
	if eval.Recommendation != RecommendAvoid {
		t.Fatalf("recommendation=%q want %q", eval.Recommendation, RecommendAvoid)
	}
}

func TestEvaluateParlay_Validation(t *testing.T) {
	cfg := DefaultConfig()

	single := Parlay{Stake: 10, Legs: []Leg{leg(MarketMoneyline, "g1", "basketball_nba", -110, 0.5)}}
	if _, err := cfg.EvaluateParlay(single); !errors.Is(err, ErrInsufficientLegs) {
		t.Fatalf("single leg: err=%v want ErrInsufficientLegs", err)
	}

	noStake := Parlay{Stake: 0, Legs: []Leg{
		leg(MarketMoneyline, "g1", "basketball_nba", -110, 0.5),
		leg(MarketMoneyline, "g2", "basketball_nba", -110, 0.5),
	}}
	if _, err := cfg.EvaluateParlay(noStake); !errors.Is(err, ErrInvalidStake) {
		t.Fatalf("zero stake: err=%v want ErrInvalidStake", err)
	}

	badOdds := Parlay{Stake: 10, Legs: []Leg{
		leg(MarketMoneyline, "g1", "basketball_nba", 0, 0.5),
		leg(MarketMoneyline, "g2", "basketball_nba", -110, 0.5),
	}}
	if _, err := cfg.EvaluateParlay(badOdds); !errors.Is(err, ErrInvalidOdds) {
		t.Fatalf("zero odds leg: err=%v want ErrInvalidOdds", err)
	}

	badProb := Parlay{Stake: 10, Legs: []Leg{
		leg(MarketMoneyline, "g1", "basketball_nba", -110, 1.2),
		leg(MarketMoneyline, "g2", "basketball_nba", -110, 0.5),
	}}
	if _, err := cfg.EvaluateParlay(badProb); !errors.Is(err, ErrInvalidOdds) {
		t.Fatalf("probability out of range: err=%v want ErrInvalidOdds", err)
	}
}
