// Package betting holds the pure betting math used by handlers and the
// settlement job: odds conversions, the parlay correlation model, market
// settlement rules and closing line value. Everything here is stateless and
// side-effect free (the settlement resolver optionally logs its documented
// unknown-market fallback); calls are safe to run concurrently.
package betting

import (
	"fmt"
	"math"
)

// Market keys follow The Odds API naming so stored bets and provider quotes
// compare without translation.
const (
	MarketMoneyline = "h2h"
	MarketSpread    = "spreads"
	MarketTotal     = "totals"
)

// AmericanToDecimal converts American odds to decimal (payout multiplier,
// stake included). Example: +150 -> 2.5, -110 -> 1.909.
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("american odds must be non-zero: %w", ErrInvalidOdds)
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// DecimalToAmerican converts decimal odds back to the American convention.
// The sign flips at the 2.0 boundary: >=2.0 maps to positive odds, <2.0 to
// negative. Even money therefore always comes back as +100, never -100; the
// two spellings price identically. Decimal odds at or below 1.0 carry no
// payout and are rejected.
func DecimalToAmerican(dec float64) (int, error) {
	if dec <= 1.0 || math.IsNaN(dec) || math.IsInf(dec, 0) {
		return 0, fmt.Errorf("decimal odds %v out of range: %w", dec, ErrInvalidOdds)
	}
	if dec >= 2.0 {
		return int(math.Round((dec - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (dec - 1.0))), nil
}

// DecimalToImpliedProbability returns the win probability implied by a
// decimal price, ignoring bookmaker margin.
func DecimalToImpliedProbability(dec float64) (float64, error) {
	if dec <= 1.0 || math.IsNaN(dec) || math.IsInf(dec, 0) {
		return 0, fmt.Errorf("decimal odds %v out of range: %w", dec, ErrInvalidOdds)
	}
	return 1.0 / dec, nil
}

// ImpliedProbability converts American odds straight to implied probability.
func ImpliedProbability(american int) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return DecimalToImpliedProbability(dec)
}

// PotentialReturn computes stake plus profit for a winning bet at the given
// American odds.
func PotentialReturn(stake float64, american int) (float64, error) {
	if stake <= 0 {
		return 0, fmt.Errorf("stake %v: %w", stake, ErrInvalidStake)
	}
	if american == 0 {
		return 0, fmt.Errorf("american odds must be non-zero: %w", ErrInvalidOdds)
	}
	if american > 0 {
		return stake + stake*float64(american)/100.0, nil
	}
	return stake + stake*100.0/float64(-american), nil
}
