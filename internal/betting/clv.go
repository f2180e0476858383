package betting

import "fmt"

// QuoteRef identifies one priced side of a market, for CLV comparability
// checks.
type QuoteRef struct {
	MarketKey string
	Selection string
	Odds      int
	Point     *float64
}

// CLVPercent compares the price a bet was placed at to the closing price for
// the same outcome, in percentage points of implied probability:
//
//	clv = (closingProb - betProb) * 100
//
// Getting a better number than the close (a higher payout for the same side)
// yields positive CLV.
func CLVPercent(betOdds, closingOdds int) (float64, error) {
	betProb, err := ImpliedProbability(betOdds)
	if err != nil {
		return 0, fmt.Errorf("bet odds: %w", err)
	}
	closeProb, err := ImpliedProbability(closingOdds)
	if err != nil {
		return 0, fmt.Errorf("closing odds: %w", err)
	}
	return (closeProb - betProb) * 100.0, nil
}

// ClosingLineValue validates that the two quotes reference the same market,
// selection and line before computing CLV. Mismatched quotes fail with
// ErrIncomparableOdds rather than producing a meaningless number.
func ClosingLineValue(bet, closing QuoteRef) (float64, error) {
	if bet.Odds == 0 || closing.Odds == 0 {
		return 0, fmt.Errorf("odds must be non-zero: %w", ErrIncomparableOdds)
	}
	if bet.MarketKey != closing.MarketKey {
		return 0, fmt.Errorf("market %q vs %q: %w", bet.MarketKey, closing.MarketKey, ErrIncomparableOdds)
	}
	if !sameSelection(bet.Selection, closing.Selection) {
		return 0, fmt.Errorf("selection %q vs %q: %w", bet.Selection, closing.Selection, ErrIncomparableOdds)
	}
	if (bet.Point == nil) != (closing.Point == nil) {
		return 0, fmt.Errorf("line presence mismatch: %w", ErrIncomparableOdds)
	}
	if bet.Point != nil && closing.Point != nil && *bet.Point != *closing.Point {
		return 0, fmt.Errorf("line %v vs %v: %w", *bet.Point, *closing.Point, ErrIncomparableOdds)
	}
	return CLVPercent(bet.Odds, closing.Odds)
}

func sameSelection(a, b string) bool {
	return a == b || teamMatches(a, b)
}
