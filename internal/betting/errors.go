package betting

import "errors"

// Validation failures raised by the betting math. None of these are retryable:
// the caller must correct the input. A game that has not finished yet is NOT an
// error anywhere in this package; it surfaces as OutcomePending.
var (
	// ErrInvalidOdds is returned for zero or otherwise malformed odds input.
	ErrInvalidOdds = errors.New("betting: invalid odds")

	// ErrInvalidStake is returned for a zero or negative stake.
	ErrInvalidStake = errors.New("betting: stake must be positive")

	// ErrInsufficientLegs is returned for a parlay with fewer than two legs.
	ErrInsufficientLegs = errors.New("betting: parlay requires at least 2 legs")

	// ErrUnresolvableSelection is returned when settlement cannot determine
	// which side of a market was bet. Ambiguity must surface; it is never
	// silently graded as a loss.
	ErrUnresolvableSelection = errors.New("betting: selection cannot be resolved against the game result")

	// ErrIncomparableOdds is returned when CLV inputs do not reference the
	// same market and selection.
	ErrIncomparableOdds = errors.New("betting: odds are not comparable")
)
