package ratelimit

import "errors"

var (
	// ErrRequestDenied is returned when an outbound API request was blocked
	// by the per-minute or per-hour window. Refresh denials never surface as
	// errors: the manager reads CanRefreshToken and TimeUntilNextRefresh and
	// defers to its next tick.
	ErrRequestDenied = errors.New("ratelimit: api request denied")

	// ErrInvalidRules is returned by UpdateRules when the proposed rule set
	// fails validation. The previous rules stay in force.
	ErrInvalidRules = errors.New("ratelimit: invalid rules")
)
