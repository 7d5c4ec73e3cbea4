package petsdk

import "errors"

// ──────────────────────────────────────────────
// Error taxonomy — all synchronous logic defects, never retried
// ──────────────────────────────────────────────

var (
	// ErrInvalidState indicates an entity violated a structural invariant on
	// input (trait outside [0,1], empty vocabulary, unknown trait key).
	// Detected fail-fast on read; clamping happens only on write.
	ErrInvalidState = errors.New("petsdk: invalid state")

	// ErrUnknownToken indicates a message referenced a token that is not in
	// the pet's vocabulary. The prediction engine must never emit one.
	ErrUnknownToken = errors.New("petsdk: unknown token")

	// ErrDegenerateDistribution indicates an expected-response distribution
	// with zero or negative total mass. A programming defect, not a
	// recoverable runtime condition.
	ErrDegenerateDistribution = errors.New("petsdk: degenerate distribution")
)
