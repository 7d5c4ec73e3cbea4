package petsdk

import (
	"fmt"
	"math"
)

// ──────────────────────────────────────────────
// Surprise Calculator — information-theoretic divergence
// ──────────────────────────────────────────────

// Surprise returns the negative log-probability the expected distribution
// assigned to the observed category, clamped to tuning.MaxSurprise. A
// zero-probability observation is not an error: it is the maximally
// surprising case and yields the finite cap.
func Surprise(expected ResponseDistribution, observed ResponseCategory, tuning *Tuning) (float64, error) {
	if err := expected.Validate(); err != nil {
		return 0, err
	}
	known := false
	for _, cat := range AllResponseCategories {
		if cat == observed {
			known = true
			break
		}
	}
	if !known {
		return 0, fmt.Errorf("%w: unknown response category %q", ErrInvalidState, observed)
	}

	sum := 0.0
	for _, p := range expected {
		sum += p
	}
	p := expected[observed] / sum
	if p <= 0 {
		return tuning.MaxSurprise, nil
	}
	s := -math.Log(p)
	if s > tuning.MaxSurprise {
		s = tuning.MaxSurprise
	}
	if s < 0 {
		s = 0
	}
	return s, nil
}

// NormalizeSurprise maps a surprise value into [0,1] against the cap.
func NormalizeSurprise(s float64, tuning *Tuning) float64 {
	return clamp01(s / tuning.MaxSurprise)
}
