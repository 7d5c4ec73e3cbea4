package petsdk

import (
	"log"
	"time"
)

// ──────────────────────────────────────────────
// Belief Updater — surprise-driven association and profile learning
// ──────────────────────────────────────────────

// BeliefUpdater applies one learning step to a belief state and a user
// profile. Each call is a genuine learning step; repeated calls with the same
// inputs keep moving the state (not idempotent by design).
type BeliefUpdater struct {
	tuning *Tuning
}

// NewBeliefUpdater creates an updater with the given tuning.
func NewBeliefUpdater(tuning *Tuning) *BeliefUpdater {
	return &BeliefUpdater{tuning: tuning}
}

// Update mutates belief and profile in place from one completed interaction.
// Callers pass deep copies when they need all-or-nothing semantics (the
// engine does).
//
// Association learning scales by (1 - confidence): established beliefs move
// slowly, fresh ones fast. Confidence moves asymmetrically: violations erode
// it faster than confirmations build it.
func (u *BeliefUpdater) Update(belief *BeliefState, profile *UserProfile, sent []string, reading ResponseReading, surprise float64, now time.Time) {
	t := u.tuning

	// Association update: nudge every sent token toward the response sign.
	step := t.LearningRate * (1 - belief.Confidence)
	for _, token := range sent {
		belief.Associations[token] += step * reading.Polarity
	}

	// Confidence update.
	if surprise < t.ConfirmSurpriseThreshold {
		belief.Confidence = clamp01(belief.Confidence + t.ConfidenceConfirmGain*(1-belief.Confidence))
	} else {
		belief.Confidence = clamp01(belief.Confidence - t.ConfidenceViolationLoss)
		log.Printf("[BeliefUpdater] Prediction violated | pet=%s user=%s surprise=%.2f confidence=%.2f",
			belief.PetID, belief.UserID, surprise, belief.Confidence)
	}
	belief.UpdatedAt = now

	// Profile update: style nudge from the response tone, consistency EMA of
	// predictability, asymptotic confidence growth.
	profile.NudgeStyle(reading.Style, t.StyleNudge)
	predictability := 1 - NormalizeSurprise(surprise, t)
	profile.ConsistencyScore = clamp01((1-t.ConsistencyAlpha)*profile.ConsistencyScore + t.ConsistencyAlpha*predictability)
	profile.BumpConfidence(t.ProfileConfidenceRate)
	profile.InteractionCount++
	profile.UpdatedAt = now
}
