package petsdk

import (
	"fmt"
	"math"
	"time"
)

// ──────────────────────────────────────────────
// BeliefState — per (pet, user) learned token associations
// ──────────────────────────────────────────────

// BeliefState holds what one pet has learned about one user: a signed
// affinity score per token (decaying toward zero absent reinforcement) and a
// confidence scalar in [0,1] gating how aggressively new evidence revises it.
type BeliefState struct {
	PetID        string             `json:"pet_id"`
	UserID       string             `json:"user_id"`
	Associations map[string]float64 `json:"associations"`
	Confidence   float64            `json:"confidence"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewBeliefState creates the empty belief state for a first interaction.
func NewBeliefState(petID, userID string) *BeliefState {
	return &BeliefState{
		PetID:        petID,
		UserID:       userID,
		Associations: make(map[string]float64),
		Confidence:   0.1,
	}
}

// Validate fails fast on invariant violations.
func (b *BeliefState) Validate() error {
	if b.PetID == "" || b.UserID == "" {
		return fmt.Errorf("%w: belief state missing pet/user id", ErrInvalidState)
	}
	if b.Confidence < 0 || b.Confidence > 1 {
		return fmt.Errorf("%w: belief confidence %v outside [0,1]", ErrInvalidState, b.Confidence)
	}
	return nil
}

// Clone returns a deep copy for all-or-nothing updates.
func (b *BeliefState) Clone() *BeliefState {
	cp := *b
	cp.Associations = make(map[string]float64, len(b.Associations))
	for k, v := range b.Associations {
		cp.Associations[k] = v
	}
	return &cp
}

// Affinity returns the signed association score for a token (0 if unseen).
func (b *BeliefState) Affinity(token string) float64 {
	return b.Associations[token]
}

// Decay shrinks all affinities toward zero and softens confidence for the
// given elapsed time. The caller supplies elapsed explicitly; the belief
// state holds no clock.
func (b *BeliefState) Decay(elapsed time.Duration, tuning *Tuning) {
	if elapsed <= 0 {
		return
	}
	hours := elapsed.Hours()
	affFactor := math.Exp(-tuning.AffinityDecayPerHour * hours)
	for token, score := range b.Associations {
		decayed := score * affFactor
		if math.Abs(decayed) < 1e-6 {
			delete(b.Associations, token)
			continue
		}
		b.Associations[token] = decayed
	}
	confFactor := math.Exp(-tuning.ConfidenceDecayPerHour * hours)
	b.Confidence = clamp01(b.Confidence * confFactor)
}

// StrongestAssociation returns the token with the largest absolute affinity
// and its score. ok is false when no associations exist yet.
func (b *BeliefState) StrongestAssociation() (token string, score float64, ok bool) {
	best := 0.0
	for t, s := range b.Associations {
		if math.Abs(s) > math.Abs(best) || (math.Abs(s) == math.Abs(best) && t < token) {
			token, best = t, s
		}
	}
	if token == "" {
		return "", 0, false
	}
	return token, best, true
}
