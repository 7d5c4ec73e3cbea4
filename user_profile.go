package petsdk

import (
	"fmt"
	"time"
)

// ──────────────────────────────────────────────
// UserProfile — personality signature aggregated across interactions
// ──────────────────────────────────────────────

// StyleDimension names the closed set of interaction style axes.
type StyleDimension string

const (
	StyleAggressive StyleDimension = "aggressive"
	StyleGentle     StyleDimension = "gentle"
	StylePlayful    StyleDimension = "playful"
	StyleSerious    StyleDimension = "serious"
	StyleNurturing  StyleDimension = "nurturing"
)

// AllStyleDimensions is the closed style set, in canonical order.
var AllStyleDimensions = []StyleDimension{
	StyleAggressive, StyleGentle, StylePlayful, StyleSerious, StyleNurturing,
}

// maxSeenTokens bounds the per-user reuse set. At the cap, unknown tokens
// still count as first sightings but are no longer tracked.
const maxSeenTokens = 128

// CommunicationStats holds running aggregates over a user's responses.
type CommunicationStats struct {
	MeanResponseLatency time.Duration   `json:"mean_response_latency"`
	MeanMessageLength   float64         `json:"mean_message_length"`
	EmojiReuseRate      float64         `json:"emoji_reuse_rate"`
	SeenTokens          map[string]bool `json:"seen_tokens,omitempty"`
}

// UserProfile is the personality signature of one user, shared across all
// pets that user interacts with. InteractionStyleVector always sums to 1.
type UserProfile struct {
	UserID                 string                     `json:"user_id"`
	InteractionStyleVector map[StyleDimension]float64 `json:"interaction_style_vector"`
	Stats                  CommunicationStats         `json:"communication_stats"`
	ConsistencyScore       float64                    `json:"consistency_score"` // EMA of predictability
	ConfidenceLevel        float64                    `json:"confidence_level"`  // asymptotic in interaction count
	InteractionCount       int                        `json:"interaction_count"`
	UpdatedAt              time.Time                  `json:"updated_at"`
}

// NewUserProfile creates a uniform-style profile for a first-time user.
func NewUserProfile(userID string) *UserProfile {
	style := make(map[StyleDimension]float64, len(AllStyleDimensions))
	for _, d := range AllStyleDimensions {
		style[d] = 1.0 / float64(len(AllStyleDimensions))
	}
	return &UserProfile{
		UserID:                 userID,
		InteractionStyleVector: style,
		ConsistencyScore:       0.5,
	}
}

// Validate fails fast on invariant violations.
func (u *UserProfile) Validate() error {
	if u.UserID == "" {
		return fmt.Errorf("%w: user profile missing id", ErrInvalidState)
	}
	sum := 0.0
	for _, d := range AllStyleDimensions {
		w, ok := u.InteractionStyleVector[d]
		if !ok {
			return fmt.Errorf("%w: user %s missing style dimension %q", ErrInvalidState, u.UserID, d)
		}
		if w < 0 {
			return fmt.Errorf("%w: user %s style %q = %v negative", ErrInvalidState, u.UserID, d, w)
		}
		sum += w
	}
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("%w: user %s style vector sums to %v, want 1", ErrInvalidState, u.UserID, sum)
	}
	if u.ConsistencyScore < 0 || u.ConsistencyScore > 1 {
		return fmt.Errorf("%w: user %s consistency %v outside [0,1]", ErrInvalidState, u.UserID, u.ConsistencyScore)
	}
	if u.ConfidenceLevel < 0 || u.ConfidenceLevel > 1 {
		return fmt.Errorf("%w: user %s confidence %v outside [0,1]", ErrInvalidState, u.UserID, u.ConfidenceLevel)
	}
	return nil
}

// Clone returns a deep copy for all-or-nothing updates.
func (u *UserProfile) Clone() *UserProfile {
	cp := *u
	cp.InteractionStyleVector = make(map[StyleDimension]float64, len(u.InteractionStyleVector))
	for k, v := range u.InteractionStyleVector {
		cp.InteractionStyleVector[k] = v
	}
	if u.Stats.SeenTokens != nil {
		cp.Stats.SeenTokens = make(map[string]bool, len(u.Stats.SeenTokens))
		for k, v := range u.Stats.SeenTokens {
			cp.Stats.SeenTokens[k] = v
		}
	}
	return &cp
}

// NudgeStyle shifts weight toward one dimension and renormalizes.
func (u *UserProfile) NudgeStyle(dim StyleDimension, amount float64) {
	if amount <= 0 {
		return
	}
	u.InteractionStyleVector[dim] += amount
	u.renormalizeStyle()
}

func (u *UserProfile) renormalizeStyle() {
	sum := 0.0
	for _, w := range u.InteractionStyleVector {
		sum += w
	}
	if sum <= 0 {
		// Degenerate vector resets to uniform.
		for _, d := range AllStyleDimensions {
			u.InteractionStyleVector[d] = 1.0 / float64(len(AllStyleDimensions))
		}
		return
	}
	for d, w := range u.InteractionStyleVector {
		u.InteractionStyleVector[d] = w / sum
	}
}

// DominantStyle returns the heaviest style dimension.
func (u *UserProfile) DominantStyle() StyleDimension {
	best := AllStyleDimensions[0]
	for _, d := range AllStyleDimensions[1:] {
		if u.InteractionStyleVector[d] > u.InteractionStyleVector[best] {
			best = d
		}
	}
	return best
}

// RecordResponseStats folds one observed response into the running
// aggregates (incremental means, emoji-reuse rate).
func (u *UserProfile) RecordResponseStats(response []string, latency time.Duration) {
	n := float64(u.InteractionCount + 1)
	u.Stats.MeanResponseLatency += time.Duration(float64(latency-u.Stats.MeanResponseLatency) / n)
	u.Stats.MeanMessageLength += (float64(len(response)) - u.Stats.MeanMessageLength) / n

	if u.Stats.SeenTokens == nil {
		u.Stats.SeenTokens = make(map[string]bool)
	}
	reused := 0
	for _, tok := range response {
		if u.Stats.SeenTokens[tok] {
			reused++
			continue
		}
		if len(u.Stats.SeenTokens) < maxSeenTokens {
			u.Stats.SeenTokens[tok] = true
		}
	}
	reuse := 0.0
	if len(response) > 0 {
		reuse = float64(reused) / float64(len(response))
	}
	u.Stats.EmojiReuseRate += (reuse - u.Stats.EmojiReuseRate) / n
}

// BumpConfidence grows ConfidenceLevel asymptotically toward 1.
func (u *UserProfile) BumpConfidence(rate float64) {
	u.ConfidenceLevel = clamp01(u.ConfidenceLevel + rate*(1-u.ConfidenceLevel))
}
