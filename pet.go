package petsdk

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ──────────────────────────────────────────────
// Pet — bounded trait/need state and vocabulary
// ──────────────────────────────────────────────

// Trait names the closed set of personality dimensions.
type Trait string

const (
	TraitHappy   Trait = "happy"
	TraitCurious Trait = "curious"
	TraitPlayful Trait = "playful"
	TraitSleepy  Trait = "sleepy"
	TraitHungry  Trait = "hungry"
)

// AllTraits is the closed trait set, in canonical order.
var AllTraits = []Trait{TraitHappy, TraitCurious, TraitPlayful, TraitSleepy, TraitHungry}

// Need names the closed set of resource dimensions.
type Need string

const (
	NeedEnergy    Need = "energy"
	NeedMood      Need = "mood"
	NeedAttention Need = "attention"
)

// AllNeeds is the closed need set, in canonical order.
var AllNeeds = []Need{NeedEnergy, NeedMood, NeedAttention}

// Pet holds the complete per-pet state snapshot. Traits stay in [0,1] and
// needs in [0,100] after every write; CommunicationStage never decreases and
// Vocabulary never loses a token.
type Pet struct {
	ID                 string             `json:"id"`
	Traits             map[Trait]float64  `json:"traits"`
	Needs              map[Need]float64   `json:"needs"`
	CommunicationStage int                `json:"communication_stage"` // 1..4
	Vocabulary         map[string]bool    `json:"vocabulary"`
	InteractionCount   int                `json:"interaction_count"`
	PositiveCount      int                `json:"positive_count"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// NewPet creates a pet with neutral traits, full needs, and the stage-1
// vocabulary. An empty id mints a UUID.
func NewPet(id string) *Pet {
	if id == "" {
		id = uuid.NewString()
	}
	traits := make(map[Trait]float64, len(AllTraits))
	for _, t := range AllTraits {
		traits[t] = 0.5
	}
	return &Pet{
		ID:                 id,
		Traits:             traits,
		Needs:              map[Need]float64{NeedEnergy: 100, NeedMood: 70, NeedAttention: 50},
		CommunicationStage: 1,
		Vocabulary:         SeedVocabulary(),
		CreatedAt:          time.Now(),
	}
}

// Validate fails fast on any structural invariant violation. It never clamps:
// out-of-bound values on read mean a defect upstream.
func (p *Pet) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: pet has empty id", ErrInvalidState)
	}
	if len(p.Traits) != len(AllTraits) {
		return fmt.Errorf("%w: pet %s has %d traits, want %d", ErrInvalidState, p.ID, len(p.Traits), len(AllTraits))
	}
	for _, t := range AllTraits {
		v, ok := p.Traits[t]
		if !ok {
			return fmt.Errorf("%w: pet %s missing trait %q", ErrInvalidState, p.ID, t)
		}
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: pet %s trait %q = %v outside [0,1]", ErrInvalidState, p.ID, t, v)
		}
	}
	for _, n := range AllNeeds {
		v, ok := p.Needs[n]
		if !ok {
			return fmt.Errorf("%w: pet %s missing need %q", ErrInvalidState, p.ID, n)
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: pet %s need %q = %v outside [0,100]", ErrInvalidState, p.ID, n, v)
		}
	}
	if p.CommunicationStage < 1 || p.CommunicationStage > 4 {
		return fmt.Errorf("%w: pet %s stage %d outside 1..4", ErrInvalidState, p.ID, p.CommunicationStage)
	}
	if len(p.Vocabulary) == 0 {
		return fmt.Errorf("%w: pet %s has empty vocabulary", ErrInvalidState, p.ID)
	}
	for token := range p.Vocabulary {
		if _, ok := tokenIndex[token]; !ok {
			return fmt.Errorf("%w: pet %s vocabulary token %q not in catalog", ErrInvalidState, p.ID, token)
		}
	}
	return nil
}

// Clone returns a deep copy. Updates run on copies so a failed interaction
// never leaves partially mutated state behind.
func (p *Pet) Clone() *Pet {
	cp := *p
	cp.Traits = make(map[Trait]float64, len(p.Traits))
	for k, v := range p.Traits {
		cp.Traits[k] = v
	}
	cp.Needs = make(map[Need]float64, len(p.Needs))
	for k, v := range p.Needs {
		cp.Needs[k] = v
	}
	cp.Vocabulary = make(map[string]bool, len(p.Vocabulary))
	for k, v := range p.Vocabulary {
		cp.Vocabulary[k] = v
	}
	return &cp
}

// SetTrait writes a trait value, clamped to [0,1].
func (p *Pet) SetTrait(t Trait, v float64) {
	p.Traits[t] = clamp01(v)
}

// AdjustNeed applies a delta to a need, clamped to [0,100].
func (p *Pet) AdjustNeed(n Need, delta float64) {
	p.Needs[n] = clampRange(p.Needs[n]+delta, 0, 100)
}

// PositiveRatio returns the cumulative share of positive responses.
func (p *Pet) PositiveRatio() float64 {
	if p.InteractionCount == 0 {
		return 0
	}
	return float64(p.PositiveCount) / float64(p.InteractionCount)
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
