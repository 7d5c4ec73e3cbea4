package petsdk

import (
	"time"
)

// ──────────────────────────────────────────────
// Trait Evolution Engine — bounded deltas plus baseline decay
// ──────────────────────────────────────────────

// InteractionOutcome summarizes one completed interaction for trait
// evolution: what kind of exchange it was, how the user reacted, how
// surprising that was, and what the exchange cost in energy.
type InteractionOutcome struct {
	Kind       TokenCategory    `json:"kind"` // dominant category of the sent message
	Category   ResponseCategory `json:"category"`
	Polarity   float64          `json:"polarity"`
	Surprise   float64          `json:"surprise"`
	EnergyCost float64          `json:"energy_cost"`
}

// traitDeltaTable maps interaction kind → trait direction for a positive
// response. Negative responses invert the signs; ignored responses apply a
// small dampened version of the negative direction.
var traitDeltaTable = map[TokenCategory]map[Trait]float64{
	CategoryPlay:      {TraitPlayful: 1.0, TraitHappy: 0.8, TraitSleepy: -0.5},
	CategoryFood:      {TraitHungry: -0.8, TraitHappy: 0.5},
	CategoryRest:      {TraitSleepy: -0.6, TraitHappy: 0.3},
	CategoryAffection: {TraitHappy: 1.0, TraitCurious: 0.3},
	CategoryCuriosity: {TraitCurious: 1.0, TraitPlayful: 0.4, TraitHappy: 0.3},
}

// TraitEvolutionEngine applies interaction-driven deltas and time decay to a
// pet's trait vector. Every write clamps to [0,1].
type TraitEvolutionEngine struct {
	tuning *Tuning
}

// NewTraitEvolutionEngine creates an engine with the given tuning.
func NewTraitEvolutionEngine(tuning *Tuning) *TraitEvolutionEngine {
	return &TraitEvolutionEngine{tuning: tuning}
}

// Evolve mutates the pet's traits from one interaction outcome after first
// applying time decay for the elapsed interval. Confirmed, low-surprise
// interactions reinforce traits more than wildly unexpected ones.
func (e *TraitEvolutionEngine) Evolve(pet *Pet, outcome InteractionOutcome, elapsed time.Duration) {
	e.DecayTraits(pet, elapsed)

	deltas, ok := traitDeltaTable[outcome.Kind]
	if !ok {
		return
	}

	sign := 1.0
	scale := 1.0
	switch outcome.Category {
	case ResponseNegative:
		sign = -1
	case ResponseIgnored:
		sign = -1
		scale = 0.4
	case ResponseNeutral:
		scale = 0.3
	}

	// Low surprise reinforces; a maximally surprising outcome barely moves
	// traits at all.
	reinforcement := 1 - NormalizeSurprise(outcome.Surprise, e.tuning)
	magnitude := e.tuning.TraitBaseDelta * scale * reinforcement

	for trait, direction := range deltas {
		pet.SetTrait(trait, pet.Traits[trait]+sign*direction*magnitude)
	}

	// Costly exchanges leave the pet a little sleepier and hungrier.
	if outcome.EnergyCost > 0 {
		fatigue := clamp01(outcome.EnergyCost/100) * e.tuning.TraitBaseDelta
		pet.SetTrait(TraitSleepy, pet.Traits[TraitSleepy]+fatigue)
		pet.SetTrait(TraitHungry, pet.Traits[TraitHungry]+fatigue*0.5)
	}
}

// DecayTraits drifts every trait toward the 0.5 baseline at the configured
// per-hour rate. Personality regresses without reinforcement.
func (e *TraitEvolutionEngine) DecayTraits(pet *Pet, elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	factor := e.tuning.TraitDecayPerHour * elapsed.Hours()
	if factor > 1 {
		factor = 1
	}
	for _, t := range AllTraits {
		v := pet.Traits[t]
		pet.SetTrait(t, v+(0.5-v)*factor)
	}
}

// DominantCategory returns the token category carrying the most tokens in a
// message, catalog order breaking ties.
func DominantCategory(message []string) TokenCategory {
	counts := make(map[TokenCategory]int)
	for _, tok := range message {
		if info, ok := tokenIndex[tok]; ok {
			counts[info.Category]++
		}
	}
	best := CategoryAffection
	bestCount := -1
	for _, info := range tokenCatalog {
		if c := counts[info.Category]; c > bestCount {
			best = info.Category
			bestCount = c
		}
	}
	return best
}
