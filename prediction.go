package petsdk

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// ──────────────────────────────────────────────
// Prediction Engine — candidate message + expected response
// ──────────────────────────────────────────────

// Prediction is the engine output: the message the pet wants to send and the
// response distribution it expects from this user.
type Prediction struct {
	Message  []string             `json:"message"`
	Expected ResponseDistribution `json:"expected"`
}

// PredictionEngine composes candidate messages from vocabulary salience and
// learned affinities. It is a pure function of its inputs and may be called
// repeatedly without corrupting any state.
type PredictionEngine struct {
	tuning *Tuning
}

// NewPredictionEngine creates an engine with the given tuning.
func NewPredictionEngine(tuning *Tuning) *PredictionEngine {
	return &PredictionEngine{tuning: tuning}
}

// Predict selects 1..stage tokens from the pet's vocabulary, weighted by
// need/trait salience, positive user affinity, and the environment context,
// and derives the expected response distribution from belief confidence.
func (e *PredictionEngine) Predict(pet *Pet, belief *BeliefState, profile *UserProfile, env EnvironmentContext) (*Prediction, error) {
	if err := pet.Validate(); err != nil {
		return nil, err
	}
	if err := belief.Validate(); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	type scored struct {
		token    string
		salience float64
		tie      uint64
	}
	candidates := make([]scored, 0, len(pet.Vocabulary))
	top := 0.0
	for token := range pet.Vocabulary {
		info, ok := tokenIndex[token]
		if !ok {
			return nil, fmt.Errorf("%w: %q in vocabulary but not in catalog", ErrUnknownToken, token)
		}
		s := e.salience(pet, info, env)
		if aff := belief.Affinity(token); aff > 0 {
			s += 0.5 * aff
		}
		if s > top {
			top = s
		}
		candidates = append(candidates, scored{
			token:    token,
			salience: s,
			tie:      xxhash.Sum64String(token + "|" + profile.UserID),
		})
	}

	// Deterministic ordering: salience desc, then per-user stable hash.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].salience != candidates[j].salience {
			return candidates[i].salience > candidates[j].salience
		}
		return candidates[i].tie < candidates[j].tie
	})

	maxTokens := pet.CommunicationStage
	if maxTokens > len(candidates) {
		maxTokens = len(candidates)
	}
	message := []string{candidates[0].token}
	for _, c := range candidates[1:maxTokens] {
		// Secondary tokens must carry a meaningful share of the top salience.
		if top > 0 && c.salience < 0.4*top {
			break
		}
		message = append(message, c.token)
	}

	expected, err := e.expectedDistribution(belief, message)
	if err != nil {
		return nil, err
	}
	return &Prediction{Message: message, Expected: expected}, nil
}

// ExpectedFor returns the expected response distribution for an already
// composed message, without re-running candidate selection. Used when the
// transport delivers a response to a previously sent message.
func (e *PredictionEngine) ExpectedFor(pet *Pet, belief *BeliefState, message []string) (ResponseDistribution, error) {
	if err := ValidateMessage(pet, message); err != nil {
		return nil, err
	}
	return e.expectedDistribution(belief, message)
}

// expectedDistribution interpolates between uniform (no evidence) and a
// peaked distribution on the category implied by the message's mean affinity,
// weighted by belief confidence.
func (e *PredictionEngine) expectedDistribution(belief *BeliefState, message []string) (ResponseDistribution, error) {
	meanAff := 0.0
	for _, tok := range message {
		meanAff += belief.Affinity(tok)
	}
	meanAff /= float64(len(message))

	predicted := ResponseNeutral
	switch {
	case meanAff > 0.1:
		predicted = ResponsePositive
	case meanAff < -0.1:
		predicted = ResponseNegative
	}

	uniform := 1.0 / float64(len(AllResponseCategories))
	dist := make(ResponseDistribution, len(AllResponseCategories))
	for _, cat := range AllResponseCategories {
		peak := 0.08
		if cat == predicted {
			peak = 1.0 - 0.08*float64(len(AllResponseCategories)-1)
		}
		dist[cat] = (1-belief.Confidence)*uniform + belief.Confidence*peak
	}
	if err := dist.Validate(); err != nil {
		return nil, err
	}
	return dist, nil
}

// salience scores a token against the pet's current needs, traits, and the
// environment context. Depleted energy pushes food/rest tokens up; a harsh
// environment with an open boundary also favors rest.
func (e *PredictionEngine) salience(pet *Pet, info TokenInfo, env EnvironmentContext) float64 {
	energy := pet.Needs[NeedEnergy] / 100
	mood := pet.Needs[NeedMood] / 100
	attention := pet.Needs[NeedAttention] / 100
	envPressure := env.Permeability * absFloat(env.Signal)

	switch info.Category {
	case CategoryFood:
		return 0.6*pet.Traits[TraitHungry] + 0.8*(1-energy) + 0.2*envPressure
	case CategoryRest:
		return 0.6*pet.Traits[TraitSleepy] + 0.8*(1-energy) + 0.3*envPressure
	case CategoryPlay:
		return 0.6*pet.Traits[TraitPlayful] + 0.4*energy + 0.2*mood
	case CategoryAffection:
		return 0.5*pet.Traits[TraitHappy] + 0.5*(1-attention)
	case CategoryCuriosity:
		return 0.6*pet.Traits[TraitCurious] + 0.3*(1-attention)
	}
	return 0
}

// ValidateMessage rejects messages referencing tokens outside the pet's
// vocabulary before they can reach the transport.
func ValidateMessage(pet *Pet, message []string) error {
	if len(message) == 0 {
		return fmt.Errorf("%w: empty message", ErrInvalidState)
	}
	if len(message) > pet.CommunicationStage {
		return fmt.Errorf("%w: message length %d exceeds stage %d", ErrInvalidState, len(message), pet.CommunicationStage)
	}
	for _, tok := range message {
		if !pet.Vocabulary[tok] {
			return fmt.Errorf("%w: %q not in vocabulary of pet %s", ErrUnknownToken, tok, pet.ID)
		}
	}
	return nil
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
