package petsdk

import (
	"fmt"
	"log"
	"time"
)

// ──────────────────────────────────────────────
// Pet Engine — the atomic belief-prediction-surprise-update loop
// ──────────────────────────────────────────────
//
// Flow per interaction:
//
//	observed response → classify → surprise → belief/profile update
//	→ boundary exchange → trait evolution → vocabulary re-check
//	→ next prediction → persist everything, or nothing.
//
// Usage:
//
//	engine := petsdk.NewPetEngine(petsdk.NewInMemorySnapshotStore(), nil, nil)
//	pet, _ := engine.AdoptPet("")
//	first, _ := engine.FirstPrediction(pet.ID, "user-1")
//	// ...transport sends first.Message, user responds...
//	result, _ := engine.ProcessInteraction(event)

// EngineHooks provides optional event callbacks.
type EngineHooks struct {
	OnSurprise func(petID, userID string, surprise float64)
	OnUnlock   func(petID string, result UnlockResult)
	OnError    func(petID string, err error)
}

// PetEngine wires the core components around a snapshot store and a lease
// registry. All computation is in-memory and bounded; there is no hidden
// clock — elapsed time comes from event timestamps and stored UpdatedAt.
type PetEngine struct {
	store      SnapshotStore
	tuning     *Tuning
	registry   *PetLeaseRegistry
	classifier *ResponseClassifier
	predictor  *PredictionEngine
	updater    *BeliefUpdater
	evolution  *TraitEvolutionEngine
	vocabulary *VocabularyManager
	boundary   *FluidBoundaryModel
	hooks      *EngineHooks
}

// NewPetEngine creates an engine. Nil tuning means DefaultTuning; nil hooks
// means no callbacks.
func NewPetEngine(store SnapshotStore, tuning *Tuning, hooks *EngineHooks) *PetEngine {
	if tuning == nil {
		tuning = DefaultTuning()
	}
	if hooks == nil {
		hooks = &EngineHooks{}
	}
	return &PetEngine{
		store:      store,
		tuning:     tuning,
		registry:   NewPetLeaseRegistry(),
		classifier: NewResponseClassifier(),
		predictor:  NewPredictionEngine(tuning),
		updater:    NewBeliefUpdater(tuning),
		evolution:  NewTraitEvolutionEngine(tuning),
		vocabulary: NewVocabularyManager(tuning),
		boundary:   NewFluidBoundaryModel(tuning),
		hooks:      hooks,
	}
}

// AdoptPet creates and persists a new pet. An empty id mints one.
func (e *PetEngine) AdoptPet(id string) (*Pet, error) {
	pet := NewPet(id)
	if err := pet.Validate(); err != nil {
		return nil, err
	}
	if err := e.store.SavePet(pet); err != nil {
		return nil, fmt.Errorf("save pet: %w", err)
	}
	log.Printf("[PetEngine] Adopted | pet=%s stage=%d vocab=%d", pet.ID, pet.CommunicationStage, len(pet.Vocabulary))
	return pet, nil
}

// FirstPrediction composes the opening message for a (pet, user) pair
// without mutating any state.
func (e *PetEngine) FirstPrediction(petID, userID string) (*Prediction, error) {
	pet, belief, profile, err := e.checkout(petID, userID)
	if err != nil {
		return nil, err
	}
	env := EnvironmentContext{Permeability: e.boundary.Permeability(pet)}
	return e.predictor.Predict(pet, belief, profile, env)
}

// ProcessInteraction runs one atomic learning step for a completed
// interaction and returns the next prediction. On any error no state is
// persisted; the caller may surface a generic failure and retry nothing
// (core errors are logic defects, not transient faults).
func (e *PetEngine) ProcessInteraction(event InteractionEvent) (*InteractionResult, error) {
	e.registry.Checkout(event.PetID)
	defer e.registry.Checkin(event.PetID)

	result, err := e.processLocked(event)
	if err != nil {
		if e.hooks != nil && e.hooks.OnError != nil {
			e.hooks.OnError(event.PetID, err)
		}
		return nil, err
	}
	return result, nil
}

func (e *PetEngine) processLocked(event InteractionEvent) (*InteractionResult, error) {
	pet, belief, profile, err := e.checkout(event.PetID, event.UserID)
	if err != nil {
		return nil, err
	}
	now := event.Timestamp
	if now.IsZero() {
		now = time.Now()
	}

	// Decay runs first, from explicit elapsed time.
	if !belief.UpdatedAt.IsZero() {
		belief.Decay(now.Sub(belief.UpdatedAt), e.tuning)
	}
	var petElapsed time.Duration
	if !pet.UpdatedAt.IsZero() {
		petElapsed = now.Sub(pet.UpdatedAt)
	}

	// Expected response for the message that was actually sent, from the
	// pre-observation belief.
	expected, err := e.predictor.ExpectedFor(pet, belief, event.SentMessage)
	if err != nil {
		return nil, err
	}

	reading := e.classifier.Classify(event.ObservedResponse)
	surprise, err := Surprise(expected, reading.Category, e.tuning)
	if err != nil {
		return nil, err
	}
	if e.hooks != nil && e.hooks.OnSurprise != nil {
		e.hooks.OnSurprise(event.PetID, event.UserID, surprise)
	}

	// Stats fold in before the updater bumps the profile interaction count,
	// so the incremental means divide by the right n.
	profile.RecordResponseStats(event.ObservedResponse, event.ResponseLatency)
	e.updater.Update(belief, profile, event.SentMessage, reading, surprise, now)

	env := e.boundary.Exchange(pet, event.EnvironmentSignal)

	outcome := InteractionOutcome{
		Kind:       DominantCategory(event.SentMessage),
		Category:   reading.Category,
		Polarity:   reading.Polarity,
		Surprise:   surprise,
		EnergyCost: env.EnergyCost,
	}
	e.evolution.Evolve(pet, outcome, petElapsed)

	// Bookkeeping the stage gates depend on, plus need replenishment from
	// the attention the interaction itself provides.
	pet.InteractionCount++
	if reading.Category == ResponsePositive {
		pet.PositiveCount++
	}
	pet.AdjustNeed(NeedAttention, 5)
	pet.AdjustNeed(NeedMood, reading.Polarity*5)

	unlocks := e.vocabulary.MaybeUnlock(pet)
	if unlocks.Changed() && e.hooks != nil && e.hooks.OnUnlock != nil {
		e.hooks.OnUnlock(pet.ID, unlocks)
	}
	pet.UpdatedAt = now

	next, err := e.predictor.Predict(pet, belief, profile, env)
	if err != nil {
		return nil, err
	}

	// Persist only after the whole step succeeded.
	if err := e.persist(pet, belief, profile); err != nil {
		return nil, err
	}

	return &InteractionResult{
		Surprise:       surprise,
		Reading:        reading,
		Outcome:        outcome,
		Unlocks:        unlocks,
		Environment:    env,
		NextPrediction: next,
	}, nil
}

// checkout loads the three entities for an interaction, creating belief and
// profile on first contact. The pet must already exist.
func (e *PetEngine) checkout(petID, userID string) (*Pet, *BeliefState, *UserProfile, error) {
	pet, err := e.store.LoadPet(petID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load pet: %w", err)
	}
	if pet == nil {
		return nil, nil, nil, fmt.Errorf("%w: pet %s not found", ErrInvalidState, petID)
	}
	if err := pet.Validate(); err != nil {
		return nil, nil, nil, err
	}

	belief, err := e.store.LoadBelief(petID, userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load belief: %w", err)
	}
	if belief == nil {
		belief = NewBeliefState(petID, userID)
	}
	if err := belief.Validate(); err != nil {
		return nil, nil, nil, err
	}

	profile, err := e.store.LoadProfile(userID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		profile = NewUserProfile(userID)
	}
	if err := profile.Validate(); err != nil {
		return nil, nil, nil, err
	}
	return pet, belief, profile, nil
}

func (e *PetEngine) persist(pet *Pet, belief *BeliefState, profile *UserProfile) error {
	if err := pet.Validate(); err != nil {
		return err
	}
	if err := belief.Validate(); err != nil {
		return err
	}
	if err := profile.Validate(); err != nil {
		return err
	}
	if err := e.store.SavePet(pet); err != nil {
		return fmt.Errorf("save pet: %w", err)
	}
	if err := e.store.SaveBelief(belief); err != nil {
		return fmt.Errorf("save belief: %w", err)
	}
	if err := e.store.SaveProfile(profile); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
