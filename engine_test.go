package petsdk

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// ══════════════════════════════════════════════
// Pet engine — full atomic loop
// ══════════════════════════════════════════════

func newTestEngine(t *testing.T) (*PetEngine, *InMemorySnapshotStore, *Pet) {
	t.Helper()
	store := NewInMemorySnapshotStore()
	engine := NewPetEngine(store, nil, nil)
	pet, err := engine.AdoptPet("pet-1")
	if err != nil {
		t.Fatal(err)
	}
	return engine, store, pet
}

func TestEngine_ProcessInteraction(t *testing.T) {
	engine, store, pet := newTestEngine(t)

	result, err := engine.ProcessInteraction(InteractionEvent{
		PetID:            pet.ID,
		UserID:           "user-1",
		SentMessage:      []string{"🍕"},
		ObservedResponse: []string{"❤️"},
		ResponseLatency:  2 * time.Second,
		Timestamp:        time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Reading.Category != ResponsePositive {
		t.Fatalf("expected positive reading, got %s", result.Reading.Category)
	}
	if result.Surprise < 0 {
		t.Fatalf("surprise must be non-negative, got %v", result.Surprise)
	}
	if result.NextPrediction == nil || len(result.NextPrediction.Message) == 0 {
		t.Fatal("engine must hand back the next prediction")
	}

	// Everything persisted as one unit.
	saved, err := store.LoadPet(pet.ID)
	if err != nil {
		t.Fatal(err)
	}
	if saved.InteractionCount != 1 || saved.PositiveCount != 1 {
		t.Fatalf("pet bookkeeping not persisted: count=%d positive=%d", saved.InteractionCount, saved.PositiveCount)
	}
	belief, err := store.LoadBelief(pet.ID, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if belief == nil || belief.Affinity("🍕") <= 0 {
		t.Fatal("belief update not persisted")
	}
	profile, err := store.LoadProfile("user-1")
	if err != nil {
		t.Fatal(err)
	}
	if profile == nil || profile.InteractionCount != 1 {
		t.Fatal("profile update not persisted")
	}
}

func TestEngine_UnknownPet(t *testing.T) {
	engine := NewPetEngine(NewInMemorySnapshotStore(), nil, nil)
	_, err := engine.ProcessInteraction(InteractionEvent{
		PetID:       "ghost",
		UserID:      "user-1",
		SentMessage: []string{"🍕"},
	})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

// A message referencing a locked token fails before any state is persisted.
func TestEngine_InvalidMessageLeavesNoTrace(t *testing.T) {
	engine, store, pet := newTestEngine(t)

	_, err := engine.ProcessInteraction(InteractionEvent{
		PetID:            pet.ID,
		UserID:           "user-1",
		SentMessage:      []string{"🌈"},
		ObservedResponse: []string{"❤️"},
	})
	if !errors.Is(err, ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}

	saved, _ := store.LoadPet(pet.ID)
	if saved.InteractionCount != 0 {
		t.Fatal("failed interaction must not persist pet state")
	}
	belief, _ := store.LoadBelief(pet.ID, "user-1")
	if belief != nil {
		t.Fatal("failed interaction must not persist belief state")
	}
}

func TestEngine_FirstPrediction(t *testing.T) {
	engine, store, pet := newTestEngine(t)

	p, err := engine.FirstPrediction(pet.ID, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if err := ValidateMessage(pet, p.Message); err != nil {
		t.Fatalf("first prediction emitted an invalid message: %v", err)
	}
	// Prediction alone must not create belief/profile records.
	if belief, _ := store.LoadBelief(pet.ID, "user-1"); belief != nil {
		t.Fatal("prediction must not persist belief state")
	}
}

func TestEngine_SustainedWarmUserGrowsThePet(t *testing.T) {
	engine, store, pet := newTestEngine(t)
	tuning := DefaultTuning()

	now := time.Now()
	for i := 0; i < tuning.Stage2MinInteractions+5; i++ {
		// Curiosity-flavored messages with warm responses push Curious up.
		_, err := engine.ProcessInteraction(InteractionEvent{
			PetID:            pet.ID,
			UserID:           "user-1",
			SentMessage:      []string{"👀"},
			ObservedResponse: []string{"❤️"},
			Timestamp:        now.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	saved, _ := store.LoadPet(pet.ID)
	if saved.Traits[TraitCurious] <= 0.5 {
		t.Fatalf("warm curiosity interactions should raise curious, got %v", saved.Traits[TraitCurious])
	}
	if saved.CommunicationStage < 2 {
		t.Fatalf("stage gate should have opened, got stage %d", saved.CommunicationStage)
	}
	if saved.Traits[TraitHappy] <= 0.5 {
		t.Fatalf("consistent warmth should raise happy, got %v", saved.Traits[TraitHappy])
	}
}

func TestEngine_SerializesSamePetInteractions(t *testing.T) {
	engine, store, pet := newTestEngine(t)

	const workers = 8
	const perWorker = 5
	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := engine.ProcessInteraction(InteractionEvent{
					PetID:            pet.ID,
					UserID:           "user-1",
					SentMessage:      []string{"🍕"},
					ObservedResponse: []string{"❤️"},
					Timestamp:        time.Now(),
				})
				if err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	saved, _ := store.LoadPet(pet.ID)
	if saved.InteractionCount != workers*perWorker {
		t.Fatalf("lost updates under concurrency: got %d, want %d", saved.InteractionCount, workers*perWorker)
	}
}

func TestEngine_DifferentPetsProceedIndependently(t *testing.T) {
	store := NewInMemorySnapshotStore()
	engine := NewPetEngine(store, nil, nil)

	const pets = 4
	ids := make([]string, pets)
	for i := range ids {
		pet, err := engine.AdoptPet("")
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = pet.ID
	}

	var wg sync.WaitGroup
	errs := make(chan error, pets*10)
	for _, id := range ids {
		wg.Add(1)
		go func(petID string) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_, err := engine.ProcessInteraction(InteractionEvent{
					PetID:            petID,
					UserID:           "shared-user",
					SentMessage:      []string{"😊"},
					ObservedResponse: []string{"😂"},
					Timestamp:        time.Now(),
				})
				if err != nil {
					errs <- err
				}
			}
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	for _, id := range ids {
		saved, _ := store.LoadPet(id)
		if saved.InteractionCount != 10 {
			t.Fatalf("pet %s lost interactions: %d", id, saved.InteractionCount)
		}
	}
	// Shared profile tolerates races but must stay a valid simplex.
	profile, _ := store.LoadProfile("shared-user")
	if err := profile.Validate(); err != nil {
		t.Fatalf("shared profile invalid after concurrent updates: %v", err)
	}
}

func TestEngine_HooksFire(t *testing.T) {
	store := NewInMemorySnapshotStore()
	var surprised bool
	engine := NewPetEngine(store, nil, &EngineHooks{
		OnSurprise: func(petID, userID string, s float64) { surprised = true },
	})
	pet, err := engine.AdoptPet("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engine.ProcessInteraction(InteractionEvent{
		PetID:            pet.ID,
		UserID:           "user-1",
		SentMessage:      []string{"🍕"},
		ObservedResponse: []string{"❤️"},
	}); err != nil {
		t.Fatal(err)
	}
	if !surprised {
		t.Fatal("OnSurprise hook did not fire")
	}
}
