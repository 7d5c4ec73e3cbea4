package petsdk

import (
	"testing"
)

// ══════════════════════════════════════════════
// Vocabulary manager — staged unlocking
// ══════════════════════════════════════════════

// A fresh pet below every threshold: nothing changes.
func TestVocabulary_BelowThresholdsNoChange(t *testing.T) {
	m := NewVocabularyManager(DefaultTuning())
	pet := NewPet("p1")
	vocabBefore := len(pet.Vocabulary)

	result := m.MaybeUnlock(pet)

	if result.Changed() {
		t.Fatal("no gate is satisfied; nothing should unlock")
	}
	if pet.CommunicationStage != 1 {
		t.Fatalf("stage should stay 1, got %d", pet.CommunicationStage)
	}
	if len(pet.Vocabulary) != vocabBefore {
		t.Fatal("vocabulary should be unchanged")
	}
}

func TestVocabulary_Stage2Gate(t *testing.T) {
	tuning := DefaultTuning()
	m := NewVocabularyManager(tuning)

	// Interaction count alone is not enough.
	pet := NewPet("p1")
	pet.InteractionCount = tuning.Stage2MinInteractions
	pet.SetTrait(TraitCurious, tuning.Stage2MinCurious-0.01)
	m.MaybeUnlock(pet)
	if pet.CommunicationStage != 1 {
		t.Fatalf("curious below gate, stage should stay 1, got %d", pet.CommunicationStage)
	}

	// Both conditions met.
	pet.SetTrait(TraitCurious, tuning.Stage2MinCurious)
	m.MaybeUnlock(pet)
	if pet.CommunicationStage != 2 {
		t.Fatalf("expected stage 2, got %d", pet.CommunicationStage)
	}
}

func TestVocabulary_StageSkipsStraightThrough(t *testing.T) {
	tuning := DefaultTuning()
	m := NewVocabularyManager(tuning)
	pet := NewPet("p1")
	pet.InteractionCount = tuning.Stage4MinInteractions
	pet.PositiveCount = tuning.Stage4MinInteractions // ratio 1.0
	pet.SetTrait(TraitCurious, 0.9)
	pet.SetTrait(TraitHappy, 0.9)

	m.MaybeUnlock(pet)
	if pet.CommunicationStage != 4 {
		t.Fatalf("all gates open, expected stage 4, got %d", pet.CommunicationStage)
	}
}

func TestVocabulary_StageNonDecreasing(t *testing.T) {
	tuning := DefaultTuning()
	m := NewVocabularyManager(tuning)
	pet := NewPet("p1")
	pet.InteractionCount = tuning.Stage2MinInteractions
	pet.SetTrait(TraitCurious, 0.9)
	m.MaybeUnlock(pet)
	if pet.CommunicationStage != 2 {
		t.Fatalf("expected stage 2, got %d", pet.CommunicationStage)
	}

	// Trait falls back below the gate: the stage must not regress.
	pet.SetTrait(TraitCurious, 0.1)
	for i := 0; i < 5; i++ {
		m.MaybeUnlock(pet)
		if pet.CommunicationStage != 2 {
			t.Fatalf("stage regressed to %d", pet.CommunicationStage)
		}
	}
}

func TestVocabulary_TokenUnlockDeterministic(t *testing.T) {
	tuning := DefaultTuning()
	m := NewVocabularyManager(tuning)
	pet := NewPet("p1")
	pet.InteractionCount = tuning.Stage2MinInteractions
	pet.SetTrait(TraitCurious, 0.70)
	pet.SetTrait(TraitHappy, 0.62)

	result := m.MaybeUnlock(pet)

	// Catalog order: 🎉 (happy≥0.60 at stage 2) before 🔍 (curious≥0.65).
	if len(result.NewTokens) != 2 || result.NewTokens[0] != "🎉" || result.NewTokens[1] != "🔍" {
		t.Fatalf("expected deterministic unlock [🎉 🔍], got %v", result.NewTokens)
	}
	if !pet.Vocabulary["🎉"] || !pet.Vocabulary["🔍"] {
		t.Fatal("unlocked tokens missing from vocabulary")
	}
}

func TestVocabulary_UnlockIdempotent(t *testing.T) {
	tuning := DefaultTuning()
	m := NewVocabularyManager(tuning)
	pet := NewPet("p1")
	pet.InteractionCount = tuning.Stage2MinInteractions
	pet.SetTrait(TraitCurious, 0.70)

	first := m.MaybeUnlock(pet)
	if !first.Changed() {
		t.Fatal("first evaluation should unlock")
	}
	second := m.MaybeUnlock(pet)
	if second.Changed() {
		t.Fatalf("second evaluation should be a no-op, got %+v", second)
	}
}

func TestVocabulary_TokensNeverRemoved(t *testing.T) {
	tuning := DefaultTuning()
	m := NewVocabularyManager(tuning)
	pet := NewPet("p1")
	pet.InteractionCount = tuning.Stage2MinInteractions
	pet.SetTrait(TraitCurious, 0.70)
	m.MaybeUnlock(pet)

	// Trait collapses afterwards: unlocked tokens stay.
	pet.SetTrait(TraitCurious, 0.0)
	m.MaybeUnlock(pet)
	if !pet.Vocabulary["🔍"] {
		t.Fatal("a token once unlocked must never be removed")
	}
}

func TestVocabulary_GatedTokenRequiresStage(t *testing.T) {
	m := NewVocabularyManager(DefaultTuning())
	pet := NewPet("p1")
	// Trait over the gate but stage 1: 🧸 needs stage 3.
	pet.SetTrait(TraitPlayful, 0.9)
	m.MaybeUnlock(pet)
	if pet.Vocabulary["🧸"] {
		t.Fatal("stage-3 token unlocked at stage 1")
	}
}
