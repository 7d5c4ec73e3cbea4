package petsdk

import (
	"log"
)

// ──────────────────────────────────────────────
// Vocabulary Manager — one-way staged unlocking
// ──────────────────────────────────────────────

// UnlockResult reports what MaybeUnlock changed.
type UnlockResult struct {
	StageBefore int      `json:"stage_before"`
	StageAfter  int      `json:"stage_after"`
	NewTokens   []string `json:"new_tokens"`
}

// Changed reports whether any stage or token unlock happened.
func (r UnlockResult) Changed() bool {
	return r.StageAfter != r.StageBefore || len(r.NewTokens) > 0
}

// VocabularyManager evaluates stage gates and per-token trait thresholds.
// Transitions are one-way: stages never regress and tokens never lock again.
// Re-evaluating already satisfied thresholds is a no-op.
type VocabularyManager struct {
	tuning *Tuning
}

// NewVocabularyManager creates a manager with the given tuning.
func NewVocabularyManager(tuning *Tuning) *VocabularyManager {
	return &VocabularyManager{tuning: tuning}
}

// MaybeUnlock advances the pet's communication stage and unlocks any tokens
// whose gates are satisfied, in deterministic catalog order.
func (m *VocabularyManager) MaybeUnlock(pet *Pet) UnlockResult {
	result := UnlockResult{StageBefore: pet.CommunicationStage}

	for m.stageGateOpen(pet, pet.CommunicationStage+1) {
		pet.CommunicationStage++
		log.Printf("[Vocabulary] Stage up | pet=%s stage=%d", pet.ID, pet.CommunicationStage)
	}
	result.StageAfter = pet.CommunicationStage

	for _, info := range tokenCatalog {
		if info.Seeded() || pet.Vocabulary[info.Token] {
			continue
		}
		if pet.CommunicationStage < info.MinStage {
			continue
		}
		if pet.Traits[info.GateTrait] < info.GateValue {
			continue
		}
		pet.Vocabulary[info.Token] = true
		result.NewTokens = append(result.NewTokens, info.Token)
	}
	if len(result.NewTokens) > 0 {
		log.Printf("[Vocabulary] Unlocked | pet=%s tokens=%v", pet.ID, result.NewTokens)
	}
	return result
}

// stageGateOpen checks the threshold gate for advancing to the given stage.
// Gates are cumulative: each stage re-checks the earlier requirements.
func (m *VocabularyManager) stageGateOpen(pet *Pet, stage int) bool {
	t := m.tuning
	switch stage {
	case 2:
		return pet.InteractionCount >= t.Stage2MinInteractions &&
			pet.Traits[TraitCurious] >= t.Stage2MinCurious
	case 3:
		return pet.InteractionCount >= t.Stage3MinInteractions &&
			pet.Traits[TraitCurious] >= t.Stage2MinCurious &&
			pet.Traits[TraitHappy] >= t.Stage3MinHappy
	case 4:
		return pet.InteractionCount >= t.Stage4MinInteractions &&
			pet.PositiveRatio() >= t.Stage4MinPositiveRatio
	default:
		return false
	}
}
