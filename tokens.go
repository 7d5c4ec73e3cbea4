package petsdk

// ──────────────────────────────────────────────
// Emoji Token Catalog — the pet's entire expressive surface
// ──────────────────────────────────────────────

// TokenCategory groups tokens by the need/trait domain they express.
type TokenCategory string

const (
	CategoryFood      TokenCategory = "food"
	CategoryRest      TokenCategory = "rest"
	CategoryPlay      TokenCategory = "play"
	CategoryAffection TokenCategory = "affection"
	CategoryCuriosity TokenCategory = "curiosity"
)

// TokenInfo describes one emoji token the pet can learn to emit.
type TokenInfo struct {
	Token     string        `json:"token"`
	Category  TokenCategory `json:"category"`
	MinStage  int           `json:"min_stage"`          // stage required before the token can unlock
	GateTrait Trait         `json:"gate_trait"`         // trait gating the unlock ("" = seeded at creation)
	GateValue float64       `json:"gate_value"`         // threshold the gate trait must cross
}

// Seeded returns true for tokens present in every new pet's vocabulary.
func (t TokenInfo) Seeded() bool {
	return t.GateTrait == ""
}

// tokenCatalog is the full closed token set, in deterministic unlock order.
// Seeded tokens (no gate) form the stage-1 vocabulary; the rest unlock when
// their gate trait first crosses its threshold at a sufficient stage.
var tokenCatalog = []TokenInfo{
	// Stage-1 seed vocabulary — one token per basic need domain.
	{Token: "😊", Category: CategoryAffection, MinStage: 1},
	{Token: "🍕", Category: CategoryFood, MinStage: 1},
	{Token: "😴", Category: CategoryRest, MinStage: 1},
	{Token: "👀", Category: CategoryCuriosity, MinStage: 1},
	{Token: "🎾", Category: CategoryPlay, MinStage: 1},

	// Trait-gated unlocks, evaluated in this order.
	{Token: "🎉", Category: CategoryPlay, MinStage: 2, GateTrait: TraitHappy, GateValue: 0.60},
	{Token: "🔍", Category: CategoryCuriosity, MinStage: 2, GateTrait: TraitCurious, GateValue: 0.65},
	{Token: "🍔", Category: CategoryFood, MinStage: 2, GateTrait: TraitHungry, GateValue: 0.60},
	{Token: "💤", Category: CategoryRest, MinStage: 2, GateTrait: TraitSleepy, GateValue: 0.60},
	{Token: "🧸", Category: CategoryPlay, MinStage: 3, GateTrait: TraitPlayful, GateValue: 0.65},
	{Token: "❤️", Category: CategoryAffection, MinStage: 3, GateTrait: TraitHappy, GateValue: 0.75},
	{Token: "🍰", Category: CategoryFood, MinStage: 3, GateTrait: TraitHungry, GateValue: 0.75},
	{Token: "🎮", Category: CategoryPlay, MinStage: 4, GateTrait: TraitPlayful, GateValue: 0.80},
	{Token: "🌈", Category: CategoryCuriosity, MinStage: 4, GateTrait: TraitCurious, GateValue: 0.85},
	{Token: "🥰", Category: CategoryAffection, MinStage: 4, GateTrait: TraitHappy, GateValue: 0.85},
}

// tokenIndex maps token → catalog entry for O(1) lookup.
var tokenIndex = buildTokenIndex()

func buildTokenIndex() map[string]TokenInfo {
	idx := make(map[string]TokenInfo, len(tokenCatalog))
	for _, info := range tokenCatalog {
		idx[info.Token] = info
	}
	return idx
}

// LookupToken returns catalog info for a token.
func LookupToken(token string) (TokenInfo, bool) {
	info, ok := tokenIndex[token]
	return info, ok
}

// SeedVocabulary returns the stage-1 token set for a new pet.
func SeedVocabulary() map[string]bool {
	vocab := make(map[string]bool)
	for _, info := range tokenCatalog {
		if info.Seeded() {
			vocab[info.Token] = true
		}
	}
	return vocab
}
