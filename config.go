package petsdk

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ──────────────────────────────────────────────
// Tuning — all learning/decay constants in one place
// ──────────────────────────────────────────────

// Tuning collects every tunable constant of the learning loop. Defaults come
// from DefaultTuning; deployments override via YAML file and/or PETSDK_*
// environment variables.
type Tuning struct {
	// Belief updater
	LearningRate             float64 `yaml:"learning_rate" env:"PETSDK_LEARNING_RATE"`
	ConfirmSurpriseThreshold float64 `yaml:"confirm_surprise_threshold" env:"PETSDK_CONFIRM_SURPRISE_THRESHOLD"`
	ConfidenceConfirmGain    float64 `yaml:"confidence_confirm_gain" env:"PETSDK_CONFIDENCE_CONFIRM_GAIN"`
	ConfidenceViolationLoss  float64 `yaml:"confidence_violation_loss" env:"PETSDK_CONFIDENCE_VIOLATION_LOSS"`
	StyleNudge               float64 `yaml:"style_nudge" env:"PETSDK_STYLE_NUDGE"`
	ConsistencyAlpha         float64 `yaml:"consistency_alpha" env:"PETSDK_CONSISTENCY_ALPHA"`
	ProfileConfidenceRate    float64 `yaml:"profile_confidence_rate" env:"PETSDK_PROFILE_CONFIDENCE_RATE"`

	// Surprise calculator
	MaxSurprise float64 `yaml:"max_surprise" env:"PETSDK_MAX_SURPRISE"`

	// Decay (driven by explicit elapsed time, never a hidden clock)
	AffinityDecayPerHour   float64 `yaml:"affinity_decay_per_hour" env:"PETSDK_AFFINITY_DECAY_PER_HOUR"`
	ConfidenceDecayPerHour float64 `yaml:"confidence_decay_per_hour" env:"PETSDK_CONFIDENCE_DECAY_PER_HOUR"`
	TraitDecayPerHour      float64 `yaml:"trait_decay_per_hour" env:"PETSDK_TRAIT_DECAY_PER_HOUR"`

	// Trait evolution
	TraitBaseDelta float64 `yaml:"trait_base_delta" env:"PETSDK_TRAIT_BASE_DELTA"`

	// Vocabulary stage gates
	Stage2MinInteractions  int     `yaml:"stage2_min_interactions" env:"PETSDK_STAGE2_MIN_INTERACTIONS"`
	Stage2MinCurious       float64 `yaml:"stage2_min_curious" env:"PETSDK_STAGE2_MIN_CURIOUS"`
	Stage3MinInteractions  int     `yaml:"stage3_min_interactions" env:"PETSDK_STAGE3_MIN_INTERACTIONS"`
	Stage3MinHappy         float64 `yaml:"stage3_min_happy" env:"PETSDK_STAGE3_MIN_HAPPY"`
	Stage4MinInteractions  int     `yaml:"stage4_min_interactions" env:"PETSDK_STAGE4_MIN_INTERACTIONS"`
	Stage4MinPositiveRatio float64 `yaml:"stage4_min_positive_ratio" env:"PETSDK_STAGE4_MIN_POSITIVE_RATIO"`

	// Fluid boundary
	BoundaryCostFactor float64 `yaml:"boundary_cost_factor" env:"PETSDK_BOUNDARY_COST_FACTOR"`
}

// DefaultTuning returns the built-in constants.
func DefaultTuning() *Tuning {
	return &Tuning{
		LearningRate:             0.15,
		ConfirmSurpriseThreshold: 1.5,
		ConfidenceConfirmGain:    0.05,
		ConfidenceViolationLoss:  0.12,
		StyleNudge:               0.08,
		ConsistencyAlpha:         0.2,
		ProfileConfidenceRate:    0.05,

		MaxSurprise: 6.0,

		AffinityDecayPerHour:   0.01,
		ConfidenceDecayPerHour: 0.002,
		TraitDecayPerHour:      0.02,

		TraitBaseDelta: 0.04,

		Stage2MinInteractions:  10,
		Stage2MinCurious:       0.55,
		Stage3MinInteractions:  30,
		Stage3MinHappy:         0.60,
		Stage4MinInteractions:  60,
		Stage4MinPositiveRatio: 0.60,

		BoundaryCostFactor: 0.5,
	}
}

// LoadTuning builds a Tuning from defaults, an optional YAML file, and
// PETSDK_* env overrides, in that precedence order.
func LoadTuning(path string) (*Tuning, error) {
	t := DefaultTuning()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read tuning file: %w", err)
		}
		if err := yaml.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("parse tuning file: %w", err)
		}
	}
	if err := env.Parse(t); err != nil {
		return nil, fmt.Errorf("parse tuning env: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate rejects constants that would break the loop's monotonicity
// properties (negative rates, zero surprise cap, inverted asymmetry).
func (t *Tuning) Validate() error {
	if t.LearningRate <= 0 || t.LearningRate > 1 {
		return fmt.Errorf("%w: learning rate %v outside (0,1]", ErrInvalidState, t.LearningRate)
	}
	if t.MaxSurprise <= 0 {
		return fmt.Errorf("%w: max surprise %v must be positive", ErrInvalidState, t.MaxSurprise)
	}
	if t.ConfirmSurpriseThreshold <= 0 || t.ConfirmSurpriseThreshold >= t.MaxSurprise {
		return fmt.Errorf("%w: confirm threshold %v outside (0, max surprise)", ErrInvalidState, t.ConfirmSurpriseThreshold)
	}
	if t.ConfidenceViolationLoss < t.ConfidenceConfirmGain {
		return fmt.Errorf("%w: violation loss %v must be >= confirm gain %v", ErrInvalidState, t.ConfidenceViolationLoss, t.ConfidenceConfirmGain)
	}
	if t.ConsistencyAlpha <= 0 || t.ConsistencyAlpha > 1 {
		return fmt.Errorf("%w: consistency alpha %v outside (0,1]", ErrInvalidState, t.ConsistencyAlpha)
	}
	if t.AffinityDecayPerHour < 0 || t.ConfidenceDecayPerHour < 0 || t.TraitDecayPerHour < 0 {
		return fmt.Errorf("%w: decay rates must be non-negative (affinity=%v confidence=%v trait=%v)",
			ErrInvalidState, t.AffinityDecayPerHour, t.ConfidenceDecayPerHour, t.TraitDecayPerHour)
	}
	if t.TraitBaseDelta <= 0 || t.TraitBaseDelta > 1 {
		return fmt.Errorf("%w: trait base delta %v outside (0,1]", ErrInvalidState, t.TraitBaseDelta)
	}
	if t.BoundaryCostFactor < 0 {
		return fmt.Errorf("%w: boundary cost factor %v negative", ErrInvalidState, t.BoundaryCostFactor)
	}
	if t.Stage2MinInteractions < 0 ||
		t.Stage3MinInteractions < t.Stage2MinInteractions ||
		t.Stage4MinInteractions < t.Stage3MinInteractions {
		return fmt.Errorf("%w: stage interaction gates must be non-negative and non-decreasing (%d, %d, %d)",
			ErrInvalidState, t.Stage2MinInteractions, t.Stage3MinInteractions, t.Stage4MinInteractions)
	}
	for _, v := range []float64{t.Stage2MinCurious, t.Stage3MinHappy, t.Stage4MinPositiveRatio} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%w: stage gate threshold %v outside [0,1]", ErrInvalidState, v)
		}
	}
	return nil
}
