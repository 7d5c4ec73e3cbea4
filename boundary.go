package petsdk

// ──────────────────────────────────────────────
// Fluid Boundary Model — trait-gated environment exchange
// ──────────────────────────────────────────────

// EnvironmentContext is the numeric feature the boundary model exports to
// the prediction engine after each exchange.
type EnvironmentContext struct {
	Signal       float64 `json:"signal"`       // last raw environment signal delta
	Permeability float64 `json:"permeability"` // 0..1, how open the boundary is
	EnergyCost   float64 `json:"energy_cost"`  // cost charged by the last exchange
}

// FluidBoundaryModel couples the pet's needs to the external environment
// signal through a trait-derived permeability factor.
type FluidBoundaryModel struct {
	tuning *Tuning
}

// NewFluidBoundaryModel creates a model with the given tuning.
func NewFluidBoundaryModel(tuning *Tuning) *FluidBoundaryModel {
	return &FluidBoundaryModel{tuning: tuning}
}

// Permeability derives the boundary openness from traits: curiosity opens
// the boundary, sleepiness closes it. Always in [0,1].
func (m *FluidBoundaryModel) Permeability(pet *Pet) float64 {
	p := 0.5 + 0.35*pet.Traits[TraitCurious] - 0.45*pet.Traits[TraitSleepy] + 0.1*pet.Traits[TraitPlayful]
	return clamp01(p)
}

// Exchange charges the energy cost of one environment exchange against the
// pet's energy need (clamped at 0) and returns the context feature for the
// prediction engine. A closed boundary or a flat signal costs nothing.
func (m *FluidBoundaryModel) Exchange(pet *Pet, signal float64) EnvironmentContext {
	perm := m.Permeability(pet)
	cost := perm * absFloat(signal) * m.tuning.BoundaryCostFactor
	pet.AdjustNeed(NeedEnergy, -cost)
	return EnvironmentContext{
		Signal:       signal,
		Permeability: perm,
		EnergyCost:   cost,
	}
}
