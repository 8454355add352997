package furnace

import (
	"furnace_engine/internal/catalog"
	"furnace_engine/internal/thermo"
)

// Snapshot is an immutable view of an instance for display layers: the saved
// state plus derived values.
type Snapshot struct {
	State

	Overheating          bool    `json:"overheating"`
	WithinOperatingRange bool    `json:"within_operating_range"`
	WillExplode          bool    `json:"will_explode"`
	FuelProgress         float64 `json:"fuel_progress"`
	CookProgress         float64 `json:"cook_progress"`
	HasOutputSpace       bool    `json:"has_output_space"`
	MatchedRecipe        string  `json:"matched_recipe,omitempty"`
	EstimatedTicks       int     `json:"estimated_ticks,omitempty"`
	EstimateKnown        bool    `json:"estimate_known"`
	Temperature          string  `json:"temperature"`
	MaxTemperature       float64 `json:"max_temperature"`
	ExplosionTemperature float64 `json:"explosion_temperature"`
}

// Snapshot captures the instance. recipes may be nil, which skips the live
// recipe lookup and the estimate.
func (i *Instance) Snapshot(recipes *catalog.RecipeCatalog, model thermo.Model) Snapshot {
	s := Snapshot{
		State:                i.State(),
		Overheating:          i.IsOverheating(),
		WithinOperatingRange: i.WithinOperatingRange(),
		WillExplode:          i.WillExplode(),
		FuelProgress:         i.FuelProgress(),
		CookProgress:         i.CookProgress(),
		HasOutputSpace:       i.HasOutputSpace(),
		Temperature:          thermo.Format(i.currentTemp),
		MaxTemperature:       i.archetype.MaxTemperature,
		ExplosionTemperature: i.archetype.ExplosionTemperature,
	}
	if recipes != nil {
		if r, ok := i.CurrentRecipe(recipes); ok {
			s.MatchedRecipe = r.ID
		}
		s.EstimatedTicks, s.EstimateKnown = i.EstimatedTicksRemaining(recipes, model)
	}
	return s
}
