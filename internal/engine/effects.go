package engine

import (
	"furnace_engine/internal/catalog"
	"furnace_engine/internal/furnace"
)

// Effects receives fire-and-forget notifications from the simulation for
// audio/visual feedback and world changes. Implementations run inside the
// tick and must not call back into the Engine.
type Effects interface {
	Ignited(loc furnace.Location, fuel catalog.Fuel)
	BurnedOut(loc furnace.Location)
	Deposited(loc furnace.Location, recipeID string, outputs []catalog.Stack)
	Exploded(loc furnace.Location, temperature float64)
	Shutdown(loc furnace.Location)
}

// NopEffects ignores every notification.
type NopEffects struct{}

func (NopEffects) Ignited(furnace.Location, catalog.Fuel)              {}
func (NopEffects) BurnedOut(furnace.Location)                          {}
func (NopEffects) Deposited(furnace.Location, string, []catalog.Stack) {}
func (NopEffects) Exploded(furnace.Location, float64)                  {}
func (NopEffects) Shutdown(furnace.Location)                           {}
