// Package furnace holds the mutable state of one placed furnace and the state
// transitions the engine sequences every tick.
package furnace

import (
	"math"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/thermo"
)

// Instance is one live furnace bound to a location. It is not safe for
// concurrent use; the engine serializes access.
type Instance struct {
	location  Location
	archetype catalog.Archetype
	room      float64

	currentTemp float64
	targetTemp  float64
	heating     bool
	cooling     bool

	fuelTime    int
	maxFuelTime int
	hasFuel     bool
	fuelTemp    float64
	fuelSlot    int
	burning     catalog.Descriptor

	cookTime    float64
	maxCookTime int
	recipeID    string
	active      bool
	paused      bool

	input  []catalog.Stack
	fuel   []catalog.Stack
	output []catalog.Stack

	overheatTicks  int
	countdown      int
	countdownArmed bool
	shutdown       bool
}

// New creates an idle instance at room temperature with empty slots sized by
// the archetype.
func New(loc Location, a catalog.Archetype, room float64) *Instance {
	return &Instance{
		location:    loc,
		archetype:   a,
		room:        room,
		currentTemp: room,
		targetTemp:  room,
		cooling:     true,
		fuelSlot:    -1,
		input:       make([]catalog.Stack, a.InputSlots),
		fuel:        make([]catalog.Stack, a.FuelSlots),
		output:      make([]catalog.Stack, a.OutputSlots),
		countdown:   a.ExplosionCountdown,
	}
}

func (i *Instance) Location() Location              { return i.location }
func (i *Instance) Archetype() catalog.Archetype    { return i.archetype }
func (i *Instance) CurrentTemperature() float64     { return i.currentTemp }
func (i *Instance) TargetTemperature() float64      { return i.targetTemp }
func (i *Instance) IsHeating() bool                 { return i.heating }
func (i *Instance) IsCooling() bool                 { return i.cooling }
func (i *Instance) FuelTime() int                   { return i.fuelTime }
func (i *Instance) MaxFuelTime() int                { return i.maxFuelTime }
func (i *Instance) HasFuel() bool                   { return i.hasFuel }
func (i *Instance) CookTime() float64               { return i.cookTime }
func (i *Instance) MaxCookTime() int                { return i.maxCookTime }
func (i *Instance) RecipeID() string                { return i.recipeID }
func (i *Instance) IsActive() bool                  { return i.active }
func (i *Instance) IsPaused() bool                  { return i.paused }
func (i *Instance) OverheatTicks() int              { return i.overheatTicks }
func (i *Instance) ExplosionCountdown() int         { return i.countdown }
func (i *Instance) CountdownArmed() bool            { return i.countdownArmed }
func (i *Instance) IsEmergencyShutdown() bool       { return i.shutdown }
func (i *Instance) InputSlots() []catalog.Stack     { return cloneStacks(i.input) }
func (i *Instance) FuelSlots() []catalog.Stack      { return cloneStacks(i.fuel) }
func (i *Instance) OutputSlots() []catalog.Stack    { return cloneStacks(i.output) }
func (i *Instance) BurningFuel() catalog.Descriptor { return i.burning }

// IsOverheating reports current > archetype max.
func (i *Instance) IsOverheating() bool {
	return i.currentTemp > i.archetype.MaxTemperature
}

func (i *Instance) WithinOperatingRange() bool {
	return i.currentTemp >= i.archetype.MinTemperature && i.currentTemp <= i.archetype.MaxTemperature
}

// WillExplode reports current >= archetype explosion temperature.
func (i *Instance) WillExplode() bool {
	return i.currentTemp >= i.archetype.ExplosionTemperature
}

// FuelProgress is the remaining share of the current burn cycle.
func (i *Instance) FuelProgress() float64 {
	if i.maxFuelTime <= 0 {
		return 0
	}
	return float64(i.fuelTime) / float64(i.maxFuelTime)
}

// CookProgress is the completed share of the current cook cycle.
func (i *Instance) CookProgress() float64 {
	if i.maxCookTime <= 0 {
		return 0
	}
	return math.Min(i.cookTime/float64(i.maxCookTime), 1)
}

// SetInputSlot, SetFuelSlot and SetOutputSlot replace one slot. Out-of-range
// indexes and stacks above their cap are rejected without touching state.
func (i *Instance) SetInputSlot(idx int, s catalog.Stack) bool {
	return setSlot(i.input, idx, s)
}

func (i *Instance) SetFuelSlot(idx int, s catalog.Stack) bool {
	return setSlot(i.fuel, idx, s)
}

func (i *Instance) SetOutputSlot(idx int, s catalog.Stack) bool {
	return setSlot(i.output, idx, s)
}

// SetSlot dispatches on kind.
func (i *Instance) SetSlot(kind SlotKind, idx int, s catalog.Stack) bool {
	switch kind {
	case SlotInput:
		return i.SetInputSlot(idx, s)
	case SlotFuel:
		return i.SetFuelSlot(idx, s)
	case SlotOutput:
		return i.SetOutputSlot(idx, s)
	}
	return false
}

func setSlot(slots []catalog.Stack, idx int, s catalog.Stack) bool {
	if idx < 0 || idx >= len(slots) {
		return false
	}
	if s.IsEmpty() {
		slots[idx] = catalog.Stack{}
		return true
	}
	if s.Amount > s.Cap() {
		return false
	}
	slots[idx] = s
	return true
}

// HasInput reports whether any input slot holds items.
func (i *Instance) HasInput() bool {
	for _, s := range i.input {
		if !s.IsEmpty() {
			return true
		}
	}
	return false
}

// HasOutputSpace reports whether any output slot is empty or below its cap.
func (i *Instance) HasOutputSpace() bool {
	for _, s := range i.output {
		if s.IsEmpty() || s.Amount < s.Cap() {
			return true
		}
	}
	return false
}

// HasOutputSpaceFor reports whether s fits into the output slots.
func (i *Instance) HasOutputSpaceFor(s catalog.Stack) bool {
	return spaceFor(i.output, s)
}

// CanProcessRecipe requires the archetype to reach the recipe's temperature and
// all outputs to fit together into the output slots.
func (i *Instance) CanProcessRecipe(r catalog.Recipe) bool {
	if i.archetype.MaxTemperature < r.RequiredTemperature {
		return false
	}
	trial := cloneStacks(i.output)
	for _, out := range r.Outputs {
		s := out.Stack()
		if !spaceFor(trial, s) {
			return false
		}
		deposit(trial, s)
	}
	return true
}

// CurrentRecipe looks up the recipe matching the present inputs.
func (i *Instance) CurrentRecipe(recipes *catalog.RecipeCatalog) (catalog.Recipe, bool) {
	if !i.HasInput() {
		return catalog.Recipe{}, false
	}
	return recipes.FindMatch(i.input)
}

// EstimatedTicksRemaining scales the remaining cook time by the inverse of the
// current efficiency. ok is false when nothing is cooking or progress is
// stalled.
func (i *Instance) EstimatedTicksRemaining(recipes *catalog.RecipeCatalog, model thermo.Model) (ticks int, ok bool) {
	r, found := i.CurrentRecipe(recipes)
	if !found {
		return 0, false
	}
	eff := model.Efficiency(i.currentTemp, r.RequiredTemperature)
	if eff <= 0 {
		return 0, false
	}
	remaining := float64(r.CookTime)
	if r.ID == i.recipeID {
		remaining -= i.cookTime
	}
	return int(math.Ceil(math.Max(remaining, 0) / eff)), true
}

// EmergencyShutdown returns the instance to a safe idle state: burn cleared,
// fuel slots emptied, cooking stopped, target at room temperature. Calling it
// again changes nothing.
func (i *Instance) EmergencyShutdown() {
	i.shutdown = true
	i.extinguish()
	for k := range i.fuel {
		i.fuel[k] = catalog.Stack{}
	}
	i.ResetCook()
	i.resetSafety()
}

// Restart clears the emergency flag so fuel can ignite again. It does nothing
// to an instance that is not shut down.
func (i *Instance) Restart() {
	if !i.shutdown {
		return
	}
	i.shutdown = false
	i.targetTemp = i.room
	i.resetSafety()
}

func (i *Instance) resetSafety() {
	i.overheatTicks = 0
	i.countdown = i.archetype.ExplosionCountdown
	i.countdownArmed = false
}
