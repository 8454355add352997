package furnace

import (
	"furnace_engine/internal/catalog"
	"furnace_engine/internal/thermo"
)

// FindFuel returns the first fuel slot holding an item the catalog burns.
func (i *Instance) FindFuel(fuels *catalog.FuelCatalog) (catalog.Fuel, int, bool) {
	for k, s := range i.fuel {
		if f, ok := fuels.Lookup(s); ok {
			return f, k, true
		}
	}
	return catalog.Fuel{}, -1, false
}

// Ignite starts a burn cycle on the fuel held in slot. The unit is consumed
// when the cycle ends.
func (i *Instance) Ignite(f catalog.Fuel, slot int) {
	i.hasFuel = true
	i.fuelTime = f.BurnTime
	i.maxFuelTime = f.BurnTime
	i.fuelTemp = f.Temperature
	i.targetTemp = f.Temperature
	i.fuelSlot = slot
	if slot >= 0 && slot < len(i.fuel) {
		i.burning = i.fuel[slot].Descriptor
	}
	i.heating = true
	i.cooling = false
}

// BurnTick spends one tick of the current burn cycle and reports whether the
// cycle just ran out.
func (i *Instance) BurnTick() bool {
	if !i.hasFuel || i.fuelTime <= 0 {
		return false
	}
	i.fuelTime--
	return i.fuelTime == 0
}

// ConsumeFuelUnit removes the unit that just finished burning, preferring the
// slot it was ignited from.
func (i *Instance) ConsumeFuelUnit() {
	if i.burning.Type == "" {
		return
	}
	if k := i.fuelSlot; k >= 0 && k < len(i.fuel) && !i.fuel[k].IsEmpty() && i.fuel[k].Descriptor.Matches(i.burning) {
		i.fuel[k].Amount--
		if i.fuel[k].Amount == 0 {
			i.fuel[k] = catalog.Stack{}
		}
		return
	}
	withdraw(i.fuel, i.burning, 1)
}

// Extinguish ends burning and starts cooling toward room temperature.
func (i *Instance) Extinguish() {
	i.extinguish()
}

func (i *Instance) extinguish() {
	i.hasFuel = false
	i.fuelTime = 0
	i.maxFuelTime = 0
	i.fuelTemp = 0
	i.fuelSlot = -1
	i.burning = catalog.Descriptor{}
	i.targetTemp = i.room
	i.heating = false
	i.cooling = true
}

// StepTemperature moves the current temperature one tick. While heating, a
// fuel hotter than the target raises the target to its output; the current
// temperature then approaches the target at the archetype heating rate.
// Otherwise it decays toward room temperature at the cooling rate.
func (i *Instance) StepTemperature() {
	i.heating = i.hasFuel && !i.shutdown
	i.cooling = !i.heating
	if i.heating {
		if i.fuelTemp > i.targetTemp {
			i.targetTemp = i.fuelTemp
		}
		i.currentTemp = thermo.Approach(i.currentTemp, i.targetTemp, i.archetype.HeatingRate)
		return
	}
	i.currentTemp = thermo.Approach(i.currentTemp, i.room, i.archetype.CoolingRate)
}

// ResetCook drops any cook progress and clears the active/paused flags.
func (i *Instance) ResetCook() {
	i.cookTime = 0
	i.maxCookTime = 0
	i.recipeID = ""
	i.active = false
	i.paused = false
}

// Block marks r as matched but not processable (output full or archetype too
// cold). Progress on r is kept.
func (i *Instance) Block(r catalog.Recipe) {
	i.track(r)
	i.active = false
	i.paused = false
}

// Advance adds eff ticks of progress on r and reports whether the cycle is
// complete. Zero efficiency pauses without progress.
func (i *Instance) Advance(r catalog.Recipe, eff float64) bool {
	i.track(r)
	if eff <= 0 {
		i.paused = true
		i.active = false
		return false
	}
	i.paused = false
	i.active = true
	i.cookTime += eff
	return i.cookTime >= float64(i.maxCookTime)
}

// Prime starts tracking r as the active recipe without adding progress. Used
// right after a completed cycle so the next one starts without an idle tick.
func (i *Instance) Prime(r catalog.Recipe) {
	i.track(r)
	i.active = true
	i.paused = false
}

func (i *Instance) track(r catalog.Recipe) {
	if i.recipeID != r.ID {
		i.cookTime = 0
		i.recipeID = r.ID
	}
	i.maxCookTime = r.CookTime
}

// CompleteCycle consumes r's inputs, deposits its outputs and resets cook time.
// It returns the deposited stacks.
func (i *Instance) CompleteCycle(r catalog.Recipe) []catalog.Stack {
	for _, in := range r.Inputs {
		withdraw(i.input, in.Item, in.Amount)
	}
	out := make([]catalog.Stack, 0, len(r.Outputs))
	for _, o := range r.Outputs {
		s := o.Stack()
		deposit(i.output, s)
		out = append(out, s)
	}
	i.cookTime = 0
	return out
}

// EvaluateSafety runs one tick of the overheat state machine and reports
// whether the explosion countdown reached zero. Sustained overheating beyond
// the archetype threshold arms the countdown; reaching the explosion
// temperature arms it at once and cuts it to the critical length. Dropping
// back into range disarms and resets it.
func (i *Instance) EvaluateSafety() bool {
	if i.shutdown || !i.IsOverheating() {
		i.resetSafety()
		return false
	}
	i.overheatTicks++
	if i.overheatTicks > i.archetype.OverheatThreshold {
		i.countdownArmed = true
	}
	if i.WillExplode() {
		i.countdownArmed = true
		i.countdown = min(i.countdown, i.archetype.CriticalCountdown)
	}
	if !i.countdownArmed {
		return false
	}
	i.countdown--
	return i.countdown <= 0
}
