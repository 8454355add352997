package engine

import (
	"furnace_engine/internal/furnace"
)

// Tick advances every live instance by deltaTicks simulation ticks. Each
// instance runs to completion for a tick before the next one starts; instances
// are visited in location order so runs are reproducible.
func (e *Engine) Tick(deltaTicks int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for n := 0; n < deltaTicks; n++ {
		for _, loc := range e.order {
			e.step(e.instances[loc])
		}
		e.ticks++
	}
}

// step runs the per-instance state machine: ignition, temperature, fuel burn,
// cooking, safety.
func (e *Engine) step(inst *furnace.Instance) {
	loc := inst.Location()
	fuels := e.catalogs.Fuels

	if !inst.HasFuel() && !inst.IsEmergencyShutdown() {
		if f, slot, ok := inst.FindFuel(fuels); ok {
			inst.Ignite(f, slot)
			e.effects.Ignited(loc, f)
		}
	}

	inst.StepTemperature()

	if inst.BurnTick() {
		inst.ConsumeFuelUnit()
		if f, slot, ok := inst.FindFuel(fuels); ok {
			inst.Ignite(f, slot)
			e.effects.Ignited(loc, f)
		} else {
			inst.Extinguish()
			e.effects.BurnedOut(loc)
		}
	}

	e.cook(inst)

	if inst.EvaluateSafety() {
		temp := inst.CurrentTemperature()
		inst.EmergencyShutdown()
		e.effects.Exploded(loc, temp)
	}
}

func (e *Engine) cook(inst *furnace.Instance) {
	if inst.IsEmergencyShutdown() || !inst.HasInput() {
		inst.ResetCook()
		return
	}
	recipes := e.catalogs.Recipes
	r, ok := inst.CurrentRecipe(recipes)
	if !ok {
		inst.ResetCook()
		return
	}
	if !inst.CanProcessRecipe(r) {
		inst.Block(r)
		return
	}
	eff := e.model.Efficiency(inst.CurrentTemperature(), r.RequiredTemperature)
	if !inst.Advance(r, eff) {
		return
	}

	out := inst.CompleteCycle(r)
	e.effects.Deposited(inst.Location(), r.ID, out)

	next, ok := inst.CurrentRecipe(recipes)
	switch {
	case !ok:
		inst.ResetCook()
	case !inst.CanProcessRecipe(next):
		inst.Block(next)
	default:
		inst.Prime(next)
	}
}
