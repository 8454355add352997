package furnace

import (
	"fmt"

	"furnace_engine/internal/catalog"
)

// State is the full mutable state of an instance, in a form storage layers can
// encode without knowing the instance internals.
type State struct {
	Location  Location `json:"location"`
	Archetype string   `json:"archetype"`

	CurrentTemperature float64 `json:"current_temperature"`
	TargetTemperature  float64 `json:"target_temperature"`
	Heating            bool    `json:"heating"`
	Cooling            bool    `json:"cooling"`

	FuelTime        int                `json:"fuel_time"`
	MaxFuelTime     int                `json:"max_fuel_time"`
	HasFuel         bool               `json:"has_fuel"`
	FuelTemperature float64            `json:"fuel_temperature"`
	FuelSlot        int                `json:"fuel_slot"`
	BurningFuel     catalog.Descriptor `json:"burning_fuel"`

	CookTime    float64 `json:"cook_time"`
	MaxCookTime int     `json:"max_cook_time"`
	RecipeID    string  `json:"recipe_id,omitempty"`
	Active      bool    `json:"active"`
	Paused      bool    `json:"paused"`

	Input  []catalog.Stack `json:"input"`
	Fuel   []catalog.Stack `json:"fuel"`
	Output []catalog.Stack `json:"output"`

	OverheatTicks      int  `json:"overheat_ticks"`
	ExplosionCountdown int  `json:"explosion_countdown"`
	CountdownArmed     bool `json:"countdown_armed"`
	EmergencyShutdown  bool `json:"emergency_shutdown"`
}

// State exports every mutable field.
func (i *Instance) State() State {
	return State{
		Location:           i.location,
		Archetype:          i.archetype.Name,
		CurrentTemperature: i.currentTemp,
		TargetTemperature:  i.targetTemp,
		Heating:            i.heating,
		Cooling:            i.cooling,
		FuelTime:           i.fuelTime,
		MaxFuelTime:        i.maxFuelTime,
		HasFuel:            i.hasFuel,
		FuelTemperature:    i.fuelTemp,
		FuelSlot:           i.fuelSlot,
		BurningFuel:        i.burning,
		CookTime:           i.cookTime,
		MaxCookTime:        i.maxCookTime,
		RecipeID:           i.recipeID,
		Active:             i.active,
		Paused:             i.paused,
		Input:              cloneStacks(i.input),
		Fuel:               cloneStacks(i.fuel),
		Output:             cloneStacks(i.output),
		OverheatTicks:      i.overheatTicks,
		ExplosionCountdown: i.countdown,
		CountdownArmed:     i.countdownArmed,
		EmergencyShutdown:  i.shutdown,
	}
}

// Restore rebuilds an instance from a saved state. Slot arrays are resized to
// the archetype; extra saved slots are dropped.
func Restore(a catalog.Archetype, st State, room float64) (*Instance, error) {
	if st.Archetype != "" && st.Archetype != a.Name {
		return nil, fmt.Errorf("restore %s: state is for archetype %q, got %q", st.Location, st.Archetype, a.Name)
	}
	i := New(st.Location, a, room)
	i.currentTemp = st.CurrentTemperature
	i.targetTemp = st.TargetTemperature
	i.heating = st.Heating
	i.cooling = st.Cooling
	i.fuelTime = max(st.FuelTime, 0)
	i.maxFuelTime = st.MaxFuelTime
	i.hasFuel = st.HasFuel
	i.fuelTemp = st.FuelTemperature
	i.fuelSlot = st.FuelSlot
	i.burning = st.BurningFuel
	i.cookTime = st.CookTime
	i.maxCookTime = st.MaxCookTime
	i.recipeID = st.RecipeID
	i.active = st.Active
	i.paused = st.Paused
	copy(i.input, st.Input)
	copy(i.fuel, st.Fuel)
	copy(i.output, st.Output)
	i.overheatTicks = st.OverheatTicks
	i.countdown = st.ExplosionCountdown
	if i.countdown <= 0 {
		i.countdown = a.ExplosionCountdown
	}
	i.countdownArmed = st.CountdownArmed
	i.shutdown = st.EmergencyShutdown
	return i, nil
}
