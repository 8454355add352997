package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrInvalidArchetype = errors.New("invalid furnace archetype")
)

// Archetype is an immutable furnace kind shared by all instances of it.
type Archetype struct {
	Name                 string  `json:"name" yaml:"name"`
	DisplayName          string  `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	MinTemperature       float64 `json:"min_temperature" yaml:"min_temperature"`
	MaxTemperature       float64 `json:"max_temperature" yaml:"max_temperature"`
	ExplosionTemperature float64 `json:"explosion_temperature" yaml:"explosion_temperature"`

	InputSlots  int `json:"input_slots" yaml:"input_slots"`
	FuelSlots   int `json:"fuel_slots" yaml:"fuel_slots"`
	OutputSlots int `json:"output_slots" yaml:"output_slots"`

	// Degrees per tick toward the target while heating, and toward room
	// temperature while cooling.
	HeatingRate float64 `json:"heating_rate" yaml:"heating_rate"`
	CoolingRate float64 `json:"cooling_rate" yaml:"cooling_rate"`

	// Ticks of continuous overheating before the explosion countdown arms.
	OverheatThreshold int `json:"overheat_threshold" yaml:"overheat_threshold"`
	// Length of the explosion countdown once armed.
	ExplosionCountdown int `json:"explosion_countdown" yaml:"explosion_countdown"`
	// Remaining countdown is cut to this when the explosion temperature is reached.
	CriticalCountdown int `json:"critical_countdown" yaml:"critical_countdown"`
}

// Validate enforces min < max < explosion plus positive slot counts and rates.
func (a Archetype) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidArchetype)
	}
	if !(a.MinTemperature < a.MaxTemperature) {
		return fmt.Errorf("%w: %s min temperature %.1f must be below max %.1f",
			ErrInvalidArchetype, a.Name, a.MinTemperature, a.MaxTemperature)
	}
	if !(a.MaxTemperature < a.ExplosionTemperature) {
		return fmt.Errorf("%w: %s explosion temperature %.1f must exceed max %.1f",
			ErrInvalidArchetype, a.Name, a.ExplosionTemperature, a.MaxTemperature)
	}
	if a.InputSlots <= 0 || a.FuelSlots <= 0 || a.OutputSlots <= 0 {
		return fmt.Errorf("%w: %s slot counts must be positive (%d/%d/%d)",
			ErrInvalidArchetype, a.Name, a.InputSlots, a.FuelSlots, a.OutputSlots)
	}
	if a.HeatingRate <= 0 || a.CoolingRate <= 0 {
		return fmt.Errorf("%w: %s heating and cooling rates must be positive", ErrInvalidArchetype, a.Name)
	}
	if a.OverheatThreshold < 0 || a.ExplosionCountdown <= 0 {
		return fmt.Errorf("%w: %s overheat threshold must be >= 0 and countdown > 0", ErrInvalidArchetype, a.Name)
	}
	if a.CriticalCountdown <= 0 || a.CriticalCountdown > a.ExplosionCountdown {
		return fmt.Errorf("%w: %s critical countdown must be in (0, %d]",
			ErrInvalidArchetype, a.Name, a.ExplosionCountdown)
	}
	return nil
}

// ArchetypeCatalog is the set of furnace kinds known to the process.
type ArchetypeCatalog struct {
	mu     sync.RWMutex
	byName map[string]Archetype
}

func NewArchetypeCatalog() *ArchetypeCatalog {
	return &ArchetypeCatalog{byName: make(map[string]Archetype)}
}

// Register adds a validated archetype. Archetypes are defined once; a second
// registration under the same name is rejected.
func (c *ArchetypeCatalog) Register(a Archetype) error {
	if err := a.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.byName[a.Name]; ok {
		return fmt.Errorf("%w: %s already defined", ErrInvalidArchetype, a.Name)
	}
	c.byName[a.Name] = a
	return nil
}

func (c *ArchetypeCatalog) Archetype(name string) (Archetype, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.byName[name]
	return a, ok
}

// Archetypes returns all archetypes sorted by name.
func (c *ArchetypeCatalog) Archetypes() []Archetype {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Archetype, 0, len(c.byName))
	for _, a := range c.byName {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
