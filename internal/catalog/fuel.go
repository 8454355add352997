package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrInvalidFuel = errors.New("invalid fuel definition")
)

// Fuel describes how long one unit of an item burns and the temperature it
// drives a furnace toward. Temperature may be negative.
type Fuel struct {
	ID          string     `json:"id" yaml:"id"`
	Item        Descriptor `json:"item" yaml:"item"`
	BurnTime    int        `json:"burn_time" yaml:"burn_time"`
	Temperature float64    `json:"temperature" yaml:"temperature"`
	// Custom fuels match on type and variant; material fuels on type alone.
	Custom bool `json:"custom" yaml:"custom"`
}

// Validate checks the static invariants of a fuel entry.
func (f Fuel) Validate() error {
	if f.Item.Type == "" {
		return fmt.Errorf("%w: empty item type", ErrInvalidFuel)
	}
	if f.BurnTime <= 0 {
		return fmt.Errorf("%w: %s burn time must be > 0, got %d", ErrInvalidFuel, f.Item, f.BurnTime)
	}
	if f.Custom && f.ID == "" {
		return fmt.Errorf("%w: custom fuel for %s needs an id", ErrInvalidFuel, f.Item)
	}
	return nil
}

func (f Fuel) matches(s Stack) bool {
	if s.IsEmpty() || s.Type != f.Item.Type {
		return false
	}
	if !f.Custom {
		return true
	}
	return f.Item.Matches(s.Descriptor)
}

// FuelCatalog maps items to burn time and temperature output. Custom entries
// are scanned before material entries since they are more specific.
// Safe for concurrent use.
type FuelCatalog struct {
	mu          sync.RWMutex
	materials   map[string]Fuel
	custom      map[string]Fuel
	customOrder []string
}

func NewFuelCatalog() *FuelCatalog {
	return &FuelCatalog{
		materials: make(map[string]Fuel),
		custom:    make(map[string]Fuel),
	}
}

// RegisterMaterialFuel adds or replaces the entry for a base item type.
func (c *FuelCatalog) RegisterMaterialFuel(f Fuel) error {
	f.Custom = false
	f.Item.Variant = ""
	if f.ID == "" {
		f.ID = f.Item.Type
	}
	if err := f.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.materials[f.Item.Type] = f
	return nil
}

// RegisterCustomFuel adds a fuel matched by full descriptor equality.
// Re-registering an id overwrites the previous entry in place.
func (c *FuelCatalog) RegisterCustomFuel(f Fuel) error {
	f.Custom = true
	if err := f.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.custom[f.ID]; !ok {
		c.customOrder = append(c.customOrder, f.ID)
	}
	c.custom[f.ID] = f
	return nil
}

// RemoveCustomFuel deletes a custom fuel. Reports whether it existed.
func (c *FuelCatalog) RemoveCustomFuel(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.custom[id]; !ok {
		return false
	}
	delete(c.custom, id)
	for i, v := range c.customOrder {
		if v == id {
			c.customOrder = append(c.customOrder[:i], c.customOrder[i+1:]...)
			break
		}
	}
	return true
}

// Lookup finds the fuel entry for an item. Absence is the normal "not fuel"
// case.
func (c *FuelCatalog) Lookup(s Stack) (Fuel, bool) {
	if s.IsEmpty() {
		return Fuel{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.customOrder {
		if f := c.custom[id]; f.matches(s) {
			return f, true
		}
	}
	f, ok := c.materials[s.Type]
	return f, ok
}

func (c *FuelCatalog) IsFuel(s Stack) bool {
	_, ok := c.Lookup(s)
	return ok
}

func (c *FuelCatalog) BurnTimeOf(s Stack) int {
	f, _ := c.Lookup(s)
	return f.BurnTime
}

func (c *FuelCatalog) TemperatureOf(s Stack) float64 {
	f, _ := c.Lookup(s)
	return f.Temperature
}

// CustomFuels returns custom entries in registration order.
func (c *FuelCatalog) CustomFuels() []Fuel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Fuel, 0, len(c.customOrder))
	for _, id := range c.customOrder {
		out = append(out, c.custom[id])
	}
	return out
}

// Fuels returns every entry, custom first, then materials sorted by type.
func (c *FuelCatalog) Fuels() []Fuel {
	out := c.CustomFuels()
	c.mu.RLock()
	defer c.mu.RUnlock()
	types := make([]string, 0, len(c.materials))
	for t := range c.materials {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		out = append(out, c.materials[t])
	}
	return out
}
