// Package engine owns the set of live furnace instances and advances them one
// simulation tick at a time.
package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/furnace"
	"furnace_engine/internal/thermo"
)

var (
	ErrUnknownFurnace    = errors.New("no furnace registered at location")
	ErrUnknownArchetype  = errors.New("unknown furnace archetype")
	ErrAlreadyRegistered = errors.New("furnace already registered at location")
	ErrSlotOutOfRange    = errors.New("slot index out of range or stack too large")
	ErrUnknownSlotKind   = errors.New("unknown slot kind")
)

// Tuning holds the engine-wide simulation parameters.
type Tuning struct {
	RoomTemperature float64
}

// DefaultTuning returns the default room temperature.
func DefaultTuning() Tuning {
	return Tuning{RoomTemperature: thermo.RoomTemperature}
}

// Engine is the furnace orchestrator. Every exported method takes the engine
// lock, so ticks and external slot writes never interleave on an instance.
type Engine struct {
	mu        sync.Mutex
	catalogs  *catalog.Catalogs
	tuning    Tuning
	model     thermo.Model
	effects   Effects
	instances map[furnace.Location]*furnace.Instance
	order     []furnace.Location
	ticks     uint64
}

// New builds an engine reading from the given catalogs. A nil effects sink
// discards notifications.
func New(c *catalog.Catalogs, t Tuning, fx Effects) *Engine {
	if fx == nil {
		fx = NopEffects{}
	}
	return &Engine{
		catalogs:  c,
		tuning:    t,
		model:     thermo.DefaultModel(),
		effects:   fx,
		instances: make(map[furnace.Location]*furnace.Instance),
	}
}

func (e *Engine) Catalogs() *catalog.Catalogs { return e.catalogs }
func (e *Engine) Model() thermo.Model         { return e.model }

// RegisterInstance creates an idle furnace of the named archetype at loc.
func (e *Engine) RegisterInstance(loc furnace.Location, archetype string) (furnace.Snapshot, error) {
	a, ok := e.catalogs.Archetypes.Archetype(archetype)
	if !ok {
		return furnace.Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, archetype)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.instances[loc]; exists {
		return furnace.Snapshot{}, fmt.Errorf("%w: %s", ErrAlreadyRegistered, loc)
	}
	inst := furnace.New(loc, a, e.tuning.RoomTemperature)
	e.addLocked(inst)
	return inst.Snapshot(e.catalogs.Recipes, e.model), nil
}

// RestoreInstance re-registers a saved instance, replacing any instance
// already at that location.
func (e *Engine) RestoreInstance(st furnace.State) error {
	a, ok := e.catalogs.Archetypes.Archetype(st.Archetype)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownArchetype, st.Archetype)
	}
	inst, err := furnace.Restore(a, st, e.tuning.RoomTemperature)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.instances[st.Location]; exists {
		e.removeLocked(st.Location)
	}
	e.addLocked(inst)
	return nil
}

// UnregisterInstance removes the furnace at loc. Reports whether it existed.
func (e *Engine) UnregisterInstance(loc furnace.Location) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLocked(loc)
}

// ShutdownAll removes every instance and returns their final states so the
// caller can persist them.
func (e *Engine) ShutdownAll() []furnace.State {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]furnace.State, 0, len(e.order))
	for _, loc := range e.order {
		out = append(out, e.instances[loc].State())
	}
	e.instances = make(map[furnace.Location]*furnace.Instance)
	e.order = nil
	return out
}

// EmergencyShutdown forces the instance at loc into the safe idle state.
func (e *Engine) EmergencyShutdown(loc furnace.Location) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[loc]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFurnace, loc)
	}
	inst.EmergencyShutdown()
	e.effects.Shutdown(loc)
	return nil
}

// Restart clears an emergency shutdown so fuel can ignite again.
func (e *Engine) Restart(loc furnace.Location) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[loc]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFurnace, loc)
	}
	inst.Restart()
	return nil
}

// SetSlot writes one slot. Invalid indexes leave the instance untouched.
func (e *Engine) SetSlot(loc furnace.Location, kind furnace.SlotKind, idx int, s catalog.Stack) error {
	if _, ok := furnace.ParseSlotKind(string(kind)); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSlotKind, kind)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[loc]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownFurnace, loc)
	}
	if !inst.SetSlot(kind, idx, s) {
		return fmt.Errorf("%w: %s slot %d", ErrSlotOutOfRange, kind, idx)
	}
	return nil
}

func (e *Engine) SetInputSlot(loc furnace.Location, idx int, s catalog.Stack) error {
	return e.SetSlot(loc, furnace.SlotInput, idx, s)
}

func (e *Engine) SetFuelSlot(loc furnace.Location, idx int, s catalog.Stack) error {
	return e.SetSlot(loc, furnace.SlotFuel, idx, s)
}

func (e *Engine) SetOutputSlot(loc furnace.Location, idx int, s catalog.Stack) error {
	return e.SetSlot(loc, furnace.SlotOutput, idx, s)
}

// Snapshot returns an immutable view of the instance at loc.
func (e *Engine) Snapshot(loc furnace.Location) (furnace.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	inst, ok := e.instances[loc]
	if !ok {
		return furnace.Snapshot{}, fmt.Errorf("%w: %s", ErrUnknownFurnace, loc)
	}
	return inst.Snapshot(e.catalogs.Recipes, e.model), nil
}

// Snapshots returns views of all instances ordered by location.
func (e *Engine) Snapshots() []furnace.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]furnace.Snapshot, 0, len(e.order))
	for _, loc := range e.order {
		out = append(out, e.instances[loc].Snapshot(e.catalogs.Recipes, e.model))
	}
	return out
}

// States exports the persistable state of all instances.
func (e *Engine) States() []furnace.State {
	_, out := e.Checkpoint()
	return out
}

// Checkpoint exports all states together with the tick count they were taken at.
func (e *Engine) Checkpoint() (uint64, []furnace.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]furnace.State, 0, len(e.order))
	for _, loc := range e.order {
		out = append(out, e.instances[loc].State())
	}
	return e.ticks, out
}

func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.instances)
}

// Ticks is the number of simulation ticks run so far.
func (e *Engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

func (e *Engine) addLocked(inst *furnace.Instance) {
	loc := inst.Location()
	e.instances[loc] = inst
	idx := sort.Search(len(e.order), func(i int) bool { return !e.order[i].Less(loc) })
	e.order = append(e.order, furnace.Location{})
	copy(e.order[idx+1:], e.order[idx:])
	e.order[idx] = loc
}

func (e *Engine) removeLocked(loc furnace.Location) bool {
	if _, ok := e.instances[loc]; !ok {
		return false
	}
	delete(e.instances, loc)
	for i, l := range e.order {
		if l == loc {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return true
}
