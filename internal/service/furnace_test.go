package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/engine"
	"furnace_engine/internal/furnace"
	"furnace_engine/internal/logger"
	"furnace_engine/internal/models"
	"furnace_engine/internal/repository"
)

// memStateRepo is an in-memory repository.StateRepo.
type memStateRepo struct {
	mu        sync.Mutex
	rows      map[string]models.FurnaceRecord
	saveErr   error
	loadErr   error
	deleteErr error
	saveCalls int
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{rows: make(map[string]models.FurnaceRecord)}
}

func (r *memStateRepo) SaveAll(_ context.Context, recs []models.FurnaceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, rec := range recs {
		r.rows[rec.Location] = rec
	}
	return nil
}

func (r *memStateRepo) LoadAll(context.Context) ([]models.FurnaceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	out := make([]models.FurnaceRecord, 0, len(r.rows))
	for _, rec := range r.rows {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out, nil
}

func (r *memStateRepo) Delete(_ context.Context, location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.rows, location)
	return nil
}

// memEventRepo is an in-memory repository.EventRepo.
type memEventRepo struct {
	mu        sync.Mutex
	events    []models.FurnaceEvent
	appendErr error
}

func (r *memEventRepo) Append(_ context.Context, e models.FurnaceEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.appendErr != nil {
		return r.appendErr
	}
	r.events = append(r.events, e)
	return nil
}

func (r *memEventRepo) List(context.Context, repository.EventFilter) ([]models.FurnaceEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.FurnaceEvent(nil), r.events...), nil
}

func (r *memEventRepo) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func testLog() *logger.Logger { return logger.Get(logger.ErrorLevel) }

type fixture struct {
	engine *engine.Engine
	states *memStateRepo
	events *memEventRepo
	rec    *EffectsRecorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	events := &memEventRepo{}
	rec := NewEffectsRecorder(events, testLog(), 64)
	return &fixture{
		engine: engine.New(catalog.Defaults(), engine.DefaultTuning(), rec),
		states: newMemStateRepo(),
		events: events,
		rec:    rec,
	}
}

// flush writes every queued event to the event repo.
func (f *fixture) flush() []string {
	f.rec.drain()
	return f.events.types()
}

var home = furnace.Location{World: "world", X: 10, Y: 64, Z: -3}

func TestFurnaceService_Register(t *testing.T) {
	f := newFixture(t)
	svc := NewFurnaceService(f.engine, f.states, f.rec)

	snap, err := svc.Register(context.Background(), home, catalog.ArchetypeStone)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if snap.Archetype != catalog.ArchetypeStone || len(snap.Input) != 2 || len(snap.Output) != 2 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if _, ok := f.states.rows[home.String()]; !ok {
		t.Fatalf("expected a persisted row for %s", home)
	}
	if got := f.flush(); len(got) != 1 || got[0] != models.EventRegistered {
		t.Fatalf("expected one REGISTERED event, got %v", got)
	}
}

func TestFurnaceService_Register_Errors(t *testing.T) {
	t.Run("unknown archetype", func(t *testing.T) {
		f := newFixture(t)
		svc := NewFurnaceService(f.engine, f.states, f.rec)
		_, err := svc.Register(context.Background(), home, "CLAY_OVEN")
		if !errors.Is(err, engine.ErrUnknownArchetype) {
			t.Fatalf("expected ErrUnknownArchetype, got %v", err)
		}
		if f.states.saveCalls != 0 {
			t.Fatalf("nothing should be saved")
		}
	})

	t.Run("duplicate location", func(t *testing.T) {
		f := newFixture(t)
		svc := NewFurnaceService(f.engine, f.states, f.rec)
		if _, err := svc.Register(context.Background(), home, catalog.ArchetypeStone); err != nil {
			t.Fatalf("first Register: %v", err)
		}
		_, err := svc.Register(context.Background(), home, catalog.ArchetypeIron)
		if !errors.Is(err, engine.ErrAlreadyRegistered) {
			t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
		}
	})

	t.Run("save failure rolls back", func(t *testing.T) {
		f := newFixture(t)
		f.states.saveErr = errors.New("disk full")
		svc := NewFurnaceService(f.engine, f.states, f.rec)
		_, err := svc.Register(context.Background(), home, catalog.ArchetypeStone)
		if err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Fatalf("expected save error, got %v", err)
		}
		if f.engine.Len() != 0 {
			t.Fatalf("instance should be removed after failed save")
		}
		if got := f.flush(); len(got) != 0 {
			t.Fatalf("no event expected, got %v", got)
		}
	})
}

func TestFurnaceService_Unregister(t *testing.T) {
	f := newFixture(t)
	svc := NewFurnaceService(f.engine, f.states, f.rec)

	if err := svc.Unregister(context.Background(), home); !errors.Is(err, engine.ErrUnknownFurnace) {
		t.Fatalf("expected ErrUnknownFurnace, got %v", err)
	}

	if _, err := svc.Register(context.Background(), home, catalog.ArchetypeStone); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := svc.Unregister(context.Background(), home); err != nil {
		t.Fatalf("Unregister: %v", err)
	}
	if f.engine.Len() != 0 {
		t.Fatalf("engine still holds the instance")
	}
	if _, ok := f.states.rows[home.String()]; ok {
		t.Fatalf("row should be deleted")
	}
	got := f.flush()
	if len(got) != 2 || got[1] != models.EventUnregistered {
		t.Fatalf("unexpected events: %v", got)
	}
}

func TestFurnaceService_Unregister_DeleteFailureKeepsInstance(t *testing.T) {
	f := newFixture(t)
	svc := NewFurnaceService(f.engine, f.states, f.rec)
	if _, err := svc.Register(context.Background(), home, catalog.ArchetypeStone); err != nil {
		t.Fatalf("Register: %v", err)
	}

	f.states.deleteErr = errors.New("disk full")
	if err := svc.Unregister(context.Background(), home); err == nil {
		t.Fatalf("expected delete error")
	}
	if f.engine.Len() != 1 {
		t.Fatalf("instance should survive a failed delete")
	}
	if _, ok := f.states.rows[home.String()]; !ok {
		t.Fatalf("row should still exist")
	}
	if got := f.flush(); len(got) != 1 || got[0] != models.EventRegistered {
		t.Fatalf("unexpected events: %v", got)
	}

	f.states.deleteErr = nil
	if err := svc.Unregister(context.Background(), home); err != nil {
		t.Fatalf("retry Unregister: %v", err)
	}
	if f.engine.Len() != 0 {
		t.Fatalf("engine still holds the instance")
	}
}

func TestFurnaceService_SetSlot(t *testing.T) {
	f := newFixture(t)
	svc := NewFurnaceService(f.engine, f.states, f.rec)
	if _, err := svc.Register(context.Background(), home, catalog.ArchetypeStone); err != nil {
		t.Fatalf("Register: %v", err)
	}

	snap, err := svc.SetSlot(context.Background(), SlotParams{
		Location: home, Kind: furnace.SlotInput, Index: 1,
		Stack: catalog.NewStack(catalog.ItemSand, 8),
	})
	if err != nil {
		t.Fatalf("SetSlot: %v", err)
	}
	if snap.Input[1].Type != catalog.ItemSand || snap.Input[1].Amount != 8 {
		t.Fatalf("input slot not written: %+v", snap.Input)
	}
	if snap.MatchedRecipe != "glass" {
		t.Fatalf("expected glass to match, got %q", snap.MatchedRecipe)
	}

	tests := []struct {
		name string
		p    SlotParams
		want error
	}{
		{
			name: "negative amount",
			p:    SlotParams{Location: home, Kind: furnace.SlotFuel, Index: 0, Stack: catalog.NewStack(catalog.ItemCoal, -1)},
			want: engine.ErrSlotOutOfRange,
		},
		{
			name: "index out of range",
			p:    SlotParams{Location: home, Kind: furnace.SlotFuel, Index: 1, Stack: catalog.NewStack(catalog.ItemCoal, 1)},
			want: engine.ErrSlotOutOfRange,
		},
		{
			name: "unknown kind",
			p:    SlotParams{Location: home, Kind: "hopper", Index: 0},
			want: engine.ErrUnknownSlotKind,
		},
		{
			name: "unknown furnace",
			p:    SlotParams{Location: furnace.Location{World: "nowhere"}, Kind: furnace.SlotInput},
			want: engine.ErrUnknownFurnace,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SetSlot(context.Background(), tt.p); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFurnaceService_ShutdownAndRestart(t *testing.T) {
	f := newFixture(t)
	svc := NewFurnaceService(f.engine, f.states, f.rec)
	mon := NewMonitoringService(f.engine)
	ctx := context.Background()

	if err := svc.Shutdown(ctx, home); !errors.Is(err, engine.ErrUnknownFurnace) {
		t.Fatalf("expected ErrUnknownFurnace, got %v", err)
	}
	if _, err := svc.Register(ctx, home, catalog.ArchetypeStone); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.Shutdown(ctx, home); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	snap, err := mon.GetState(ctx, home)
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if !snap.EmergencyShutdown {
		t.Fatalf("expected emergency shutdown flag")
	}

	if err := svc.Restart(ctx, home); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	snap, _ = mon.GetState(ctx, home)
	if snap.EmergencyShutdown {
		t.Fatalf("restart should clear the shutdown flag")
	}

	got := f.flush()
	want := []string{models.EventRegistered, models.EventShutdown, models.EventRestart}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("events: got %v want %v", got, want)
	}
}

func TestMonitoringService_ListStatesOrdered(t *testing.T) {
	f := newFixture(t)
	svc := NewFurnaceService(f.engine, f.states, f.rec)
	mon := NewMonitoringService(f.engine)
	ctx := context.Background()

	locs := []furnace.Location{
		{World: "world", X: 5},
		{World: "nether", X: 9},
		{World: "world", X: -2},
	}
	for _, l := range locs {
		if _, err := svc.Register(ctx, l, catalog.ArchetypeIron); err != nil {
			t.Fatalf("Register %s: %v", l, err)
		}
	}

	got := mon.ListStates(ctx)
	if len(got) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(got))
	}
	order := []string{got[0].Location.String(), got[1].Location.String(), got[2].Location.String()}
	want := []string{"nether:9:0:0", "world:-2:0:0", "world:5:0:0"}
	if strings.Join(order, " ") != strings.Join(want, " ") {
		t.Fatalf("order: got %v want %v", order, want)
	}
}
