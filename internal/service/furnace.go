package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"furnace_engine/internal/engine"
	"furnace_engine/internal/furnace"
	"furnace_engine/internal/models"
	"furnace_engine/internal/repository"
)

var errNegativeAmount = errors.New("stack amount must be >= 0")

type FurnaceService struct {
	engine    *engine.Engine
	stateRepo repository.StateRepo
	events    *EffectsRecorder
}

func NewFurnaceService(eng *engine.Engine, stateRepo repository.StateRepo, events *EffectsRecorder) *FurnaceService {
	return &FurnaceService{engine: eng, stateRepo: stateRepo, events: events}
}

// Register creates an idle instance and persists its first row. If the row
// cannot be written the instance is removed again.
func (s *FurnaceService) Register(ctx context.Context, loc furnace.Location, archetype string) (furnace.Snapshot, error) {
	snap, err := s.engine.RegisterInstance(loc, archetype)
	if err != nil {
		return furnace.Snapshot{}, err
	}
	rec := models.NewFurnaceRecord(snap.State, time.Now())
	if err := s.stateRepo.SaveAll(ctx, []models.FurnaceRecord{rec}); err != nil {
		s.engine.UnregisterInstance(loc)
		return furnace.Snapshot{}, fmt.Errorf("register %s: %w", loc, err)
	}

	s.events.Record(models.FurnaceEvent{
		Type:        models.EventRegistered,
		Location:    loc.String(),
		Description: "Furnace registered",
		Metadata:    map[string]any{"archetype": archetype},
	})
	return snap, nil
}

// Unregister drops the persisted row and then the instance. A failed delete
// leaves the instance running.
func (s *FurnaceService) Unregister(ctx context.Context, loc furnace.Location) error {
	if _, err := s.engine.Snapshot(loc); err != nil {
		return err
	}
	if err := s.stateRepo.Delete(ctx, loc.String()); err != nil {
		return fmt.Errorf("unregister %s: %w", loc, err)
	}
	if !s.engine.UnregisterInstance(loc) {
		return fmt.Errorf("%w: %s", engine.ErrUnknownFurnace, loc)
	}
	s.events.Record(models.FurnaceEvent{
		Type:        models.EventUnregistered,
		Location:    loc.String(),
		Description: "Furnace removed",
	})
	return nil
}

// SetSlot writes one slot and returns the instance view after the write.
func (s *FurnaceService) SetSlot(_ context.Context, p SlotParams) (furnace.Snapshot, error) {
	if p.Stack.Amount < 0 {
		return furnace.Snapshot{}, fmt.Errorf("%w: %w", engine.ErrSlotOutOfRange, errNegativeAmount)
	}
	if err := s.engine.SetSlot(p.Location, p.Kind, p.Index, p.Stack); err != nil {
		return furnace.Snapshot{}, err
	}
	return s.engine.Snapshot(p.Location)
}

// Shutdown forces an emergency shutdown. The engine reports it through the
// effects recorder, so no event is written here.
func (s *FurnaceService) Shutdown(_ context.Context, loc furnace.Location) error {
	return s.engine.EmergencyShutdown(loc)
}

func (s *FurnaceService) Restart(_ context.Context, loc furnace.Location) error {
	if err := s.engine.Restart(loc); err != nil {
		return err
	}
	s.events.Record(models.FurnaceEvent{
		Type:        models.EventRestart,
		Location:    loc.String(),
		Description: "Furnace restarted",
	})
	return nil
}
