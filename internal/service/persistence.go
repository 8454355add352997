package service

import (
	"context"
	"fmt"
	"time"

	"furnace_engine/internal/engine"
	"furnace_engine/internal/furnace"
	"furnace_engine/internal/logger"
	"furnace_engine/internal/models"
	"furnace_engine/internal/persistence/snapshot"
	"furnace_engine/internal/repository"
)

type PersistenceService struct {
	engine    *engine.Engine
	stateRepo repository.StateRepo
	log       *logger.Logger
	now       func() time.Time
}

func NewPersistenceService(eng *engine.Engine, stateRepo repository.StateRepo, log *logger.Logger) *PersistenceService {
	return &PersistenceService{engine: eng, stateRepo: stateRepo, log: log, now: time.Now}
}

// Save writes every live instance to the state table in one transaction.
func (s *PersistenceService) Save(ctx context.Context) (int, error) {
	states := s.engine.States()
	now := s.now()
	recs := make([]models.FurnaceRecord, 0, len(states))
	for _, st := range states {
		recs = append(recs, models.NewFurnaceRecord(st, now))
	}
	if err := s.stateRepo.SaveAll(ctx, recs); err != nil {
		return 0, err
	}
	return len(recs), nil
}

// Restore loads persisted rows into the engine. Rows that no longer fit the
// catalogs (unknown archetype) are skipped with a warning.
func (s *PersistenceService) Restore(ctx context.Context) (int, error) {
	recs, err := s.stateRepo.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("load furnaces: %w", err)
	}
	states := make([]furnace.State, 0, len(recs))
	for _, rec := range recs {
		states = append(states, rec.State)
	}
	return s.restore(states), nil
}

// LoadArchive restores every instance found in the archive at path. An
// archive whose header lists no furnaces is not decoded further.
func (s *PersistenceService) LoadArchive(path string) (int, error) {
	h, err := snapshot.ReadHeader(path)
	if err != nil {
		return 0, fmt.Errorf("read snapshot header %s: %w", path, err)
	}
	s.log.Infow("snapshot_found", "path", path, "tick", h.Tick, "furnaces", h.Furnaces, "created_at", h.CreatedAt)
	if h.Furnaces == 0 {
		return 0, nil
	}
	a, err := snapshot.ReadSnapshot(path)
	if err != nil {
		return 0, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	return s.restore(a.States), nil
}

// ShutdownAll removes every instance from the engine, saves their final
// states and archives them to path. The engine is empty afterwards even when
// a write fails; the first error is returned.
func (s *PersistenceService) ShutdownAll(ctx context.Context, path string) (int, error) {
	tick := s.engine.Ticks()
	states := s.engine.ShutdownAll()
	now := s.now()

	recs := make([]models.FurnaceRecord, 0, len(states))
	for _, st := range states {
		recs = append(recs, models.NewFurnaceRecord(st, now))
	}
	saveErr := s.stateRepo.SaveAll(ctx, recs)
	if saveErr != nil {
		saveErr = fmt.Errorf("save furnaces: %w", saveErr)
	}
	if err := s.archive(path, tick, states, now); err != nil {
		if saveErr == nil {
			return len(states), err
		}
		s.log.Errorw("snapshot_failed", "path", path, "err", err)
	}
	return len(states), saveErr
}

func (s *PersistenceService) archive(path string, tick uint64, states []furnace.State, now time.Time) error {
	if err := snapshot.WriteSnapshot(path, snapshot.New(tick, states, now)); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	s.log.Infow("snapshot_written", "path", path, "tick", tick, "furnaces", len(states))
	return nil
}

func (s *PersistenceService) restore(states []furnace.State) int {
	n := 0
	for _, st := range states {
		if err := s.engine.RestoreInstance(st); err != nil {
			s.log.Warnw("restore_skipped", "location", st.Location.String(), "err", err)
			continue
		}
		n++
	}
	return n
}
