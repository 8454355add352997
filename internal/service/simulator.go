package service

import (
	"context"
	"time"

	"furnace_engine/internal/engine"
	"furnace_engine/internal/logger"
)

// DefaultTick is the wall-clock length of one simulation tick.
const DefaultTick = 50 * time.Millisecond

// SimulatorService drives the engine clock and autosaves on a tick cadence.
type SimulatorService struct {
	engine        *engine.Engine
	persist       Persistence
	autosaveEvery uint64
	log           *logger.Logger
}

// NewSimulatorService returns a simulator. autosaveEvery <= 0 disables autosave.
func NewSimulatorService(eng *engine.Engine, persist Persistence, autosaveEvery int, log *logger.Logger) *SimulatorService {
	s := &SimulatorService{engine: eng, persist: persist, log: log}
	if autosaveEvery > 0 {
		s.autosaveEvery = uint64(autosaveEvery)
	}
	return s
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	if tick <= 0 {
		tick = DefaultTick
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Step(ctx, 1)
		}
	}
}

// Step advances the engine n ticks, saving whenever the tick count crosses
// the autosave cadence.
func (s *SimulatorService) Step(ctx context.Context, n int) {
	for i := 0; i < n; i++ {
		s.engine.Tick(1)
		if s.autosaveEvery == 0 || s.engine.Ticks()%s.autosaveEvery != 0 {
			continue
		}
		saved, err := s.persist.Save(ctx)
		if err != nil {
			s.log.Errorw("autosave_failed", "tick", s.engine.Ticks(), "err", err)
			continue
		}
		s.log.Debugw("autosave", "tick", s.engine.Ticks(), "furnaces", saved)
	}
}
