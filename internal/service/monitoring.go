package service

import (
	"context"

	"furnace_engine/internal/engine"
	"furnace_engine/internal/furnace"
)

type MonitoringService struct {
	engine *engine.Engine
}

func NewMonitoringService(eng *engine.Engine) *MonitoringService {
	return &MonitoringService{engine: eng}
}

// GetState returns the live view of one instance.
func (s *MonitoringService) GetState(_ context.Context, loc furnace.Location) (furnace.Snapshot, error) {
	return s.engine.Snapshot(loc)
}

// ListStates returns every instance ordered by location.
func (s *MonitoringService) ListStates(_ context.Context) []furnace.Snapshot {
	return s.engine.Snapshots()
}
