package service

import (
	"context"
	"time"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/engine"
	"furnace_engine/internal/furnace"
	"furnace_engine/internal/logger"
	"furnace_engine/internal/models"
	"furnace_engine/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, username, password string) (int, error)
	GenerateToken(ctx context.Context, username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Furnace exposes the lifecycle and slot operations on live instances.
type Furnace interface {
	Register(ctx context.Context, loc furnace.Location, archetype string) (furnace.Snapshot, error)
	Unregister(ctx context.Context, loc furnace.Location) error
	SetSlot(ctx context.Context, p SlotParams) (furnace.Snapshot, error)
	Shutdown(ctx context.Context, loc furnace.Location) error
	Restart(ctx context.Context, loc furnace.Location) error
}

// Monitoring exposes read-only views of live instances.
type Monitoring interface {
	GetState(ctx context.Context, loc furnace.Location) (furnace.Snapshot, error)
	ListStates(ctx context.Context) []furnace.Snapshot
}

// Catalog is the admin surface over fuels, recipes and archetypes.
type Catalog interface {
	Fuels() []catalog.Fuel
	AddFuel(ctx context.Context, raw []byte) (catalog.Fuel, error)
	RemoveFuel(ctx context.Context, id string) error
	Recipes(category string) []catalog.Recipe
	AddRecipe(ctx context.Context, raw []byte) (RecipeResult, error)
	RemoveRecipe(ctx context.Context, id string) error
	Archetypes() []catalog.Archetype
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.FurnaceEvent, error)
}

// Persistence moves engine state to and from storage.
type Persistence interface {
	Save(ctx context.Context) (int, error)
	Restore(ctx context.Context) (int, error)
	LoadArchive(path string) (int, error)
	ShutdownAll(ctx context.Context, path string) (int, error)
}

// Simulator runs the background tick loop.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
	Step(ctx context.Context, n int)
}

// Config carries the tunables the services need from the process config.
type Config struct {
	Auth          AuthConfig
	AutosaveEvery int
}

type Service struct {
	Furnace
	Monitoring
	Catalog
	EventLog
	Persistence
	Simulator
	Authorization
}

// NewService wires the repositories and the engine into concrete services.
// The engine must have been built with rec as its effects sink.
func NewService(repos *repository.Repository, eng *engine.Engine, rec *EffectsRecorder, cfg Config, log *logger.Logger) *Service {
	persist := NewPersistenceService(eng, repos.StateRepo, log)
	return &Service{
		Furnace:       NewFurnaceService(eng, repos.StateRepo, rec),
		Monitoring:    NewMonitoringService(eng),
		Catalog:       NewCatalogService(eng.Catalogs(), rec, log),
		EventLog:      NewEventLogService(repos.EventRepo),
		Persistence:   persist,
		Simulator:     NewSimulatorService(eng, persist, cfg.AutosaveEvery, log),
		Authorization: NewAuthService(repos.Auth, cfg.Auth),
	}
}
