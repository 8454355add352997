package repository

import (
	"context"
	"database/sql"
	"time"

	"furnace_engine/internal/models"
)

type Authorization interface {
	Create(ctx context.Context, username, hash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// StateRepo persists furnace instances keyed by location.
type StateRepo interface {
	SaveAll(ctx context.Context, recs []models.FurnaceRecord) error
	LoadAll(ctx context.Context) ([]models.FurnaceRecord, error)
	Delete(ctx context.Context, location string) error
}

type EventRepo interface {
	Append(ctx context.Context, e models.FurnaceEvent) error
	List(ctx context.Context, f EventFilter) ([]models.FurnaceEvent, error)
}

// EventFilter narrows an event listing. Zero values mean "no bound".
type EventFilter struct {
	From     time.Time
	To       time.Time
	Type     string
	Location string
	Limit    int
}

type Repository struct {
	StateRepo StateRepo
	EventRepo EventRepo
	Auth      Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		StateRepo: NewStateSQLite(db),
		EventRepo: NewEventSQLite(db),
		Auth:      NewUserRepository(db),
	}
}
