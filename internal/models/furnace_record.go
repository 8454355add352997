package models

import (
	"time"

	"furnace_engine/internal/furnace"
)

// FurnaceRecord is one persisted furnace instance row.
type FurnaceRecord struct {
	Location  string        `json:"location"`
	Archetype string        `json:"archetype"`
	State     furnace.State `json:"state"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewFurnaceRecord keys a state by its location.
func NewFurnaceRecord(st furnace.State, now time.Time) FurnaceRecord {
	return FurnaceRecord{
		Location:  st.Location.String(),
		Archetype: st.Archetype,
		State:     st,
		UpdatedAt: now.UTC(),
	}
}
