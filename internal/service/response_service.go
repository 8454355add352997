package service

import (
	"time"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/furnace"
)

// SlotParams addresses one slot write. An empty Stack clears the slot.
type SlotParams struct {
	Location furnace.Location
	Kind     furnace.SlotKind
	Index    int
	Stack    catalog.Stack
}

// RecipeResult is returned after a recipe is registered. Overlaps lists
// earlier recipes with the same input signature; they keep priority.
type RecipeResult struct {
	Recipe   catalog.Recipe `json:"recipe"`
	Overlaps []string       `json:"overlaps,omitempty"`
}

// LogFilter supports history filtering by time range, type and location.
type LogFilter struct {
	From     time.Time // inclusive; zero means no lower bound
	To       time.Time // inclusive; zero means no upper bound
	Type     string    // "", "IGNITED", "DEPOSITED", "EXPLODED", ...
	Location string
	Limit    int
}
