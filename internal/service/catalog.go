package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"furnace_engine/internal/catalog"
	"furnace_engine/internal/logger"
	"furnace_engine/internal/models"
)

var (
	ErrFuelNotFound   = errors.New("custom fuel not found")
	ErrRecipeNotFound = errors.New("recipe not found")
)

type CatalogService struct {
	catalogs *catalog.Catalogs
	events   *EffectsRecorder
	log      *logger.Logger
}

func NewCatalogService(c *catalog.Catalogs, events *EffectsRecorder, log *logger.Logger) *CatalogService {
	return &CatalogService{catalogs: c, events: events, log: log}
}

func (s *CatalogService) Fuels() []catalog.Fuel {
	return s.catalogs.Fuels.Fuels()
}

// AddFuel validates a JSON fuel entry and registers it as a custom or a
// material fuel depending on its "custom" flag.
func (s *CatalogService) AddFuel(_ context.Context, raw []byte) (catalog.Fuel, error) {
	if err := catalog.ValidateFuelJSON(raw); err != nil {
		return catalog.Fuel{}, fmt.Errorf("%w: %v", catalog.ErrInvalidFuel, err)
	}
	var f catalog.Fuel
	if err := json.Unmarshal(raw, &f); err != nil {
		return catalog.Fuel{}, fmt.Errorf("%w: %v", catalog.ErrInvalidFuel, err)
	}

	var err error
	if f.Custom {
		err = s.catalogs.Fuels.RegisterCustomFuel(f)
	} else {
		f.Item.Variant = ""
		if f.ID == "" {
			f.ID = f.Item.Type
		}
		err = s.catalogs.Fuels.RegisterMaterialFuel(f)
	}
	if err != nil {
		return catalog.Fuel{}, err
	}

	s.log.Infow("fuel_registered", "id", f.ID, "item", f.Item.Key(), "custom", f.Custom)
	s.events.Record(models.FurnaceEvent{
		Type:        models.EventCatalog,
		Description: "Fuel " + f.ID + " registered",
		Metadata:    map[string]any{"fuel": f.ID, "custom": f.Custom},
	})
	return f, nil
}

// RemoveFuel deletes a custom fuel. Material fuels cannot be removed.
func (s *CatalogService) RemoveFuel(_ context.Context, id string) error {
	if !s.catalogs.Fuels.RemoveCustomFuel(id) {
		return fmt.Errorf("%w: %q", ErrFuelNotFound, id)
	}
	s.log.Infow("fuel_removed", "id", id)
	s.events.Record(models.FurnaceEvent{
		Type:        models.EventCatalog,
		Description: "Fuel " + id + " removed",
		Metadata:    map[string]any{"fuel": id},
	})
	return nil
}

// Recipes lists recipes in priority order, optionally narrowed to a category.
func (s *CatalogService) Recipes(category string) []catalog.Recipe {
	if category == "" {
		return s.catalogs.Recipes.Recipes()
	}
	return s.catalogs.Recipes.RecipesByCategory(category)
}

func (s *CatalogService) AddRecipe(_ context.Context, raw []byte) (RecipeResult, error) {
	if err := catalog.ValidateRecipeJSON(raw); err != nil {
		return RecipeResult{}, fmt.Errorf("%w: %v", catalog.ErrInvalidRecipe, err)
	}
	var r catalog.Recipe
	if err := json.Unmarshal(raw, &r); err != nil {
		return RecipeResult{}, fmt.Errorf("%w: %v", catalog.ErrInvalidRecipe, err)
	}
	if err := s.catalogs.Recipes.RegisterRecipe(r); err != nil {
		return RecipeResult{}, err
	}

	res := RecipeResult{Recipe: r, Overlaps: s.catalogs.Recipes.Overlapping(r)}
	if len(res.Overlaps) > 0 {
		s.log.Warnw("recipe_overlap", "id", r.ID, "shadowed_by", res.Overlaps)
	}
	s.log.Infow("recipe_registered", "id", r.ID, "category", r.Category)
	s.events.Record(models.FurnaceEvent{
		Type:        models.EventCatalog,
		Description: "Recipe " + r.ID + " registered",
		Metadata:    map[string]any{"recipe": r.ID, "overlaps": res.Overlaps},
	})
	return res, nil
}

func (s *CatalogService) RemoveRecipe(_ context.Context, id string) error {
	if !s.catalogs.Recipes.RemoveRecipe(id) {
		return fmt.Errorf("%w: %q", ErrRecipeNotFound, id)
	}
	s.log.Infow("recipe_removed", "id", id)
	s.events.Record(models.FurnaceEvent{
		Type:        models.EventCatalog,
		Description: "Recipe " + id + " removed",
		Metadata:    map[string]any{"recipe": id},
	})
	return nil
}

func (s *CatalogService) Archetypes() []catalog.Archetype {
	return s.catalogs.Archetypes.Archetypes()
}
