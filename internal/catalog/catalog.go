package catalog

// Catalogs bundles the static tables the engine reads each tick. Built once at
// process start and passed by reference.
type Catalogs struct {
	Archetypes *ArchetypeCatalog
	Fuels      *FuelCatalog
	Recipes    *RecipeCatalog
}

// New returns empty catalogs.
func New() *Catalogs {
	return &Catalogs{
		Archetypes: NewArchetypeCatalog(),
		Fuels:      NewFuelCatalog(),
		Recipes:    NewRecipeCatalog(),
	}
}

// Definitions is the serializable content of a catalog set.
type Definitions struct {
	Archetypes    []Archetype `json:"archetypes" yaml:"archetypes"`
	MaterialFuels []Fuel      `json:"materials" yaml:"materials"`
	CustomFuels   []Fuel      `json:"custom" yaml:"custom"`
	Recipes       []Recipe    `json:"recipes" yaml:"recipes"`
}

// Build registers every definition, stopping at the first invalid entry.
func Build(defs Definitions) (*Catalogs, error) {
	c := New()
	for _, a := range defs.Archetypes {
		if err := c.Archetypes.Register(a); err != nil {
			return nil, err
		}
	}
	for _, f := range defs.MaterialFuels {
		if err := c.Fuels.RegisterMaterialFuel(f); err != nil {
			return nil, err
		}
	}
	for _, f := range defs.CustomFuels {
		if err := c.Fuels.RegisterCustomFuel(f); err != nil {
			return nil, err
		}
	}
	for _, r := range defs.Recipes {
		if err := c.Recipes.RegisterRecipe(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}
