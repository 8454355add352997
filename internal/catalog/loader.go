package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// File names looked up inside a catalog directory.
const (
	ArchetypesFile = "archetypes.yaml"
	FuelsFile      = "fuels.yaml"
	RecipesFile    = "recipes.yaml"
)

var (
	archetypesSchema = jsonschema.MustCompileString("archetypes.schema.json", archetypesSchemaJSON)
	fuelsSchema      = jsonschema.MustCompileString("fuels.schema.json", fuelsSchemaJSON)
	recipesSchema    = jsonschema.MustCompileString("recipes.schema.json", recipesSchemaJSON)
)

// Load reads archetypes.yaml, fuels.yaml and recipes.yaml from dir, validates
// each against its schema and registers the entries. A missing file leaves
// that table empty; a malformed one fails the whole load.
func Load(dir string) (*Catalogs, error) {
	var defs Definitions

	var arch struct {
		Archetypes []Archetype `yaml:"archetypes"`
	}
	if err := loadFile(filepath.Join(dir, ArchetypesFile), archetypesSchema, &arch); err != nil {
		return nil, err
	}
	defs.Archetypes = arch.Archetypes

	var fuels struct {
		Materials []Fuel `yaml:"materials"`
		Custom    []Fuel `yaml:"custom"`
	}
	if err := loadFile(filepath.Join(dir, FuelsFile), fuelsSchema, &fuels); err != nil {
		return nil, err
	}
	defs.MaterialFuels = fuels.Materials
	defs.CustomFuels = fuels.Custom

	var recipes struct {
		Recipes []Recipe `yaml:"recipes"`
	}
	if err := loadFile(filepath.Join(dir, RecipesFile), recipesSchema, &recipes); err != nil {
		return nil, err
	}
	defs.Recipes = recipes.Recipes

	c, err := Build(defs)
	if err != nil {
		return nil, fmt.Errorf("catalogs in %s: %w", dir, err)
	}
	return c, nil
}

func loadFile(path string, schema *jsonschema.Schema, out any) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := ValidateYAML(raw, schema); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// ValidateYAML checks a YAML document against a JSON schema. The document is
// normalized through encoding/json so the validator only sees JSON types.
func ValidateYAML(raw []byte, schema *jsonschema.Schema) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}

// ValidateFuelJSON validates a single fuel entry as received by admin APIs.
func ValidateFuelJSON(raw []byte) error {
	return validateJSON(raw, fuelEntrySchema)
}

// ValidateRecipeJSON validates a single recipe entry as received by admin APIs.
func ValidateRecipeJSON(raw []byte) error {
	return validateJSON(raw, recipeEntrySchema)
}

func validateJSON(raw []byte, schema *jsonschema.Schema) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}
