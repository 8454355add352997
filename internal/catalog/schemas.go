package catalog

import "github.com/santhosh-tekuri/jsonschema/v5"

const descriptorSchemaJSON = `{
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": {"type": "string", "minLength": 1},
    "variant": {"type": "string"}
  }
}`

const ingredientSchemaJSON = `{
  "type": "object",
  "required": ["item", "amount"],
  "properties": {
    "item": ` + descriptorSchemaJSON + `,
    "amount": {"type": "integer", "minimum": 1},
    "max_stack": {"type": "integer", "minimum": 1}
  }
}`

const fuelSchemaJSON = `{
  "type": "object",
  "required": ["item", "burn_time", "temperature"],
  "properties": {
    "id": {"type": "string"},
    "item": ` + descriptorSchemaJSON + `,
    "burn_time": {"type": "integer", "minimum": 1},
    "temperature": {"type": "number"},
    "custom": {"type": "boolean"}
  }
}`

const recipeSchemaJSON = `{
  "type": "object",
  "required": ["id", "inputs", "outputs", "required_temperature", "cook_time"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string"},
    "description": {"type": "string"},
    "category": {"type": "string"},
    "inputs": {"type": "array", "minItems": 1, "items": ` + ingredientSchemaJSON + `},
    "outputs": {"type": "array", "minItems": 1, "items": ` + ingredientSchemaJSON + `},
    "required_temperature": {"type": "number"},
    "cook_time": {"type": "integer", "minimum": 1}
  }
}`

const archetypeSchemaJSON = `{
  "type": "object",
  "required": ["name", "min_temperature", "max_temperature", "explosion_temperature",
               "input_slots", "fuel_slots", "output_slots", "heating_rate", "cooling_rate",
               "explosion_countdown", "critical_countdown"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "display_name": {"type": "string"},
    "min_temperature": {"type": "number"},
    "max_temperature": {"type": "number"},
    "explosion_temperature": {"type": "number"},
    "input_slots": {"type": "integer", "minimum": 1},
    "fuel_slots": {"type": "integer", "minimum": 1},
    "output_slots": {"type": "integer", "minimum": 1},
    "heating_rate": {"type": "number", "exclusiveMinimum": 0},
    "cooling_rate": {"type": "number", "exclusiveMinimum": 0},
    "overheat_threshold": {"type": "integer", "minimum": 0},
    "explosion_countdown": {"type": "integer", "minimum": 1},
    "critical_countdown": {"type": "integer", "minimum": 1}
  }
}`

const archetypesSchemaJSON = `{
  "type": "object",
  "properties": {
    "archetypes": {"type": "array", "items": ` + archetypeSchemaJSON + `}
  }
}`

const fuelsSchemaJSON = `{
  "type": "object",
  "properties": {
    "materials": {"type": "array", "items": ` + fuelSchemaJSON + `},
    "custom": {"type": "array", "items": ` + fuelSchemaJSON + `}
  }
}`

const recipesSchemaJSON = `{
  "type": "object",
  "properties": {
    "recipes": {"type": "array", "items": ` + recipeSchemaJSON + `}
  }
}`

var (
	fuelEntrySchema   = jsonschema.MustCompileString("fuel.schema.json", fuelSchemaJSON)
	recipeEntrySchema = jsonschema.MustCompileString("recipe.schema.json", recipeSchemaJSON)
)
