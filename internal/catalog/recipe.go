package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrInvalidRecipe = errors.New("invalid recipe definition")
)

// Ingredient is one (descriptor, quantity) line of a recipe.
type Ingredient struct {
	Item   Descriptor `json:"item" yaml:"item"`
	Amount int        `json:"amount" yaml:"amount"`
	// MaxStack applies to outputs: the cap of the produced stack.
	MaxStack int `json:"max_stack,omitempty" yaml:"max_stack,omitempty"`
}

// Stack materializes the ingredient as a slot stack.
func (in Ingredient) Stack() Stack {
	return Stack{Descriptor: in.Item, Amount: in.Amount, MaxStack: in.MaxStack}
}

// Recipe is an immutable transformation rule.
type Recipe struct {
	ID                  string       `json:"id" yaml:"id"`
	Name                string       `json:"name,omitempty" yaml:"name,omitempty"`
	Description         string       `json:"description,omitempty" yaml:"description,omitempty"`
	Category            string       `json:"category,omitempty" yaml:"category,omitempty"`
	Inputs              []Ingredient `json:"inputs" yaml:"inputs"`
	Outputs             []Ingredient `json:"outputs" yaml:"outputs"`
	RequiredTemperature float64      `json:"required_temperature" yaml:"required_temperature"`
	CookTime            int          `json:"cook_time" yaml:"cook_time"`
}

// Validate checks the static invariants of a recipe.
func (r Recipe) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRecipe)
	}
	if len(r.Inputs) == 0 {
		return fmt.Errorf("%w: %s has no inputs", ErrInvalidRecipe, r.ID)
	}
	if len(r.Outputs) == 0 {
		return fmt.Errorf("%w: %s has no outputs", ErrInvalidRecipe, r.ID)
	}
	if r.CookTime <= 0 {
		return fmt.Errorf("%w: %s cook time must be > 0, got %d", ErrInvalidRecipe, r.ID, r.CookTime)
	}
	seen := make(map[string]struct{}, len(r.Inputs))
	for i, in := range r.Inputs {
		if in.Item.Type == "" {
			return fmt.Errorf("%w: %s input %d: empty item type", ErrInvalidRecipe, r.ID, i)
		}
		if in.Amount <= 0 {
			return fmt.Errorf("%w: %s input %d: amount must be > 0", ErrInvalidRecipe, r.ID, i)
		}
		if _, dup := seen[in.Item.Key()]; dup {
			return fmt.Errorf("%w: %s lists %s twice", ErrInvalidRecipe, r.ID, in.Item)
		}
		seen[in.Item.Key()] = struct{}{}
	}
	for i, out := range r.Outputs {
		if out.Item.Type == "" {
			return fmt.Errorf("%w: %s output %d: empty item type", ErrInvalidRecipe, r.ID, i)
		}
		if out.Amount <= 0 {
			return fmt.Errorf("%w: %s output %d: amount must be > 0", ErrInvalidRecipe, r.ID, i)
		}
	}
	return nil
}

// Signature is the normalized input signature used by the lookup index.
func (r Recipe) Signature() string {
	descs := make([]Descriptor, len(r.Inputs))
	for i, in := range r.Inputs {
		descs[i] = in.Item
	}
	return Signature(descs)
}

// SatisfiedBy runs the multiset match against a working copy of the presented
// stacks: each required line consumes from every matching stack until its
// quantity is covered. The number of distinct presented descriptors must equal
// the number of required lines.
func (r Recipe) SatisfiedBy(presented []Stack) bool {
	work := make([]Stack, 0, len(presented))
	distinct := make(map[string]struct{}, len(presented))
	for _, s := range presented {
		if s.IsEmpty() {
			continue
		}
		work = append(work, s)
		distinct[s.Key()] = struct{}{}
	}
	if len(distinct) != len(r.Inputs) {
		return false
	}
	for _, need := range r.Inputs {
		left := need.Amount
		for i := range work {
			if left == 0 {
				break
			}
			if work[i].Amount == 0 || !work[i].Descriptor.Matches(need.Item) {
				continue
			}
			take := min(left, work[i].Amount)
			work[i].Amount -= take
			left -= take
		}
		if left > 0 {
			return false
		}
	}
	return true
}

type recipeEntry struct {
	recipe Recipe
	seq    uint64
}

// RecipeCatalog holds recipes keyed by id plus an index keyed by input
// signature. When several recipes share a signature the first registered wins.
// Safe for concurrent use.
type RecipeCatalog struct {
	mu          sync.RWMutex
	byID        map[string]recipeEntry
	bySignature map[string][]string
	nextSeq     uint64
}

func NewRecipeCatalog() *RecipeCatalog {
	return &RecipeCatalog{
		byID:        make(map[string]recipeEntry),
		bySignature: make(map[string][]string),
	}
}

// RegisterRecipe validates and adds r. An existing recipe with the same id is
// replaced and moves to the end of the priority order.
func (c *RecipeCatalog) RegisterRecipe(r Recipe) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.Inputs = append([]Ingredient(nil), r.Inputs...)
	r.Outputs = append([]Ingredient(nil), r.Outputs...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(r.ID)
	c.nextSeq++
	c.byID[r.ID] = recipeEntry{recipe: r, seq: c.nextSeq}
	sig := r.Signature()
	c.bySignature[sig] = append(c.bySignature[sig], r.ID)
	return nil
}

// RemoveRecipe drops a recipe from both the primary map and the index.
// Reports whether it existed.
func (c *RecipeCatalog) RemoveRecipe(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(id)
}

func (c *RecipeCatalog) removeLocked(id string) bool {
	e, ok := c.byID[id]
	if !ok {
		return false
	}
	delete(c.byID, id)
	sig := e.recipe.Signature()
	ids := c.bySignature[sig]
	for i, v := range ids {
		if v == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(c.bySignature, sig)
	} else {
		c.bySignature[sig] = ids
	}
	return true
}

// FindMatch returns the first registered recipe satisfied by the presented
// stacks. Order of the stacks is irrelevant.
func (c *RecipeCatalog) FindMatch(presented []Stack) (Recipe, bool) {
	sig := StackSignature(presented)
	if sig == "" {
		return Recipe{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.bySignature[sig] {
		r := c.byID[id].recipe
		if r.SatisfiedBy(presented) {
			return r, true
		}
	}
	return Recipe{}, false
}

// Overlapping lists registered recipes (other than r itself) sharing r's input
// signature, in priority order.
func (c *RecipeCatalog) Overlapping(r Recipe) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for _, id := range c.bySignature[r.Signature()] {
		if id != r.ID {
			out = append(out, id)
		}
	}
	return out
}

func (c *RecipeCatalog) Recipe(id string) (Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.byID[id]
	return e.recipe, ok
}

// Recipes returns all recipes in registration order.
func (c *RecipeCatalog) Recipes() []Recipe {
	c.mu.RLock()
	entries := make([]recipeEntry, 0, len(c.byID))
	for _, e := range c.byID {
		entries = append(entries, e)
	}
	c.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	out := make([]Recipe, len(entries))
	for i, e := range entries {
		out[i] = e.recipe
	}
	return out
}

func (c *RecipeCatalog) RecipesByCategory(category string) []Recipe {
	var out []Recipe
	for _, r := range c.Recipes() {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

func (c *RecipeCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
