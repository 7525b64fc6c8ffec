package catalog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/cookbook/internal/domain"
)

// Catalog provides in-memory lookup for the read-only seed recipes shown on
// the home screen. It is replaced wholesale on every reload.
type Catalog struct {
	mu         sync.RWMutex
	categories []domain.Category // declaration order
	recipes    []domain.Recipe   // declaration order
	byID       map[domain.ID]int // recipe ID -> index in recipes
	byCategory map[string][]int  // lowercased category name -> indexes
	lastReload time.Time         // Timestamp of last successful reload
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{
		byID:       make(map[domain.ID]int),
		byCategory: make(map[string][]int),
	}
}

// Replace swaps in a new set of categories and recipes
func (c *Catalog) Replace(categories []domain.Category, recipes []domain.Recipe) {
	byID := make(map[domain.ID]int, len(recipes))
	byCategory := make(map[string][]int, len(categories))
	for _, cat := range categories {
		byCategory[strings.ToLower(cat.Name)] = []int{}
	}
	for i, r := range recipes {
		byID[r.ID] = i
		key := strings.ToLower(r.Category)
		byCategory[key] = append(byCategory[key], i)
	}

	cats := make([]domain.Category, len(categories))
	copy(cats, categories)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.categories = cats
	c.recipes = domain.CloneRecipes(recipes)
	c.byID = byID
	c.byCategory = byCategory
	c.lastReload = time.Now()
}

// Categories returns all categories
func (c *Catalog) Categories() []domain.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Recipes returns the recipes of one category, or all recipes when category
// is empty. An unknown category is domain.ErrNotFound.
func (c *Catalog) Recipes(category string) ([]domain.Recipe, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if category == "" {
		return domain.CloneRecipes(c.recipes), nil
	}

	idx, ok := c.byCategory[strings.ToLower(category)]
	if !ok {
		return nil, fmt.Errorf("category %q: %w", category, domain.ErrNotFound)
	}
	out := make([]domain.Recipe, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.recipes[i].Clone())
	}
	return out, nil
}

// Recipe retrieves a recipe by ID
func (c *Catalog) Recipe(id domain.ID) (domain.Recipe, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return domain.Recipe{}, fmt.Errorf("recipe %q: %w", id, domain.ErrNotFound)
	}
	return c.recipes[i].Clone(), nil
}

// Count returns the number of recipes in the catalog
func (c *Catalog) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.recipes)
}

// LastReload returns the timestamp of the last reload
func (c *Catalog) LastReload() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lastReload
}
