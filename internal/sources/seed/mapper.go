package seed

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/cookbook/internal/domain"
)

// Mapper converts seed entries to domain entities
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map converts a seed Config into categories and recipes.
//
// Categories and recipes need an id, ids must be unique, and every recipe
// must reference a declared category (by name, case-insensitive).
func (m *Mapper) Map(config Config) ([]domain.Category, []domain.Recipe, error) {
	if len(config.Categories) == 0 {
		return nil, nil, fmt.Errorf("seed declares no categories")
	}

	categories := make([]domain.Category, 0, len(config.Categories))
	byName := make(map[string]string, len(config.Categories))
	seenCat := make(map[string]bool, len(config.Categories))

	for i, c := range config.Categories {
		id := strings.TrimSpace(c.ID)
		name := strings.TrimSpace(c.Name)
		if id == "" || name == "" {
			return nil, nil, fmt.Errorf("category #%d: idCategory and strCategory are required", i+1)
		}
		if seenCat[id] {
			return nil, nil, fmt.Errorf("category #%d: duplicate idCategory %q", i+1, id)
		}
		seenCat[id] = true
		byName[strings.ToLower(name)] = name

		categories = append(categories, domain.Category{ID: id, Name: name, Thumb: c.Thumb})
	}

	recipes := make([]domain.Recipe, 0, len(config.Recipes))
	seenRecipe := make(map[string]bool, len(config.Recipes))

	for i, r := range config.Recipes {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, nil, fmt.Errorf("recipe #%d: id is required", i+1)
		}
		if seenRecipe[id] {
			return nil, nil, fmt.Errorf("recipe #%d: duplicate id %q", i+1, id)
		}
		seenRecipe[id] = true

		category, ok := byName[strings.ToLower(strings.TrimSpace(r.Category))]
		if !ok {
			return nil, nil, fmt.Errorf("recipe %q: unknown category %q", id, r.Category)
		}

		ingredients := make([]domain.Ingredient, 0, len(r.Ingredients))
		for _, ing := range r.Ingredients {
			ingredients = append(ingredients, domain.Ingredient{Name: ing.Name, Measure: ing.Measure})
		}

		recipes = append(recipes, domain.Recipe{
			ID:           domain.ID(id),
			Title:        r.Name,
			Image:        r.Image,
			Description:  r.Description,
			Instructions: r.Instructions,
			Ingredients:  ingredients,
			Category:     category,
		})
	}

	return categories, recipes, nil
}
