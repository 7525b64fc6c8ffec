package seed

// Config represents the top-level structure of a seed catalog file.
// Field names follow the mobile client's static data.
type Config struct {
	Categories []CategoryProps `yaml:"categories"`
	Recipes    []RecipeProps   `yaml:"recipes"`
}

// CategoryProps describes one home screen category
type CategoryProps struct {
	ID    string `yaml:"idCategory"`
	Name  string `yaml:"strCategory"`
	Thumb string `yaml:"strCategoryThumb,omitempty"`
}

// RecipeProps describes one seed recipe
type RecipeProps struct {
	ID           string            `yaml:"id"`
	Name         string            `yaml:"recipeName"`
	Instructions string            `yaml:"recipeInstructions,omitempty"`
	Image        string            `yaml:"recipeImage,omitempty"`
	Description  string            `yaml:"description,omitempty"`
	Category     string            `yaml:"category"`
	Ingredients  []IngredientProps `yaml:"ingredients,omitempty"`
}

// IngredientProps is one ingredient line
type IngredientProps struct {
	Name    string `yaml:"name"`
	Measure string `yaml:"measure"`
}
