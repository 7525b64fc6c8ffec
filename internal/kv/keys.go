package kv

const (
	// KeyMyRecipes holds the JSON array of user-authored recipes.
	KeyMyRecipes = "myRecipes"
	// KeyFavorites holds the JSON array of favorite recipes when favorites
	// persistence is enabled.
	KeyFavorites = "favorites"
)
