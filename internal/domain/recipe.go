package domain

// Recipe belongs to exactly one recipe book. Who may read or change a recipe
// is derived entirely from the caller's membership on the owning book; no
// permission state is ever stored on the recipe itself.
type Recipe struct {
	Syncable
	BookID       string       `json:"book_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
	Instructions []string     `json:"instructions"`
	Servings     int          `json:"servings,omitempty"`
	ImagePath    string       `json:"image_path,omitempty"`
}

// Ingredient is a single line of a recipe's ingredient list.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty"`
}
