package types

// IngredientAmount is one write-shape ingredient reference: the catalog id
// and the amount used by the recipe.
type IngredientAmount struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

// RecipeRequest is the write shape for creating or updating a recipe.
// Nil Ingredients/Tags means the collection was absent from the payload,
// which matters for update validation; an empty non-nil slice was sent
// explicitly and fails the at-least-one check instead.
type RecipeRequest struct {
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
	Image       string             `json:"image"`
	Tags        []uint             `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients"`
}

// RecipeIngredient is the read shape of one ingredient line on a recipe.
type RecipeIngredient struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// TagResponse is the read shape of a tag.
type TagResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// RecipeDetail is the full read shape. Reads always go through this shape:
// write endpoints re-fetch the stored recipe and render it here rather than
// echoing the request payload.
type RecipeDetail struct {
	ID               uint               `json:"id"`
	Author           UserProfile        `json:"author"`
	Tags             []TagResponse      `json:"tags"`
	Ingredients      []RecipeIngredient `json:"ingredients"`
	Image            string             `json:"image"`
	Name             string             `json:"name"`
	CookingTime      int                `json:"cooking_time"`
	IsFavorited      bool               `json:"is_favorited"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Text             string             `json:"text"`
}

// RecipeCompact is the short display shape returned by the favorite and
// shopping cart toggles and embedded in subscription profiles.
type RecipeCompact struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// RecipeFilter is the composable predicate set for recipe listings. All set
// predicates combine with AND; TagSlugs is a membership test (OR within the
// set). The favorited/in-cart tristate pointers are nil when the filter is
// not requested.
type RecipeFilter struct {
	AuthorID         *uint
	TagSlugs         []string
	IsFavorited      *bool
	IsInShoppingCart *bool
}
