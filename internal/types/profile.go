package types

// UserProfile is the read shape of a user. IsSubscribed is relative to the
// viewer and always false for anonymous requests.
type UserProfile struct {
	Email        string `json:"email"`
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// SubscriptionProfile is a followed user's profile enriched with their
// recipes (optionally capped by the recipes_limit query param) and the total
// recipe count.
type SubscriptionProfile struct {
	UserProfile
	Recipes      []RecipeCompact `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}
